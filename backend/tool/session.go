// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package tool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrSessionClosed is returned by Scratch after Close.
var ErrSessionClosed = errors.New("tool: session closed")

// Session owns the work directory of one benchmark session. Acquire it once
// before opening tool-backed adapters and Close it after the last one is
// closed.
type Session struct {
	mu     sync.Mutex
	dir    string
	seq    int
	closed bool
}

// NewSession creates a fresh work directory under the system temp dir.
func NewSession() (*Session, error) {
	dir, err := os.MkdirTemp("", "shaderbench-*")
	if err != nil {
		return nil, fmt.Errorf("tool: create session dir: %w", err)
	}
	return &Session{dir: dir}, nil
}

// Dir returns the work directory.
func (s *Session) Dir() string {
	return s.dir
}

// Scratch creates a directory for one conversion.
func (s *Session) Scratch(prefix string) (*Scratch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.seq++
	dir := filepath.Join(s.dir, fmt.Sprintf("%s-%d", prefix, s.seq))
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("tool: create scratch dir: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Close removes the work directory. Calling Close more than once is harmless.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return os.RemoveAll(s.dir)
}

// Scratch is a per-conversion directory inside a session.
type Scratch struct {
	dir string
}

// Path returns the path of a file inside the scratch directory.
func (sc *Scratch) Path(name string) string {
	return filepath.Join(sc.dir, name)
}

// Write stores data in the named file and returns its path.
func (sc *Scratch) Write(name string, data []byte) (string, error) {
	p := sc.Path(name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", fmt.Errorf("tool: write %s: %w", name, err)
	}
	return p, nil
}

// Read returns the content of the named file.
func (sc *Scratch) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(sc.Path(name))
	if err != nil {
		return nil, fmt.Errorf("tool: unable to read output %q: %w", name, err)
	}
	return data, nil
}

// Remove deletes the scratch directory.
func (sc *Scratch) Remove() error {
	return os.RemoveAll(sc.dir)
}
