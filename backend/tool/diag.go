// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package tool

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/gogpu/shaderbench"
)

// locationRE finds "<file>:<line>:" or "<file>:<line>:<col>" as printed by
// glslang ("ERROR: 0:12: ..."), tint ("in.wgsl:3:5 error: ...") and naga
// ("┌─ in.wgsl:3:5").
var locationRE = regexp.MustCompile(`(?:^|\s)[^\s:]*:(\d+):(\d+)?`)

// Diagnostics splits compiler output into one diagnostic per line. Lines
// without letters or digits (box drawing, separators) are dropped.
func Diagnostics(text string) []shaderbench.Diagnostic {
	var diags []shaderbench.Diagnostic
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if !strings.ContainsFunc(line, isWordRune) {
			continue
		}
		d := shaderbench.Diagnostic{Message: strings.TrimSpace(line)}
		if m := locationRE.FindStringSubmatch(line); m != nil {
			d.Line, _ = strconv.Atoi(m[1])
			if m[2] != "" {
				d.Column, _ = strconv.Atoi(m[2])
			}
		}
		diags = append(diags, d)
	}
	return diags
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Failure builds the conversion error for a failed tool run. The first line
// mentioning an error becomes the message; every line is kept as a diagnostic.
func Failure(backend string, d shaderbench.Direction, out Output, err error) error {
	diags := Diagnostics(out.Text())
	msg := ""
	for _, diag := range diags {
		if strings.Contains(strings.ToLower(diag.Message), "error") {
			msg = diag.Message
			break
		}
	}
	if msg == "" && len(diags) > 0 {
		msg = diags[0].Message
	}
	if msg == "" && err != nil {
		msg = err.Error()
	}
	return &shaderbench.ConversionError{
		Backend:     backend,
		Direction:   d,
		Kind:        shaderbench.KindTool,
		Message:     msg,
		Diagnostics: diags,
		Err:         err,
	}
}

// Empty builds the conversion error for a run that succeeded without output.
func Empty(backend string, d shaderbench.Direction, out Output) error {
	return &shaderbench.ConversionError{
		Backend:     backend,
		Direction:   d,
		Kind:        shaderbench.KindEmpty,
		Message:     "no output produced",
		Diagnostics: Diagnostics(out.Text()),
	}
}
