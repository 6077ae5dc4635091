package shaderbench

import (
	"context"
	"errors"
	"testing"
)

func TestBackend_Supports(t *testing.T) {
	b := Backend{Name: "tint", Directions: []Direction{SPIRVToWGSL, SPIRVToMSL}}
	if !b.Supports(SPIRVToMSL) {
		t.Error("Supports(SPIRVToMSL) = false, want true")
	}
	if b.Supports(GLSLToSPIRV) {
		t.Error("Supports(GLSLToSPIRV) = true, want false")
	}
}

func TestBackend_AcquireOpenError(t *testing.T) {
	openErr := errors.New("glslangValidator not found")
	b := Backend{Name: "glslang", Open: func() (Converter, error) { return nil, openErr }}

	if _, err := b.Acquire(); !errors.Is(err, openErr) {
		t.Fatalf("Acquire() error = %v, want %v", err, openErr)
	}

	if _, err := (Backend{Name: "empty"}).Acquire(); err == nil {
		t.Fatal("Acquire() without opener succeeded")
	}
}

func TestGuard_UseAfterClose(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}
	b := Backend{Name: "recorder", Open: func() (Converter, error) { return r, nil }}

	conv, err := b.Acquire()
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	if _, err := conv.GLSLToSPIRV(ctx, "void main() {}", StageVertex); err != nil {
		t.Fatalf("GLSLToSPIRV before Close failed: %v", err)
	}

	if err := conv.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := conv.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() = %v, want ErrClosed", err)
	}
	if r.closes != 1 {
		t.Errorf("adapter closed %d times, want 1", r.closes)
	}

	r.last = ""
	calls := []struct {
		name string
		call func() error
	}{
		{"GLSLToSPIRV", func() error { _, err := conv.GLSLToSPIRV(ctx, "x", StageVertex); return err }},
		{"SPIRVToTarget", func() error { _, err := conv.SPIRVToTarget(ctx, []uint32{1}, LanguageMSL); return err }},
		{"WGSLToGLSL", func() error { _, err := conv.WGSLToGLSL(ctx, "x", "main"); return err }},
	}
	for _, c := range calls {
		err := c.call()
		if !errors.Is(err, ErrClosed) {
			t.Errorf("%s after Close = %v, want ErrClosed", c.name, err)
		}
		if KindOf(err) != KindClosed {
			t.Errorf("%s after Close kind = %v, want %v", c.name, KindOf(err), KindClosed)
		}
	}
	if r.last != "" {
		t.Errorf("closed handle reached the adapter (%s)", r.last)
	}
}

func TestGuard_ClosedDirection(t *testing.T) {
	conv := Guard(&recorder{})
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	tests := []struct {
		target Language
		want   Direction
	}{
		{LanguageWGSL, SPIRVToWGSL},
		{LanguageMSL, SPIRVToMSL},
		{LanguageGLSL, 0},
	}
	for _, tt := range tests {
		_, err := conv.SPIRVToTarget(context.Background(), []uint32{1}, tt.target)
		var ce *ConversionError
		if !errors.As(err, &ce) {
			t.Fatalf("SPIRVToTarget(%s) error = %v, want *ConversionError", tt.target, err)
		}
		if ce.Direction != tt.want {
			t.Errorf("SPIRVToTarget(%s) direction = %v, want %v", tt.target, ce.Direction, tt.want)
		}
	}
}

func TestGuard_Idempotent(t *testing.T) {
	g := Guard(&recorder{})
	if Guard(g) != g {
		t.Error("Guard(Guard(c)) wrapped twice")
	}
}
