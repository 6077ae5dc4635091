package shaderbench

import (
	"errors"
	"testing"
)

func TestStageFromName(t *testing.T) {
	tests := []struct {
		name string
		want Stage
	}{
		{"bevy-pbr.vert", StageVertex},
		{"bevy-pbr.frag", StageFragment},
		{"opaque.frag.cpu", StageFragment},
		{"shadow.vert.glsl", StageVertex},
		{"blur.comp", StageCompute},
		{"dota-393", StageCompute},
		{"", StageCompute},
		// ".vert" is checked first.
		{"x.vert.frag", StageVertex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StageFromName(tt.name); got != tt.want {
				t.Errorf("StageFromName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		name    string
		want    Stage
		wantErr bool
	}{
		{"bevy-pbr.vert", StageVertex, false},
		{"bevy-pbr.frag", StageFragment, false},
		{"blur.comp", StageCompute, false},
		{"dota-393", 0, true},
		{"shader.glsl", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStage(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStage) {
					t.Fatalf("ParseStage(%q) error = %v, want ErrUnknownStage", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStage(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseStage(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStage_Ext(t *testing.T) {
	for stage, want := range map[Stage]string{
		StageVertex:   "vert",
		StageFragment: "frag",
		StageCompute:  "comp",
	} {
		if got := stage.Ext(); got != want {
			t.Errorf("%v.Ext() = %q, want %q", stage, got, want)
		}
		if got := StageFromName("shader." + stage.Ext()); got != stage {
			t.Errorf("StageFromName(shader.%s) = %v, want %v", stage.Ext(), got, stage)
		}
	}
}
