package layout

import (
	"strings"
	"testing"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestContentHeight(t *testing.T) {
	if got := ContentHeight(30); got != 24 {
		t.Errorf("ContentHeight(30) = %d, want 24", got)
	}
	if got := ContentHeight(2); got != 0 {
		t.Errorf("ContentHeight(2) = %d, want 0", got)
	}
}

func TestRenderHeaderShowsStatus(t *testing.T) {
	out := RenderHeader("Practice", "Claude (environment)", true, 100)
	for _, want := range []string{"dpt", "Practice", "Claude (environment)", "●"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHeaderUnbound(t *testing.T) {
	out := RenderHeader("Home", "not connected", false, 100)
	if !strings.Contains(out, "○") {
		t.Errorf("expected hollow status dot when unbound:\n%s", out)
	}
}

func TestRenderFooterListsHints(t *testing.T) {
	out := RenderFooter([]KeyHint{{Key: "Ctrl+S", Description: "Submit"}}, 80)
	if !strings.Contains(out, "Ctrl+S") || !strings.Contains(out, "Submit") {
		t.Errorf("footer missing hint:\n%s", out)
	}
}
