package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Study", "3/20", 80)
	for _, want := range []string{"recall", "Study", "3/20"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Space", Description: "Reveal"}, {Key: "Esc", Description: "Quit"}}, 80)
	if !strings.Contains(f, "Space") || !strings.Contains(f, "Reveal") || !strings.Contains(f, "Quit") {
		t.Errorf("footer = %q", f)
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Study", "", 80)
	footer := RenderFooter(nil, 80)
	frame := RenderFrame(header, "card", footer, 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}
