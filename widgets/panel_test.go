package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderProgress(t *testing.T) {
	cases := []struct {
		pos, n, width int
		want          string
	}{
		{0, 10, 5, "....."},
		{5, 10, 4, "##.."},
		{10, 10, 4, "####"},
		{12, 10, 4, "####"},
		{3, 0, 3, "..."},
		{1, 1, 0, ""},
	}
	for _, c := range cases {
		if got := RenderProgress(c.pos, c.n, c.width, '#', '.'); got != c.want {
			t.Errorf("RenderProgress(%d, %d, %d) = %q, want %q", c.pos, c.n, c.width, got, c.want)
		}
	}
}

func TestRenderLinesNames(t *testing.T) {
	out := RenderLines([]Line{{"prev", false}, {"next", true}}, 'o', 'x', lipgloss.Color("#ff0000"), lipgloss.Color("#333333"))
	if !strings.Contains(out, "o prev") || !strings.Contains(out, "x next") {
		t.Fatalf("RenderLines = %q", out)
	}
}

func TestRenderSwatch(t *testing.T) {
	if out := RenderSwatch([3]uint8{1, 2, 3}, true, lipgloss.Color("#000000")); !strings.Contains(out, "#010203") {
		t.Errorf("lit swatch = %q", out)
	}
	if out := RenderSwatch([3]uint8{1, 2, 3}, false, lipgloss.Color("#000000")); !strings.Contains(out, "off") {
		t.Errorf("dark swatch = %q", out)
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{Title: "Playback", Keys: []KeyBinding{{"space", "pause"}}}})
	if !strings.HasPrefix(out, "Playback\n") || !strings.Contains(out, "space") {
		t.Fatalf("RenderKeyHelp = %q", out)
	}
}
