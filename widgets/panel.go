package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"music-board/theme"
)

// RenderSwatch renders the indicator as a wide colored block with its hex
// value, or a dim outline when dark.
func RenderSwatch(color [3]uint8, lit bool, dim lipgloss.Color) string {
	if !lit {
		return lipgloss.NewStyle().Foreground(dim).Render("░░░░  off")
	}
	hex := theme.RGB(color).Hex()
	block := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("████")
	return fmt.Sprintf("%s  %s", block, hex)
}

// Line is one button line for RenderLines.
type Line struct {
	Name string
	Down bool
}

// RenderLines renders button lines as "● next  ○ pause ...", pressed lines
// in the active color.
func RenderLines(lines []Line, up, down rune, active, muted lipgloss.Color) string {
	on := lipgloss.NewStyle().Foreground(active)
	off := lipgloss.NewStyle().Foreground(muted)

	parts := make([]string, len(lines))
	for i, l := range lines {
		if l.Down {
			parts[i] = on.Render(fmt.Sprintf("%c %s", down, l.Name))
		} else {
			parts[i] = off.Render(fmt.Sprintf("%c %s", up, l.Name))
		}
	}
	return strings.Join(parts, "  ")
}

// RenderProgress renders a bar of width cells with the first pos of n
// filled.
func RenderProgress(pos, n, width int, fill, empty rune) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if n > 0 && pos > 0 {
		filled = pos * width / n
		if filled > width {
			filled = width
		}
	}
	return strings.Repeat(string(fill), filled) + strings.Repeat(string(empty), width-filled)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
