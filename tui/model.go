package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"music-board/input"
	"music-board/midi"
	"music-board/player"
	"music-board/sim"
	"music-board/theme"
	"music-board/widgets"
)

// refreshRate redraws the indicator and button lines, which change
// without a player update.
const refreshRate = 50 * time.Millisecond

type Model struct {
	Player    *player.Controller
	Output    *sim.Output
	Buttons   *sim.Buttons
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme
	Press     time.Duration
	quitting  bool
}

type UpdateMsg struct{}

type TickMsg time.Time

func NewModel(ctl *player.Controller, out *sim.Output, buttons *sim.Buttons, deviceMgr *midi.DeviceManager, th *theme.Theme, press time.Duration) Model {
	return Model{
		Player:    ctl,
		Output:    out,
		Buttons:   buttons,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Press:     press,
	}
}

func ListenForUpdates(ctl *player.Controller) tea.Cmd {
	return func() tea.Msg {
		<-ctl.Updates()
		return UpdateMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(ListenForUpdates(m.Player), tick())
}

var keyButtons = map[string]input.Button{
	"left":  input.Previous,
	"h":     input.Previous,
	"right": input.Next,
	"l":     input.Next,
	" ":     input.Pause,
	"space": input.Pause,
	"c":     input.Light,
}

var keyHelp = []widgets.KeySection{
	{Title: "buttons", Keys: []widgets.KeyBinding{
		{Key: "←/h", Desc: "previous"},
		{Key: "→/l", Desc: "next"},
		{Key: "space", Desc: "pause"},
		{Key: "c", Desc: "light"},
	}},
	{Keys: []widgets.KeyBinding{
		{Key: "q", Desc: "quit"},
	}},
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if b, ok := keyButtons[key]; ok {
			m.Buttons.Tap(b, m.Press)
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Player)

	case TickMsg:
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Player.Status()
	out := m.Output.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	stateStyle := lipgloss.NewStyle().Foreground(m.stateColor(st.State)).Bold(true)

	header := headerStyle.Render(fmt.Sprintf("music-board  track %d  %s", st.Track+1, st.Name))
	state := stateStyle.Render(fmt.Sprintf("%c %s", m.stateSymbol(st.State), strings.ToUpper(st.State.String())))

	note := "—"
	if st.Note >= 0 && !st.Pitch.IsRest() {
		note = st.Pitch.String()
	}
	progress := widgets.RenderProgress(st.Note+1, st.Notes, 24, m.Theme.Symbols.Swatch, m.Theme.Symbols.Track)
	noteLine := fgStyle.Render(fmt.Sprintf("%c %-4s", m.Theme.Symbols.Note, note)) + "  " +
		dimStyle.Render(fmt.Sprintf("%s %d/%d", progress, st.Note+1, st.Notes))

	tone := "tone off"
	if hz, on := m.Output.Tone(); on {
		tone = fmt.Sprintf("tone %d Hz", hz)
	}

	r, g, bl := out.RGB()
	swatch := widgets.RenderSwatch([3]uint8{r, g, bl}, out.Lit(), m.Theme.Muted())

	lines := make([]widgets.Line, 0, input.NumButtons)
	for _, btn := range input.Buttons {
		lines = append(lines, widgets.Line{Name: btn.String(), Down: m.Buttons.Level(btn)})
	}
	buttons := widgets.RenderLines(lines, m.Theme.Symbols.Up, m.Theme.Symbols.Down, m.Theme.Active(), m.Theme.Muted())

	help := dimStyle.Render(widgets.RenderKeyHelp(keyHelp))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n\n  ")
	b.WriteString(state)
	b.WriteString("\n  ")
	b.WriteString(noteLine)
	b.WriteString("\n  ")
	b.WriteString(dimStyle.Render(tone))
	b.WriteString("\n\n  light  ")
	b.WriteString(swatch)
	b.WriteString("\n  ")
	b.WriteString(buttons)
	if devices := m.devices(); devices != "" {
		b.WriteString("\n  ")
		b.WriteString(dimStyle.Render("midi: " + devices))
	}
	b.WriteString("\n\n")
	b.WriteString(help)
	return b.String()
}

func (m Model) devices() string {
	if m.DeviceMgr == nil {
		return ""
	}
	var names []string
	for id := range m.DeviceMgr.Controllers() {
		names = append(names, id)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (m Model) stateSymbol(s player.State) rune {
	switch s {
	case player.Paused:
		return m.Theme.Symbols.Paused
	case player.Switching:
		return m.Theme.Symbols.Switching
	}
	return m.Theme.Symbols.Playing
}

func (m Model) stateColor(s player.State) lipgloss.Color {
	switch s {
	case player.Paused:
		return m.Theme.Warning()
	case player.Switching:
		return m.Theme.Accent()
	}
	return m.Theme.Success()
}
