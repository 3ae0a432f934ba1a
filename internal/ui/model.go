// ABOUTME: Bubbletea model for the big-digit NTP clock
// ABOUTME: Polls the sync engine every tick and renders face plus status bar
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TimeSource is the read-only query surface the clock polls. Implementations
// must stay cheap: View reads it on every 10ms tick.
type TimeSource interface {
	CurrentTime() int64
	CurrentTimeWithFraction() float64
	CurrentHundredths() int
	SecondsSinceSync() int64
	HasSynced() bool
	ServerName() (string, bool)
}

// Control carries requests from the TUI back to the app.
type Control struct {
	SyncRequests chan struct{}
	Quit         chan struct{}
}

// NewControl creates the TUI control channels.
func NewControl() *Control {
	return &Control{
		SyncRequests: make(chan struct{}, 1),
		Quit:         make(chan struct{}, 1),
	}
}

// StatusMsg updates the sync status shown above the face.
type StatusMsg struct {
	Syncing bool
	LastErr string
}

type tickMsg time.Time

const tickInterval = 10 * time.Millisecond

// Model holds display state. Time values are not cached here; View re-reads
// the source so the hundredths stay live.
type Model struct {
	source   TimeSource
	control  *Control
	interval time.Duration

	syncing bool
	lastErr string

	width  int
	height int
}

// NewModel creates a clock model reading from source.
func NewModel(source TimeSource, control *Control, interval time.Duration) Model {
	return Model{source: source, control: control, interval: interval}
}

// Init starts the render tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.syncing = msg.Syncing
		m.lastErr = msg.LastErr
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.control != nil {
			select {
			case m.control.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "s":
		if m.control != nil {
			select {
			case m.control.SyncRequests <- struct{}{}:
			default:
			}
		}
	}
	return m, nil
}

// View renders the clock face centered with the status bar on the bottom
// line.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	t := time.Unix(m.source.CurrentTime(), 0).UTC()
	rows := renderClockFace(t.Hour(), t.Minute(), t.Second())
	rows[clockHeight-1] += " " + renderTenths(m.source.CurrentHundredths()/10)

	// center the face as one unit, digits aligned on the widest (last) row
	pad := (m.width - lipgloss.Width(rows[clockHeight-1])) / 2
	if pad < 0 {
		pad = 0
	}
	indent := strings.Repeat(" ", pad)

	top := (m.height-clockHeight)/2 - 2
	if top < 1 {
		top = 1
	}

	var b strings.Builder
	b.WriteString(m.renderMessage())
	b.WriteString(strings.Repeat("\n", top-1))
	for _, row := range rows {
		b.WriteString(indent)
		b.WriteString(row)
		b.WriteByte('\n')
	}
	for i := top + clockHeight + 1; i < m.height; i++ {
		b.WriteByte('\n')
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderMessage shows sync progress or the last error on the top line.
func (m Model) renderMessage() string {
	switch {
	case m.syncing:
		return "Syncing with NTP server...\n"
	case m.lastErr != "":
		return fmt.Sprintf("Sync failed: %s\n", m.lastErr)
	default:
		return "\n"
	}
}

var (
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("7"))
	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Background(lipgloss.Color("7"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Background(lipgloss.Color("7"))
)

func (m Model) renderStatusBar() string {
	server, ok := m.source.ServerName()
	if !ok {
		server = "Not connected"
	}

	datetime := "--"
	if secs := m.source.CurrentTime(); secs != 0 {
		t := time.Unix(secs, 0).UTC()
		datetime = fmt.Sprintf("%s.%d UTC", t.Format("2006-01-02 15:04:05"), m.source.CurrentHundredths()/10)
	}

	since := m.source.SecondsSinceSync()
	sinceStr := "Never"
	if since >= 0 {
		sinceStr = formatHMS(since)
	}

	left := fmt.Sprintf(" %s │ %s ", datetime, server)

	intervalSec := int64(m.interval / time.Second)
	remaining := intervalSec
	var progress float64
	if since >= 0 && intervalSec > 0 {
		remaining = intervalSec - since%intervalSec
		progress = float64(since%intervalSec) / float64(intervalSec)
	}
	right := m.renderProgress(sinceStr, formatHMS(remaining), progress)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		// narrow terminal: keep the left section, drop the progress bar
		gap = m.width - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
		return barStyle.Render(left + strings.Repeat(" ", gap))
	}
	return barStyle.Render(left) + barStyle.Render(strings.Repeat(" ", gap)) + right
}

// renderProgress draws the right-hand sync section: elapsed time, a bar that
// fills toward the next scheduled sync, and the time remaining. The cell at
// the fill boundary blinks on even seconds.
func (m Model) renderProgress(sinceStr, untilStr string, progress float64) string {
	fixed := len("│ Sync: ") + len(sinceStr) + len(" [") + len("] ") + len(untilStr) + 1
	barWidth := m.width/2 - fixed
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	half := progress*float64(barWidth)-float64(filled) >= 0.1 && filled < barWidth

	blink := filled
	if !half && filled > 0 {
		blink = filled - 1
	}
	blinkOn := m.source.CurrentTime()%2 == 0

	var cells strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			ch := "█"
			if i == blink && !half && !blinkOn {
				ch = " "
			}
			cells.WriteString(barFillStyle.Render(ch))
		case i == filled && half:
			ch := "▌"
			if !blinkOn {
				ch = " "
			}
			cells.WriteString(barFillStyle.Render(ch))
		default:
			ch := "·"
			if i == blink && !blinkOn {
				ch = " "
			}
			cells.WriteString(barEmptyStyle.Render(ch))
		}
	}

	return barStyle.Render("│ Sync: "+sinceStr+" [") + cells.String() + barStyle.Render("] "+untilStr+" ")
}

func formatHMS(seconds int64) string {
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
