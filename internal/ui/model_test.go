// ABOUTME: Tests for the clock TUI model and rendering helpers
// ABOUTME: Covers message handling, key routing, and face layout
package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// fakeSource is a canned TimeSource for tests.
type fakeSource struct {
	now        int64
	hundredths int
	sinceSync  int64
	synced     bool
	server     string
}

func (f *fakeSource) CurrentTime() int64               { return f.now }
func (f *fakeSource) CurrentTimeWithFraction() float64 { return float64(f.now) }
func (f *fakeSource) CurrentHundredths() int           { return f.hundredths }
func (f *fakeSource) SecondsSinceSync() int64          { return f.sinceSync }
func (f *fakeSource) HasSynced() bool                  { return f.synced }
func (f *fakeSource) ServerName() (string, bool)       { return f.server, f.server != "" }

func syncedSource() *fakeSource {
	return &fakeSource{
		now:        1700000000,
		hundredths: 42,
		sinceSync:  3661,
		synced:     true,
		server:     "pool.ntp.org",
	}
}

func TestNewModelInitialState(t *testing.T) {
	model := NewModel(&fakeSource{sinceSync: -1}, nil, 2*time.Hour)

	if model.syncing {
		t.Error("expected syncing to be false initially")
	}
	if model.lastErr != "" {
		t.Errorf("expected empty lastErr, got %q", model.lastErr)
	}
	if model.width != 0 || model.height != 0 {
		t.Error("expected zero size before the first WindowSizeMsg")
	}
}

func TestWindowSizeMsg(t *testing.T) {
	model := NewModel(syncedSource(), nil, 2*time.Hour)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m := updated.(Model)

	if m.width != 120 || m.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", m.width, m.height)
	}
}

func TestStatusMsg(t *testing.T) {
	model := NewModel(syncedSource(), nil, 2*time.Hour)

	updated, _ := model.Update(StatusMsg{Syncing: true})
	m := updated.(Model)
	if !m.syncing {
		t.Error("expected syncing after StatusMsg{Syncing: true}")
	}

	updated, _ = m.Update(StatusMsg{LastErr: "timeout"})
	m = updated.(Model)
	if m.syncing {
		t.Error("expected syncing cleared")
	}
	if m.lastErr != "timeout" {
		t.Errorf("expected lastErr %q, got %q", "timeout", m.lastErr)
	}
}

func TestQuitKeySignalsControl(t *testing.T) {
	control := NewControl()
	model := NewModel(syncedSource(), control, 2*time.Hour)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}

	select {
	case <-control.Quit:
	default:
		t.Error("expected a quit signal on the control channel")
	}
}

func TestSyncKeyRequestsSync(t *testing.T) {
	control := NewControl()
	model := NewModel(syncedSource(), control, 2*time.Hour)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	select {
	case <-control.SyncRequests:
	default:
		t.Error("expected a sync request on the control channel")
	}
}

func TestViewShowsClockAndStatus(t *testing.T) {
	model := NewModel(syncedSource(), nil, 2*time.Hour)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	view := updated.(Model).View()

	if !strings.Contains(view, "UTC") {
		t.Error("expected the view to contain the UTC marker")
	}
	if !strings.Contains(view, "pool.ntp.org") {
		t.Error("expected the view to contain the server name")
	}
	if !strings.Contains(view, "1:01:01") {
		t.Errorf("expected elapsed 1:01:01 in the status bar")
	}
}

func TestViewBeforeFirstSync(t *testing.T) {
	model := NewModel(&fakeSource{sinceSync: -1}, nil, 2*time.Hour)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	view := updated.(Model).View()

	if !strings.Contains(view, "Not connected") {
		t.Error("expected 'Not connected' before the first sync")
	}
	if !strings.Contains(view, "Never") {
		t.Error("expected 'Never' before the first sync")
	}
}

func TestFormatHMS(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{60, "0:01:00"},
		{3661, "1:01:01"},
		{7200, "2:00:00"},
		{90061, "25:01:01"},
	}
	for _, tc := range cases {
		if got := formatHMS(tc.seconds); got != tc.want {
			t.Errorf("formatHMS(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestClockFaceRows(t *testing.T) {
	rows := renderClockFace(12, 34, 56)

	if len(rows) != clockHeight {
		t.Fatalf("expected %d rows, got %d", clockHeight, len(rows))
	}
	width := lipgloss.Width(rows[0])
	for i, row := range rows {
		if lipgloss.Width(row) != width {
			t.Errorf("row %d width %d, want %d", i, lipgloss.Width(row), width)
		}
	}
}
