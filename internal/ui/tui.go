// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the clock display
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram builds the clock display program in the alternate screen. The
// caller runs it and may post StatusMsg updates from other goroutines with
// p.Send.
func NewProgram(source TimeSource, control *Control, interval time.Duration) (*tea.Program, error) {
	if source == nil {
		return nil, fmt.Errorf("ui: nil time source")
	}
	p := tea.NewProgram(NewModel(source, control, interval), tea.WithAltScreen())
	return p, nil
}
