// ABOUTME: Block digit art for the big clock face
// ABOUTME: Renders HH:MM:SS rows with lipgloss color styles
package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const clockHeight = 5

var digitArt = [10][clockHeight]string{
	{
		" ████ ",
		"██  ██",
		"██  ██",
		"██  ██",
		" ████ ",
	},
	{
		"  ██  ",
		" ███  ",
		"  ██  ",
		"  ██  ",
		" ████ ",
	},
	{
		" ████ ",
		"    ██",
		" ████ ",
		"██    ",
		"██████",
	},
	{
		" ████ ",
		"    ██",
		" ████ ",
		"    ██",
		" ████ ",
	},
	{
		"██  ██",
		"██  ██",
		"██████",
		"    ██",
		"    ██",
	},
	{
		"██████",
		"██    ",
		"██████",
		"    ██",
		"██████",
	},
	{
		" ████ ",
		"██    ",
		"██████",
		"██  ██",
		" ████ ",
	},
	{
		"██████",
		"    ██",
		"   ██ ",
		"  ██  ",
		" ██   ",
	},
	{
		" ████ ",
		"██  ██",
		" ████ ",
		"██  ██",
		" ████ ",
	},
	{
		" ████ ",
		"██  ██",
		" █████",
		"    ██",
		" ████ ",
	},
}

var colonArt = [clockHeight]string{
	"  ",
	"██",
	"  ",
	"██",
	"  ",
}

var (
	digitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // bright red
	colonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // dark gray
	dotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fracStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	utcStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")) // bright white
)

// renderClockFace returns the five art rows for hh:mm:ss.
func renderClockFace(hour, minute, second int) []string {
	rows := make([]string, clockHeight)
	for line := 0; line < clockHeight; line++ {
		parts := []string{
			digitStyle.Render(digitArt[hour/10][line]),
			digitStyle.Render(digitArt[hour%10][line]),
			colonStyle.Render(colonArt[line]),
			digitStyle.Render(digitArt[minute/10][line]),
			digitStyle.Render(digitArt[minute%10][line]),
			colonStyle.Render(colonArt[line]),
			digitStyle.Render(digitArt[second/10][line]),
			digitStyle.Render(digitArt[second%10][line]),
		}
		rows[line] = strings.Join(parts, " ")
	}
	return rows
}

// renderTenths renders the ".N UTC" fragment shown next to the bottom row of
// the face. The face shows tenths; full hundredths go to the status bar.
func renderTenths(tenths int) string {
	return dotStyle.Render(".") + fracStyle.Render(strconv.Itoa(tenths)) + utcStyle.Render(" UTC")
}
