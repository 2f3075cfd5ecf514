// Package formatter renders OKR data for the terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/okra/internal/domain"
)

// Gruvbox-inspired palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(ColorOrange)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle is the colour of a progress label.
func StatusStyle(s domain.ProgressStatus) lipgloss.Style {
	switch s {
	case domain.StatusCompleted:
		return StyleBlue
	case domain.StatusOnTrack:
		return StyleGreen
	case domain.StatusAtRisk:
		return StyleYellow
	case domain.StatusBehind:
		return StyleRed
	default:
		return StyleDim
	}
}

var statusGlyphs = map[domain.ProgressStatus]string{
	domain.StatusCompleted:  "✔",
	domain.StatusOnTrack:    "●",
	domain.StatusAtRisk:     "▲",
	domain.StatusBehind:     "▼",
	domain.StatusNotStarted: "○",
}

// StatusLabel renders "on_track" as "On track".
func StatusLabel(s domain.ProgressStatus) string {
	text := strings.ReplaceAll(string(s), "_", " ")
	if text == "" {
		return "-"
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

// StatusPill renders a coloured glyph and label such as "▲ At risk".
func StatusPill(s domain.ProgressStatus) string {
	glyph, ok := statusGlyphs[s]
	if !ok {
		glyph = "?"
	}
	return StatusStyle(s).Render(glyph + " " + StatusLabel(s))
}

func ObjectiveStatusPill(s domain.ObjectiveStatus) string {
	switch s {
	case domain.ObjectiveActive:
		return StyleGreen.Render("● Active")
	case domain.ObjectivePaused:
		return StyleYellow.Render("○ Paused")
	case domain.ObjectiveDone:
		return StyleBlue.Render("✔ Done")
	case domain.ObjectiveArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(s))
	}
}

func InitiativeStatusPill(s domain.InitiativeStatus) string {
	switch s {
	case domain.InitiativePlanned:
		return StyleDim.Render("○ Planned")
	case domain.InitiativeInProgress:
		return StyleGreen.Render("● In progress")
	case domain.InitiativeDone:
		return StyleBlue.Render("✔ Done")
	case domain.InitiativeCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders an upper-cased title with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
