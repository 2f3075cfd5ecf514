package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errValueRequired = errors.New("a value is required (pass it as an argument or run in a terminal)")

// okraHuhTheme styles huh forms with the formatter palette.
func okraHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorOrange).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorOrange)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorOrange)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateNumber(s string) error {
	if progress.OptionalNumber(s) == nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

// checkInDescription tells the user where the item stands.
func checkInDescription(m domain.Measure) string {
	return fmt.Sprintf("Current %s, target %s (%s)",
		progress.FormatValue(m.CurrentValue, m.Unit),
		progress.FormatValue(&m.TargetValue, m.Unit),
		strings.ReplaceAll(string(m.Type), "_", " "))
}

// newCheckInForm asks for a new value and an optional note.
func newCheckInForm(title string, m domain.Measure, value, note *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(checkInDescription(m)).
				Placeholder(progress.FormatValue(m.CurrentValue, m.Unit)).
				Value(value).
				Validate(validateNumber),
			huh.NewInput().
				Title("Note (optional)").
				Value(note),
		),
	).WithTheme(okraHuhTheme())
}

// checkInInput takes the value from args, or from the form when none was
// given on a terminal. A note from the form is used unless --note was set.
func checkInInput(app *App, title string, m domain.Measure, args []string, note string, noteSet bool) (string, string, error) {
	if len(args) > 0 {
		return args[0], note, nil
	}
	if !app.interactive() {
		return "", "", errValueRequired
	}
	var value, formNote string
	if noteSet {
		formNote = note
	}
	if err := newCheckInForm(title, m, &value, &formNote).Run(); err != nil {
		return "", "", err
	}
	return value, formNote, nil
}

func checkInRequest(subjectID, value, note string) contract.CheckInRequest {
	return contract.CheckInRequest{
		SubjectID: subjectID,
		Value:     value,
		Note:      strings.TrimSpace(note),
		Source:    "cli",
	}
}
