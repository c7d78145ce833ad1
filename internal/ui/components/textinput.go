package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursecheck/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a styled inline filter field.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates a filter input with the given placeholder.
func NewFilterInput(placeholder string) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	return FilterInput{Model: ti}
}

// Focus puts the input into edit mode.
func (f *FilterInput) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur leaves edit mode, keeping the current value.
func (f *FilterInput) Blur() {
	f.Model.Blur()
}

// Focused reports whether the input is in edit mode.
func (f FilterInput) Focused() bool {
	return f.Model.Focused()
}

// Update handles messages while focused.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input. When blurred with a value set, the value is shown
// dimmed as a reminder that a filter is active.
func (f FilterInput) View() string {
	if !f.Model.Focused() && f.Model.Value() != "" {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ " + f.Model.Value())
	}
	return f.Model.View()
}

// Value returns the current filter text.
func (f FilterInput) Value() string {
	return f.Model.Value()
}

// Reset clears the filter text and leaves edit mode.
func (f *FilterInput) Reset() {
	f.Model.SetValue("")
	f.Model.Blur()
}
