package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PlaylistPrompt is the question asked when no playlist reference is given.
const PlaylistPrompt = "Enter the Spotify playlist URL:"

// ErrAborted is returned by [Prompt] when the user cancels the input.
var ErrAborted = errors.New("input aborted")

// PromptModel is a single text input question.
type PromptModel struct {
	label   string
	input   textinput.Model
	help    help.Model
	keys    keyMap
	styles  *Palette
	done    bool
	aborted bool
}

var _ tea.Model = (*PromptModel)(nil)

// NewPromptModel creates a focused prompt for label, styled for out.
func NewPromptModel(label string, out io.Writer) *PromptModel {
	input := textinput.New()
	input.Placeholder = "https://open.spotify.com/playlist/..."
	input.Prompt = "> "
	input.Width = 60
	input.Focus()

	return &PromptModel{
		label:  label,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
		styles: NewPalette(out),
	}
}

// Init starts the cursor blinking.
func (m *PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses; every other message goes to the text input.
func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.cancel):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.submit):
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the label, input and key help. Nothing is drawn once the prompt is finished.
func (m *PromptModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Value returns the trimmed input.
func (m *PromptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Aborted reports whether the prompt was cancelled.
func (m *PromptModel) Aborted() bool {
	return m.aborted
}

// Prompt asks label on out, reading keys from in, and returns the trimmed answer.
func Prompt(ctx context.Context, label string, in io.Reader, out io.Writer) (string, error) {
	model := NewPromptModel(label, out)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(*PromptModel)
	if !ok {
		return "", fmt.Errorf("prompt failed: unexpected model %T", final)
	}
	if m.Aborted() {
		return "", ErrAborted
	}
	return m.Value(), nil
}
