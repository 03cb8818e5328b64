package ui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(m *PromptModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestPromptModel(t *testing.T) {
	t.Run("submit returns trimmed value", func(t *testing.T) {
		m := NewPromptModel(PlaylistPrompt, io.Discard)
		typeText(m, "  https://open.spotify.com/playlist/abc123  ")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected quit command on enter")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("enter should quit the program")
		}

		if m.Aborted() {
			t.Error("prompt should not be aborted")
		}
		if got := m.Value(); got != "https://open.spotify.com/playlist/abc123" {
			t.Errorf("Value() = %q", got)
		}
		if m.View() != "" {
			t.Error("finished prompt should render nothing")
		}
	})

	t.Run("escape aborts", func(t *testing.T) {
		m := NewPromptModel(PlaylistPrompt, io.Discard)
		typeText(m, "abc")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if cmd == nil {
			t.Fatal("expected quit command on esc")
		}
		if !m.Aborted() {
			t.Error("esc should abort")
		}
	})

	t.Run("ctrl+c aborts", func(t *testing.T) {
		m := NewPromptModel(PlaylistPrompt, io.Discard)
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if !m.Aborted() {
			t.Error("ctrl+c should abort")
		}
	})

	t.Run("view shows label and help", func(t *testing.T) {
		m := NewPromptModel(PlaylistPrompt, io.Discard)
		view := m.View()
		for _, want := range []string{PlaylistPrompt, "enter", "esc"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})
}

func TestPrompt(t *testing.T) {
	t.Run("reads a line", func(t *testing.T) {
		in := strings.NewReader("https://open.spotify.com/playlist/xyz\r")
		got, err := Prompt(t.Context(), PlaylistPrompt, in, io.Discard)
		if err != nil {
			t.Fatalf("Prompt failed: %v", err)
		}
		if got != "https://open.spotify.com/playlist/xyz" {
			t.Errorf("Prompt() = %q", got)
		}
	})
}

func TestPalette(t *testing.T) {
	p := NewPalette(io.Discard)
	for name, fn := range map[string]func(string) string{
		"title":   p.Title,
		"success": p.Success,
		"error":   p.Error,
		"warn":    p.Warn,
		"help":    p.Help,
	} {
		if got := fn("Done!"); got != "Done!" {
			t.Errorf("%s: expected plain text for a non-terminal writer, got %q", name, got)
		}
	}
}
