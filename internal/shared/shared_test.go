package shared

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("fetching", "playlist", "abc")

		out := buf.String()
		if !strings.Contains(out, "tracksheet") {
			t.Errorf("expected prefix in output, got %q", out)
		}
		if !strings.Contains(out, "playlist=abc") {
			t.Errorf("expected key-value pair in output, got %q", out)
		}
	})

	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Debug("hidden")
		if buf.Len() != 0 {
			t.Fatalf("debug output should be suppressed at the default level, got %q", buf.String())
		}

		SetLogLevel(logger, log.DebugLevel)
		logger.Debug("visible")
		if !strings.Contains(buf.String(), "visible") {
			t.Errorf("expected debug output after raising level, got %q", buf.String())
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		child := WithLogger(NewLogger(&buf), "variant", "likes")
		child.Info("run")
		if !strings.Contains(buf.String(), "variant=likes") {
			t.Errorf("expected child fields in output, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Fatalf("expected unique ids, got %s twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("GenerateID() = %q is not a uuid: %v", a, err)
	}
}

func TestConfigError(t *testing.T) {
	err := error(&ConfigError{Name: EnvSpreadsheetID})

	if got, want := err.Error(), "SPREADSHEET_ID is not set in your .env or environment"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrMissingConfig) {
		t.Error("ConfigError should wrap ErrMissingConfig")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Name != EnvSpreadsheetID {
		t.Errorf("errors.As failed to recover the variable name: %v", cfgErr)
	}
}

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCmd
	t.Cleanup(func() { getRuntime, startCmd = origRuntime, origStart })

	tc := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			var gotName string
			var gotArgs []string
			getRuntime = func() string { return tt.goos }
			startCmd = func(name string, args ...string) error {
				gotName, gotArgs = name, args
				return nil
			}

			err := OpenBrowser("https://accounts.spotify.com/authorize")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported platform")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotName != tt.want {
				t.Errorf("launcher = %q, want %q", gotName, tt.want)
			}
			if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != "https://accounts.spotify.com/authorize" {
				t.Errorf("url should be the last argument, got %v", gotArgs)
			}
		})
	}

	t.Run("start failure", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCmd = func(string, ...string) error { return errors.New("exec: not found") }
		if err := OpenBrowser("http://example.com"); err == nil {
			t.Error("expected error when the launcher cannot start")
		}
	})
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := GenerateState()
	if len(a) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(a))
	}
	if a == b {
		t.Error("state tokens should differ between calls")
	}
}

func TestCollect(t *testing.T) {
	t.Run("all values", func(t *testing.T) {
		seq := func(yield func(int, error) bool) {
			for i := 1; i <= 3; i++ {
				if !yield(i, nil) {
					return
				}
			}
		}
		got, err := Collect(seq)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 || got[0] != 1 || got[2] != 3 {
			t.Errorf("Collect() = %v, want [1 2 3]", got)
		}
	})

	t.Run("stops at error", func(t *testing.T) {
		boom := errors.New("boom")
		seq := func(yield func(int, error) bool) {
			if !yield(1, nil) {
				return
			}
			if !yield(0, boom) {
				return
			}
			yield(2, nil)
		}
		got, err := Collect(seq)
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected values before the error to be kept, got %v", got)
		}
	})
}
