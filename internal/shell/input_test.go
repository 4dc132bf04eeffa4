package shell

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("  c \n\nKevin Bacon\r\n"))

	for _, want := range []string{"c", "", "Kevin Bacon"} {
		got, err := r.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := r.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("error at end = %v, want io.EOF", err)
	}
}

func TestNewInputReader_NotATerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte("q\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := NewInputReader(f, io.Discard, DefaultHistory)
	if _, ok := r.(*LineReader); !ok {
		t.Fatalf("NewInputReader(file) = %T, want *LineReader", r)
	}
	if line, err := r.ReadLine(); err != nil || line != "q" {
		t.Errorf("ReadLine = %q, %v; want \"q\"", line, err)
	}
}

func press(t *testing.T, m inputModel, keys ...tea.KeyMsg) inputModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		if m, ok = next.(inputModel); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func testModel(history ...string) inputModel {
	ti := textinput.New()
	ti.Focus()
	return newInputModel(ti, history)
}

func TestInputModel_History(t *testing.T) {
	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}
	typed := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Tom")}

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want string
	}{
		{"typing", []tea.KeyMsg{typed}, "Tom"},
		{"most recent first", []tea.KeyMsg{up}, "u"},
		{"older entry", []tea.KeyMsg{up, up}, "p"},
		{"stops at oldest", []tea.KeyMsg{up, up, up}, "p"},
		{"back down", []tea.KeyMsg{up, up, down}, "u"},
		{"down restores draft", []tea.KeyMsg{typed, up, down}, "Tom"},
		{"down without browsing", []tea.KeyMsg{down}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, testModel("p", "u"), tt.keys...)
			if got := m.input.Value(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInputModel_Finish(t *testing.T) {
	typed := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}

	tests := []struct {
		name    string
		keys    []tea.KeyMsg
		wantEOF bool
		want    string
	}{
		{"enter", []tea.KeyMsg{typed, {Type: tea.KeyEnter}}, false, "c"},
		{"ctrl+c clears", []tea.KeyMsg{typed, {Type: tea.KeyCtrlC}}, false, ""},
		{"ctrl+d on empty line", []tea.KeyMsg{{Type: tea.KeyCtrlD}}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, testModel(), tt.keys...)
			if !m.done {
				t.Fatal("model not done")
			}
			if m.eof != tt.wantEOF {
				t.Errorf("eof = %v, want %v", m.eof, tt.wantEOF)
			}
			if got := m.input.Value(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
			if m.View() != "" {
				t.Errorf("finished model still renders %q", m.View())
			}
		})
	}
}

func TestInputModel_CtrlDWithText(t *testing.T) {
	m := press(t, testModel(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.done || m.eof {
		t.Error("ctrl+d with pending text should not end input")
	}
}

func TestTerminalReader_Remember(t *testing.T) {
	r := &TerminalReader{maxHistory: 2}
	for _, line := range []string{"c", "", "c", "d", "p"} {
		r.remember(line)
	}
	if got := strings.Join(r.history, ","); got != "d,p" {
		t.Errorf("history = %q, want \"d,p\"", got)
	}
}
