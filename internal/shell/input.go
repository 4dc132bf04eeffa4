package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// DefaultHistory is the number of entries a terminal reader remembers.
const DefaultHistory = 50

// InputReader reads one trimmed line of player input at a time. It returns
// io.EOF once input is exhausted.
type InputReader interface {
	ReadLine() (string, error)
}

// LineReader reads newline-terminated input from any io.Reader. It serves
// piped input and tests.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader returns a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{scanner: bufio.NewScanner(r)}
}

// ReadLine returns the next line with surrounding whitespace removed.
func (r *LineReader) ReadLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.scanner.Text()), nil
}

// TerminalReader reads lines through a bubbletea text input, adding line
// editing and up/down history recall.
type TerminalReader struct {
	in         *os.File
	out        io.Writer
	prompt     string
	history    []string
	maxHistory int
}

// NewInputReader returns a TerminalReader when in is a terminal and a
// LineReader otherwise, so piped input and CI runs keep working. The text
// input is drawn on out.
func NewInputReader(in *os.File, out io.Writer, maxHistory int) InputReader {
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return NewLineReader(in)
	}
	return &TerminalReader{
		in:         in,
		out:        out,
		prompt:     "> ",
		history:    make([]string, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// ReadLine runs a single-line bubbletea program. Ctrl+D on an empty line
// returns io.EOF; Ctrl+C returns an empty line.
func (r *TerminalReader) ReadLine() (string, error) {
	ti := textinput.New()
	ti.Prompt = r.prompt
	ti.CharLimit = 1024
	ti.Width = 80
	ti.Focus()

	p := tea.NewProgram(newInputModel(ti, r.history), tea.WithInput(r.in), tea.WithOutput(r.out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("reading terminal input: %w", err)
	}
	m, ok := final.(inputModel)
	if !ok {
		return "", fmt.Errorf("unexpected input model %T", final)
	}
	if m.eof {
		return "", io.EOF
	}

	line := strings.TrimSpace(m.input.Value())
	r.remember(line)
	return line, nil
}

func (r *TerminalReader) remember(line string) {
	if line == "" {
		return
	}
	if n := len(r.history); n > 0 && r.history[n-1] == line {
		return
	}
	r.history = append(r.history, line)
	if len(r.history) > r.maxHistory {
		r.history = r.history[1:]
	}
}

// inputModel is the bubbletea model behind TerminalReader.
type inputModel struct {
	input   textinput.Model
	history []string
	index   int    // position in history while browsing, -1 when editing
	draft   string // text typed before browsing started
	done    bool
	eof     bool
}

func newInputModel(ti textinput.Model, history []string) inputModel {
	return inputModel{input: ti, history: history, index: -1}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyCtrlC:
		m.input.SetValue("")
		m.done = true
		return m, tea.Quit
	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.eof = true
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyUp:
		if len(m.history) == 0 {
			return m, nil
		}
		if m.index == -1 {
			m.draft = m.input.Value()
			m.index = len(m.history) - 1
		} else if m.index > 0 {
			m.index--
		}
		m.input.SetValue(m.history[m.index])
		m.input.CursorEnd()
		return m, nil
	case tea.KeyDown:
		if m.index == -1 {
			return m, nil
		}
		if m.index < len(m.history)-1 {
			m.index++
			m.input.SetValue(m.history[m.index])
		} else {
			m.index = -1
			m.input.SetValue(m.draft)
		}
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	return m.input.View()
}
