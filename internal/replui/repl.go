// Package replui implements `rupc repl`, a Bubble Tea session that
// lexes, parses and analyzes one statement at a time against a
// persistent global scope and renders the CIL and JVM fragments each
// statement lowers to side by side: a textinput-driven single-line
// loop with lipgloss-styled history. The palette is rupc's own: teal
// for CIL, orange for JVM, red for errors.
package replui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/proskuryakov/rupc/internal/codegen/cil"
	"github.com/proskuryakov/rupc/internal/codegen/jvm"
	cerrors "github.com/proskuryakov/rupc/internal/errors"
	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/parser"
	"github.com/proskuryakov/rupc/internal/scope"
	"github.com/proskuryakov/rupc/internal/semantic"
)

const Prompt = "рус> "

// Options tweaks REPL presentation.
type Options struct {
	NoColor bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cilStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("30"))  // teal
	jvmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // orange
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
	historyDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Start runs the REPL until the user quits.
func Start(options Options) error {
	_, err := tea.NewProgram(initialModel(options)).Run()
	return err
}

type historyEntry struct {
	input   string
	cilFrag string
	jvmFrag string
	errText string
}

type model struct {
	textInput textinput.Model
	history   []historyEntry
	global    *scope.Scope
	cilGen    *cil.Generator
	jvmGen    *jvm.Generator
	options   Options
}

func initialModel(options Options) model {
	ti := textinput.New()
	ti.Placeholder = "если (а > 0) вывод_целый(а);"
	ti.Prompt = Prompt
	ti.Focus()
	ti.Width = 72

	return model{
		textInput: ti,
		global:    scope.NewGlobal(),
		cilGen:    cil.New("repl"),
		jvmGen:    jvm.New("repl"),
		options:   options,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) style(s lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return s.Render(text)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.textInput.Value())
			if line == "" {
				return m, nil
			}
			entry := m.eval(line)
			m.history = append(m.history, entry)
			m.textInput.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// eval runs one REPL statement through the full pipeline against the
// session's persistent global scope.
func (m model) eval(line string) historyEntry {
	l := lexer.New(line)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		var sb strings.Builder
		for _, e := range errs {
			fmt.Fprintf(&sb, "%s\n", e.Error())
		}
		return historyEntry{input: line, errText: strings.TrimRight(sb.String(), "\n")}
	}

	if len(program.Statements) == 0 {
		return historyEntry{input: line, errText: "пустой оператор"}
	}
	stmt := program.Statements[0]

	an := semantic.New(line, "")
	if err := an.AnalyzeStatement(stmt, m.global); err != nil {
		if ce, ok := err.(*cerrors.CompilerError); ok {
			return historyEntry{input: line, errText: ce.Short()}
		}
		return historyEntry{input: line, errText: err.Error()}
	}

	cilFrag := strings.TrimRight(m.cilGen.GenerateStatement(stmt), "\n")
	jvmFrag := strings.TrimRight(m.jvmGen.GenerateStatement(stmt, 0), "\n")
	return historyEntry{input: line, cilFrag: cilFrag, jvmFrag: jvmFrag}
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(m.style(titleStyle, "rupc repl — введите оператор языка"))
	sb.WriteString("\n\n")

	for _, e := range m.history {
		fmt.Fprintf(&sb, "%s%s\n", m.style(promptStyle, Prompt), e.input)
		if e.errText != "" {
			sb.WriteString(m.style(errorStyle, e.errText))
			sb.WriteString("\n\n")
			continue
		}
		if e.cilFrag != "" {
			sb.WriteString(m.style(historyDim, "  CIL:\n"))
			sb.WriteString(m.style(cilStyle, indent(e.cilFrag)))
			sb.WriteString("\n")
		}
		if e.jvmFrag != "" {
			sb.WriteString(m.style(historyDim, "  JVM:\n"))
			sb.WriteString(m.style(jvmStyle, indent(e.jvmFrag)))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(m.textInput.View())
	sb.WriteString("\n")
	sb.WriteString(m.style(historyDim, "Ctrl+C/Esc — выход"))
	return sb.String()
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
