package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// ErrPromptCancelled is returned when the operator presses esc or ctrl+c.
var ErrPromptCancelled = errors.New("prompt cancelled")

// promptModel is a single-field Bubble Tea program.
type promptModel struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newPromptModel(label string, secret bool) promptModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = strings.ToLower(label)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()
	return promptModel{label: label, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			if strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() tea.View {
	if m.done || m.cancelled {
		return tea.NewView("")
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter to submit • esc to cancel"))
	b.WriteString("\n")
	return tea.NewView(b.String())
}

// TermPrompter asks for values on the terminal. It implements
// telegram.Prompter.
type TermPrompter struct {
	opts []tea.ProgramOption
}

func NewTermPrompter(opts ...tea.ProgramOption) *TermPrompter {
	return &TermPrompter{opts: opts}
}

func (p *TermPrompter) Prompt(ctx context.Context, label string, secret bool) (string, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts...)
	final, err := tea.NewProgram(newPromptModel(label, secret), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", strings.ToLower(label), err)
	}
	m, ok := final.(promptModel)
	if !ok || m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.input.Value(), nil
}
