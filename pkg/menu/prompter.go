package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// Choice is one entry of a numbered menu
type Choice struct {
	Key   string
	Label string
}

// Prompter collects answers from the user. Both methods return io.EOF once
// input is exhausted or the user aborts.
type Prompter interface {
	Ask(label string) (string, error)
	Choose(title string, choices []Choice) (string, error)
}

// LinePrompter reads one line per answer. It works on pipes and scripted
// input as well as terminals.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Ask prints label and returns the trimmed reply
func (p *LinePrompter) Ask(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Choose prints the numbered menu and asks for a key
func (p *LinePrompter) Choose(title string, choices []Choice) (string, error) {
	_, _ = fmt.Fprintf(p.out, "\n%s\n", title)
	for _, c := range choices {
		_, _ = fmt.Fprintf(p.out, "%s) %s\n", c.Key, c.Label)
	}
	return p.Ask("Choose an option: ")
}

// FormPrompter renders each question as a huh form. Use it only when both
// ends are terminals.
type FormPrompter struct {
	in    io.Reader
	out   io.Writer
	theme *huh.Theme
}

// NewFormPrompter creates a FormPrompter
func NewFormPrompter(in io.Reader, out io.Writer) *FormPrompter {
	return &FormPrompter{in: in, out: out, theme: huh.ThemeCharm()}
}

func (p *FormPrompter) run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithInput(p.in).
		WithOutput(p.out).
		WithTheme(p.theme).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return io.EOF
	}
	return err
}

// Ask shows a single-line input
func (p *FormPrompter) Ask(label string) (string, error) {
	var value string
	input := huh.NewInput().
		Title(strings.TrimSuffix(strings.TrimSpace(label), ":")).
		Value(&value)
	if err := p.run(input); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Choose shows a select list
func (p *FormPrompter) Choose(title string, choices []Choice) (string, error) {
	options := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		options = append(options, huh.NewOption(c.Label, c.Key))
	}
	var value string
	sel := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&value)
	if err := p.run(sel); err != nil {
		return "", err
	}
	return value, nil
}
