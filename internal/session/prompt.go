package session

import (
	"github.com/charmbracelet/huh"
)

// Prompter asks the user for one answer at a time.
type Prompter interface {
	Input(title string) (string, error)
	Select(title string, options []string) (string, error)
}

// HuhPrompter renders each question as a single-field huh form.
type HuhPrompter struct {
	// Accessible switches huh to plain line-based prompts.
	Accessible bool
}

func (p HuhPrompter) Input(title string) (string, error) {
	var answer string
	field := huh.NewInput().
		Title(title).
		Value(&answer)
	err := p.run(field)
	return answer, err
}

func (p HuhPrompter) Select(title string, options []string) (string, error) {
	var answer string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&answer)
	err := p.run(field)
	return answer, err
}

func (p HuhPrompter) run(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.Accessible).
		Run()
}
