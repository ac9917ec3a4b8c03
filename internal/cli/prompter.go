package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user for values the command line did not provide.
type Prompter struct {
	in  *LineReader
	out io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: NewLineReader(in), out: out}
}

// Ask prints label and returns the answer, or fallback for an empty one.
func (p *Prompter) Ask(ctx context.Context, label, fallback string) (string, error) {
	prompt := label
	if fallback != "" {
		prompt += " " + SubtleStyle.Render("["+fallback+"]")
	}
	if _, err := fmt.Fprint(p.out, prompt+": "); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.in.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
