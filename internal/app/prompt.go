package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompt prints msg and reads one trimmed line of input.
func (a *App) prompt(msg string) (string, error) {
	fmt.Fprint(a.out, msg)

	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question that defaults to no.
func (a *App) confirm(msg string) bool {
	if a.opts.AssumeYes {
		return true
	}

	answer, err := a.prompt(msg)
	if err != nil {
		return false
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// pause waits for Enter unless every prompt is pre-answered.
func (a *App) pause(msg string) {
	if a.opts.AssumeYes {
		return
	}
	_, _ = a.prompt(msg)
}
