package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"gradereport/internal/app"
)

// Prompter asks the operator for a mode and an id on a line-oriented terminal
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading from in and printing to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Mode prints the option menu and returns the trimmed answer
func (p *Prompter) Mode() (string, error) {
	fmt.Fprintln(p.out, "Enter option:")
	fmt.Fprintln(p.out, "  s : To display Student details")
	fmt.Fprintln(p.out, "  c : To display Course details")
	fmt.Fprint(p.out, "Enter your choice (s or c): ")
	return p.readLine()
}

// ID asks for the id matching mode. It must only be called for a valid mode.
func (p *Prompter) ID(mode string) (string, error) {
	if mode == app.ModeStudent {
		fmt.Fprint(p.out, "Enter Student ID: ")
	} else {
		fmt.Fprint(p.out, "Enter Course ID: ")
	}
	return p.readLine()
}

// readLine returns the next line trimmed. EOF yields whatever was read so far,
// which is empty input when nothing was typed.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// collectRequest fills in whatever the flags did not provide. The id prompt
// is skipped for an unrecognized mode.
func collectRequest(p *Prompter, mode, id string, modeSet, idSet bool) (app.Request, error) {
	var err error
	if !modeSet {
		if mode, err = p.Mode(); err != nil {
			return app.Request{}, err
		}
	}
	mode = strings.TrimSpace(mode)

	if !idSet && (mode == app.ModeStudent || mode == app.ModeCourse) {
		if id, err = p.ID(mode); err != nil {
			return app.Request{}, err
		}
	}

	return app.Request{Mode: mode, Key: id}, nil
}
