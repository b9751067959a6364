package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers from the command's input, writing questions to errOut
// so stdout stays clean for piping.
type prompter struct {
	in     io.Reader
	r      *bufio.Reader
	errOut io.Writer
}

func newPrompter(in io.Reader, errOut io.Writer) *prompter {
	if in == nil {
		in = os.Stdin
	}
	return &prompter{in: in, r: bufio.NewReader(in), errOut: errOut}
}

// line asks question and returns the trimmed answer.
func (p *prompter) line(question string) (string, error) {
	fmt.Fprint(p.errOut, question)
	s, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

// secret is like line but does not echo when input is a terminal.
func (p *prompter) secret(question string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(question)
	}
	fmt.Fprint(p.errOut, question)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func (p *prompter) confirm(question string) bool {
	s, err := p.line(question + " [y/N] ")
	if err != nil {
		return false
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes"
}
