package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter asks for values on the command's streams. Passwords are read
// without echo when stdin is a terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func newPrompter(cmd *cobra.Command) *prompter {
	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		p.fd = int(f.Fd())
		p.tty = term.IsTerminal(p.fd)
	}
	return p
}

// Line prints label and reads one trimmed line.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label) //nolint:errcheck
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// Password prints label and reads a secret.
func (p *prompter) Password(label string) (string, error) {
	if !p.tty {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label) //nolint:errcheck
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out) //nolint:errcheck
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// valueOr returns the flag value when set, otherwise prompts for it.
func (p *prompter) valueOr(cmd *cobra.Command, flag, label string) (string, error) {
	if v, _ := cmd.Flags().GetString(flag); v != "" { //nolint:errcheck
		return v, nil
	}
	return p.Line(label)
}
