package cmd

import (
	"bufio"
	"fmt"
	"strings"
)

// interactive reports whether the user can answer questions.
var interactive = func() bool { return isTerminal(stdin) }

// prompter asks questions on stdin, answering yes when assumeYes is set.
type prompter struct {
	assumeYes bool
	in        *bufio.Reader
}

func newPrompter(assumeYes bool) *prompter {
	return &prompter{assumeYes: assumeYes, in: bufio.NewReader(stdin)}
}

func (p *prompter) Confirm(message string) bool {
	if p.assumeYes {
		fmt.Fprintln(stdout, message, "yes")
		return true
	}
	if !interactive() {
		fmt.Fprintln(stdout, message, "Use -y to confirm without a terminal.")
		return false
	}
	fmt.Fprint(stdout, message, " [y/N] ")
	line, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *prompter) Notify(message string) { fmt.Fprintln(stderr, message) }
