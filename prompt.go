// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalPrompter implements Prompter against a real terminal, echoing
// prompts marked Echo and reading unechoed input for the rest via
// golang.org/x/term.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// NewTerminalPrompter returns a TerminalPrompter reading from stdin and
// writing prompts to stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stdout}
}

func (t *TerminalPrompter) Challenge(name, instruction string, prompts []Prompt) ([]string, bool, error) {
	if name != "" {
		fmt.Fprintln(t.Out, name)
	}
	if instruction != "" {
		fmt.Fprintln(t.Out, instruction)
	}

	responses := make([]string, len(prompts))
	for i, p := range prompts {
		fmt.Fprint(t.Out, p.Text)
		var line string
		var err error
		if p.Echo {
			line, err = readLine(t.In)
		} else {
			line, err = readSecretLine(t.In)
		}
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		responses[i] = line
	}
	return responses, true, nil
}

func readLine(f *os.File) (string, error) {
	line, err := bufio.NewReader(f).ReadString('\n')
	return trimNewline(line), err
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func readSecretLine(f *os.File) (string, error) {
	if !term.IsTerminal(int(f.Fd())) {
		return readLine(f)
	}
	b, err := term.ReadPassword(int(f.Fd()))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return string(b), nil
}
