package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var errPasswordMismatch = errors.New("passwords do not match")

// TerminalPasswordSource prompts twice without echo when stdin is a terminal
// and reports ok=false otherwise.
func TerminalPasswordSource(stdin *os.File, prompt io.Writer) PasswordSource {
	return func() (string, bool, error) {
		if stdin == nil || !term.IsTerminal(int(stdin.Fd())) {
			return "", false, nil
		}

		first, err := readPassword(stdin, prompt, "New password: ")
		if err != nil {
			return "", true, err
		}
		second, err := readPassword(stdin, prompt, "Repeat password: ")
		if err != nil {
			return "", true, err
		}
		if first != second {
			return "", true, errPasswordMismatch
		}
		return first, true, nil
	}
}

func readPassword(stdin *os.File, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	value, err := term.ReadPassword(int(stdin.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
