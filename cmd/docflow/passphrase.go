package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"docflow/internal/app"
)

// readPassphrase returns DOCFLOW_PASSPHRASE if set, otherwise prompts on the
// terminal without echo. confirm asks twice and requires a match.
func readPassphrase(confirm bool) (string, error) {
	if p, ok := app.EnvPassphraseValue(); ok {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal to prompt for a passphrase; set %s", app.EnvPassphrase)
	}

	p, err := prompt(fd, "Passphrase: ")
	if err != nil {
		return "", err
	}
	if !confirm {
		return p, nil
	}
	again, err := prompt(fd, "Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if p != again {
		return "", fmt.Errorf("passphrases do not match")
	}
	return p, nil
}

func prompt(fd int, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}
