package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// promptPassphrase prompts for a passphrase with hidden input.
func promptPassphrase(prompt string) (string, error) {
	out(os.Stderr, "%s", prompt)

	passphrase, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	return string(passphrase), nil
}

// promptNewPassphrase prompts for a new passphrase with confirmation.
func promptNewPassphrase() (string, error) {
	passphrase, err := promptPassphrase("Enter encryption passphrase: ")
	if err != nil {
		return "", err
	}

	if len(passphrase) < 8 {
		return "", turboerr.WithSuggestion(
			turboerr.ErrInvalidInput,
			"passphrase must be at least 8 characters",
		)
	}

	confirm, err := promptPassphrase("Confirm passphrase: ")
	if err != nil {
		return "", err
	}

	if passphrase != confirm {
		return "", turboerr.WithSuggestion(
			turboerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	return passphrase, nil
}

// promptConfirm asks the user a yes/no question on stderr.
func promptConfirm(question string) bool {
	out(os.Stderr, "%s [y/N]: ", question)

	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
