// Package keystore handles encrypted wallet key files using age with
// passphrase-based (scrypt) recipients.
package keystore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// File permissions for key files.
const (
	keyFilePermissions = 0o600
	keyDirPermissions  = 0o700
)

// Encrypt encrypts plaintext using age with a passphrase-based recipient.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts ciphertext using age with a passphrase-based identity.
func Decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrDecryptionFailed, "decrypting key file")
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, turboerr.Wrap(turboerr.ErrDecryptionFailed, "reading decrypted key")
	}

	return plaintext, nil
}

// LoadKeyFile reads a key file, decrypting it when a passphrase is supplied.
// Missing files map to ErrWalletNotFound so callers can surface a consistent
// "no compatible wallet" message.
func LoadKeyFile(path string, encrypted bool, passphrase string) ([]byte, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- key file path comes from validated config
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, turboerr.WithDetails(turboerr.ErrWalletNotFound, map[string]string{"path": path})
		}
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	if !encrypted {
		return data, nil
	}
	return Decrypt(data, passphrase)
}

// SaveKeyFile writes a key file, encrypting it when a passphrase is supplied.
func SaveKeyFile(path string, data []byte, passphrase string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(expanded), keyDirPermissions); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	out := data
	if passphrase != "" {
		out, err = Encrypt(data, passphrase)
		if err != nil {
			return err
		}
	}

	return os.WriteFile(expanded, out, keyFilePermissions)
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
