package keystore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()

	plaintext := []byte(`{"kty":"RSA","n":"test-key-material"}`)

	ciphertext, err := Encrypt(plaintext, "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := Decrypt(ciphertext, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	t.Parallel()

	ciphertext, err := Encrypt([]byte("secret"), "right")
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, turboerr.ErrDecryptionFailed))
}

func TestLoadKeyFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadKeyFile(filepath.Join(t.TempDir(), "absent.json"), false, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, turboerr.ErrWalletNotFound))
}

func TestSaveLoadKeyFile_Encrypted(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "solana.b58")
	require.NoError(t, SaveKeyFile(path, []byte("5Kd3..."), "pass"))

	data, err := LoadKeyFile(path, true, "pass")
	require.NoError(t, err)
	assert.Equal(t, []byte("5Kd3..."), data)
}

func TestSaveLoadKeyFile_Plain(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "eth.hex")
	require.NoError(t, SaveKeyFile(path, []byte("deadbeef"), ""))

	data, err := LoadKeyFile(path, false, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("deadbeef"), data)
}
