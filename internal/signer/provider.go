package signer

import (
	"context"
	"strings"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/keystore"
	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// Open returns an OpenFunc that loads the configured key file for a wallet
// kind. Missing configuration or files surface as ErrWalletNotFound; the
// caller must show that to the user rather than retry.
func Open(kind token.WalletKind, cfg *config.Config, pass PassphraseFunc) OpenFunc {
	return func(_ context.Context) (Signer, error) {
		wf, ok := cfg.KeyFileFor(string(kind))
		if !ok {
			return nil, turboerr.WithSuggestion(
				turboerr.ErrWalletNotFound,
				"configure wallets."+string(kind)+".key_file or run 'turbo wallet import'",
			)
		}

		passphrase := ""
		if wf.Encrypted {
			if pass == nil {
				return nil, turboerr.WithSuggestion(
					turboerr.ErrDecryptionFailed,
					"key file is encrypted but no passphrase prompt is available",
				)
			}
			var err error
			passphrase, err = pass("Passphrase for " + string(kind) + " wallet: ")
			if err != nil {
				return nil, turboerr.Wrap(turboerr.ErrSignatureRejected, "reading passphrase")
			}
		}

		data, err := keystore.LoadKeyFile(wf.KeyFile, wf.Encrypted, passphrase)
		if err != nil {
			return nil, err
		}

		return FromKeyData(kind, data)
	}
}

// FromKeyData constructs a signer from raw key file contents.
func FromKeyData(kind token.WalletKind, data []byte) (Signer, error) {
	switch kind {
	case token.KindArweave:
		return NewArweaveSigner(data)
	case token.KindEthereum:
		// A key file holding whitespace-separated words is a mnemonic.
		if len(strings.Fields(string(data))) >= 12 {
			return NewEthereumSignerFromMnemonic(string(data))
		}
		return NewEthereumSigner(data)
	case token.KindSolana:
		return NewSolanaSigner(data)
	default:
		return nil, turboerr.WithDetails(turboerr.ErrUnsupportedToken, map[string]string{"wallet": string(kind)})
	}
}
