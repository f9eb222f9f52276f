package cli

import (
	"context"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/store"
	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
)

// signerCache holds opened signers for the life of the process so the
// passphrase prompt happens at most once per wallet and network profile.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var signerCache = signer.NewCache()

// paymentClient returns the payment service client for the active
// configuration.
func paymentClient() (*turbo.Client, error) {
	return clientFactory.ClientFor(cfg)
}

// openStore loads the persisted session state from the turbo home.
func openStore() (*store.Store, error) {
	return store.New(config.StatePath(cfg.GetHome()))
}

// signerFor opens (or reuses) the signer for a wallet kind. If a session is
// connected for the same kind, the cached signer must still match the
// session address.
func signerFor(ctx context.Context, kind token.WalletKind) (*signer.CachedSigner, error) {
	expected := ""
	if st, err := openStore(); err == nil {
		if addr, sessionKind := st.Address(); sessionKind == kind {
			expected = addr
		}
	}

	key := signer.Key{Kind: kind, ConfigKey: cfg.ConfigKey()}
	return signerCache.GetOrCreate(ctx, key, expected, signer.Open(kind, cfg, promptPassphrase))
}

// connectSession records the signer's address as the active session,
// wiping payment state if the address changed since last time.
func connectSession(st *store.Store, cached *signer.CachedSigner) error {
	prev, prevKind := st.Address()
	if prev != "" && (prev != cached.Address || prevKind != cached.Signer.Kind()) {
		return st.SwitchAddress(cached.Signer.Kind(), cached.Address)
	}
	return st.Connect(cached.Signer.Kind(), cached.Address)
}
