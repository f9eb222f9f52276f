package cli

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/config"
	"github.com/ardriveapp/turbo-cli/internal/keystore"
	"github.com/ardriveapp/turbo-cli/internal/signer"
	"github.com/ardriveapp/turbo-cli/internal/token"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// walletKind is the wallet family to operate on.
	walletKind string
	// walletFile is the key file to import.
	walletFile string
	// walletEncrypt encrypts the imported key with a passphrase.
	walletEncrypt bool
)

// walletCmd is the parent command for wallet operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallet key files",
	Long: `Manage the wallet key files used to sign top-up transfers.

Supported key formats: Arweave JWK files, Ethereum private keys or BIP39
mnemonics, and Solana base58 private keys. Imported keys can be encrypted
at rest with a passphrase.`,
}

// walletImportCmd imports a key file into the turbo home.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a wallet key file",
	Example: `  turbo wallet import --kind arweave --file wallet.json
  turbo wallet import --kind ethereum --file key.txt --encrypt
  turbo wallet import --kind solana --file id.key`,
	RunE: runWalletImport,
}

// walletListCmd lists configured wallets.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured wallets",
	RunE:  runWalletList,
}

// walletShowCmd shows the address of a configured wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show a wallet's address",
	Example: `  turbo wallet show --kind ethereum`,
	RunE:    runWalletShow,
}

// WalletInfo describes one configured wallet.
type WalletInfo struct {
	Kind      string `json:"kind"`
	KeyFile   string `json:"key_file,omitempty"`
	Encrypted bool   `json:"encrypted,omitempty"`
	Address   string `json:"address,omitempty"`
	PublicKey string `json:"public_key,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletShowCmd)

	walletImportCmd.Flags().StringVar(&walletKind, "kind", "", "wallet family: arweave, ethereum, solana (required)")
	walletImportCmd.Flags().StringVar(&walletFile, "file", "", "key file to import (required)")
	walletImportCmd.Flags().BoolVar(&walletEncrypt, "encrypt", false, "encrypt the stored key with a passphrase")
	_ = walletImportCmd.MarkFlagRequired("kind")
	_ = walletImportCmd.MarkFlagRequired("file")

	walletShowCmd.Flags().StringVar(&walletKind, "kind", "", "wallet family: arweave, ethereum, solana (required)")
	_ = walletShowCmd.MarkFlagRequired("kind")
}

func runWalletImport(cmd *cobra.Command, _ []string) error {
	kind, err := parseWalletKind(walletKind)
	if err != nil {
		return err
	}

	// #nosec G304 -- key file path comes from the --file flag
	data, err := os.ReadFile(walletFile)
	if err != nil {
		return turboerr.WithDetails(turboerr.ErrWalletNotFound, map[string]string{"path": walletFile})
	}

	// Validate the key material before writing anything.
	s, err := signer.FromKeyData(kind, data)
	if err != nil {
		return err
	}

	passphrase := ""
	if walletEncrypt {
		passphrase, err = promptNewPassphrase()
		if err != nil {
			return err
		}
	}

	dest := filepath.Join(cfg.GetHome(), "wallets", string(kind)+".key")
	if err := keystore.SaveKeyFile(dest, data, passphrase); err != nil {
		return err
	}

	setWalletConfig(kind, config.WalletFileConfig{KeyFile: dest, Encrypted: walletEncrypt})
	if err := config.Save(cfg, config.Path(cfg.GetHome())); err != nil {
		return err
	}

	info := WalletInfo{
		Kind:      string(kind),
		KeyFile:   dest,
		Encrypted: walletEncrypt,
		Address:   s.Address(),
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), info)
	}

	out(cmd.OutOrStdout(), "Imported %s wallet %s\n", info.Kind, info.Address)
	out(cmd.OutOrStdout(), "Key stored at %s\n", info.KeyFile)
	return nil
}

func runWalletList(cmd *cobra.Command, _ []string) error {
	wallets := make([]WalletInfo, 0, 3)
	for _, kind := range []token.WalletKind{token.KindArweave, token.KindEthereum, token.KindSolana} {
		wf, ok := cfg.KeyFileFor(string(kind))
		if !ok {
			continue
		}
		wallets = append(wallets, WalletInfo{
			Kind:      string(kind),
			KeyFile:   wf.KeyFile,
			Encrypted: wf.Encrypted,
		})
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), wallets)
	}

	w := cmd.OutOrStdout()
	if len(wallets) == 0 {
		outln(w, "No wallets configured. Run 'turbo wallet import' to add one.")
		return nil
	}
	for _, info := range wallets {
		lock := ""
		if info.Encrypted {
			lock = " (encrypted)"
		}
		out(w, "%-10s %s%s\n", info.Kind, info.KeyFile, lock)
	}
	return nil
}

func runWalletShow(cmd *cobra.Command, _ []string) error {
	kind, err := parseWalletKind(walletKind)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(cmd, 2*time.Minute)
	defer cancel()

	cached, err := signerFor(ctx, kind)
	if err != nil {
		return err
	}

	info := WalletInfo{
		Kind:      string(kind),
		Address:   cached.Address,
		PublicKey: hex.EncodeToString(cached.Signer.PublicKey()),
	}
	if wf, ok := cfg.KeyFileFor(string(kind)); ok {
		info.KeyFile = wf.KeyFile
		info.Encrypted = wf.Encrypted
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), info)
	}

	out(cmd.OutOrStdout(), "Address: %s\n", info.Address)
	if info.KeyFile != "" {
		out(cmd.OutOrStdout(), "Key file: %s\n", info.KeyFile)
	}
	return nil
}

// parseWalletKind validates a wallet family name.
func parseWalletKind(s string) (token.WalletKind, error) {
	switch s {
	case string(token.KindArweave):
		return token.KindArweave, nil
	case string(token.KindEthereum):
		return token.KindEthereum, nil
	case string(token.KindSolana):
		return token.KindSolana, nil
	default:
		return "", turboerr.WithSuggestion(
			turboerr.WithDetails(turboerr.ErrInvalidInput, map[string]string{"kind": s}),
			"supported wallet kinds: arweave, ethereum, solana",
		)
	}
}

// setWalletConfig records the key file location for a wallet kind.
func setWalletConfig(kind token.WalletKind, wf config.WalletFileConfig) {
	switch kind {
	case token.KindArweave:
		cfg.Wallets.Arweave = wf
	case token.KindEthereum:
		cfg.Wallets.Ethereum = wf
	case token.KindSolana:
		cfg.Wallets.Solana = wf
	}
}
