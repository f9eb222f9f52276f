package cli

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardriveapp/turbo-cli/internal/pricing"
	"github.com/ardriveapp/turbo-cli/internal/token"
	"github.com/ardriveapp/turbo-cli/internal/turbo"
	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// priceUSD is the fiat amount to quote, in dollars.
	priceUSD string
	// priceToken is the crypto token to quote.
	priceToken string
	// priceAmount is the crypto amount to quote, in whole tokens.
	priceAmount string
	// priceInteractive reads amounts from stdin and quotes as you type.
	priceInteractive bool
)

// priceCmd quotes credits for a fiat or crypto amount.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Quote credits for a fiat or crypto amount",
	Long: `Quote how many credits a fiat or crypto amount buys.

Fiat quotes are informational and do not expire. Crypto quotes are held
for five minutes; pay within that window or the quote is refreshed.`,
	Example: `  turbo price --usd 10
  turbo price --token arweave --amount 1.5
  turbo price --token ethereum --interactive`,
	RunE: runPrice,
}

// QuoteResult is the output of the price command.
type QuoteResult struct {
	USD       string             `json:"usd,omitempty"`
	Token     string             `json:"token,omitempty"`
	Amount    string             `json:"amount,omitempty"`
	Winc      string             `json:"winc"`
	Credits   string             `json:"credits"`
	Fees      []turbo.Adjustment `json:"fees,omitempty"`
	ExpiresAt string             `json:"expires_at,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&priceUSD, "usd", "", "fiat amount in dollars (e.g. 10 or 9.99)")
	priceCmd.Flags().StringVar(&priceToken, "token", "", "token to pay with (arweave, ethereum, solana, ...)")
	priceCmd.Flags().StringVar(&priceAmount, "amount", "", "token amount in whole tokens (e.g. 0.5)")
	priceCmd.Flags().BoolVar(&priceInteractive, "interactive", false, "read amounts from stdin, quoting as you type")
}

func runPrice(cmd *cobra.Command, _ []string) error {
	req, err := buildQuoteRequest(priceUSD, priceToken, priceAmount, priceInteractive)
	if err != nil {
		return err
	}

	client, err := paymentClient()
	if err != nil {
		return err
	}

	svc := pricing.NewService(client, &pricing.Options{
		Debounce: time.Duration(cfg.Pricing.DebounceMillis) * time.Millisecond,
		QuoteTTL: time.Duration(cfg.Pricing.QuoteTTLSecs) * time.Second,
		Logger:   logger,
	})
	defer svc.Close()

	if priceInteractive {
		return runPriceInteractive(cmd, svc, req)
	}

	ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
	defer cancel()

	quote, err := svc.QuoteNow(ctx, req)
	if err != nil {
		return err
	}

	return outputQuote(cmd, quoteToResult(quote))
}

// buildQuoteRequest validates the flag combination and parses amounts.
func buildQuoteRequest(usd, tok, amount string, interactive bool) (pricing.Request, error) {
	if usd != "" && tok != "" {
		return pricing.Request{}, turboerr.WithSuggestion(
			turboerr.ErrInvalidInput,
			"use either --usd or --token, not both",
		)
	}

	if usd != "" {
		cents, err := parseUSDCents(usd)
		if err != nil {
			return pricing.Request{}, err
		}
		return pricing.Request{USDCents: cents}, nil
	}

	if tok == "" {
		return pricing.Request{}, turboerr.WithSuggestion(
			turboerr.ErrInvalidInput,
			"specify --usd or --token with --amount",
		)
	}

	id, ok := token.Parse(tok)
	if !ok {
		return pricing.Request{}, unknownTokenError(tok)
	}

	if interactive {
		// The amount comes from stdin; seed with zero.
		return pricing.Request{Token: id, Amount: big.NewInt(0)}, nil
	}

	raw, err := token.ParseDecimalAmount(amount, id.Decimals())
	if err != nil {
		return pricing.Request{}, err
	}
	return pricing.Request{Token: id, Amount: raw}, nil
}

// parseUSDCents parses a dollar amount like "10" or "9.99" into cents.
func parseUSDCents(usd string) (int64, error) {
	cents, err := token.ParseDecimalAmount(usd, 2)
	if err != nil {
		return 0, err
	}
	if !cents.IsInt64() || cents.Int64() <= 0 {
		return 0, turboerr.WithDetails(turboerr.ErrInvalidAmount, map[string]string{"usd": usd})
	}
	return cents.Int64(), nil
}

// unknownTokenError builds an invalid-token error with a did-you-mean hint.
func unknownTokenError(input string) error {
	err := turboerr.WithDetails(turboerr.ErrUnsupportedToken, map[string]string{"token": input})
	if hint := token.Suggest(input); hint != "" {
		err = turboerr.WithSuggestion(err, "did you mean '"+hint+"'?")
	}
	return err
}

// runPriceInteractive submits each stdin line as a debounced quote request
// and prints updates as they land. Rapid typing collapses into one fetch.
func runPriceInteractive(cmd *cobra.Command, svc *pricing.Service, base pricing.Request) error {
	outln(cmd.ErrOrStderr(), "Enter amounts, one per line (Ctrl-D to quit):")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range svc.Updates() {
			if update.Err != nil {
				out(cmd.ErrOrStderr(), "quote failed: %v\n", update.Err)
				continue
			}
			printQuoteLine(cmd, update.Quote)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req := base
		if req.IsFiat() {
			cents, err := parseUSDCents(line)
			if err != nil {
				out(cmd.ErrOrStderr(), "invalid amount: %v\n", err)
				continue
			}
			req.USDCents = cents
		} else {
			raw, err := token.ParseDecimalAmount(line, req.Token.Decimals())
			if err != nil {
				out(cmd.ErrOrStderr(), "invalid amount: %v\n", err)
				continue
			}
			req.Amount = raw
		}
		svc.Submit(req)
	}

	svc.Close()
	<-done
	return scanner.Err()
}

// printQuoteLine prints a one-line quote for interactive mode.
func printQuoteLine(cmd *cobra.Command, q *pricing.Quote) {
	if q.Request.IsFiat() {
		out(cmd.OutOrStdout(), "$%d.%02d = %s credits\n",
			q.Request.USDCents/100, q.Request.USDCents%100, q.Credits())
		return
	}
	out(cmd.OutOrStdout(), "%s %s = %s credits (expires %s)\n",
		token.FormatDecimalAmount(q.Request.Amount, q.Request.Token.Decimals()),
		q.Request.Token.Symbol(), q.Credits(),
		q.ExpiresAt().Format(time.Kitchen))
}

// quoteToResult converts a quote to the command's output shape.
func quoteToResult(q *pricing.Quote) QuoteResult {
	result := QuoteResult{
		Winc:    q.Winc.String(),
		Credits: q.Credits(),
		Fees:    q.Fees,
	}
	if q.Request.IsFiat() {
		result.USD = fmt.Sprintf("%d.%02d", q.Request.USDCents/100, q.Request.USDCents%100)
	} else {
		result.Token = q.Request.Token.String()
		result.Amount = token.FormatDecimalAmount(q.Request.Amount, q.Request.Token.Decimals())
		result.ExpiresAt = q.ExpiresAt().UTC().Format(time.RFC3339)
	}
	return result
}

// outputQuote renders a quote in the requested format.
func outputQuote(cmd *cobra.Command, result QuoteResult) error {
	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	if result.USD != "" {
		out(w, "$%s buys %s credits (%s winc)\n", result.USD, result.Credits, result.Winc)
	} else {
		out(w, "%s %s buys %s credits (%s winc)\n", result.Amount, strings.ToUpper(result.Token), result.Credits, result.Winc)
	}

	for _, fee := range result.Fees {
		out(w, "  fee: %s (%s %v)\n", fee.Name, fee.Operator, fee.Value)
	}

	if result.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, result.ExpiresAt)
		if err == nil {
			out(w, "Quote valid for %s (until %s)\n",
				time.Until(expires).Round(time.Second),
				expires.Local().Format(time.Kitchen))
		}
	}
	return nil
}
