package token

import (
	"math/big"
	"strings"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// ParseDecimalAmount parses a decimal amount string to big.Int with the given
// decimal places. For example, "1.5" with 12 decimals returns 1500000000000.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseDecimalAmount(amount string, decimalPlaces int) (*big.Int, error) {
	if amount == "" {
		return nil, turboerr.ErrInvalidAmount
	}

	if strings.HasPrefix(amount, "-") {
		return nil, turboerr.ErrInvalidAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, turboerr.ErrInvalidAmount
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if intPart == "" {
		intPart = "0"
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, turboerr.ErrInvalidAmount
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimalPlaces)), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	if decPart != "" {
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, turboerr.ErrInvalidAmount
			}
		}

		// Pad or truncate the fractional part to the token's scale
		for len(decPart) < decimalPlaces {
			decPart += "0"
		}
		decPart = decPart[:decimalPlaces]

		decVal, ok := new(big.Int).SetString(decPart, 10)
		if !ok {
			return nil, turboerr.ErrInvalidAmount
		}

		result = result.Add(result, decVal)
	}

	return result, nil
}

// FormatDecimalAmount converts a big.Int to a human-readable string with the
// given decimal places. Trailing zeros after the decimal point are removed,
// and whole amounts render without a fraction. For example, 1500000000000
// with 12 decimals returns "1.5" and 42000000000000 returns "42".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()

	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	decimalPos := len(str) - decimalPlaces
	result := str[:decimalPos] + "." + str[decimalPos:]

	// The '.' stops the trim from eating integer digits.
	for result[len(result)-1] == '0' {
		result = result[:len(result)-1]
	}
	return strings.TrimSuffix(result, ".")
}

// Rescale converts an amount between two decimal scales using scaled integer
// arithmetic. Scaling up is exact; scaling down rounds half up, and a
// non-zero input never rounds to zero: the smallest representable unit is
// returned instead so small balances are not silently dropped.
func Rescale(amount *big.Int, fromDecimals, toDecimals int) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	if fromDecimals == toDecimals {
		return new(big.Int).Set(amount)
	}

	if toDecimals > fromDecimals {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(toDecimals-fromDecimals)), nil)
		return new(big.Int).Mul(amount, factor)
	}

	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(fromDecimals-toDecimals)), nil)
	quo, rem := new(big.Int).QuoRem(amount, factor, new(big.Int))

	// Round half up on the discarded remainder
	half := new(big.Int).Rsh(factor, 1)
	if rem.CmpAbs(half) >= 0 {
		quo = quo.Add(quo, big.NewInt(1))
	}

	if quo.Sign() == 0 && amount.Sign() != 0 {
		return big.NewInt(1)
	}
	return quo
}

// WincToCredits formats a winc amount as a decimal credit string.
func WincToCredits(winc *big.Int) string {
	return FormatDecimalAmount(winc, WincDecimals)
}

// CreditsToWinc parses a decimal credit string into winc.
func CreditsToWinc(credits string) (*big.Int, error) {
	return ParseDecimalAmount(credits, WincDecimals)
}

// ParseWinc parses a winc integer string as returned by the payment service.
func ParseWinc(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || v.Sign() < 0 {
		return nil, turboerr.WithDetails(turboerr.ErrInvalidAmount, map[string]string{"winc": s})
	}
	return v, nil
}
