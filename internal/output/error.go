package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	if format == FormatJSON {
		return formatErrorJSON(w, err)
	}
	return formatErrorText(w, err)
}

func formatErrorJSON(w io.Writer, err error) error {
	detail := ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: turboerr.ExitGeneral,
	}

	var te *turboerr.TurboError
	if errors.As(err, &te) {
		detail = ErrorDetail{
			Code:       te.Code,
			Message:    te.Message,
			Details:    te.Details,
			Suggestion: te.Suggestion,
			ExitCode:   te.ExitCode,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ErrorOutput{Error: detail})
}

func formatErrorText(w io.Writer, err error) error {
	var sb strings.Builder

	var te *turboerr.TurboError
	if errors.As(err, &te) {
		sb.WriteString(fmt.Sprintf("Error: %s\n", te.Message))

		if len(te.Details) > 0 {
			sb.WriteString("\nDetails:\n")
			for k, v := range te.Details {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
			}
		}

		if te.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", te.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", err))
	}

	_, werr := io.WriteString(w, sb.String())
	return werr
}
