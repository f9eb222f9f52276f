package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	turboerr "github.com/ardriveapp/turbo-cli/pkg/errors"
)

func TestFormatter_PrintJSON(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	f := NewFormatter(FormatJSON, buf)

	require.NoError(t, f.Print(map[string]string{"credits": "1.5"}))

	var out map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "1.5", out["credits"])
}

func TestFormatter_PrintText(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	f := NewFormatter(FormatText, buf)

	require.NoError(t, f.Print("hello"))
	assert.Equal(t, "hello\n", buf.String())
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	// Explicit formats win
	assert.Equal(t, FormatJSON, DetectFormat(buf, FormatJSON))
	assert.Equal(t, FormatText, DetectFormat(buf, FormatText))
	// Non-TTY writers auto-detect to JSON
	assert.Equal(t, FormatJSON, DetectFormat(buf, FormatAuto))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(" text "))
	assert.Equal(t, FormatAuto, ParseFormat("anything"))
}

func TestFormatError_JSON(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	err := turboerr.WithSuggestion(turboerr.ErrPricingUnavailable, "try again shortly")
	require.NoError(t, FormatError(buf, err, FormatJSON))

	var out ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "PRICING_UNAVAILABLE", out.Error.Code)
	assert.Equal(t, "try again shortly", out.Error.Suggestion)
}

func TestFormatError_Text(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, FormatError(buf, errors.New("plain failure"), FormatText))
	assert.Contains(t, buf.String(), "Error: plain failure")
}

func TestFormatError_Nil(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, FormatError(buf, nil, FormatText))
	assert.Empty(t, buf.String())
}

func TestCanRenderQR_NonFile(t *testing.T) {
	t.Parallel()

	assert.False(t, CanRenderQR(&bytes.Buffer{}))
}
