package titan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapMode_TextRoundTrip(t *testing.T) {
	for _, mode := range []SwapMode{ExactIn, ExactOut} {
		parsed, err := ParseSwapMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}
	assert.Equal(t, "ExactIn", ExactIn.String())
	assert.Equal(t, "ExactOut", ExactOut.String())
}

func TestParseSwapMode_Rejects(t *testing.T) {
	for _, s := range []string{"", "exactin", "EXACTOUT", "ExactIn ", "Exact"} {
		_, err := ParseSwapMode(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestSwapMode_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Mode SwapMode `json:"mode"`
	}{ExactOut})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"ExactOut"}`, string(b))

	var out struct {
		Mode SwapMode `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"ExactIn"}`), &out))
	assert.Equal(t, ExactIn, out.Mode)

	assert.Error(t, json.Unmarshal([]byte(`{"mode":"Both"}`), &out))
}

func TestSwapMode_DefaultIsExactIn(t *testing.T) {
	var m SwapMode
	assert.Equal(t, ExactIn, m)
}
