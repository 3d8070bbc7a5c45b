package status

import (
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("accepts every status", func(t *testing.T) {
		for _, s := range All() {
			parsed, err := Parse(string(s))
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("is case insensitive", func(t *testing.T) {
		parsed, err := Parse("SENT")
		require.NoError(t, err)
		assert.Equal(t, Sent, parsed)

		parsed, err = Parse("  Culling ")
		require.NoError(t, err)
		assert.Equal(t, Culling, parsed)
	})

	t.Run("rejects values outside the enum", func(t *testing.T) {
		for _, raw := range []string{"shipped", "done", "", "pending2"} {
			_, err := Parse(raw)
			require.Error(t, err)
			assert.True(t, httperror.IsHTTPError(err))
			assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		}
	})
}

func TestIsPending(t *testing.T) {
	assert.True(t, Pending.IsPending())
	assert.True(t, Culling.IsPending())
	assert.True(t, Processing.IsPending())
	assert.False(t, Sent.IsPending())
	assert.False(t, Purchased.IsPending())
	assert.False(t, NotShot.IsPending())
	assert.False(t, NeedsResearch.IsPending())
}
