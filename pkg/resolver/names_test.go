package resolver

import (
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		first   string
		last    string
		wantErr bool
	}{
		{"simple name", "Amy Yang", "Amy", "Yang", false},
		{"multi-word surname", "Mary Van Der Berg", "Mary", "Van Der Berg", false},
		{"single token is a team", "GriffonGliders", "Team", "GriffonGliders", false},
		{"extra whitespace", "  Amy   Yang ", "Amy", "Yang", false},
		{"empty", "   ", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.first, parsed.First)
			assert.Equal(t, tt.last, parsed.Last)
		})
	}
}

func TestSplitSkaterNames(t *testing.T) {
	assert.Equal(t, []string{"Amy Yang", "Ben He"}, SplitSkaterNames("Amy Yang & Ben He"))
	assert.Equal(t, []string{"Amy Yang", "Ben He"}, SplitSkaterNames("Amy Yang and Ben He"))
	assert.Equal(t, []string{"Amy Yang", "Ben He"}, SplitSkaterNames("Amy Yang / Ben He"))
	assert.Equal(t, []string{"Amy Yang"}, SplitSkaterNames("Amy Yang"))
	assert.Nil(t, SplitSkaterNames("  & "))
}

func TestSignupAffirmative(t *testing.T) {
	for _, yes := range []string{"TRUE", "true", "Yes", "y", "1", "x", "VIP", "vip - gold"} {
		assert.True(t, SignupAffirmative(yes), "input %q", yes)
	}
	for _, no := range []string{"", "false", "no", "0", "maybe"} {
		assert.False(t, SignupAffirmative(no), "input %q", no)
	}
}
