package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImportMessage(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{
			name:    "roster import header",
			headers: map[string]string{"type": "roster.import"},
			want:    true,
		},
		{
			name:    "other message type",
			headers: map[string]string{"type": "contact.sync"},
			want:    false,
		},
		{
			name:    "no type header assumes import",
			headers: map[string]string{},
			want:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := &IncomingMessage{Headers: tc.headers}
			assert.Equal(t, tc.want, msg.IsImportMessage())
		})
	}
}

func TestParseImportMessage(t *testing.T) {
	t.Run("parses a full roster payload", func(t *testing.T) {
		msg := &IncomingMessage{
			Value: []byte(`{
				"competition": "Cactus Classic 2025",
				"dry_run": true,
				"records": [
					{"skater_names": ["Amy Yang"], "sign_up": "TRUE", "email": "yang@example.com"}
				]
			}`),
		}

		parsed, err := msg.ParseImportMessage()
		require.NoError(t, err)
		assert.Equal(t, "Cactus Classic 2025", parsed.Competition)
		assert.True(t, parsed.DryRun)
		require.Len(t, parsed.Records, 1)
		assert.Equal(t, []string{"Amy Yang"}, parsed.Records[0].SkaterNames)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{"competition":`)}

		_, err := msg.ParseImportMessage()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse import message")
	})

	t.Run("rejects missing competition", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{"records": [{"skater_names": ["Amy Yang"]}]}`)}

		_, err := msg.ParseImportMessage()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no competition")
	})

	t.Run("rejects empty record set", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{"competition": "Cactus Classic 2025", "records": []}`)}

		_, err := msg.ParseImportMessage()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no records")
	})
}
