package kafka

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/8agana/photography-mind/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Trace context (extracted from Kafka headers)
	TraceParent string
	TraceState  string
}

// ImportMessage is the envelope for roster imports arriving over Kafka.
// External schedulers drop a full competition roster on the topic and the
// consumer feeds it through the import pipeline.
type ImportMessage struct {
	Competition string                `json:"competition"`
	DryRun      bool                  `json:"dry_run,omitempty"`
	Records     []models.RosterRecord `json:"records"`
}

// IsImportMessage checks the message type header before paying for a full parse
func (m *IncomingMessage) IsImportMessage() bool {
	if msgType := m.Headers["type"]; msgType != "" {
		return msgType == "roster.import"
	}
	return true
}

// ParseImportMessage parses the message value as a roster import
func (m *IncomingMessage) ParseImportMessage() (*ImportMessage, error) {
	var msg ImportMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return nil, errors.Wrap(err, "failed to parse import message")
	}

	if msg.Competition == "" {
		return nil, errors.New("import message has no competition")
	}
	if len(msg.Records) == 0 {
		return nil, errors.New("import message has no records")
	}

	return &msg, nil
}
