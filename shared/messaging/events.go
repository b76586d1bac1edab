package messaging

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/kacperborowieckb/gen-records/shared/contracts"
	"github.com/kacperborowieckb/gen-records/shared/records"
)

const (
	GeneratedRecordsQueue = "generated_records_queue"
)

// RecordsGeneratedEvent defines the payload for a records.generated event
type RecordsGeneratedEvent struct {
	SessionID   string            `json:"sessionId"`
	Schema      string            `json:"schema"`
	Prompt      string            `json:"prompt"`
	Count       int               `json:"count"`
	Records     []*records.Record `json:"records"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

func NewRecordsGeneratedEvent(sessionID, schemaPath, prompt string, set records.Set) RecordsGeneratedEvent {
	return RecordsGeneratedEvent{
		SessionID:   sessionID,
		Schema:      schemaPath,
		Prompt:      prompt,
		Count:       set.Count,
		Records:     set.Records,
		GeneratedAt: time.Now().UTC(),
	}
}

// NewAmqpMessage wraps the event into the envelope every message on the
// exchange carries.
func (e RecordsGeneratedEvent) NewAmqpMessage() (contracts.AmqpMessage, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return contracts.AmqpMessage{}, fmt.Errorf("failed to marshal RecordsGeneratedEvent: %w", err)
	}

	return contracts.AmqpMessage{
		OwnerId: e.SessionID,
		Data:    data,
	}, nil
}
