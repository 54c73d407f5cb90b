package redis

import (
	"encoding/json"
	"fmt"

	"github.com/saratovsource/batch/internal/domain"
)

// envelope is the wire format stored in Redis: unlike AMQP, Redis has no
// message-header concept, so Properties travel alongside the payload in
// a single JSON blob.
type envelope struct {
	Props domain.Properties `json:"props"`
	Body  []byte            `json:"body"`
}

func (e envelope) marshal() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("redis: marshal envelope: %w", err)
	}
	return string(b), nil
}

func unmarshalEnvelope(raw string) (envelope, error) {
	var e envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return envelope{}, fmt.Errorf("redis: unmarshal envelope: %w", err)
	}
	return e, nil
}
