package kafka

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/saratovsource/batch/internal/domain"
)

// Record headers carry the same property set as the AMQP adapter's
// message headers; Kafka headers are just key/value byte pairs rather
// than a typed table, so every value is stored as a plain string.
const (
	headerLang      = "lang"
	headerTask      = "task"
	headerID        = "id"
	headerRootID    = "root_id"
	headerParentID  = "parent_id"
	headerGroup     = "group"
	headerTimelimit = "timelimit"
)

func propsToHeaders(p domain.Properties) []kgo.RecordHeader {
	headers := []kgo.RecordHeader{
		{Key: headerLang, Value: []byte(p.Lang)},
		{Key: headerTask, Value: []byte(p.Task)},
		{Key: headerID, Value: []byte(p.ID.String())},
	}
	if p.RootID != nil {
		headers = append(headers, kgo.RecordHeader{Key: headerRootID, Value: []byte(p.RootID.String())})
	}
	if p.ParentID != nil {
		headers = append(headers, kgo.RecordHeader{Key: headerParentID, Value: []byte(p.ParentID.String())})
	}
	if p.Group != nil {
		headers = append(headers, kgo.RecordHeader{Key: headerGroup, Value: []byte(p.Group.String())})
	}
	if p.Timelimit.Hard != nil {
		headers = append(headers, kgo.RecordHeader{Key: headerTimelimit, Value: []byte(p.Timelimit.Hard.String())})
	}
	return headers
}

func headersToProps(record *kgo.Record) (domain.Properties, error) {
	props := domain.Properties{ContentType: "application/octet-stream"}
	lookup := make(map[string]string, len(record.Headers))
	for _, h := range record.Headers {
		lookup[h.Key] = string(h.Value)
	}

	props.Lang = lookup[headerLang]
	props.Task = lookup[headerTask]

	idStr := lookup[headerID]
	if idStr == "" {
		idStr = string(record.Key)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.Properties{}, fmt.Errorf("kafka: parse id header %q: %w", idStr, err)
	}
	props.ID = id

	if root := lookup[headerRootID]; root != "" {
		if parsed, err := uuid.Parse(root); err == nil {
			props.RootID = &parsed
		}
	}
	if parent := lookup[headerParentID]; parent != "" {
		if parsed, err := uuid.Parse(parent); err == nil {
			props.ParentID = &parsed
		}
	}
	if group := lookup[headerGroup]; group != "" {
		if parsed, err := uuid.Parse(group); err == nil {
			props.Group = &parsed
		}
	}
	if hard := lookup[headerTimelimit]; hard != "" {
		if parsed, err := time.ParseDuration(hard); err == nil {
			props.Timelimit.Hard = &parsed
		}
	}

	return props, nil
}
