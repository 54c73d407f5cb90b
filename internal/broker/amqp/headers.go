package amqp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/saratovsource/batch/internal/domain"
)

// Wire header names, matching spec.md §6's envelope exactly.
const (
	headerLang      = "lang"
	headerTask      = "task"
	headerID        = "id"
	headerRootID    = "root_id"
	headerParentID  = "parent_id"
	headerGroup     = "group"
	headerTimelimit = "timelimit"
)

func propsToHeaders(p domain.Properties) amqp091.Table {
	t := amqp091.Table{
		headerLang: p.Lang,
		headerTask: p.Task,
		headerID:   p.ID.String(),
	}
	if p.RootID != nil {
		t[headerRootID] = p.RootID.String()
	}
	if p.ParentID != nil {
		t[headerParentID] = p.ParentID.String()
	}
	if p.Group != nil {
		t[headerGroup] = p.Group.String()
	}
	if p.Timelimit.Hard != nil {
		t[headerTimelimit] = p.Timelimit.Hard.String()
	}
	return t
}

func headersToProps(d amqp091.Delivery) (domain.Properties, error) {
	props := domain.Properties{
		ContentType:     d.ContentType,
		ContentEncoding: d.ContentEncoding,
		Priority:        domain.Priority(d.Priority),
	}

	if lang, ok := d.Headers[headerLang].(string); ok {
		props.Lang = lang
	}
	if task, ok := d.Headers[headerTask].(string); ok {
		props.Task = task
	}

	idStr, _ := d.Headers[headerID].(string)
	if idStr == "" {
		idStr = d.CorrelationId
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.Properties{}, fmt.Errorf("amqp: parse id header %q: %w", idStr, err)
	}
	props.ID = id

	if root, ok := d.Headers[headerRootID].(string); ok && root != "" {
		if parsed, err := uuid.Parse(root); err == nil {
			props.RootID = &parsed
		}
	}
	if parent, ok := d.Headers[headerParentID].(string); ok && parent != "" {
		if parsed, err := uuid.Parse(parent); err == nil {
			props.ParentID = &parsed
		}
	}
	if group, ok := d.Headers[headerGroup].(string); ok && group != "" {
		if parsed, err := uuid.Parse(group); err == nil {
			props.Group = &parsed
		}
	}
	if hard, ok := d.Headers[headerTimelimit].(string); ok && hard != "" {
		if parsed, err := time.ParseDuration(hard); err == nil {
			props.Timelimit.Hard = &parsed
		}
	}

	return props, nil
}
