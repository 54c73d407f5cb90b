package amqp

import (
	"testing"
	"time"

	"github.com/google/uuid"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/saratovsource/batch/internal/domain"
)

func TestPropsToHeaders_RoundTrip(t *testing.T) {
	root := uuid.New()
	hard := 5 * time.Minute
	props := domain.Properties{
		Lang:            "go",
		Task:            "send-email",
		ID:              uuid.New(),
		RootID:          &root,
		Priority:        domain.PriorityHigh,
		ContentType:     "application/json",
		ContentEncoding: "utf-8",
		Timelimit:       domain.Timelimit{Hard: &hard},
	}

	headers := propsToHeaders(props)

	delivery := amqp091.Delivery{
		Headers:         headers,
		ContentType:     props.ContentType,
		ContentEncoding: props.ContentEncoding,
		Priority:        uint8(props.Priority),
		CorrelationId:   props.ID.String(),
	}

	got, err := headersToProps(delivery)
	if err != nil {
		t.Fatalf("headersToProps err: %v", err)
	}

	if got.Lang != props.Lang || got.Task != props.Task {
		t.Fatalf("lang/task mismatch: got %+v, want %+v", got, props)
	}
	if got.ID != props.ID {
		t.Fatalf("ID mismatch: got %v, want %v", got.ID, props.ID)
	}
	if got.RootID == nil || *got.RootID != *props.RootID {
		t.Fatalf("RootID mismatch: got %v, want %v", got.RootID, props.RootID)
	}
	if got.Priority != props.Priority {
		t.Fatalf("Priority mismatch: got %v, want %v", got.Priority, props.Priority)
	}
	if got.Timelimit.Hard == nil || *got.Timelimit.Hard != hard {
		t.Fatalf("Timelimit.Hard mismatch: got %v, want %v", got.Timelimit.Hard, hard)
	}
	if got.ParentID != nil || got.Group != nil {
		t.Fatalf("expected absent parent/group, got %+v", got)
	}
}

func TestHeadersToProps_FallsBackToCorrelationID(t *testing.T) {
	id := uuid.New()
	delivery := amqp091.Delivery{
		Headers:       amqp091.Table{},
		CorrelationId: id.String(),
	}

	got, err := headersToProps(delivery)
	if err != nil {
		t.Fatalf("headersToProps err: %v", err)
	}
	if got.ID != id {
		t.Fatalf("ID = %v, want %v", got.ID, id)
	}
}

func TestHeadersToProps_InvalidIDIsAnError(t *testing.T) {
	delivery := amqp091.Delivery{Headers: amqp091.Table{headerID: "not-a-uuid"}}
	if _, err := headersToProps(delivery); err == nil {
		t.Fatal("expected an error for an unparseable id")
	}
}

func TestClassifyDeclareErr_PreconditionFailedIsConflict(t *testing.T) {
	err := &amqp091.Error{Code: amqp091.PreconditionFailed, Reason: "inequivalent arg"}
	classified := classifyDeclareErr("q.test", err)
	var derr *domain.Error
	if de, ok := classified.(*domain.Error); !ok || de.Kind != domain.KindConflict {
		t.Fatalf("expected KindConflict, got %v", classified)
	} else {
		derr = de
	}
	_ = derr
}

func TestClassifyDeclareErr_OtherErrorsAreTransport(t *testing.T) {
	err := &amqp091.Error{Code: amqp091.AccessRefused, Reason: "denied"}
	classified := classifyDeclareErr("q.test", err)
	de, ok := classified.(*domain.Error)
	if !ok || de.Kind != domain.KindTransport {
		t.Fatalf("expected KindTransport, got %v", classified)
	}
}
