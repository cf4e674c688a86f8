package events

import (
	"context"
	"time"
)

const (
	NoteCreated     = "note.created"
	NoteUpdated     = "note.updated"
	NoteDeleted     = "note.deleted"
	CategoryCreated = "category.created"
	UserRegistered  = "user.registered"
)

// Event is a domain change announced after it has been committed.
type Event struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	SubjectID  int64     `json:"subject_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(eventType string, userID, subjectID int64) Event {
	return Event{
		Type:       eventType,
		UserID:     userID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
