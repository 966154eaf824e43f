package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on the lifecycle topic.
const (
	TypeArticleCreated = "article.created"
	TypeArticleUpdated = "article.updated"
	TypeArticleDeleted = "article.deleted"
	TypeSpaceCreated   = "space.created"
	TypeSpaceDeleted   = "space.deleted"
	TypeUserSynced     = "user.synced"
)

// Event is a lifecycle integration event. Publishing is best effort:
// a lost event never fails the operation that produced it.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent builds an Event with a fresh id and timestamp.
func NewEvent(eventType, entityID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
