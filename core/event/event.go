package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is one notification carried by a Bus. Name is the discriminator that
// selects the handlers an event is dispatched to.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates an Event with a generated ID and timestamp.
// The name is derived from the payload type.
//
// Example:
//
//	type LessonAdded struct {
//	    ID          int
//	    Description string
//	}
//
//	evt := event.NewEvent(LessonAdded{ID: 1, Description: "Intro"})
//	// evt.Name == "LessonAdded"
func NewEvent(payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Name:      getEventName(payload),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
