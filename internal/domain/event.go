package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for event operations.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrNoEvents       = errors.New("no event records available")
	ErrDuplicateTitle = errors.New("title already in use")
)

// ValidationError reports which field of an event payload was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Event represents a published event listing. OrganizerID is set once at creation
// and never reassigned.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	TicketPrice float64   `json:"ticket_price"`
	Tags        []string  `json:"tags"`
	OrganizerID string    `json:"organizer"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsUpcoming reports whether the event's date is strictly after the given time.
// The upcoming/past state is derived, never stored.
func (e *Event) IsUpcoming(at time.Time) bool {
	return e.Date.After(at)
}

// CanMutate reports whether the actor may update or delete the event.
// Only the organizer holds mutation rights; reads need authentication only.
func CanMutate(actorID string, e *Event) bool {
	return actorID == e.OrganizerID
}

// EventInput carries the caller-supplied fields for create and update.
// Updates apply a full replace of these fields; the organizer is never part of it.
type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	TicketPrice float64
	Tags        []string
}

// EventFilter restricts List queries. TagNames filters to events whose tag set
// intersects the given names (OR semantics); nil or empty means no tag filtering.
// After, when set, keeps only events dated strictly after it.
type EventFilter struct {
	TagNames []string
	After    *time.Time
}

// EventRepository defines the interface for event storage. Implementations surface
// a title uniqueness violation as ErrDuplicateTitle and a missing row as ErrNotFound.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the event lifecycle: validated create/read/update/delete/list
// with organizer-only mutation. The actor is always passed explicitly.
type EventService interface {
	Create(ctx context.Context, organizerID string, input EventInput) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, tagNames []string, upcomingOnly bool) ([]*Event, error)
	Update(ctx context.Context, id, actorID string, input EventInput) (*Event, error)
	Delete(ctx context.Context, id, actorID string) error
}
