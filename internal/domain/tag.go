package domain

import "context"

// Tag represents a named label shared across events. Tags are created implicitly
// when an event references them and persist after the event is deleted.
// swagger:model Tag
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagRepository defines storage for tags and event-tag links.
type TagRepository interface {
	// EnsureTag resolves a tag by name, creating it if missing, and returns its ID.
	// Name matching is case-sensitive.
	EnsureTag(ctx context.Context, name string) (tagID string, err error)
	// ReplaceEventTags replaces all tag links for the given event with the given tag IDs.
	ReplaceEventTags(ctx context.Context, eventID string, tagIDs []string) error
	// ListNamesByEventID returns the names of all tags linked to the given event, sorted.
	ListNamesByEventID(ctx context.Context, eventID string) ([]string, error)
}
