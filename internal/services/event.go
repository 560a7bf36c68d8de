package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"eventlistings/internal/domain"
)

const (
	maxTitleLen    = 150
	maxLocationLen = 150
)

type eventService struct {
	eventRepo      domain.EventRepository
	tagRepo        domain.TagRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService creates the event lifecycle service over the event and tag stores.
func NewEventService(eventRepo domain.EventRepository, tagRepo domain.TagRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		tagRepo:        tagRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID string, input domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizerID == "" {
		return nil, fmt.Errorf("event organizer is required")
	}
	now := s.now()
	if verr := validateEventInput(input, now, true); verr != nil {
		return nil, verr
	}

	tags := normalizeTags(input.Tags)
	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		TicketPrice: input.TicketPrice,
		Tags:        tags,
		OrganizerID: organizerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateTitle) {
			return nil, &domain.ValidationError{Field: "title", Reason: "an event with this title already exists"}
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	if err := s.linkTags(ctx, event.ID, tags); err != nil {
		return nil, fmt.Errorf("link tags: %w", err)
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// List returns events matching the tag filter (OR semantics) and, when upcomingOnly is
// set, only events dated strictly after now. An empty result is ErrNoEvents, which the
// delivery layer surfaces as a not-found condition rather than an empty page.
func (s *eventService) List(ctx context.Context, tagNames []string, upcomingOnly bool) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter := domain.EventFilter{TagNames: normalizeTags(tagNames)}
	if upcomingOnly {
		now := s.now()
		filter.After = &now
	}
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		return nil, domain.ErrNoEvents
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id, actorID string, input domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !domain.CanMutate(actorID, existing) {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	// An unchanged date is exempt from the future-date rule, so unrelated edits to an
	// event that has already happened stay possible.
	checkDate := !input.Date.Equal(existing.Date)
	if verr := validateEventInput(input, now, checkDate); verr != nil {
		return nil, verr
	}

	tags := normalizeTags(input.Tags)
	updated := &domain.Event{
		ID:          existing.ID,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		TicketPrice: input.TicketPrice,
		Tags:        tags,
		OrganizerID: existing.OrganizerID,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   now,
	}
	if err := s.eventRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, domain.ErrDuplicateTitle) {
			return nil, &domain.ValidationError{Field: "title", Reason: "an event with this title already exists"}
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := s.linkTags(ctx, updated.ID, tags); err != nil {
		return nil, fmt.Errorf("link tags: %w", err)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id, actorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !domain.CanMutate(actorID, event) {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// validateEventInput checks the constraints shared by create and update. All checks
// run before any write. checkDate is false only when an update leaves the date as-is.
func validateEventInput(in domain.EventInput, now time.Time, checkDate bool) *domain.ValidationError {
	if strings.TrimSpace(in.Title) == "" {
		return &domain.ValidationError{Field: "title", Reason: "title is required"}
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return &domain.ValidationError{Field: "title", Reason: fmt.Sprintf("title must be at most %d characters", maxTitleLen)}
	}
	if utf8.RuneCountInString(in.Location) > maxLocationLen {
		return &domain.ValidationError{Field: "location", Reason: fmt.Sprintf("location must be at most %d characters", maxLocationLen)}
	}
	if in.TicketPrice < 0 {
		return &domain.ValidationError{Field: "ticket_price", Reason: "ticket_price must not be negative"}
	}
	if checkDate {
		if in.Date.IsZero() {
			return &domain.ValidationError{Field: "date", Reason: "date is required"}
		}
		if !in.Date.After(now) {
			return &domain.ValidationError{Field: "date", Reason: "date must be in the future"}
		}
	}
	return nil
}

// normalizeTags trims, drops empties, dedups case-sensitively, and sorts.
func normalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *eventService) linkTags(ctx context.Context, eventID string, names []string) error {
	tagIDs := make([]string, 0, len(names))
	for _, name := range names {
		tagID, err := s.tagRepo.EnsureTag(ctx, name)
		if err != nil {
			return fmt.Errorf("ensure tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tagID)
	}
	return s.tagRepo.ReplaceEventTags(ctx, eventID, tagIDs)
}
