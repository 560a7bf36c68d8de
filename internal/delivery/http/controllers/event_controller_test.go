package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventlistings/internal/delivery/http/helpers"
	"eventlistings/internal/delivery/http/middleware"
	"eventlistings/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createEvent *domain.Event
	createErr   error
	lastCreator string
	lastInput   domain.EventInput

	getEvent *domain.Event
	getErr   error

	listEvents   []*domain.Event
	listErr      error
	lastTags     []string
	lastUpcoming bool

	updateEvent *domain.Event
	updateErr   error
	lastActorID string

	deleteErr error
}

func (f *fakeEventService) Create(ctx context.Context, organizerID string, input domain.EventInput) (*domain.Event, error) {
	f.lastCreator = organizerID
	f.lastInput = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createEvent, nil
}

func (f *fakeEventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getEvent, nil
}

func (f *fakeEventService) List(ctx context.Context, tagNames []string, upcomingOnly bool) ([]*domain.Event, error) {
	f.lastTags = tagNames
	f.lastUpcoming = upcomingOnly
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listEvents, nil
}

func (f *fakeEventService) Update(ctx context.Context, id, actorID string, input domain.EventInput) (*domain.Event, error) {
	f.lastActorID = actorID
	f.lastInput = input
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateEvent, nil
}

func (f *fakeEventService) Delete(ctx context.Context, id, actorID string) error {
	f.lastActorID = actorID
	return f.deleteErr
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleEvent() *domain.Event {
	date := time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:          "ev-1",
		Title:       "Go Meetup",
		Description: "Monthly meetup",
		Date:        date,
		Location:    "Berlin",
		TicketPrice: 10,
		Tags:        []string{"community", "go"},
		OrganizerID: "user-1",
		CreatedAt:   date.Add(-30 * 24 * time.Hour),
		UpdatedAt:   date.Add(-30 * 24 * time.Hour),
	}
}

func TestEventController_Create(t *testing.T) {
	validBody := `{"title":"Go Meetup","description":"Monthly meetup","date":"2025-09-01T19:00:00Z","location":"Berlin","ticket_price":10,"tags":["go","community"]}`

	tests := []struct {
		name          string
		body          string
		contextUserID string
		fake          *fakeEventService
		wantStatus    int
		wantBodyCode  string
		assert        func(t *testing.T, fake *fakeEventService, envelope helpers.APIResponse)
	}{
		{
			name:          "success",
			body:          validBody,
			contextUserID: "user-1",
			fake:          &fakeEventService{createEvent: sampleEvent()},
			wantStatus:    http.StatusCreated,
			assert: func(t *testing.T, fake *fakeEventService, envelope helpers.APIResponse) {
				assert.Equal(t, "user-1", fake.lastCreator)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var e domain.Event
				require.NoError(t, json.Unmarshal(dataBytes, &e))
				assert.Equal(t, "ev-1", e.ID)
				assert.Equal(t, "user-1", e.OrganizerID)
			},
		},
		{
			name:          "organizer in body is ignored",
			body:          `{"title":"Go Meetup","date":"2025-09-01T19:00:00Z","organizer":"user-99"}`,
			contextUserID: "user-1",
			fake:          &fakeEventService{createEvent: sampleEvent()},
			wantStatus:    http.StatusCreated,
			assert: func(t *testing.T, fake *fakeEventService, envelope helpers.APIResponse) {
				assert.Equal(t, "user-1", fake.lastCreator, "organizer comes from the token, not the body")
			},
		},
		{
			name:          "invalid json",
			body:          `{invalid`,
			contextUserID: "user-1",
			fake:          &fakeEventService{},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "unknown field rejected",
			body:          `{"title":"Go Meetup","date":"2025-09-01T19:00:00Z","bogus":true}`,
			contextUserID: "user-1",
			fake:          &fakeEventService{},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "missing title",
			body:          `{"date":"2025-09-01T19:00:00Z"}`,
			contextUserID: "user-1",
			fake:          &fakeEventService{},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "negative ticket price",
			body:          `{"title":"Go Meetup","date":"2025-09-01T19:00:00Z","ticket_price":-5}`,
			contextUserID: "user-1",
			fake:          &fakeEventService{},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "past date rejected by service",
			body:          validBody,
			contextUserID: "user-1",
			fake:          &fakeEventService{createErr: &domain.ValidationError{Field: "date", Reason: "date must be in the future"}},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "no user in context",
			body:          validBody,
			contextUserID: "",
			fake:          &fakeEventService{},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
		{
			name:          "service error",
			body:          validBody,
			contextUserID: "user-1",
			fake:          &fakeEventService{createErr: assert.AnError},
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.Create(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			if tt.assert != nil {
				tt.assert(t, tt.fake, envelope)
			}
		})
	}
}

func TestEventController_List(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		fake         *fakeEventService
		wantStatus   int
		wantBodyCode string
		assert       func(t *testing.T, fake *fakeEventService, envelope helpers.APIResponse)
	}{
		{
			name:       "success",
			url:        "http://test/events",
			fake:       &fakeEventService{listEvents: []*domain.Event{sampleEvent()}},
			wantStatus: http.StatusOK,
			assert: func(t *testing.T, fake *fakeEventService, envelope helpers.APIResponse) {
				assert.Empty(t, fake.lastTags)
				assert.False(t, fake.lastUpcoming)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var data ListEventsResponse
				require.NoError(t, json.Unmarshal(dataBytes, &data))
				require.Len(t, data.Events, 1)
				assert.Equal(t, "Go Meetup", data.Events[0].Title)
			},
		},
		{
			name:       "tags and upcoming forwarded",
			url:        "http://test/events?tags=go&tags=music&tags=go&upcoming",
			fake:       &fakeEventService{listEvents: []*domain.Event{sampleEvent()}},
			wantStatus: http.StatusOK,
			assert: func(t *testing.T, fake *fakeEventService, envelope helpers.APIResponse) {
				assert.Equal(t, []string{"go", "music"}, fake.lastTags)
				assert.True(t, fake.lastUpcoming)
			},
		},
		{
			name:         "no events is 404",
			url:          "http://test/events",
			fake:         &fakeEventService{listErr: domain.ErrNoEvents},
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "service error",
			url:          "http://test/events",
			fake:         &fakeEventService{listErr: assert.AnError},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
			rr := httptest.NewRecorder()

			ctrl.List(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			if tt.assert != nil {
				tt.assert(t, tt.fake, envelope)
			}
		})
	}
}

func TestEventController_Get(t *testing.T) {
	tests := []struct {
		name         string
		eventID      string
		fake         *fakeEventService
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			eventID:    "ev-1",
			fake:       &fakeEventService{getEvent: sampleEvent()},
			wantStatus: http.StatusOK,
		},
		{
			name:         "not found",
			eventID:      "ev-missing",
			fake:         &fakeEventService{getErr: domain.ErrNotFound},
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "service error",
			eventID:      "ev-1",
			fake:         &fakeEventService{getErr: assert.AnError},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodGet, "http://test/events/"+tt.eventID, nil)
			req.SetPathValue("eventID", tt.eventID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
			rr := httptest.NewRecorder()

			ctrl.Get(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
		})
	}
}

func TestEventController_Update(t *testing.T) {
	validBody := `{"title":"Go Meetup Berlin","description":"Rescheduled","date":"2025-10-01T19:00:00Z","location":"Hamburg","ticket_price":15,"tags":["go"]}`

	tests := []struct {
		name          string
		contextUserID string
		body          string
		fake          *fakeEventService
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success",
			contextUserID: "user-1",
			body:          validBody,
			fake:          &fakeEventService{updateEvent: sampleEvent()},
			wantStatus:    http.StatusOK,
		},
		{
			name:          "validation error from service",
			contextUserID: "user-1",
			body:          validBody,
			fake:          &fakeEventService{updateErr: &domain.ValidationError{Field: "title", Reason: "an event with this title already exists"}},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "not found",
			contextUserID: "user-1",
			body:          validBody,
			fake:          &fakeEventService{updateErr: domain.ErrNotFound},
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "forbidden for non organizer",
			contextUserID: "user-2",
			body:          validBody,
			fake:          &fakeEventService{updateErr: domain.ErrForbidden},
			wantStatus:    http.StatusForbidden,
			wantBodyCode:  helpers.ErrCodeForbidden,
		},
		{
			name:          "invalid body",
			contextUserID: "user-1",
			body:          `{"title":""}`,
			fake:          &fakeEventService{},
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "no user in context",
			contextUserID: "",
			body:          validBody,
			fake:          &fakeEventService{},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPut, "http://test/events/ev-1", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", "ev-1")
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.Update(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
		})
	}
}

func TestEventController_Delete(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		fake          *fakeEventService
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success is 204 with empty body",
			contextUserID: "user-1",
			fake:          &fakeEventService{},
			wantStatus:    http.StatusNoContent,
		},
		{
			name:          "not found",
			contextUserID: "user-1",
			fake:          &fakeEventService{deleteErr: domain.ErrNotFound},
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "forbidden for non organizer",
			contextUserID: "user-2",
			fake:          &fakeEventService{deleteErr: domain.ErrForbidden},
			wantStatus:    http.StatusForbidden,
			wantBodyCode:  helpers.ErrCodeForbidden,
		},
		{
			name:          "no user in context",
			contextUserID: "",
			fake:          &fakeEventService{},
			wantStatus:    http.StatusUnauthorized,
			wantBodyCode:  helpers.ErrCodeUnauthorized,
		},
		{
			name:          "service error",
			contextUserID: "user-1",
			fake:          &fakeEventService{deleteErr: assert.AnError},
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodDelete, "http://test/events/ev-1", nil)
			req.SetPathValue("eventID", "ev-1")
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.Delete(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, "user-1", tt.fake.lastActorID)
				assert.Empty(t, rr.Body.String())
				return
			}
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}
