package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/naveenspark/eventdesk/internal/session"
	"github.com/naveenspark/eventdesk/pkg/client"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// EventMutation creates events and registers the current user for them.
type EventMutation struct {
	api   EventAPI
	store session.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewEventMutation(api EventAPI, store session.Store, log *slog.Logger, now func() time.Time) *EventMutation {
	if now == nil {
		now = time.Now
	}
	return &EventMutation{api: api, store: store, log: log, now: now}
}

// Create validates form and, if valid, creates the event as the session user.
// A domain.ValidationErrors error means nothing was sent.
func (m *EventMutation) Create(ctx context.Context, form domain.EventForm) (*domain.Event, error) {
	const op = "service.EventMutation.Create"

	log := m.log.With(slog.String("op", op))

	if errs := form.Validate(m.now()); errs != nil {
		log.Debug("invalid event form", slog.Any("errors", map[string]string(errs)))
		return nil, errs
	}

	sess, ok := m.store.Session()
	if !ok {
		return nil, ErrUnauthenticated
	}

	// Validate guarantees both parse.
	date, _ := domain.ParseDate(form.Date)
	maxParticipants, _ := strconv.Atoi(strings.TrimSpace(form.MaxParticipants))

	ev, err := m.api.CreateEvent(ctx, client.CreateEventRequest{
		Title:           strings.TrimSpace(form.Title),
		Description:     strings.TrimSpace(form.Description),
		Date:            date.UTC(),
		Location:        strings.TrimSpace(form.Location),
		MaxParticipants: maxParticipants,
		CreatedBy:       sess.UserID,
	})
	if err != nil {
		return nil, fail(log, m.store, OpCreate, err)
	}

	log.Info("event created", slog.String("event_id", ev.ID))
	return ev, nil
}

// Register registers the session user for eventID.
func (m *EventMutation) Register(ctx context.Context, eventID string) error {
	const op = "service.EventMutation.Register"

	log := m.log.With(slog.String("op", op), slog.String("event_id", eventID))

	sess, ok := m.store.Session()
	if !ok {
		return ErrUnauthenticated
	}

	if err := m.api.RegisterForEvent(ctx, eventID, sess.UserID); err != nil {
		return fail(log, m.store, OpRegister, err)
	}

	log.Info("registered for event")
	return nil
}
