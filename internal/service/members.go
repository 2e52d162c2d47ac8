package service

import (
	"context"
	"log/slog"

	"github.com/naveenspark/eventdesk/internal/session"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// Members fetches the registered members of an event.
type Members struct {
	api   EventAPI
	store session.Store
	log   *slog.Logger
}

func NewMembers(api EventAPI, store session.Store, log *slog.Logger) *Members {
	return &Members{api: api, store: store, log: log}
}

// List returns the members of eventID in server order, never nil on success.
func (s *Members) List(ctx context.Context, eventID string) ([]domain.Member, error) {
	const op = "service.Members.List"

	log := s.log.With(slog.String("op", op), slog.String("event_id", eventID))

	if _, ok := s.store.Session(); !ok {
		return nil, ErrUnauthenticated
	}

	members, err := s.api.RegisteredUsers(ctx, eventID)
	if err != nil {
		return nil, fail(log, s.store, OpFetchMembers, err)
	}
	if members == nil {
		members = []domain.Member{}
	}
	return members, nil
}
