package service

import (
	"context"

	"github.com/naveenspark/eventdesk/pkg/client"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// EventAPI is the subset of *client.Client the event services use.
type EventAPI interface {
	ListEvents(ctx context.Context, page, limit int, search string) (*domain.EventPage, error)
	CreateEvent(ctx context.Context, req client.CreateEventRequest) (*domain.Event, error)
	RegisterForEvent(ctx context.Context, eventID, userID string) error
	RegisteredUsers(ctx context.Context, eventID string) ([]domain.Member, error)
}

// AuthAPI is the subset of *client.Client the auth service uses.
type AuthAPI interface {
	Login(ctx context.Context, form domain.LoginForm) (domain.Session, error)
	Signup(ctx context.Context, form domain.SignupForm) (string, error)
}

var (
	_ EventAPI = (*client.Client)(nil)
	_ AuthAPI  = (*client.Client)(nil)
)
