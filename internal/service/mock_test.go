package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/naveenspark/eventdesk/pkg/client"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

type apiMock struct {
	mock.Mock
}

func (m *apiMock) ListEvents(ctx context.Context, page, limit int, search string) (*domain.EventPage, error) {
	args := m.Called(ctx, page, limit, search)
	p, _ := args.Get(0).(*domain.EventPage)
	return p, args.Error(1)
}

func (m *apiMock) CreateEvent(ctx context.Context, req client.CreateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, req)
	ev, _ := args.Get(0).(*domain.Event)
	return ev, args.Error(1)
}

func (m *apiMock) RegisterForEvent(ctx context.Context, eventID, userID string) error {
	return m.Called(ctx, eventID, userID).Error(0)
}

func (m *apiMock) RegisteredUsers(ctx context.Context, eventID string) ([]domain.Member, error) {
	args := m.Called(ctx, eventID)
	users, _ := args.Get(0).([]domain.Member)
	return users, args.Error(1)
}

func (m *apiMock) Login(ctx context.Context, form domain.LoginForm) (domain.Session, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *apiMock) Signup(ctx context.Context, form domain.SignupForm) (string, error) {
	args := m.Called(ctx, form)
	return args.String(0), args.Error(1)
}
