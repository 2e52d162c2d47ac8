// Package service implements the event operations the dashboard issues:
// querying, creating, registering, listing members, and logging in.
package service

import (
	"log/slog"
	"time"

	"github.com/naveenspark/eventdesk/internal/lib/logger/sl"
	"github.com/naveenspark/eventdesk/internal/session"
	"github.com/naveenspark/eventdesk/pkg/client"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Services bundles every service over one client and session store.
type Services struct {
	Query    *EventQuery
	Mutation *EventMutation
	Members  *Members
	Auth     *Auth
	Session  session.Store
}

// New wires all services to c and store.
func New(c *client.Client, store session.Store, log *slog.Logger) *Services {
	return &Services{
		Query:    NewEventQuery(c, store, log),
		Mutation: NewEventMutation(c, store, log, time.Now),
		Members:  NewMembers(c, store, log),
		Auth:     NewAuth(c, store, log),
		Session:  store,
	}
}

// fail converts err into a Failure for op. A 401 clears the stored session
// so the next screen is the login form.
func fail(log *slog.Logger, store session.Store, op Op, err error) error {
	log.Error("request failed", sl.Err(err))
	if store != nil && IsAuthFailure(err) {
		if clearErr := store.Clear(); clearErr != nil {
			log.Error("failed to clear session", sl.Err(clearErr))
		}
	}
	return newFailure(op, err)
}
