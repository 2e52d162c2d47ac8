package service

import (
	"context"
	"log/slog"

	"github.com/naveenspark/eventdesk/internal/session"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// EventQuery issues paginated, filtered event queries.
type EventQuery struct {
	api   EventAPI
	store session.Store
	log   *slog.Logger
}

func NewEventQuery(api EventAPI, store session.Store, log *slog.Logger) *EventQuery {
	return &EventQuery{api: api, store: store, log: log}
}

// Query fetches one page. The result always has Page >= 1 and
// TotalPages >= 1; items keep server order and never exceed pageSize.
func (q *EventQuery) Query(ctx context.Context, page, pageSize int, search string) (*domain.EventPage, error) {
	const op = "service.EventQuery.Query"

	log := q.log.With(
		slog.String("op", op),
		slog.Int("page", page),
		slog.String("search", search),
	)

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	res, err := q.api.ListEvents(ctx, page, pageSize, search)
	if err != nil {
		return nil, fail(log, q.store, OpQuery, err)
	}

	out := &domain.EventPage{
		Items:      res.Items,
		Page:       page,
		TotalPages: max(res.TotalPages, 1),
	}
	if out.Items == nil {
		out.Items = []domain.Event{}
	}
	if len(out.Items) > pageSize {
		log.Warn("server returned more items than requested", slog.Int("got", len(out.Items)))
		out.Items = out.Items[:pageSize]
	}

	log.Debug("events loaded", slog.Int("count", len(out.Items)), slog.Int("total_pages", out.TotalPages))
	return out, nil
}
