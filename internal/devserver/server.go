// Package devserver is an in-memory implementation of the events REST API
// for local development and tests.
package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/naveenspark/eventdesk/internal/lib/logger/sl"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

type ctxKey struct{}

type messageResponse struct {
	Message string `json:"message"`
}

type createEventRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date" validate:"required"`
	Location        string    `json:"location" validate:"required"`
	MaxParticipants int       `json:"maxParticipants" validate:"gt=0"`
	CreatedBy       string    `json:"createdBy"`
}

type registerRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type server struct {
	store    *Store
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New returns the API router over store.
func New(log *slog.Logger, store *Store) http.Handler {
	s := &server{
		store:    store,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(newLogger(log))
	router.Use(middleware.Recoverer)

	router.Post("/users/register", s.signup)
	router.Post("/users/login", s.login)

	router.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/events/create", s.createEvent)
		r.Get("/events", s.listEvents)
		r.Post("/events/{id}/register", s.register)
		r.Get("/events/{id}/registered-users", s.members)
	})

	return router
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, messageResponse{Message: msg})
}

func (s *server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeMessage(w, r, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		userID, ok := s.store.UserForToken(token)
		if !ok {
			writeMessage(w, r, http.StatusUnauthorized, "Token is not valid")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func userFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (s *server) signup(w http.ResponseWriter, r *http.Request) {
	const op = "devserver.signup"
	log := s.log.With(slog.String("op", op))

	var req domain.SignupForm
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		writeMessage(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	token, err := s.store.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeMessage(w, r, http.StatusConflict, "User already exists")
			return
		}
		log.Error("failed to create user", sl.Err(err))
		writeMessage(w, r, http.StatusInternalServerError, "failed to create user")
		return
	}

	log.Info("user registered", slog.String("email", req.Email))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"token": token})
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginForm
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	userID, token, err := s.store.Login(req.Email, req.Password)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Invalid credentials")
		return
	}

	render.JSON(w, r, map[string]any{
		"user":  map[string]string{"_id": userID},
		"token": token,
	})
}

func (s *server) createEvent(w http.ResponseWriter, r *http.Request) {
	const op = "devserver.createEvent"
	log := s.log.With(slog.String("op", op))

	var req createEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		writeMessage(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !req.Date.After(s.now()) {
		writeMessage(w, r, http.StatusBadRequest, "Event date must be in the future")
		return
	}

	ev := s.store.CreateEvent(domain.Event{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date.UTC(),
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       userFrom(r),
	})

	log.Info("event added", slog.String("id", ev.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ev)
}

func (s *server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	events, totalPages := s.store.ListEvents(page, limit, q.Get("search"))
	render.JSON(w, r, map[string]any{
		"events":     events,
		"totalPages": totalPages,
	})
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	const op = "devserver.register"
	log := s.log.With(slog.String("op", op))

	var req registerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "userId is required")
		return
	}
	if req.UserID != userFrom(r) {
		writeMessage(w, r, http.StatusForbidden, "Cannot register another user")
		return
	}

	eventID := chi.URLParam(r, "id")
	switch err := s.store.Register(eventID, req.UserID); {
	case errors.Is(err, ErrEventNotFound):
		writeMessage(w, r, http.StatusNotFound, "Event not found")
		return
	case errors.Is(err, ErrAlreadyRegistered):
		writeMessage(w, r, http.StatusConflict, "Already registered for this event")
		return
	case errors.Is(err, ErrEventFull):
		writeMessage(w, r, http.StatusConflict, "Event is full")
		return
	}

	log.Info("registration added", slog.String("event_id", eventID))
	writeMessage(w, r, http.StatusOK, "Registered successfully")
}

func (s *server) members(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.Members(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, "Event not found")
		return
	}
	render.JSON(w, r, map[string]any{"users": members})
}
