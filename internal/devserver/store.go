package devserver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naveenspark/eventdesk/pkg/domain"
)

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrBadCredentials    = errors.New("invalid credentials")
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
)

type user struct {
	id       string
	name     string
	email    string
	passHash string
}

// Store is the in-memory state of the development backend.
type Store struct {
	mu            sync.Mutex
	users         map[string]*user // by id
	byEmail       map[string]string
	tokens        map[string]string // token -> user id
	events        []domain.Event
	registrations map[string][]string // event id -> user ids
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*user),
		byEmail:       make(map[string]string),
		tokens:        make(map[string]string),
		registrations: make(map[string][]string),
	}
}

func hashPassword(p string) string {
	sum := sha256.Sum256([]byte(p))
	return hex.EncodeToString(sum[:])
}

// CreateUser adds an account and returns a fresh token for it.
func (s *Store) CreateUser(name, email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	if _, ok := s.byEmail[email]; ok {
		return "", ErrEmailTaken
	}
	u := &user{id: uuid.NewString(), name: name, email: email, passHash: hashPassword(password)}
	s.users[u.id] = u
	s.byEmail[email] = u.id

	token := uuid.NewString()
	s.tokens[token] = u.id
	return token, nil
}

// Login returns the user id and a new token.
func (s *Store) Login(email, password string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok || s.users[id].passHash != hashPassword(password) {
		return "", "", ErrBadCredentials
	}
	token := uuid.NewString()
	s.tokens[token] = id
	return id, token, nil
}

// UserForToken resolves a bearer token.
func (s *Store) UserForToken(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	return id, ok
}

// CreateEvent appends ev with a new id.
func (s *Store) CreateEvent(ev domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = uuid.NewString()
	s.events = append(s.events, ev)
	return ev
}

// ListEvents returns one page of events whose title, description or
// location contains search (case-insensitive), ordered by date.
func (s *Store) ListEvents(page, limit int, search string) ([]domain.Event, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	matched := make([]domain.Event, 0, len(s.events))
	for _, ev := range s.events {
		if needle == "" ||
			strings.Contains(strings.ToLower(ev.Title), needle) ||
			strings.Contains(strings.ToLower(ev.Description), needle) ||
			strings.Contains(strings.ToLower(ev.Location), needle) {
			matched = append(matched, ev)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })

	totalPages := (len(matched) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []domain.Event{}, totalPages
	}
	end := min(start+limit, len(matched))
	return matched[start:end], totalPages
}

// Register records userID as attending eventID.
func (s *Store) Register(eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ev *domain.Event
	for i := range s.events {
		if s.events[i].ID == eventID {
			ev = &s.events[i]
			break
		}
	}
	if ev == nil {
		return ErrEventNotFound
	}
	regs := s.registrations[eventID]
	for _, id := range regs {
		if id == userID {
			return ErrAlreadyRegistered
		}
	}
	if ev.MaxParticipants > 0 && len(regs) >= ev.MaxParticipants {
		return ErrEventFull
	}
	s.registrations[eventID] = append(regs, userID)
	return nil
}

// Members returns the registered users of eventID in registration order.
func (s *Store) Members(eventID string) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, ev := range s.events {
		if ev.ID == eventID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrEventNotFound
	}
	out := make([]domain.Member, 0, len(s.registrations[eventID]))
	for _, id := range s.registrations[eventID] {
		u := s.users[id]
		out = append(out, domain.Member{ID: u.id, Name: u.name, Email: u.email})
	}
	return out, nil
}

// Seed adds n sample events spread over the coming weeks.
func (s *Store) Seed(n int, createdBy string, now time.Time) {
	cities := []string{"Berlin", "Lisbon", "Austin", "Kyoto", "Nairobi"}
	kinds := []string{"Go meetup", "Conference", "Workshop", "Hack night"}
	for i := 0; i < n; i++ {
		s.CreateEvent(domain.Event{
			Title:           kinds[i%len(kinds)] + " #" + strconv.Itoa(i+1),
			Description:     "Sample event for local development",
			Date:            now.Add(time.Duration(i+1) * 24 * time.Hour).UTC(),
			Location:        cities[i%len(cities)],
			MaxParticipants: 5 + i%20,
			CreatedBy:       createdBy,
		})
	}
}
