package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/eventdesk/internal/lib/logger/handlers/slogdiscard"
	"github.com/naveenspark/eventdesk/internal/service"
	"github.com/naveenspark/eventdesk/internal/session"
	"github.com/naveenspark/eventdesk/pkg/client"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// listCall records one GET /events the fake backend served.
type listCall struct {
	page   int
	limit  int
	search string
	auth   string
}

// fakeBackend serves a fixed catalogue of events split into pages of two.
type fakeBackend struct {
	mu         sync.Mutex
	lists      []listCall
	creates    int
	registers  int
	memberGets int

	failList     bool
	failRegister bool
	failMembers  bool
	unauthorized bool
	members      []domain.Member
}

func (b *fakeBackend) listCalls() []listCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]listCall(nil), b.lists...)
}

func (b *fakeBackend) counts() (creates, registers, memberGets int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.creates, b.registers, b.memberGets
}

func pageEvents(page int) []domain.Event {
	return []domain.Event{
		{ID: fmt.Sprintf("p%d-a", page), Title: fmt.Sprintf("Page %d first", page), Location: "Hall", MaxParticipants: 5},
		{ID: fmt.Sprintf("p%d-b", page), Title: fmt.Sprintf("Page %d second", page), Location: "Hall", MaxParticipants: 5},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // test helper
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unauthorized && r.URL.Path != "/users/login" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is not valid"})
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/users/login":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck // test helper
		if body["password"] != "secret1" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-1", "user": map[string]string{"_id": "u1"}})

	case r.Method == http.MethodGet && r.URL.Path == "/events":
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		b.lists = append(b.lists, listCall{page: page, limit: limit, search: q.Get("search"), auth: r.Header.Get("Authorization")})
		if b.failList {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "database down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": pageEvents(page), "totalPages": 3})

	case r.Method == http.MethodPost && r.URL.Path == "/events/create":
		b.creates++
		var ev domain.Event
		json.NewDecoder(r.Body).Decode(&ev) //nolint:errcheck // test helper
		ev.ID = "new-1"
		writeJSON(w, http.StatusCreated, ev)

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/register"):
		b.registers++
		if b.failRegister {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Event is full"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})

	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/registered-users"):
		b.memberGets++
		if b.failMembers {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stack trace here"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": b.members})

	default:
		http.NotFound(w, r)
	}
}

type testEnv struct {
	backend *fakeBackend
	store   *session.MemoryStore
	svc     *service.Services
}

func newTestEnv(t *testing.T, sess domain.Session) *testEnv {
	t.Helper()
	b := &fakeBackend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore(sess)
	c := client.New(srv.URL, store, 5*time.Second)
	return &testEnv{
		backend: b,
		store:   store,
		svc:     service.New(c, store, slogdiscard.NewDiscardLogger()),
	}
}

var testOptions = Options{PageSize: 10, SearchDebounce: 0, NoticeTTL: 0}

var loggedIn = domain.Session{Token: "tok-1", UserID: "u1"}

// newTestDashboard returns a dashboard that has applied its mount query.
func newTestDashboard(t *testing.T, env *testEnv) dashboardModel {
	t.Helper()
	m := newDashboardModel(env.svc, slogdiscard.NewDiscardLogger(), testOptions, 1)
	m.width = 120
	m.height = 30
	cmd := m.Init()
	return feed(t, m, cmd)
}

// runCmd executes cmd and flattens batches into the produced messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed runs cmd and applies every resulting message, following any
// commands those messages return.
func feed(t *testing.T, m dashboardModel, cmd tea.Cmd) dashboardModel {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		var next tea.Cmd
		m, next = m.Update(msg)
		m = feed(t, m, next)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends each rune of s as its own key press.
func typeText(m dashboardModel, s string) dashboardModel {
	for _, r := range s {
		m, _ = m.Update(key(string(r)))
	}
	return m
}
