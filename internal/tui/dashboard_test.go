package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/eventdesk/internal/lib/logger/handlers/slogdiscard"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

func TestDashboardMountQueriesOnce(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	calls := env.backend.listCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 list call on mount, got %d", len(calls))
	}
	want := listCall{page: 1, limit: 10, search: "", auth: "Bearer tok-1"}
	if calls[0] != want {
		t.Errorf("mount call = %+v, want %+v", calls[0], want)
	}
	if m.listLoading {
		t.Error("expected listLoading=false after result applied")
	}
	if len(m.items) != 2 || m.items[0].ID != "p1-a" {
		t.Errorf("expected page 1 items, got %+v", m.items)
	}
	if m.totalPages != 3 {
		t.Errorf("expected totalPages=3, got %d", m.totalPages)
	}
}

func TestDashboardLastRequestWins(t *testing.T) {
	tests := []struct {
		name        string
		olderFirst  bool
		wantItemsID string
	}{
		{"responses in order", true, "p1-a"},
		{"responses out of order", false, "p1-a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, loggedIn)
			m := newTestDashboard(t, env)

			m, cmd2 := m.Update(key("2"))
			m, cmd1 := m.Update(key("1"))
			if cmd2 == nil || cmd1 == nil {
				t.Fatal("expected page keys to issue queries")
			}
			msg2 := cmd2()
			msg1 := cmd1()

			if tc.olderFirst {
				m, _ = m.Update(msg2)
				m, _ = m.Update(msg1)
			} else {
				m, _ = m.Update(msg1)
				m, _ = m.Update(msg2)
			}

			if m.page != 1 {
				t.Errorf("expected page=1, got %d", m.page)
			}
			if m.items[0].ID != tc.wantItemsID {
				t.Errorf("expected items of page 1, got %q", m.items[0].ID)
			}
			if m.listLoading {
				t.Error("expected listLoading=false")
			}
		})
	}
}

func TestDashboardSearchEnterQueriesOnce(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newDashboardModel(env.svc, slogdiscard.NewDiscardLogger(),
		Options{PageSize: 10, SearchDebounce: time.Hour}, 1)
	cmd := m.Init()
	m = feed(t, m, cmd)

	// Move off page 1 so the reset is visible.
	m, cmd = m.Update(key("3"))
	m = feed(t, m, cmd)
	if m.page != 3 {
		t.Fatalf("expected page=3, got %d", m.page)
	}
	before := len(env.backend.listCalls())

	m, _ = m.Update(key("/"))
	if !m.searchFocused {
		t.Fatal("expected search focused after /")
	}
	m = typeText(m, "conf")
	m, cmd = m.Update(key("enter"))
	m = feed(t, m, cmd)

	calls := env.backend.listCalls()[before:]
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 query after enter, got %d", len(calls))
	}
	if calls[0].page != 1 || calls[0].limit != 10 || calls[0].search != "conf" {
		t.Errorf("query = %+v, want page=1 limit=10 search=conf", calls[0])
	}
	if m.page != 1 {
		t.Errorf("expected page reset to 1, got %d", m.page)
	}

	// The pending debounce tick from the last keystroke is now stale.
	m, cmd = m.Update(searchDebounceMsg{gen: m.gen, seq: m.debounceSeq - 1})
	if cmd != nil {
		t.Error("expected stale debounce tick to be ignored")
	}
}

func TestDashboardSearchDebounce(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newDashboardModel(env.svc, slogdiscard.NewDiscardLogger(),
		Options{PageSize: 10, SearchDebounce: time.Hour}, 1)
	cmd := m.Init()
	m = feed(t, m, cmd)
	before := len(env.backend.listCalls())

	m, _ = m.Update(key("/"))
	m = typeText(m, "go")
	firstSeq := m.debounceSeq - 1

	m, cmd = m.Update(searchDebounceMsg{gen: m.gen, seq: firstSeq})
	if cmd != nil {
		t.Fatal("expected superseded tick to be ignored")
	}

	m, cmd = m.Update(searchDebounceMsg{gen: m.gen, seq: m.debounceSeq})
	m = feed(t, m, cmd)

	calls := env.backend.listCalls()[before:]
	if len(calls) != 1 || calls[0].search != "go" {
		t.Fatalf("expected one query for %q, got %+v", "go", calls)
	}
	if !m.searchFocused {
		t.Error("expected search to stay focused while typing")
	}
}

func TestDashboardFailedQueryKeepsList(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)
	prev := m.items

	env.backend.mu.Lock()
	env.backend.failList = true
	env.backend.mu.Unlock()

	m, cmd := m.Update(key("r"))
	m = feed(t, m, cmd)

	if len(m.items) != len(prev) || m.items[0].ID != prev[0].ID {
		t.Errorf("expected previous items kept, got %+v", m.items)
	}
	if m.listLoading {
		t.Error("expected listLoading=false after failure")
	}
	if m.notice != "database down" || !m.noticeErr {
		t.Errorf("expected server message as error notice, got %q (err=%v)", m.notice, m.noticeErr)
	}
}

func TestDashboardUnauthorizedQuerySignalsAuthLost(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	env.backend.mu.Lock()
	env.backend.unauthorized = true
	env.backend.mu.Unlock()

	m, cmd := m.Update(key("r"))
	m = feed(t, m, cmd)

	if !m.authLost {
		t.Error("expected authLost after 401")
	}
	if _, ok := env.store.Session(); ok {
		t.Error("expected session cleared after 401")
	}
}

func TestDashboardPageKeys(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	// h on the first page does nothing.
	m, cmd := m.Update(key("h"))
	if cmd != nil {
		t.Error("expected no query for h on page 1")
	}

	m, cmd = m.Update(key("l"))
	m = feed(t, m, cmd)
	if m.page != 2 || m.items[0].ID != "p2-a" {
		t.Errorf("expected page 2 after l, got page=%d items=%+v", m.page, m.items)
	}

	// Pages beyond totalPages are ignored.
	m, cmd = m.Update(key("9"))
	if cmd != nil {
		t.Error("expected no query for page 9 of 3")
	}
	if m.page != 2 {
		t.Errorf("expected page to stay 2, got %d", m.page)
	}
}

func TestDashboardModalMembersDiscardedAfterClose(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	env.backend.members = []domain.Member{{ID: "u9", Name: "Ada", Email: "ada@example.com"}}
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("enter"))
	if m.selected == nil || m.selected.ID != "p1-a" {
		t.Fatalf("expected modal for first event, got %+v", m.selected)
	}

	m, cmd := m.Update(key("m"))
	if !m.membersLoading {
		t.Fatal("expected membersLoading=true after m")
	}
	msg := cmd()

	m, _ = m.Update(key("esc"))
	if m.selected != nil {
		t.Fatal("expected modal closed after esc")
	}
	m, _ = m.Update(msg)

	if m.members != nil {
		t.Errorf("expected late members result discarded, got %+v", m.members)
	}
	if m.membersLoading {
		t.Error("expected membersLoading=false after close")
	}
}

func TestDashboardModalMembersLoaded(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	env.backend.members = []domain.Member{{ID: "u9", Name: "Ada", Email: "ada@example.com"}}
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("m"))
	m = feed(t, m, cmd)

	if m.membersLoading {
		t.Error("expected membersLoading=false")
	}
	if len(m.members) != 1 || m.members[0].Name != "Ada" {
		t.Errorf("expected Ada, got %+v", m.members)
	}
	if !strings.Contains(m.View(), "ada@example.com") {
		t.Error("expected member email in modal view")
	}
}

func TestDashboardModalMembersEmpty(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("m"))
	m = feed(t, m, cmd)

	if m.members == nil || len(m.members) != 0 {
		t.Errorf("expected empty member list, got %#v", m.members)
	}
	if !strings.Contains(m.View(), "No users registered yet.") {
		t.Error("expected empty state in modal view")
	}
}

func TestDashboardModalMembersFailure(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	env.backend.failMembers = true
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("m"))
	m = feed(t, m, cmd)

	if m.membersLoading {
		t.Error("expected membersLoading=false after failure")
	}
	if m.notice != "Failed to fetch registered users." {
		t.Errorf("unexpected notice %q", m.notice)
	}
	v := m.View()
	if !strings.Contains(v, "No users registered yet.") {
		t.Error("expected empty state after failure")
	}
	if strings.Contains(v, "stack trace") {
		t.Error("raw server error leaked into the view")
	}
}

func TestDashboardRegisterWithoutSession(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)
	if err := env.store.Clear(); err != nil {
		t.Fatal(err)
	}

	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("r"))
	m = feed(t, m, cmd)

	if _, registers, _ := env.backend.counts(); registers != 0 {
		t.Errorf("expected no register call, got %d", registers)
	}
	if m.notice != "Please login to register for the event." {
		t.Errorf("unexpected notice %q", m.notice)
	}
	if m.selected == nil {
		t.Error("expected modal to stay open")
	}
}

func TestDashboardRegisterSuccess(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)
	before := len(env.backend.listCalls())

	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("r"))
	m = feed(t, m, cmd)

	if _, registers, _ := env.backend.counts(); registers != 1 {
		t.Errorf("expected 1 register call, got %d", registers)
	}
	if m.selected != nil {
		t.Error("expected modal closed after register")
	}
	if m.notice != "Successfully registered for: Page 1 first" {
		t.Errorf("unexpected notice %q", m.notice)
	}
	if got := len(env.backend.listCalls()) - before; got != 1 {
		t.Errorf("expected current page re-queried once, got %d", got)
	}
}

func TestDashboardRegisterFailureClosesModal(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	env.backend.failRegister = true
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("r"))
	m = feed(t, m, cmd)

	if m.selected != nil {
		t.Error("expected modal closed after failed register")
	}
	if m.notice != "Event is full" || !m.noticeErr {
		t.Errorf("expected server message notice, got %q", m.notice)
	}
}

func TestDashboardCreateValidation(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("n"))
	if !m.createOpen {
		t.Fatal("expected create form open after n")
	}
	m, cmd := m.Update(key("ctrl+s"))
	if cmd != nil {
		t.Error("expected no command for an invalid draft")
	}
	if creates, _, _ := env.backend.counts(); creates != 0 {
		t.Errorf("expected no create call, got %d", creates)
	}
	if m.formErrs[domain.FieldTitle] != "Title is required" {
		t.Errorf("expected title error, got %+v", m.formErrs)
	}
	if !strings.Contains(m.View(), "Title is required") {
		t.Error("expected title error rendered in form")
	}
}

// fillCreateForm types a valid draft into an open create form.
func fillCreateForm(m dashboardModel) dashboardModel {
	date := time.Now().Add(48 * time.Hour).Format("2006-01-02 15:04")
	values := []string{"GopherCon", "talks", date, "Berlin", "50"}
	for i, v := range values {
		m = typeText(m, v)
		if i < len(values)-1 {
			m, _ = m.Update(key("tab"))
		}
	}
	return m
}

func TestDashboardCreateSubmitGuard(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("n"))
	m = fillCreateForm(m)

	m, first := m.Update(key("ctrl+s"))
	if first == nil || !m.submitting {
		t.Fatal("expected first submit to start a request")
	}
	m, second := m.Update(key("ctrl+s"))
	if second != nil {
		t.Error("expected second submit ignored while in flight")
	}
	m = feed(t, m, first)

	if creates, _, _ := env.backend.counts(); creates != 1 {
		t.Errorf("expected exactly 1 create call, got %d", creates)
	}
	if m.submitting {
		t.Error("expected submitting=false after result")
	}
}

func TestDashboardCreateSuccess(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)
	before := len(env.backend.listCalls())

	m, _ = m.Update(key("n"))
	m = fillCreateForm(m)
	// enter on the last field submits
	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected enter on last field to submit")
	}
	m = feed(t, m, cmd)

	if m.createOpen {
		t.Error("expected create form closed after success")
	}
	if m.fields != [numFields]string{} {
		t.Errorf("expected draft reset, got %+v", m.fields)
	}
	if m.notice != "Event created successfully!" {
		t.Errorf("unexpected notice %q", m.notice)
	}
	if got := len(env.backend.listCalls()) - before; got != 1 {
		t.Errorf("expected one re-query after create, got %d", got)
	}
}

func TestDashboardCreateFailureKeepsDraft(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("n"))
	m = fillCreateForm(m)
	m, _ = m.Update(eventCreatedMsg{gen: m.gen, seq: m.createSeq, err: errors.New("boom")})

	if !m.createOpen {
		t.Error("expected form to stay open after failure")
	}
	if m.fields[fieldTitle] != "GopherCon" {
		t.Errorf("expected draft kept, got %q", m.fields[fieldTitle])
	}
	if !m.noticeErr || m.notice == "" {
		t.Error("expected an error notice")
	}
}

func TestDashboardCreateEscResetsDraft(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("n"))
	m = typeText(m, "draft")
	m, _ = m.Update(key("esc"))

	if m.createOpen {
		t.Error("expected form closed on esc")
	}
	m, _ = m.Update(key("n"))
	if m.fields[fieldTitle] != "" {
		t.Errorf("expected empty draft on reopen, got %q", m.fields[fieldTitle])
	}
}

func TestDashboardCreateResultAfterCancelKeepsNewDraft(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("n"))
	m = fillCreateForm(m)
	m, first := m.Update(key("ctrl+s"))
	if first == nil {
		t.Fatal("expected submit to start a request")
	}
	msg := first()

	m, _ = m.Update(key("esc"))
	if m.submitting {
		t.Error("expected submitting cleared on cancel")
	}
	m, _ = m.Update(key("n"))
	m = typeText(m, "Second draft")

	before := len(env.backend.listCalls())
	m, cmd := m.Update(msg)
	m = feed(t, m, cmd)

	if !m.createOpen {
		t.Fatal("expected the new draft to stay open")
	}
	if m.fields[fieldTitle] != "Second draft" {
		t.Errorf("expected new draft kept, got %q", m.fields[fieldTitle])
	}
	if m.submitting {
		t.Error("expected new draft not marked as submitting")
	}
	if got := len(env.backend.listCalls()) - before; got != 1 {
		t.Errorf("expected one re-query for the created event, got %d", got)
	}

	// The new draft can still be submitted.
	m = fillCreateForm(m)
	_, again := m.Update(key("ctrl+s"))
	if again == nil {
		t.Error("expected ctrl+s on the new draft to submit")
	}
}

func TestDashboardRegisterResultForClosedEventKeepsGuard(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(key("enter"))
	m, regA := m.Update(key("r"))
	if regA == nil {
		t.Fatal("expected register for first event")
	}
	msgA := regA()
	m, _ = m.Update(key("esc"))

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("enter"))
	if m.selected == nil || m.selected.ID != "p1-b" {
		t.Fatalf("expected modal for second event, got %+v", m.selected)
	}
	m, regB := m.Update(key("r"))
	if regB == nil || !m.registering {
		t.Fatal("expected register for second event in flight")
	}

	m, _ = m.Update(msgA)
	if !m.registering {
		t.Error("expected second event to stay in flight")
	}
	if m.selected == nil || m.selected.ID != "p1-b" {
		t.Errorf("expected second event modal kept open, got %+v", m.selected)
	}
	_, dup := m.Update(key("r"))
	if dup != nil {
		t.Error("expected repeated r ignored while in flight")
	}
}

func TestDashboardNoticeClearsOnKey(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m.setNotice("hello", false)
	m, _ = m.Update(key("j"))
	if m.notice != "" {
		t.Errorf("expected notice cleared on key, got %q", m.notice)
	}
}

func TestDashboardNoticeExpires(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)
	m.opts.NoticeTTL = time.Second

	cmd := m.setNotice("first", false)
	if cmd == nil {
		t.Fatal("expected expiry tick")
	}
	m.setNotice("second", false)

	// Expiry of the first notice leaves the second alone.
	m, _ = m.Update(noticeExpiredMsg{gen: m.gen, seq: m.noticeSeq - 1})
	if m.notice != "second" {
		t.Errorf("expected second notice kept, got %q", m.notice)
	}
	m, _ = m.Update(noticeExpiredMsg{gen: m.gen, seq: m.noticeSeq})
	if m.notice != "" {
		t.Errorf("expected notice expired, got %q", m.notice)
	}
}

func TestDashboardCopyEvent(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { writeClipboard = orig }()

	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("y"))
	m = feed(t, m, cmd)

	if !strings.HasPrefix(copied, "Page 1 first\n") {
		t.Errorf("unexpected clipboard text %q", copied)
	}
	if m.notice != "Copied event to clipboard." {
		t.Errorf("unexpected notice %q", m.notice)
	}
}

func TestDashboardStaleGenerationIgnored(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	m, _ = m.Update(eventsLoadedMsg{gen: m.gen + 1, seq: m.querySeq, page: &domain.EventPage{Page: 1, TotalPages: 1}})
	if len(m.items) != 2 {
		t.Errorf("expected message from another dashboard ignored, got %+v", m.items)
	}
}

func TestDashboardListView(t *testing.T) {
	env := newTestEnv(t, loggedIn)
	m := newTestDashboard(t, env)

	v := m.View()
	for _, want := range []string{"Page 1 first", "Page 1 second", "[1]", "TITLE"} {
		if !strings.Contains(v, want) {
			t.Errorf("expected list view to contain %q", want)
		}
	}
}

var _ tea.Model = App{}
