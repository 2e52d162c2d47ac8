package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/eventdesk/internal/lib/logger/sl"
	"github.com/naveenspark/eventdesk/internal/service"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// eventsLoadedMsg carries the result of the query issued with seq.
type eventsLoadedMsg struct {
	gen  int
	seq  int
	page *domain.EventPage
	err  error
}

// searchDebounceMsg fires when the search input has been idle long enough.
type searchDebounceMsg struct {
	gen int
	seq int
}

type membersLoadedMsg struct {
	gen     int
	seq     int
	members []domain.Member
	err     error
}

type eventCreatedMsg struct {
	gen   int
	seq   int
	event *domain.Event
	err   error
}

type registeredMsg struct {
	gen     int
	seq     int
	eventID string
	title   string
	err     error
}

type noticeExpiredMsg struct {
	gen int
	seq int
}

type copyResultMsg struct {
	gen int
	err error
}

// dashboardModel is the authenticated event dashboard: a paginated,
// searchable list with an event modal and a create form on top.
type dashboardModel struct {
	svc  *service.Services
	log  *slog.Logger
	opts Options
	gen  int

	// list
	items       []domain.Event
	page        int
	totalPages  int
	cursor      int
	listLoading bool
	querySeq    int

	// search
	search        string
	searchFocused bool
	debounceSeq   int

	// event modal
	selected       *domain.Event
	members        []domain.Member
	membersLoaded  bool
	membersLoading bool
	membersSeq     int
	registering    bool
	registerSeq    int

	// create form
	createOpen bool
	fields     [numFields]string
	focus      createField
	formErrs   domain.ValidationErrors
	submitting bool
	createSeq  int

	notice    string
	noticeErr bool
	noticeSeq int

	// signals read by App after each update
	loggedOut bool
	authLost  bool

	width  int
	height int
}

func newDashboardModel(svc *service.Services, log *slog.Logger, opts Options, gen int) dashboardModel {
	return dashboardModel{
		svc:        svc,
		log:        log.With(slog.String("component", "tui.dashboard")),
		opts:       opts,
		gen:        gen,
		page:       1,
		totalPages: 1,
	}
}

// Init issues the mount query for page 1 with an empty search.
func (m *dashboardModel) Init() tea.Cmd {
	return m.query(1)
}

// query records page as current and fetches it. Only the result of the
// most recent query is ever applied.
func (m *dashboardModel) query(page int) tea.Cmd {
	m.querySeq++
	m.page = page
	m.listLoading = true

	seq, gen := m.querySeq, m.gen
	search, size := m.search, m.opts.PageSize
	q := m.svc.Query
	return func() tea.Msg {
		res, err := q.Query(context.Background(), page, size, search)
		return eventsLoadedMsg{gen: gen, seq: seq, page: res, err: err}
	}
}

// setNotice shows text until the next key press or the notice TTL.
func (m *dashboardModel) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	if m.opts.NoticeTTL <= 0 {
		return nil
	}
	seq, gen := m.noticeSeq, m.gen
	return tea.Tick(m.opts.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{gen: gen, seq: seq}
	})
}

// failureNotice picks the user-facing text for a failed operation and
// flags a lost session.
func (m *dashboardModel) failureNotice(err error, unauthenticated string) string {
	if errors.Is(err, service.ErrUnauthenticated) {
		return unauthenticated
	}
	if service.IsAuthFailure(err) {
		m.authLost = true
	}
	var f *service.Failure
	if errors.As(err, &f) {
		return f.Notice()
	}
	return err.Error()
}

func (m *dashboardModel) closeModal() {
	m.selected = nil
	m.members = nil
	m.membersLoaded = false
	m.membersLoading = false
	m.registering = false
	m.membersSeq++
	m.registerSeq++
}

func (m dashboardModel) isEditing() bool {
	return m.searchFocused || m.createOpen
}

func (m dashboardModel) stale(gen int) bool {
	return gen != m.gen
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case eventsLoadedMsg:
		if m.stale(msg.gen) || msg.seq != m.querySeq {
			return m, nil
		}
		m.listLoading = false
		if msg.err != nil {
			cmd := m.setNotice(m.failureNotice(msg.err, "Please login to view events."), true)
			return m, cmd
		}
		m.items = msg.page.Items
		m.totalPages = msg.page.TotalPages
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}
		return m, nil

	case searchDebounceMsg:
		if m.stale(msg.gen) || msg.seq != m.debounceSeq {
			return m, nil
		}
		cmd := m.query(1)
		return m, cmd

	case membersLoadedMsg:
		if m.stale(msg.gen) || msg.seq != m.membersSeq || m.selected == nil {
			return m, nil
		}
		m.membersLoading = false
		m.membersLoaded = true
		if msg.err != nil {
			m.members = nil
			if errors.Is(msg.err, service.ErrUnauthenticated) {
				cmd := m.setNotice("Please login to view registered users.", true)
				return m, cmd
			}
			if service.IsAuthFailure(msg.err) {
				m.authLost = true
			}
			cmd := m.setNotice("Failed to fetch registered users.", true)
			return m, cmd
		}
		m.members = msg.members
		return m, nil

	case registeredMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		// A result for a modal that was since closed must not release the
		// guard of the one open now.
		if msg.seq == m.registerSeq {
			m.registering = false
		}
		if errors.Is(msg.err, service.ErrUnauthenticated) {
			cmd := m.setNotice("Please login to register for the event.", true)
			return m, cmd
		}
		if m.selected != nil && m.selected.ID == msg.eventID {
			m.closeModal()
		}
		if msg.err != nil {
			cmd := m.setNotice(m.failureNotice(msg.err, ""), true)
			return m, cmd
		}
		notice := m.setNotice("Successfully registered for: "+msg.title, false)
		refresh := m.query(m.page)
		return m, tea.Batch(notice, refresh)

	case eventCreatedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		current := m.createOpen && msg.seq == m.createSeq
		if current {
			m.submitting = false
		}
		if msg.err != nil {
			var verrs domain.ValidationErrors
			if errors.As(msg.err, &verrs) {
				if current {
					m.formErrs = verrs
				}
				return m, nil
			}
			cmd := m.setNotice(m.failureNotice(msg.err, "Please login to create events."), true)
			return m, cmd
		}
		m.items = append(slices.Clone(m.items), *msg.event)
		if current {
			m.closeCreate()
		}
		notice := m.setNotice("Event created successfully!", false)
		refresh := m.query(m.page)
		return m, tea.Batch(notice, refresh)

	case noticeExpiredMsg:
		if !m.stale(msg.gen) && msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case copyResultMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn("clipboard write failed", sl.Err(msg.err))
			cmd := m.setNotice("Could not copy to clipboard.", true)
			return m, cmd
		}
		cmd := m.setNotice("Copied event to clipboard.", false)
		return m, cmd

	case tea.KeyMsg:
		// Any key dismisses the current notice.
		m.notice = ""
		switch {
		case m.createOpen:
			return m.updateCreate(msg)
		case m.selected != nil:
			return m.updateModal(msg)
		case m.searchFocused:
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchFocused = false
		m.debounceSeq++
		cmd := m.query(1)
		return m, cmd
	case "esc":
		m.searchFocused = false
		m.debounceSeq++
		if m.search != "" {
			m.search = ""
			cmd := m.query(1)
			return m, cmd
		}
		return m, nil
	}

	next := editKey(m.search, msg)
	if next == m.search {
		return m, nil
	}
	m.search = next
	m.debounceSeq++
	if m.opts.SearchDebounce <= 0 {
		cmd := m.query(1)
		return m, cmd
	}
	seq, gen := m.debounceSeq, m.gen
	return m, tea.Tick(m.opts.SearchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen, seq: seq}
	})
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.items) {
			ev := m.items[m.cursor]
			m.selected = &ev
			m.members = nil
			m.membersLoaded = false
			m.membersLoading = false
		}
	case "/":
		m.searchFocused = true
	case "n":
		m.createOpen = true
		m.fields = [numFields]string{}
		m.focus = fieldTitle
		m.formErrs = nil
	case "l", "right":
		if m.page < m.totalPages {
			cmd := m.query(m.page + 1)
			return m, cmd
		}
	case "h", "left":
		if m.page > 1 {
			cmd := m.query(m.page - 1)
			return m, cmd
		}
	case "r":
		cmd := m.query(m.page)
		return m, cmd
	case "L":
		m.loggedOut = true
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= m.totalPages {
			cmd := m.query(n)
			return m, cmd
		}
	}
	return m, nil
}

func (m dashboardModel) updateModal(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	ev := *m.selected
	gen := m.gen

	switch msg.String() {
	case "esc":
		m.closeModal()
	case "r":
		if m.registering {
			return m, nil
		}
		m.registering = true
		mut, seq := m.svc.Mutation, m.registerSeq
		return m, func() tea.Msg {
			err := mut.Register(context.Background(), ev.ID)
			return registeredMsg{gen: gen, seq: seq, eventID: ev.ID, title: ev.Title, err: err}
		}
	case "m":
		if m.membersLoading {
			return m, nil
		}
		m.membersLoading = true
		m.membersSeq++
		seq := m.membersSeq
		members := m.svc.Members
		return m, func() tea.Msg {
			list, err := members.List(context.Background(), ev.ID)
			return membersLoadedMsg{gen: gen, seq: seq, members: list, err: err}
		}
	case "y":
		text := eventSummary(ev)
		return m, func() tea.Msg {
			return copyResultMsg{gen: gen, err: writeClipboard(text)}
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.createOpen {
		return m.createView()
	}
	if m.selected != nil {
		return m.modalView()
	}
	return m.listView()
}

func (m dashboardModel) listView() string {
	var b strings.Builder

	// Search bar
	if m.searchFocused {
		fmt.Fprintf(&b, " %s %s█\n", searchStyle.Render("/"), m.search)
	} else if m.search != "" {
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("/"), dimStyle.Render(m.search))
	} else {
		fmt.Fprintf(&b, " %s\n", inputPlaceholderStyle.Render("/ search events by title"))
	}
	b.WriteString("\n")

	width := m.width
	if width <= 0 {
		width = 100
	}
	titleW, dateW, locW := 28, 22, 18
	descW := max(width-titleW-dateW-locW-8, 10)

	header := " " + padRight("TITLE", titleW) + " " + padRight("DESCRIPTION", descW) + " " +
		padRight("DATE", dateW) + " " + "LOCATION"
	b.WriteString(sectionHeaderStyle.Render(header))
	b.WriteString("\n")

	if len(m.items) == 0 {
		if m.listLoading {
			b.WriteString(dimStyle.Render(" loading events..."))
		} else {
			b.WriteString(dimStyle.Render(" No events found."))
		}
		b.WriteString("\n")
	}
	for i, ev := range m.items {
		row := " " + padRight(truncStr(ev.Title, titleW), titleW) + " " +
			padRight(truncStr(oneLine(ev.Description), descW), descW) + " " +
			padRight(formatDate(ev.Date), dateW) + " " +
			truncStr(ev.Location, locW)
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(selectedStyle.Render(row)))
		} else {
			b.WriteString(normalStyle.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.pagerView())
	if m.listLoading && len(m.items) > 0 {
		b.WriteString("  " + dimStyle.Render("loading..."))
	}
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(" " + noticeView(m.notice, m.noticeErr) + "\n")
	}
	return b.String()
}

// pagerView renders one button per page with the current page highlighted.
func (m dashboardModel) pagerView() string {
	var parts []string
	for p := 1; p <= m.totalPages; p++ {
		label := strconv.Itoa(p)
		if p == m.page {
			parts = append(parts, accentStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}
	return " " + strings.Join(parts, " ")
}

func (m dashboardModel) helpKeys() string {
	switch {
	case m.createOpen:
		return helpLine("tab", "next", "ctrl+s", "submit", "esc", "cancel")
	case m.selected != nil:
		return helpLine("r", "register", "m", "members", "y", "copy", "esc", "close")
	case m.searchFocused:
		return helpLine("enter", "search", "esc", "clear")
	}
	return helpLine("j/k", "nav", "enter", "open", "/", "search", "1-9", "page", "h/l", "prev/next",
		"n", "new", "r", "refresh", "L", "logout", "q", "quit")
}
