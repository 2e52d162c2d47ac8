package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/eventdesk/internal/lib/logger/sl"
	"github.com/naveenspark/eventdesk/internal/service"
)

type view int

const (
	viewLogin view = iota
	viewSignup
	viewDashboard
)

// Options tunes paging and timing of the dashboard.
type Options struct {
	PageSize       int
	SearchDebounce time.Duration
	NoticeTTL      time.Duration
}

// App is the root Bubbletea model. It routes between the auth screens and
// the dashboard depending on whether a session is held.
type App struct {
	svc  *service.Services
	log  *slog.Logger
	opts Options

	view      view
	login     loginModel
	signup    signupModel
	dashboard dashboardModel
	gen       int // bumped for every new dashboard
	initCmd   tea.Cmd

	width  int
	height int
}

// NewApp creates the TUI. It opens on the dashboard when svc already holds
// a session and on the login form otherwise.
func NewApp(svc *service.Services, log *slog.Logger, opts Options) App {
	if opts.PageSize <= 0 {
		opts.PageSize = service.DefaultPageSize
	}
	a := App{
		svc:   svc,
		log:   log,
		opts:  opts,
		login: newLoginModel(svc.Auth, ""),
	}
	if _, ok := svc.Session.Session(); ok {
		a.initCmd = a.openDashboard()
	}
	return a
}

// Init returns the mount query prepared by NewApp, if any.
func (a App) Init() tea.Cmd {
	return a.initCmd
}

// openDashboard replaces any previous dashboard state with a fresh one.
func (a *App) openDashboard() tea.Cmd {
	a.gen++
	a.view = viewDashboard
	a.dashboard = newDashboardModel(a.svc, a.log, a.opts, a.gen)
	a.dashboard.width = a.width
	a.dashboard.height = a.bodyHeight()
	return a.dashboard.Init()
}

// openLogin drops the dashboard and shows the login form with info.
func (a *App) openLogin(info string) {
	a.gen++
	a.view = viewLogin
	a.dashboard = dashboardModel{}
	a.login = newLoginModel(a.svc.Auth, info)
}

func (a App) bodyHeight() int {
	// Chrome: header(2) + notice(1) + help(1)
	return a.height - 4
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard, _ = a.dashboard.Update(tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()})
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.view == viewDashboard && !a.dashboard.isEditing() && a.dashboard.selected == nil {
				return a, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
		if a.login.loggedIn {
			a.log.Info("session started", slog.String("user_id", a.login.session.UserID))
			cmd = a.openDashboard()
			return a, cmd
		}
		if a.login.wantSignup {
			a.login.wantSignup = false
			a.view = viewSignup
			a.signup = newSignupModel(a.svc.Auth)
		}

	case viewSignup:
		a.signup, cmd = a.signup.Update(msg)
		switch {
		case a.signup.done:
			a.openLogin("Account created. Please log in.")
		case a.signup.cancel:
			a.view = viewLogin
		}

	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
		switch {
		case a.dashboard.loggedOut:
			if err := a.svc.Auth.Logout(); err != nil {
				a.log.Error("failed to clear session", sl.Err(err))
			}
			a.openLogin("Logged out.")
			return a, nil
		case a.dashboard.authLost:
			a.openLogin("Session expired. Please log in again.")
			return a, nil
		}
	}
	return a, cmd
}

func (a App) View() string {
	header := titleStyle.Render("E V E N T D E S K")
	pad := (a.width - lipgloss.Width(header)) / 2
	if pad < 0 {
		pad = 0
	}
	header = strings.Repeat(" ", pad) + header

	sub := ""
	if uid, ok := a.svc.Session.UserID(); ok && a.view == viewDashboard {
		sub = metaStyle.Render(fmt.Sprintf("user %s . page %d/%d", uid, a.dashboard.page, a.dashboard.totalPages))
		spad := (a.width - lipgloss.Width(sub)) / 2
		if spad > 0 {
			sub = strings.Repeat(" ", spad) + sub
		}
	}

	var body, help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = helpLine("tab", "next", "enter", "submit", "ctrl+n", "sign up", "ctrl+c", "quit")
	case viewSignup:
		body = a.signup.View()
		help = helpLine("tab", "next", "enter", "submit", "esc", "back", "ctrl+c", "quit")
	case viewDashboard:
		body = a.dashboard.View()
		help = a.dashboard.helpKeys()
	}

	body = strings.TrimRight(truncateToHeight(body, a.bodyHeight()), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, sub, body, help)
}
