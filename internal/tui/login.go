package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/eventdesk/internal/service"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

type loginResultMsg struct {
	session domain.Session
	err     error
}

type signupResultMsg struct {
	err error
}

// authField is one input of an auth form.
type authField struct {
	key    string // json name validation errors are reported under
	label  string
	masked bool
}

var (
	loginFields = []authField{
		{key: "email", label: "email"},
		{key: "password", label: "password", masked: true},
	}
	signupFields = []authField{
		{key: "name", label: "name"},
		{key: "email", label: "email"},
		{key: "password", label: "password", masked: true},
		{key: "confirmPassword", label: "confirm password", masked: true},
	}
)

// authForm is the shared field editor behind the login and signup screens.
type authForm struct {
	fields  []authField
	values  []string
	focus   int
	errs    domain.ValidationErrors
	loading bool
	err     string
	info    string
}

func newAuthForm(fields []authField) authForm {
	return authForm{fields: fields, values: make([]string, len(fields))}
}

func (f authForm) value(key string) string {
	for i, fd := range f.fields {
		if fd.key == key {
			return f.values[i]
		}
	}
	return ""
}

// edit applies a key to the form and reports whether it asked to submit.
func (f authForm) edit(key string) (authForm, bool) {
	switch key {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		if f.focus == len(f.fields)-1 {
			return f, true
		}
		f.focus++
	default:
		f.values[f.focus] = editRune(f.values[f.focus], key)
	}
	return f, false
}

// fail records err from the auth service on the form.
func (f authForm) fail(err error) authForm {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		f.errs = verrs
		return f
	}
	var failure *service.Failure
	if errors.As(err, &failure) {
		f.err = failure.Notice()
		return f
	}
	f.err = err.Error()
	return f
}

func (f authForm) view(title string) string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render(title) + "\n\n")
	for i, fd := range f.fields {
		b.WriteString(renderInput(fd.label, f.values[i], i == f.focus, fd.masked))
		b.WriteString("\n")
		if msg, ok := f.errs[fd.key]; ok {
			fmt.Fprintf(&b, "    %s\n", fieldErrorStyle.Render(msg))
		}
	}
	b.WriteString("\n")
	switch {
	case f.loading:
		b.WriteString(" " + dimStyle.Render("please wait...") + "\n")
	case f.err != "":
		b.WriteString(" " + errorStyle.Render(f.err) + "\n")
	case f.info != "":
		b.WriteString(" " + successStyle.Render(f.info) + "\n")
	}
	return b.String()
}

type loginModel struct {
	auth *service.Auth
	form authForm

	// signals read by App
	loggedIn   bool
	session    domain.Session
	wantSignup bool
}

func newLoginModel(auth *service.Auth, info string) loginModel {
	f := newAuthForm(loginFields)
	f.info = info
	return loginModel{auth: auth, form: f}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.form.loading = false
		if msg.err != nil {
			m.form = m.form.fail(msg.err)
			return m, nil
		}
		m.loggedIn = true
		m.session = msg.session
		return m, nil

	case tea.KeyMsg:
		if m.form.loading {
			return m, nil
		}
		if msg.String() == "ctrl+n" {
			m.wantSignup = true
			return m, nil
		}
		var submit bool
		m.form, submit = m.form.edit(msg.String())
		if submit {
			return m.submit()
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	form := domain.LoginForm{
		Email:    m.form.value("email"),
		Password: m.form.value("password"),
	}
	m.form.errs = nil
	m.form.err = ""
	m.form.info = ""
	m.form.loading = true
	auth := m.auth
	return m, func() tea.Msg {
		sess, err := auth.Login(context.Background(), form)
		return loginResultMsg{session: sess, err: err}
	}
}

func (m loginModel) View() string {
	return m.form.view("Log in")
}

type signupModel struct {
	auth *service.Auth
	form authForm

	// signals read by App
	done   bool
	cancel bool
}

func newSignupModel(auth *service.Auth) signupModel {
	return signupModel{auth: auth, form: newAuthForm(signupFields)}
}

func (m signupModel) Update(msg tea.Msg) (signupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signupResultMsg:
		m.form.loading = false
		if msg.err != nil {
			m.form = m.form.fail(msg.err)
			return m, nil
		}
		m.done = true
		return m, nil

	case tea.KeyMsg:
		if m.form.loading {
			return m, nil
		}
		if msg.String() == "esc" {
			m.cancel = true
			return m, nil
		}
		var submit bool
		m.form, submit = m.form.edit(msg.String())
		if submit {
			return m.submit()
		}
	}
	return m, nil
}

func (m signupModel) submit() (signupModel, tea.Cmd) {
	form := domain.SignupForm{
		Name:            m.form.value("name"),
		Email:           m.form.value("email"),
		Password:        m.form.value("password"),
		ConfirmPassword: m.form.value("confirmPassword"),
	}
	m.form.errs = nil
	m.form.err = ""
	m.form.loading = true
	auth := m.auth
	return m, func() tea.Msg {
		return signupResultMsg{err: auth.Signup(context.Background(), form)}
	}
}

func (m signupModel) View() string {
	return m.form.view("Sign up")
}
