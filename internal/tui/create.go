package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/eventdesk/pkg/domain"
)

type createField int

const (
	fieldTitle createField = iota
	fieldDescription
	fieldDate
	fieldLocation
	fieldMaxParticipants
	numFields
)

var createLabels = [numFields]string{"title", "description", "date", "location", "max participants"}

// createKeys maps each input to the key its validation error is reported under.
var createKeys = [numFields]string{
	domain.FieldTitle,
	domain.FieldDescription,
	domain.FieldDate,
	domain.FieldLocation,
	domain.FieldMaxParticipants,
}

func (m dashboardModel) draft() domain.EventForm {
	return domain.EventForm{
		Title:           m.fields[fieldTitle],
		Description:     m.fields[fieldDescription],
		Date:            m.fields[fieldDate],
		Location:        m.fields[fieldLocation],
		MaxParticipants: m.fields[fieldMaxParticipants],
	}
}

func (m *dashboardModel) closeCreate() {
	m.createOpen = false
	m.fields = [numFields]string{}
	m.focus = fieldTitle
	m.formErrs = nil
	m.submitting = false
	m.createSeq++
}

func (m dashboardModel) updateCreate(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeCreate()
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numFields) % numFields
	case "enter":
		if m.focus == numFields-1 {
			return m.submit()
		}
		m.focus++
	default:
		f := &m.fields[m.focus]
		*f = editKey(*f, msg)
	}
	return m, nil
}

// submit validates the draft locally and sends it. A second submit while
// one is in flight is ignored.
func (m dashboardModel) submit() (dashboardModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	form := m.draft()
	if errs := form.Validate(time.Now()); errs != nil {
		m.formErrs = errs
		return m, nil
	}

	m.formErrs = nil
	m.submitting = true
	mut, gen, seq := m.svc.Mutation, m.gen, m.createSeq
	return m, func() tea.Msg {
		ev, err := mut.Create(context.Background(), form)
		return eventCreatedMsg{gen: gen, seq: seq, event: ev, err: err}
	}
}

func (m dashboardModel) createView() string {
	var b strings.Builder

	b.WriteString(" " + titleStyle.Render("New event") + "\n\n")
	for i := createField(0); i < numFields; i++ {
		b.WriteString(renderInput(createLabels[i], m.fields[i], i == m.focus, false))
		b.WriteString("\n")
		if msg, ok := m.formErrs[createKeys[i]]; ok {
			fmt.Fprintf(&b, "    %s\n", fieldErrorStyle.Render(msg))
		}
	}

	b.WriteString("\n")
	b.WriteString(" " + metaStyle.Render("date format: 2006-01-02 15:04") + "\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("creating...") + "\n")
	}
	if m.notice != "" {
		b.WriteString(" " + noticeView(m.notice, m.noticeErr) + "\n")
	}
	return b.String()
}
