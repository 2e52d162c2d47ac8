package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// modalView renders the selected event with its registered members.
func (m dashboardModel) modalView() string {
	ev := m.selected
	var b strings.Builder

	b.WriteString(titleStyle.Render(ev.Title))
	b.WriteString("\n\n")
	if d := strings.TrimSpace(ev.Description); d != "" {
		b.WriteString(normalStyle.Render(d))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s %s\n", metaStyle.Render("date     "), normalStyle.Render(formatDate(ev.Date)))
	fmt.Fprintf(&b, "%s %s\n", metaStyle.Render("location "), normalStyle.Render(ev.Location))
	fmt.Fprintf(&b, "%s %s\n", metaStyle.Render("capacity "), goldStyle.Render(fmt.Sprintf("%d", ev.MaxParticipants)))

	b.WriteString("\n")
	b.WriteString(sectionHeaderStyle.Render("Registered users"))
	b.WriteString("\n")
	switch {
	case m.membersLoading:
		b.WriteString(dimStyle.Render("loading..."))
		b.WriteString("\n")
	case !m.membersLoaded:
		b.WriteString(dimStyle.Render("press m to load"))
		b.WriteString("\n")
	case len(m.members) == 0:
		b.WriteString(dimStyle.Render("No users registered yet."))
		b.WriteString("\n")
	default:
		for _, mem := range m.members {
			fmt.Fprintf(&b, "%s %s\n", normalStyle.Render(mem.Name), metaStyle.Render("<"+mem.Email+">"))
		}
	}
	if m.registering {
		b.WriteString("\n" + dimStyle.Render("registering..."))
	}

	width := m.width - 4
	if width < 40 {
		width = 60
	}
	box := modalStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))

	out := lipgloss.NewStyle().PaddingLeft(1).Render(box) + "\n"
	if m.notice != "" {
		out += " " + noticeView(m.notice, m.noticeErr) + "\n"
	}
	return out
}
