package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80")).
		Bold(true).
		Render("E V E N T D E S K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Browse, create and join events from the terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"eventdesk", "Open the dashboard (interactive TUI)"},
		{"eventdesk logout", "Clear your saved session"},
		{"eventdesk --version", "Show version"},
		{"eventdesk help", "You are here"},
	}
	env := []struct{ name, desc string }{
		{"EVENTDESK_CONFIG", "Path to a YAML config file"},
		{"EVENTDESK_API_URL", "Event API base URL"},
		{"EVENTDESK_TOKEN", "Session token (with EVENTDESK_USER)"},
		{"EVENTDESK_ENV", "local, dev or prod logging"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  %s\n", title, tagline, sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Printf("\n  %s\n", sectionStyle.Render("Environment"))
	for _, e := range env {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", e.name)), descStyle.Render(e.desc))
	}
	fmt.Println()
}
