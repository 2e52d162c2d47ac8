package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/eventdesk/internal/config"
	"github.com/naveenspark/eventdesk/internal/lib/logger"
	"github.com/naveenspark/eventdesk/internal/service"
	"github.com/naveenspark/eventdesk/internal/session"
	"github.com/naveenspark/eventdesk/internal/tui"
	"github.com/naveenspark/eventdesk/pkg/client"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("eventdesk " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		}
	}

	cfg := config.MustLoad()

	logFile, err := openLog(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck

	log := logger.New(cfg.Env, logFile)
	log.Info("starting eventdesk", slog.String("env", cfg.Env), slog.String("api_url", cfg.APIURL))

	store := openSession(cfg.SessionPath, os.Getenv)

	if len(args) > 0 && args[0] == "logout" {
		return runLogout(store)
	}

	c := client.New(cfg.APIURL, store, cfg.RequestTimeout)
	app := tui.NewApp(service.New(c, store, log), log, tui.Options{
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
		NoticeTTL:      cfg.NoticeTTL,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	log.Info("eventdesk stopped")
	return nil
}

// openLog opens the append-only log file. The TUI owns the terminal, so
// nothing is logged to stdout.
func openLog(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// openSession returns the session store using precedence: env vars > file.
// A session taken from the environment is never written to disk.
func openSession(path string, getenv func(string) string) session.Store {
	tok, user := getenv("EVENTDESK_TOKEN"), getenv("EVENTDESK_USER")
	if tok != "" && user != "" {
		return session.NewMemoryStore(domain.Session{Token: tok, UserID: user})
	}
	return session.OpenFile(path)
}

func runLogout(store session.Store) error {
	if _, ok := store.Session(); !ok {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}
