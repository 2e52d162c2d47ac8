// Package session holds the current authentication token and user id.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/naveenspark/eventdesk/pkg/domain"
)

// Store is the single shared holder of the authenticated session.
// Reads never fail: an absent session is reported as ok=false.
type Store interface {
	Token() (string, bool)
	UserID() (string, bool)
	Session() (domain.Session, bool)
	Set(userID, token string) error
	Clear() error
}

// MemoryStore keeps the session in memory only.
type MemoryStore struct {
	mu   sync.RWMutex
	sess domain.Session
}

// NewMemoryStore returns a store seeded with sess (which may be empty).
func NewMemoryStore(sess domain.Session) *MemoryStore {
	return &MemoryStore{sess: sess}
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token, s.sess.Token != ""
}

func (s *MemoryStore) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.UserID, s.sess.UserID != ""
}

func (s *MemoryStore) Session() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess, s.sess.Valid()
}

func (s *MemoryStore) Set(userID, token string) error {
	if userID == "" || token == "" {
		return errors.New("session.Set: user id and token are required")
	}
	s.mu.Lock()
	s.sess = domain.Session{Token: token, UserID: userID}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.sess = domain.Session{}
	s.mu.Unlock()
	return nil
}

// FileStore persists the session as JSON with the keys "token" and "user".
type FileStore struct {
	mem  MemoryStore
	path string
	mu   sync.Mutex // serializes file writes
}

// OpenFile loads the session at path. A missing or unreadable file yields an
// empty session rather than an error.
func OpenFile(path string) *FileStore {
	fs := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return fs
	}
	var sess domain.Session
	if json.Unmarshal(data, &sess) == nil {
		fs.mem.sess = sess
	}
	return fs
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Token() (string, bool)           { return s.mem.Token() }
func (s *FileStore) UserID() (string, bool)          { return s.mem.UserID() }
func (s *FileStore) Session() (domain.Session, bool) { return s.mem.Session() }

// Set writes both fields to disk then updates memory.
func (s *FileStore) Set(userID, token string) error {
	if userID == "" || token == "" {
		return errors.New("session.Set: user id and token are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(domain.Session{Token: token, UserID: userID})
	if err != nil {
		return fmt.Errorf("session.Set: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("session.Set: create dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("session.Set: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("session.Set: rename: %w", err)
	}
	return s.mem.Set(userID, token)
}

// Clear forgets the session in memory and removes the file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem.Clear() //nolint:errcheck // never fails
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}
