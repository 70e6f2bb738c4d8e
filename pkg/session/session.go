// Package session persists the authenticated identity between CLI
// invocations as a single JSON document on disk.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/Adama-mariko/notejour/pkg/api"
)

const defaultFileName = "session.json"

// document is the on-disk shape. Token and user are written together in one
// file so a reader always sees a matched pair or nothing.
type document struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

type Store struct {
	path string
}

// NewStore opens a store at path. With an empty path the default location is
// used: $NOTEJOUR_SESSION when set, ~/.config/notejour/session.json
// otherwise.
func NewStore(path string) *Store {
	if path == "" {
		path = defaultPath()
	}
	return &Store{path: path}
}

func defaultPath() string {
	if p := os.Getenv("NOTEJOUR_SESSION"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", defaultFileName)
	}
	return filepath.Join(dir, "notejour", defaultFileName)
}

func (s *Store) Path() string {
	return s.path
}

// Save replaces the stored session. The document is written to a temp file
// and renamed into place so a crash mid-write leaves either the old session
// or the new one, never a torn file.
func (s *Store) Save(token string, user api.User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(document{Token: token, User: user})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), defaultFileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Clear removes the stored session. Clearing an absent session succeeds.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Token returns the stored token. An absent or unreadable session reports
// false, never an error.
func (s *Store) Token() (string, bool) {
	doc, ok := s.load()
	if !ok {
		return "", false
	}
	return doc.Token, true
}

// CurrentUser returns the stored user alongside the token it was saved with.
func (s *Store) CurrentUser() (api.User, bool) {
	doc, ok := s.load()
	if !ok {
		return api.User{}, false
	}
	return doc.User, true
}

func (s *Store) load() (document, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, false
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, false
	}
	if doc.Token == "" {
		return document{}, false
	}
	return doc, true
}
