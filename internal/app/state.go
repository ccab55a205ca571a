package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Well-known persistence keys, one JSON file each.
const (
	chatStateKey = "chat"
	authStateKey = "auth"
)

// StateStore persists client state as JSON snapshots under a data root,
// one file per key:
//
//	<root>/state/<key>.json
//
// Reads fall back to zero values on missing or corrupt files; writes are
// best-effort and never abort the mutation that triggered them.
type StateStore struct {
	Root string
}

func DefaultStateRoot() string {
	// Prefer XDG data dir (Linux/macOS). If unavailable, fall back to ~/.local/share.
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "studyroom")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "studyroom")
	}
	return filepath.Join(os.TempDir(), "studyroom")
}

func NewStateStore(root string) *StateStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultStateRoot()
	}
	return &StateStore{Root: root}
}

func (s *StateStore) statePath(key string) string {
	return filepath.Join(s.Root, "state", key+".json")
}

func (s *StateStore) save(key string, v any) error {
	if err := os.MkdirAll(filepath.Join(s.Root, "state"), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.statePath(key), b, 0o644)
}

func (s *StateStore) load(key string, v any) error {
	b, err := os.ReadFile(s.statePath(key))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// LoadChatState returns the persisted session snapshot, or a zero State when
// nothing usable is on disk. RestoreStore heals the zero value into a single
// fresh session.
func (s *StateStore) LoadChatState() State {
	var st State
	if err := s.load(chatStateKey, &st); err != nil {
		return State{}
	}
	return st
}

// SaveChatState writes the snapshot. Errors are reported but callers treat
// the write as fire-and-forget.
func (s *StateStore) SaveChatState(st State) error {
	return s.save(chatStateKey, st)
}

// LoadAuth returns the persisted auth state, or a logged-out state when
// nothing usable is on disk.
func (s *StateStore) LoadAuth() AuthState {
	var a AuthState
	if err := s.load(authStateKey, &a); err != nil {
		return AuthState{}
	}
	return a
}

func (s *StateStore) SaveAuth(a AuthState) error {
	return s.save(authStateKey, a)
}

// ClearAuth removes the persisted auth state. A missing file is fine.
func (s *StateStore) ClearAuth() error {
	err := os.Remove(s.statePath(authStateKey))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
