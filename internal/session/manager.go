package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattdef/miniclaw/internal/logger"
)

// Manager owns all in-memory sessions and persists them to
// <workspace>/sessions/<session_id>.json. A read-mostly map lock guards the
// session table itself; each Session is additionally guarded by its own
// per-session lock so concurrent turns against different chats never
// contend with each other.
type Manager struct {
	dir      string
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewManager creates a Manager rooted at <workspace>/sessions.
func NewManager(workspace string) *Manager {
	dir := filepath.Join(workspace, "sessions")
	_ = os.MkdirAll(dir, 0o755)
	return &Manager{dir: dir, sessions: make(map[string]*entry)}
}

// GetOrCreate returns the session for channel+chatID, loading it from disk
// on first access (quarantining the file if it is corrupted) or creating a
// fresh one if none exists yet.
func (m *Manager) GetOrCreate(channel, chatID string) *Session {
	id := channel + "_" + chatID

	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.session
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[id]; ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.session
	}

	sess := m.loadFromDisk(id)
	if sess == nil {
		sess = New(channel, chatID)
	}
	m.sessions[id] = &entry{session: sess}
	return sess
}

// AddMessage appends message to the named session under its per-session
// lock and persists the result.
func (m *Manager) AddMessage(channel, chatID string, message Message) error {
	id := channel + "_" + chatID

	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		m.GetOrCreate(channel, chatID)
		m.mu.RLock()
		e = m.sessions[id]
		m.mu.RUnlock()
	}

	e.mu.Lock()
	e.session.AddMessage(message)
	sess := e.session
	e.mu.Unlock()

	return m.save(sess)
}

func (m *Manager) path(sessionID string) string {
	return filepath.Join(m.dir, sessionID+".json")
}

func (m *Manager) loadFromDisk(sessionID string) *Session {
	path := m.path(sessionID)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		logger.WarnCF("session", "quarantining corrupted session file", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		_ = os.Rename(path, path+".corrupted")
		return nil
	}
	return &sess
}

// save writes a session to disk atomically: write to a temp file, then
// rename over the target, so a concurrent reader never observes a
// partially-written file.
func (m *Manager) save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session %s: %w", sess.SessionID, err)
	}

	path := m.path(sess.SessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming session file: %w", err)
	}
	return nil
}

// SaveAll persists every currently loaded session. Used on shutdown.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var firstErr error
	for _, e := range m.sessions {
		e.mu.Lock()
		err := m.save(e.session)
		e.mu.Unlock()
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
