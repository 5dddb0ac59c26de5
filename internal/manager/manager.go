package manager

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/codex-proto-go/internal/client"
	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
	"github.com/wagiedev/codex-proto-go/internal/message"
)

// Listener receives the output of every managed session.
//
// Calls for one session are made from that session's reader goroutines;
// calls for different sessions may be concurrent.
type Listener interface {
	OnEvent(sessionID string, event *message.Event)
	OnStderr(sessionID string, line string)
	OnDecodeError(sessionID string, err *errors.DecodeError)
	// OnSessionEnded is called once codex stdout for the session reaches end
	// of stream, whether it exited or was closed.
	OnSessionEnded(sessionID string)
}

// Config configures a Manager.
type Config struct {
	// Logger is an optional logger. Nil discards.
	Logger *slog.Logger

	// MaxSessions caps concurrently registered sessions. Zero means no cap.
	MaxSessions int

	// Listener receives session output. Nil drops it.
	Listener Listener
}

// Info describes a managed session.
type Info struct {
	ID     string `json:"id"`
	Pid    int    `json:"pid"`
	State  string `json:"state"`
	Active bool   `json:"active"`
}

// Manager maps session ids to running sessions.
type Manager struct {
	log      *slog.Logger
	max      int
	listener Listener

	mu       sync.RWMutex
	sessions map[string]*client.Session // nil value: start in progress
}

// New creates an empty manager.
func New(cfg *Config) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	listener := cfg.Listener
	if listener == nil {
		listener = nopListener{}
	}

	return &Manager{
		log:      log.With("component", "manager"),
		max:      cfg.MaxSessions,
		listener: listener,
		sessions: make(map[string]*client.Session),
	}
}

// Start launches a session under id. An empty id falls back to
// options.SessionID, then to a fresh ULID. Returns errors.ErrSessionExists if id is taken and
// errors.ErrTooManySessions at the cap.
func (m *Manager) Start(ctx context.Context, id string, options *config.Options) (*client.Session, error) {
	options = options.Clone()

	if id == "" {
		id = options.SessionID
	}

	if id == "" {
		id = ulid.Make().String()
	}

	if err := m.reserve(id); err != nil {
		return nil, err
	}

	options.SessionID = id
	m.wrapCallbacks(options)

	s, err := client.Start(ctx, options)
	if err != nil {
		m.release(id)

		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	go m.forward(s)

	m.log.Info("Session started", "session_id", id, "pid", s.Pid())

	return s, nil
}

// reserve claims id so concurrent starts for the same id fail fast.
func (m *Manager) reserve(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		return fmt.Errorf("%w: %s", errors.ErrSessionExists, id)
	}

	if m.max > 0 && len(m.sessions) >= m.max {
		return fmt.Errorf("%w (max %d)", errors.ErrTooManySessions, m.max)
	}

	m.sessions[id] = nil

	return nil
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok && s == nil {
		delete(m.sessions, id)
	}
}

// wrapCallbacks chains the listener behind any callbacks the caller set.
func (m *Manager) wrapCallbacks(options *config.Options) {
	id := options.SessionID
	userStderr := options.Stderr
	userDecode := options.OnDecodeError

	options.Stderr = func(line string) {
		if userStderr != nil {
			userStderr(line)
		}

		m.listener.OnStderr(id, line)
	}

	options.OnDecodeError = func(err *errors.DecodeError) {
		if userDecode != nil {
			userDecode(err)
		}

		m.listener.OnDecodeError(id, err)
	}
}

// forward drains a session's events into the listener.
func (m *Manager) forward(s *client.Session) {
	for event := range s.Events() {
		m.listener.OnEvent(s.ID(), event)
	}

	m.log.Debug("Session output ended", "session_id", s.ID())
	m.listener.OnSessionEnded(s.ID())
}

// Get returns the session registered under id.
func (m *Manager) Get(id string) (*client.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrSessionNotFound, id)
	}

	return s, nil
}

// Send queues a text message for the session.
func (m *Manager) Send(id, text string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	return s.SendUserInput(text)
}

// ApproveExecution answers an exec approval request.
func (m *Manager) ApproveExecution(id, eventID string, approved bool) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	return s.ApproveExecution(eventID, approved)
}

// ApprovePatch answers a patch approval request.
func (m *Manager) ApprovePatch(id, eventID string, approved bool) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	return s.ApprovePatch(eventID, approved)
}

// Interrupt pauses the session's current turn.
func (m *Manager) Interrupt(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	return s.Interrupt()
}

// Close unregisters and closes the session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()

	s, ok := m.sessions[id]
	if !ok || s == nil {
		m.mu.Unlock()

		return fmt.Errorf("%w: %s", errors.ErrSessionNotFound, id)
	}

	delete(m.sessions, id)
	m.mu.Unlock()

	m.log.Info("Closing session", "session_id", id)

	return s.Close()
}

// CloseAll closes every registered session concurrently.
func (m *Manager) CloseAll() error {
	m.mu.Lock()

	sessions := make([]*client.Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		if s == nil {
			continue
		}

		sessions = append(sessions, s)
		delete(m.sessions, id)
	}

	m.mu.Unlock()

	var g errgroup.Group
	for _, s := range sessions {
		g.Go(s.Close)
	}

	return g.Wait()
}

// List describes all registered sessions, ordered by id.
func (m *Manager) List() []Info {
	m.mu.RLock()

	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s == nil {
			continue
		}

		infos = append(infos, Info{
			ID:     s.ID(),
			Pid:    s.Pid(),
			State:  s.State().String(),
			Active: s.IsActive(),
		})
	}

	m.mu.RUnlock()

	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.ID, b.ID) })

	return infos
}

// Len returns the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

type nopListener struct{}

func (nopListener) OnEvent(string, *message.Event) {}

func (nopListener) OnStderr(string, string) {}

func (nopListener) OnDecodeError(string, *errors.DecodeError) {}

func (nopListener) OnSessionEnded(string) {}
