package bridge

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wagiedev/codex-proto-go/internal/cli"
	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
	"github.com/wagiedev/codex-proto-go/internal/manager"
	"github.com/wagiedev/codex-proto-go/internal/message"
	"github.com/wagiedev/codex-proto-go/internal/settings"
)

const (
	pingInterval     = 30 * time.Second
	readDeadline     = 60 * time.Second
	writeDeadline    = 10 * time.Second
	sendBufferSize   = 256
	maxRequestSize   = 16 << 20
	shutdownDeadline = 5 * time.Second
)

// VersionFunc reports the codex version. codexPath may be empty.
type VersionFunc func(ctx context.Context, codexPath string) (string, error)

// Config configures a Server.
type Config struct {
	// Logger is an optional logger. Nil discards.
	Logger *slog.Logger

	// MaxSessions caps concurrently running sessions. Zero means no cap.
	MaxSessions int

	// Defaults returns the session defaults that start_codex_session
	// arguments are layered over. Called on every start so reloaded
	// settings apply to new sessions.
	Defaults func() settings.Session

	// BaseOptions seeds every session's options (logger, launcher, buffer
	// sizes). Session fields from Defaults and the request override it.
	BaseOptions *config.Options

	// Version overrides the codex version probe.
	Version VersionFunc
}

// Server is the websocket bridge.
type Server struct {
	log      *slog.Logger
	mgr      *manager.Manager
	defaults func() settings.Session
	base     *config.Options
	version  VersionFunc
	cmds     map[string]*command
	upgrader websocket.Upgrader
	started  time.Time
	addr     string

	clientsMu sync.RWMutex
	clients   map[*wsClient]struct{}
}

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
	log    *slog.Logger
}

// Compile-time verification that Server implements manager.Listener.
var _ manager.Listener = (*Server)(nil)

// New creates a bridge with its own session manager.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		log:      log.With("component", "bridge"),
		defaults: cfg.Defaults,
		base:     cfg.BaseOptions.Clone(),
		version:  cfg.Version,
		started:  time.Now(),
		clients:  make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			// The bridge listens on loopback by default; any local origin is accepted.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	if s.base.Logger == nil {
		s.base.Logger = log
	}

	if s.defaults == nil {
		s.defaults = func() settings.Session { return settings.Session{} }
	}

	if s.version == nil {
		s.version = s.probeVersion
	}

	s.mgr = manager.New(&manager.Config{Logger: log, MaxSessions: cfg.MaxSessions, Listener: s})
	s.cmds = s.commands()

	return s
}

// Manager returns the session manager behind the bridge.
func (s *Server) Manager() *manager.Manager {
	return s.mgr
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/remote_ui_ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

// ListenAndServe serves on addr until ctx is done, then closes every session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.addr = ln.Addr().String()
	s.log.Info("Bridge listening", "addr", s.addr)

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	err = srv.Serve(ln)

	if closeErr := s.Close(); closeErr != nil {
		s.log.Warn("Failed to close sessions", "error", closeErr)
	}

	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Close closes every session and disconnects every client.
func (s *Server) Close() error {
	err := s.mgr.CloseAll()

	s.clientsMu.RLock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
	s.clientsMu.RUnlock()

	return err
}

func (s *Server) probeVersion(ctx context.Context, codexPath string) (string, error) {
	if codexPath == "" {
		path, err := cli.NewDiscoverer(&cli.Config{Logger: s.log}).Discover(ctx)
		if err != nil {
			return "", err
		}

		codexPath = path
	}

	return cli.Version(ctx, codexPath)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)

		return
	}

	c := &wsClient{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		server: s,
		log:    s.log.With("remote", conn.RemoteAddr().String()),
	}

	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()

	c.log.Info("Client connected")

	go c.writePump()
	c.readPump(r.Context())
}

func (s *Server) removeClient(c *wsClient) {
	s.clientsMu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.clientsMu.Unlock()

	if ok {
		close(c.send)
	}
}

// readPump handles requests until the connection fails.
func (c *wsClient) readPump(ctx context.Context) {
	defer func() {
		c.server.removeClient(c)
		_ = c.conn.Close()

		c.log.Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxRequestSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Websocket read failed", "error", err)
			}

			return
		}

		c.enqueue(c.server.handle(ctx, data))
	}
}

// writePump owns all writes to the connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) enqueue(data []byte) {
	if data == nil {
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn("Client send buffer full, dropping message")
	}
}

// handle runs one request and returns the encoded response.
func (s *Server) handle(ctx context.Context, data []byte) []byte {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return s.encode(Response{ID: json.RawMessage("null"), Payload: failure(fmt.Errorf("invalid request: %w", err))})
	}

	if len(req.ID) == 0 {
		req.ID = json.RawMessage("null")
	}

	cmd, ok := s.cmds[req.Cmd]
	if !ok {
		return s.encode(Response{ID: req.ID, Payload: failure(fmt.Errorf("unknown command %q", req.Cmd))})
	}

	s.log.Debug("Handling command", "cmd", req.Cmd)

	result, err := cmd.run(ctx, req.Args)
	if err != nil {
		s.log.Warn("Command failed", "cmd", req.Cmd, "error", err)

		return s.encode(Response{ID: req.ID, Payload: failure(err)})
	}

	return s.encode(Response{ID: req.ID, Payload: Result{Status: StatusSuccess, Payload: result}})
}

func failure(err error) Result {
	return Result{Status: StatusError, Payload: err.Error()}
}

func (s *Server) encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("Failed to encode bridge message", "error", err)

		return nil
	}

	return data
}

// broadcast sends a push to every connected client.
func (s *Server) broadcast(push Push) {
	data := s.encode(push)
	if data == nil {
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for c := range s.clients {
		c.enqueue(data)
	}
}

// OnEvent implements manager.Listener.
func (s *Server) OnEvent(sessionID string, event *message.Event) {
	s.broadcast(Push{Event: EventName(sessionID), Payload: event})
}

// OnStderr implements manager.Listener.
func (s *Server) OnStderr(sessionID, line string) {
	s.broadcast(Push{Event: ErrorEventName(sessionID), Payload: line})
}

// OnDecodeError implements manager.Listener.
func (s *Server) OnDecodeError(sessionID string, err *errors.DecodeError) {
	s.broadcast(Push{Event: ErrorEventName(sessionID), Payload: err.Error()})
}

// OnSessionEnded implements manager.Listener.
func (s *Server) OnSessionEnded(sessionID string) {
	s.log.Info("Session output ended", "session_id", sessionID)
}
