package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/codex-proto-go/internal/cli"
	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
	"github.com/wagiedev/codex-proto-go/internal/message"
	"github.com/wagiedev/codex-proto-go/internal/protocol"
	"github.com/wagiedev/codex-proto-go/internal/subprocess"
)

// Session is one live codex proto process.
type Session struct {
	id      string
	log     *slog.Logger
	options *config.Options
	pid     int

	queue *subprocess.Queue
	pumps *subprocess.Group

	// Process handle, taken exactly once by Close.
	mu   sync.Mutex
	proc config.Process

	state     atomic.Int32
	procDone  <-chan struct{}
	events    chan *message.Event
	errs      chan error
	closed    chan struct{}
	closeOnce sync.Once
}

// Start launches codex with the given options and starts the pumps.
//
// The options are copied; later changes by the caller have no effect.
// Returns *errors.DiscoveryError when no binary can be found and
// *errors.SpawnError when the process cannot be started.
func Start(ctx context.Context, options *config.Options) (*Session, error) {
	options = options.Clone()

	log := options.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	id := options.SessionID
	if id == "" {
		id = ulid.Make().String()
	}

	s := &Session{
		id:      id,
		log:     log.With("component", "session", "session_id", id),
		options: options,
		queue:   subprocess.NewQueue(),
		events:  make(chan *message.Event, options.EffectiveEventBufferSize()),
		errs:    make(chan error, options.EffectiveEventBufferSize()),
		closed:  make(chan struct{}),
	}
	s.state.Store(int32(StateStarting))

	s.log.Info("Starting codex session")

	cmd, err := cli.BuildCommand(ctx, options, options.Discoverer)
	if err != nil {
		return nil, fmt.Errorf("build codex command: %w", err)
	}

	s.log.Debug("Built codex command", "path", cmd.Path, "args", cmd.Args, "dir", cmd.Dir)

	launcher := options.Launcher
	if launcher == nil {
		launcher = subprocess.ForMode(s.log, options.SpawnMode)
	}

	handles, err := launcher.Launch(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("launch codex: %w", err)
	}

	if !handles.Complete() {
		panic("codex launcher returned an incomplete handle set")
	}

	s.proc = handles.Process
	s.procDone = handles.Process.Done()
	s.pid = handles.Process.Pid()

	s.pumps = subprocess.RunPumps(s.log, &subprocess.PumpConfig{
		Queue:       s.queue,
		Handles:     handles,
		Sink:        &sessionSink{s: s},
		MaxLineSize: options.EffectiveMaxLineSize(),
	})

	s.state.Store(int32(StateRunning))
	s.log.Info("Codex session running", "pid", s.pid)

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Pid returns the process id of the launched codex process.
func (s *Session) Pid() int {
	return s.pid
}

// Options returns a copy of the options the session was started with.
func (s *Session) Options() *config.Options {
	return s.options.Clone()
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Events returns the channel of decoded stdout events.
// It is closed when codex stdout reaches end of stream.
func (s *Session) Events() <-chan *message.Event {
	return s.events
}

// Errors returns the channel of per-line decode failures, each a
// *errors.DecodeError. Failures are dropped when nobody drains it.
// It is closed together with Events.
func (s *Session) Errors() <-chan error {
	return s.errs
}

// Done is closed when the codex process has exited.
func (s *Session) Done() <-chan struct{} {
	return s.procDone
}

// IsActive reports whether the session still holds its process and its
// outbound queue accepts submissions.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	held := s.proc != nil
	s.mu.Unlock()

	return held && s.queue.Open()
}

// SendUserInput queues a user_input submission with a single text item.
func (s *Session) SendUserInput(text string) error {
	return s.SendItems(&message.TextItem{Text: text})
}

// SendItems queues a user_input submission with the given items.
func (s *Session) SendItems(items ...message.InputItem) error {
	return s.submit(protocol.NewUserInput(items...))
}

// ApproveExecution answers an exec_approval_request. eventID is the id of
// the request event.
func (s *Session) ApproveExecution(eventID string, approved bool) error {
	return s.submit(protocol.NewExecApproval(eventID, approved))
}

// ApprovePatch answers an apply_patch_approval_request.
func (s *Session) ApprovePatch(eventID string, approved bool) error {
	return s.submit(protocol.NewPatchApproval(eventID, approved))
}

// Interrupt asks codex to abort the current turn.
func (s *Session) Interrupt() error {
	return s.submit(protocol.NewInterrupt())
}

// submit encodes sub and queues it. Returns errors.ErrSessionClosed, without
// encoding, once the queue no longer accepts submissions.
func (s *Session) submit(sub *protocol.Submission) error {
	if !s.queue.Open() {
		return errors.ErrSessionClosed
	}

	line, err := protocol.Encode(sub)
	if err != nil {
		return err
	}

	if err := s.queue.Push(line); err != nil {
		return err
	}

	s.log.Debug("Queued submission", "op", sub.Op.OpType(), "submission_id", sub.ID)

	return nil
}

// Close shuts the session down. It is safe to call more than once and
// always returns nil; problems during shutdown are logged.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosing))
		s.log.Info("Closing codex session")

		if err := s.submit(protocol.NewShutdown()); err != nil {
			s.log.Warn("Failed to queue shutdown submission", "error", err)
		}

		s.queue.Close()
		close(s.closed)

		s.mu.Lock()
		proc := s.proc
		s.proc = nil
		s.mu.Unlock()

		if proc != nil {
			if err := proc.Kill(); err != nil {
				s.log.Warn("Failed to kill codex process", "error", err)
			}
		}

		finished, err := s.pumps.Wait(s.options.EffectiveCloseTimeout())

		switch {
		case !finished:
			s.log.Warn("Pumps still running after close timeout", "timeout", s.options.EffectiveCloseTimeout())
		case err != nil:
			s.log.Debug("Pump ended with error", "error", err)
		}

		s.state.Store(int32(StateClosed))
		s.log.Info("Codex session closed")
	})

	return nil
}

// sessionSink routes pump output into the session's channels and callbacks.
// Deliveries give up once the session is closed so readers never block on
// an abandoned channel.
type sessionSink struct {
	s *Session
}

func (k *sessionSink) Event(event *message.Event) {
	select {
	case k.s.events <- event:
	case <-k.s.closed:
	}
}

func (k *sessionSink) Stderr(line string) {
	if cb := k.s.options.Stderr; cb != nil {
		cb(line)

		return
	}

	k.s.log.Debug("Codex stderr", "line", line)
}

func (k *sessionSink) DecodeFailure(err *errors.DecodeError) {
	if cb := k.s.options.OnDecodeError; cb != nil {
		cb(err)
	}

	select {
	case k.s.errs <- err:
	default:
		k.s.log.Warn("Errors channel full, dropping decode failure", "error", err)
	}
}

func (k *sessionSink) EndOfOutput() {
	close(k.s.events)
	close(k.s.errs)
}
