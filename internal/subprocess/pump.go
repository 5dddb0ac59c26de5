package subprocess

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
	"github.com/wagiedev/codex-proto-go/internal/message"
	"github.com/wagiedev/codex-proto-go/internal/protocol"
)

// initialScanBufferSize is the starting scanner buffer; it grows up to the
// configured maximum line size.
const initialScanBufferSize = 64 * 1024

// Sink receives everything the reader pumps produce.
//
// Implementations may block; the reader pauses until the call returns.
type Sink interface {
	Event(event *message.Event)
	Stderr(line string)
	DecodeFailure(err *errors.DecodeError)

	// EndOfOutput is called once, from the stdout reader, after its last
	// Event or DecodeFailure call.
	EndOfOutput()
}

// PumpConfig wires the pumps of one session.
type PumpConfig struct {
	Queue       *Queue
	Handles     *config.Handles
	Sink        Sink
	MaxLineSize int
}

// Group supervises the writer and both reader pumps of a session.
type Group struct {
	eg   errgroup.Group
	done chan struct{}
	err  error
}

// RunPumps starts the three pumps and returns their supervising group.
func RunPumps(log *slog.Logger, cfg *PumpConfig) *Group {
	maxLine := cfg.MaxLineSize
	if maxLine <= 0 {
		maxLine = config.DefaultMaxLineSize
	}

	g := &Group{done: make(chan struct{})}

	g.eg.Go(func() error {
		return RunWriter(log, cfg.Queue, cfg.Handles.Stdin)
	})
	g.eg.Go(func() error {
		return RunOutputReader(log, cfg.Handles.Stdout, maxLine, cfg.Sink)
	})
	g.eg.Go(func() error {
		return RunErrorReader(log, cfg.Handles.Stderr, maxLine, cfg.Sink)
	})

	go func() {
		g.err = g.eg.Wait()
		close(g.done)
	}()

	return g
}

// Done is closed once all pumps have returned.
func (g *Group) Done() <-chan struct{} {
	return g.done
}

// Wait waits up to timeout for the pumps to finish. A negative timeout only
// checks. It reports whether the pumps finished, and the first pump error.
func (g *Group) Wait(timeout time.Duration) (bool, error) {
	if timeout < 0 {
		select {
		case <-g.done:
			return true, g.err
		default:
			return false, nil
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-g.done:
		return true, g.err
	case <-timer.C:
		return false, nil
	}
}

// RunWriter drains q into stdin, one line per item, flushing after each.
//
// When q is closed and drained, stdin is closed and RunWriter returns nil.
// A write failure detaches q so later sends fail fast, and is returned as a
// *errors.PipeError.
func RunWriter(log *slog.Logger, q *Queue, stdin io.WriteCloser) error {
	log = log.With("pump", "writer")
	w := bufio.NewWriter(stdin)

	for {
		data, ok := q.Next()
		if !ok {
			log.Debug("Outbound queue closed, closing stdin")

			if err := stdin.Close(); err != nil {
				return &errors.PipeError{Stream: "stdin", Op: "close", Err: err}
			}

			return nil
		}

		if err := writeLine(w, data); err != nil {
			q.Detach()
			_ = stdin.Close()

			log.Error("Failed to write submission to codex", "error", err)

			return err
		}

		log.Debug("Wrote submission", "bytes", len(data))
	}
}

func writeLine(w *bufio.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return &errors.PipeError{Stream: "stdin", Op: "write", Err: err}
	}

	if err := w.WriteByte('\n'); err != nil {
		return &errors.PipeError{Stream: "stdin", Op: "write", Err: err}
	}

	if err := w.Flush(); err != nil {
		return &errors.PipeError{Stream: "stdin", Op: "flush", Err: err}
	}

	return nil
}

// RunOutputReader decodes stdout lines into events until EOF.
//
// Blank lines are skipped and a trailing carriage return is removed. Lines
// that fail to decode go to Sink.DecodeFailure and reading continues.
func RunOutputReader(log *slog.Logger, stdout io.ReadCloser, maxLineSize int, sink Sink) error {
	log = log.With("pump", "stdout")

	defer sink.EndOfOutput()
	defer stdout.Close()

	scanner := newScanner(stdout, maxLineSize)

	count := 0

	for scanner.Scan() {
		line := bytes.TrimSuffix(scanner.Bytes(), []byte{'\r'})
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		event, err := protocol.Decode(log, line)
		if err != nil {
			if decodeErr, ok := stderrors.AsType[*errors.DecodeError](err); ok {
				log.Warn("Failed to decode codex output", "error", err, "line", decodeErr.RawData)
				sink.DecodeFailure(decodeErr)
			}

			continue
		}

		count++
		log.Debug("Received event", "event_type", event.Type(), "event_count", count)

		sink.Event(event)
	}

	return scanEnd(log, "stdout", scanner.Err())
}

// RunErrorReader forwards stderr lines verbatim until EOF.
func RunErrorReader(log *slog.Logger, stderr io.ReadCloser, maxLineSize int, sink Sink) error {
	log = log.With("pump", "stderr")
	defer stderr.Close()

	scanner := newScanner(stderr, maxLineSize)
	for scanner.Scan() {
		sink.Stderr(scanner.Text())
	}

	return scanEnd(log, "stderr", scanner.Err())
}

func newScanner(r io.Reader, maxLineSize int) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(initialScanBufferSize, maxLineSize)), maxLineSize)

	return scanner
}

// scanEnd logs why a reader stopped. Closed pipes and pty hangups after the
// child exits are normal and not reported as errors.
func scanEnd(log *slog.Logger, stream string, err error) error {
	if err == nil || stderrors.Is(err, io.ErrClosedPipe) || stderrors.Is(err, os.ErrClosed) || isHangup(err) {
		log.Debug("Reader reached end of stream", "error", err)

		return nil
	}

	log.Error("Reader stopped", "error", err)

	return &errors.PipeError{Stream: stream, Op: "read", Err: err}
}
