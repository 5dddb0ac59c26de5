package protocol

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/wagiedev/codex-proto-go/internal/errors"
	"github.com/wagiedev/codex-proto-go/internal/message"
)

// Encode serializes a submission as a single JSON line without the trailing
// newline. The writer pump appends the terminator.
func Encode(sub *Submission) ([]byte, error) {
	if sub == nil || sub.Op == nil {
		return nil, &errors.EncodeError{Err: fmt.Errorf("submission has no op")}
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return nil, &errors.EncodeError{Op: sub.Op.OpType(), Err: err}
	}

	return data, nil
}

// Decode parses one stdout line into an Event.
//
// Returns *errors.DecodeError when the line is not a JSON object. Lines that
// are valid objects always decode, falling back to *message.UnknownEvent.
func Decode(log *slog.Logger, line []byte) (*message.Event, error) {
	return message.Parse(log, line)
}
