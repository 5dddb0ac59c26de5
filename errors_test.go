package codexsdk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrors_ImplementCodexSDKError(t *testing.T) {
	inner := fmt.Errorf("boom")

	tests := []struct {
		name string
		err  error
	}{
		{"discovery", &DiscoveryError{SearchedPaths: []string{"$PATH"}}},
		{"spawn", &SpawnError{Path: "/bin/codex", Err: inner}},
		{"encode", &EncodeError{Err: inner}},
		{"decode", &DecodeError{RawData: "nope", Err: inner}},
		{"pipe", &PipeError{Stream: "stdin", Op: "write", Err: inner}},
		{"process", &ProcessError{ExitCode: 2, Err: inner}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdkErr, ok := errors.AsType[CodexSDKError](tt.err)
			require.True(t, ok)
			require.True(t, sdkErr.IsCodexSDKError())
			require.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_WrappedSentinels(t *testing.T) {
	err := fmt.Errorf("send: %w", ErrSessionClosed)

	require.ErrorIs(t, err, ErrSessionClosed)
	require.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestSpawnError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("no such file")
	err := fmt.Errorf("launch codex: %w", &SpawnError{Path: "/x", Err: inner})

	spawnErr, ok := errors.AsType[*SpawnError](err)
	require.True(t, ok)
	require.Equal(t, "/x", spawnErr.Path)
	require.ErrorIs(t, err, inner)
}
