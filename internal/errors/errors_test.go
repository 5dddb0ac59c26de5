package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoveryError(t *testing.T) {
	err := &DiscoveryError{
		SearchedPaths: []string{"$PATH", "/usr/local/bin/codex"},
	}

	require.Equal(t, "codex executable not found in: [$PATH /usr/local/bin/codex]", err.Error())
	require.True(t, err.IsCodexSDKError())
}

func TestSpawnError(t *testing.T) {
	root := errors.New("permission denied")

	t.Run("with path", func(t *testing.T) {
		err := &SpawnError{Path: "/opt/codex", Err: root}

		require.Equal(t, "failed to spawn /opt/codex: permission denied", err.Error())
		require.ErrorIs(t, err, root)
		require.True(t, err.IsCodexSDKError())
	})

	t.Run("without path", func(t *testing.T) {
		err := &SpawnError{Err: root}

		require.Equal(t, "failed to spawn codex: permission denied", err.Error())
	})
}

func TestEncodeError(t *testing.T) {
	root := errors.New("unsupported value")
	err := &EncodeError{Op: "user_input", Err: root}

	require.Equal(t, "failed to encode user_input submission: unsupported value", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsCodexSDKError())
}

func TestDecodeError(t *testing.T) {
	root := errors.New("invalid character 'o'")
	err := &DecodeError{RawData: "not-json", Err: root}

	require.Equal(t, "failed to decode event from codex: invalid character 'o'", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsCodexSDKError())
}

func TestPipeError(t *testing.T) {
	root := errors.New("broken pipe")
	err := &PipeError{Stream: "stdin", Op: "write", Err: root}

	require.Equal(t, "stdin write failed: broken pipe", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsCodexSDKError())

	pipeErr, ok := errors.AsType[*PipeError](error(err))
	require.True(t, ok)
	require.Equal(t, "stdin", pipeErr.Stream)
}

func TestProcessError_WithStderr(t *testing.T) {
	err := &ProcessError{ExitCode: 2, Stderr: "unknown flag -V", Err: errors.New("exit status 2")}

	require.Equal(t, "codex process failed (exit 2): unknown flag -V", err.Error())
	require.True(t, err.IsCodexSDKError())
}

func TestProcessError_WithoutStderr(t *testing.T) {
	root := errors.New("signal: killed")
	err := &ProcessError{ExitCode: -1, Err: root}

	require.Equal(t, "codex process failed (exit -1): signal: killed", err.Error())
	require.ErrorIs(t, err, root)
}
