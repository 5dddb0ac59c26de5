package codexsdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	var stderrLines []string

	options := applyOptions([]Option{
		WithLogger(NopLogger()),
		WithCodexPath("/opt/codex"),
		WithModel("gpt-5"),
		WithApprovalPolicy(ApprovalOnRequest),
		WithSandboxMode(string(SandboxReadOnly)),
		WithOSS(true),
		WithCwd("/work"),
		WithCustomArgs("--foo"),
		WithCustomArgs("--bar", "baz"),
		WithForceReasoning(true),
		WithSpawnMode(SpawnPTY),
		WithSessionID("s-1"),
		WithStderr(func(line string) { stderrLines = append(stderrLines, line) }),
		WithEventBufferSize(8),
		WithMaxLineSize(1024),
		WithCloseTimeout(time.Second),
	})

	require.NotNil(t, options.Logger)
	require.Equal(t, "/opt/codex", options.CodexPath)
	require.Equal(t, "gpt-5", options.Model)
	require.Equal(t, "on-request", options.ApprovalPolicy)
	require.Equal(t, "read-only", options.SandboxMode)
	require.True(t, options.UseOSS)
	require.Equal(t, "/work", options.Cwd)
	require.Equal(t, []string{"--foo", "--bar", "baz"}, options.CustomArgs)
	require.True(t, options.ForceReasoning)
	require.Equal(t, SpawnPTY, options.SpawnMode)
	require.Equal(t, "s-1", options.SessionID)
	require.Equal(t, 8, options.EventBufferSize)
	require.Equal(t, 1024, options.MaxLineSize)
	require.Equal(t, time.Second, options.CloseTimeout)

	options.Stderr("hello")
	require.Equal(t, []string{"hello"}, stderrLines)
}

func TestApplyOptions_Empty(t *testing.T) {
	options := applyOptions(nil)

	require.Nil(t, options.Logger)
	require.Empty(t, options.CodexPath)
	require.Empty(t, options.SpawnMode)
}

func TestWithOptions_CopiesBase(t *testing.T) {
	base := &SessionOptions{
		Model:      "base-model",
		CustomArgs: []string{"-x"},
	}

	options := applyOptions([]Option{
		WithOptions(base),
		WithModel("override"),
		WithCustomArgs("-y"),
	})

	require.Equal(t, "override", options.Model)
	require.Equal(t, []string{"-x", "-y"}, options.CustomArgs)

	// The base is untouched.
	require.Equal(t, "base-model", base.Model)
	require.Equal(t, []string{"-x"}, base.CustomArgs)
}

func TestWithOptions_Nil(t *testing.T) {
	options := applyOptions([]Option{WithModel("m"), WithOptions(nil)})

	require.Equal(t, "m", options.Model)
}
