package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOptions_Clone(t *testing.T) {
	orig := &Options{
		Model:      "gpt-5",
		CustomArgs: []string{"-c", "foo=bar"},
	}

	c := orig.Clone()
	c.CustomArgs[1] = "foo=baz"
	c.Model = "o3"

	require.Equal(t, "foo=bar", orig.CustomArgs[1])
	require.Equal(t, "gpt-5", orig.Model)
}

func TestOptions_CloneNil(t *testing.T) {
	var o *Options

	require.NotNil(t, o.Clone())
}

func TestOptions_Defaults(t *testing.T) {
	o := &Options{}

	require.Equal(t, DefaultEventBufferSize, o.EffectiveEventBufferSize())
	require.Equal(t, DefaultMaxLineSize, o.EffectiveMaxLineSize())
	require.Equal(t, DefaultCloseTimeout, o.EffectiveCloseTimeout())

	o = &Options{EventBufferSize: 4, MaxLineSize: 64, CloseTimeout: -1}

	require.Equal(t, 4, o.EffectiveEventBufferSize())
	require.Equal(t, 64, o.EffectiveMaxLineSize())
	require.Equal(t, time.Duration(-1), o.EffectiveCloseTimeout())
}

func TestCommand_Argv(t *testing.T) {
	cmd := &Command{Path: "/usr/bin/codex", Args: []string{"proto", "-c", "model=m"}}

	require.Equal(t, []string{"/usr/bin/codex", "proto", "-c", "model=m"}, cmd.Argv())
}

func TestHandles_Complete(t *testing.T) {
	var h *Handles

	require.False(t, h.Complete())
	require.False(t, (&Handles{}).Complete())
}
