package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
)

func requireUnix(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func shellCommand(script string) *config.Command {
	return &config.Command{Path: "/bin/sh", Args: []string{"-c", script}}
}

func TestForMode(t *testing.T) {
	log := discardLogger()

	require.IsType(t, &DirectLauncher{}, ForMode(log, ""))
	require.IsType(t, &DirectLauncher{}, ForMode(log, config.SpawnDirect))
	require.IsType(t, &DirectLauncher{}, ForMode(log, "bogus"))
	require.IsType(t, &ScriptLauncher{}, ForMode(log, config.SpawnScript))
	require.IsType(t, &PTYLauncher{}, ForMode(log, config.SpawnPTY))
}

func TestDirectLauncher_EchoRoundTrip(t *testing.T) {
	requireUnix(t)

	handles, err := NewDirectLauncher(discardLogger()).Launch(
		context.Background(),
		shellCommand(`while IFS= read -r line; do echo "$line"; echo "err:$line" >&2; done`),
	)
	require.NoError(t, err)
	require.True(t, handles.Complete())
	require.Positive(t, handles.Process.Pid())

	_, err = io.WriteString(handles.Stdin, "hello\n")
	require.NoError(t, err)

	stdout := bufio.NewReader(handles.Stdout)
	line, err := stdout.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "hello\n", line)

	stderr := bufio.NewReader(handles.Stderr)
	line, err = stderr.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "err:hello\n", line)

	require.NoError(t, handles.Stdin.Close())

	select {
	case <-handles.Process.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit after stdin closed")
	}

	require.Equal(t, 0, handles.Process.ExitCode())
}

func TestDirectLauncher_WorkingDirectory(t *testing.T) {
	requireUnix(t)

	dir := t.TempDir()

	c := shellCommand("pwd -P")
	c.Dir = dir

	handles, err := NewDirectLauncher(discardLogger()).Launch(context.Background(), c)
	require.NoError(t, err)

	out, err := io.ReadAll(handles.Stdout)
	require.NoError(t, err)

	want, err := exec.Command("/bin/sh", "-c", "cd "+dir+" && pwd -P").Output()
	require.NoError(t, err)
	require.Equal(t, string(want), string(out))
}

func TestDirectLauncher_KillEndsProcess(t *testing.T) {
	requireUnix(t)

	handles, err := NewDirectLauncher(discardLogger()).Launch(context.Background(), shellCommand("sleep 30"))
	require.NoError(t, err)

	require.NoError(t, handles.Process.Kill())

	select {
	case <-handles.Process.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process survived kill")
	}

	require.NoError(t, handles.Process.Kill(), "killing an exited process is not an error")

	_, err = io.ReadAll(handles.Stdout)
	require.NoError(t, err)
}

func TestDirectLauncher_MissingBinary(t *testing.T) {
	_, err := NewDirectLauncher(discardLogger()).Launch(
		context.Background(),
		&config.Command{Path: "/nonexistent/codex", Args: []string{"proto"}},
	)

	spawnErr, ok := stderrors.AsType[*errors.SpawnError](err)
	require.True(t, ok)
	require.Equal(t, "/nonexistent/codex", spawnErr.Path)
}

func TestDirectLauncher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirectLauncher(discardLogger()).Launch(ctx, shellCommand("true"))

	_, ok := stderrors.AsType[*errors.SpawnError](err)
	require.True(t, ok)
	require.ErrorIs(t, err, context.Canceled)
}

func TestScriptLauncher_Wrap(t *testing.T) {
	cmd := &config.Command{
		Path: "/usr/bin/codex",
		Args: []string{"proto", "-c", "model=it's"},
		Dir:  "/work",
	}

	tests := []struct {
		name      string
		available map[string]string
		wantPath  string
		wantArgs  []string
	}{
		{
			name:      "script available",
			available: map[string]string{"script": "/usr/bin/script", "stdbuf": "/usr/bin/stdbuf"},
			wantPath:  "/usr/bin/script",
			wantArgs:  []string{"-qf", "-c", `'/usr/bin/codex' 'proto' '-c' 'model=it'\''s'`, "/dev/null"},
		},
		{
			name:      "stdbuf fallback",
			available: map[string]string{"stdbuf": "/usr/bin/stdbuf"},
			wantPath:  "/usr/bin/stdbuf",
			wantArgs:  []string{"-oL", "-eL", "/usr/bin/codex", "proto", "-c", "model=it's"},
		},
		{
			name:      "direct fallback",
			available: map[string]string{},
			wantPath:  "/usr/bin/codex",
			wantArgs:  []string{"proto", "-c", "model=it's"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewScriptLauncher(discardLogger())
			l.lookPath = func(file string) (string, error) {
				if path, ok := tt.available[file]; ok {
					return path, nil
				}

				return "", exec.ErrNotFound
			}

			wrapped := l.wrap(cmd)
			require.Equal(t, tt.wantPath, wrapped.Path)
			require.Equal(t, tt.wantArgs, wrapped.Args)
			require.Equal(t, "/work", wrapped.Dir)
		})
	}
}

func TestPTYLauncher_StdoutIsTerminal(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("pty launch is tested on linux and darwin")
	}

	handles, err := NewPTYLauncher(discardLogger()).Launch(
		context.Background(),
		shellCommand(`if [ -t 1 ]; then echo tty; else echo pipe; fi; if [ -t 0 ]; then echo tty >&2; else echo pipe >&2; fi; sleep 5`),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = handles.Process.Kill() })

	stdout, err := bufio.NewReader(handles.Stdout).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "tty", strings.TrimRight(stdout, "\r\n"))

	stderr, err := bufio.NewReader(handles.Stderr).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "pipe", strings.TrimSpace(stderr))
}
