package cli

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
)

// configPairs returns the values following each -c flag, in order.
func configPairs(args []string) []string {
	var pairs []string

	for i := 0; i < len(args)-1; i++ {
		if args[i] == flagConfig {
			pairs = append(pairs, args[i+1])
			i++
		}
	}

	return pairs
}

// writeFakeCodex writes an executable shell script named codex into dir.
func writeFakeCodex(t *testing.T, dir, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Test requires a POSIX shell")
	}

	path := filepath.Join(dir, BinaryName)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

type stubDiscoverer struct {
	path string
	err  error
}

func (s *stubDiscoverer) Discover(context.Context) (string, error) {
	return s.path, s.err
}

func TestBuildArgs_Basic(t *testing.T) {
	args := BuildArgs(&config.Options{})

	require.Equal(t, []string{"proto"}, args)
}

func TestBuildArgs_ModelOnly(t *testing.T) {
	args := BuildArgs(&config.Options{
		Model:          "gpt-5",
		ApprovalPolicy: "",
		SandboxMode:    "",
	})

	require.Equal(t, []string{"proto", "-c", "model=gpt-5"}, args)
	require.Len(t, configPairs(args), 1)
}

func TestBuildArgs_CanonicalOrder(t *testing.T) {
	args := BuildArgs(&config.Options{
		UseOSS:         true,
		Model:          "m",
		ApprovalPolicy: "p",
		SandboxMode:    "read-only",
		CustomArgs:     []string{"-c", "model=override", "--verbose"},
	})

	require.Equal(t, []string{
		"proto",
		"-c", "model_provider=oss",
		"-c", "model=m",
		"-c", "approval_policy=p",
		"-c", "sandbox_mode=read-only",
		"-c", "model=override",
		"--verbose",
	}, args)
}

func TestBuildArgs_UnknownSandboxFallsBack(t *testing.T) {
	for _, mode := range []string{"readonly", "full", "WORKSPACE-WRITE", "sandbox_mode=read-only"} {
		t.Run(mode, func(t *testing.T) {
			args := BuildArgs(&config.Options{SandboxMode: mode})

			require.Equal(t, []string{"sandbox_mode=workspace-write"}, configPairs(args))
		})
	}
}

func TestBuildArgs_KnownSandboxModes(t *testing.T) {
	for _, mode := range []string{"read-only", "workspace-write", "danger-full-access"} {
		t.Run(mode, func(t *testing.T) {
			args := BuildArgs(&config.Options{SandboxMode: mode})

			require.Contains(t, args, "sandbox_mode="+mode)
		})
	}
}

func TestBuildArgs_LegacyApprovalPolicy(t *testing.T) {
	args := BuildArgs(&config.Options{ApprovalPolicy: "unless-allow-listed"})

	require.Equal(t, []string{"approval_policy=untrusted"}, configPairs(args))
}

func TestBuildArgs_ForceReasoning(t *testing.T) {
	args := BuildArgs(&config.Options{
		SandboxMode:    "read-only",
		ForceReasoning: true,
		CustomArgs:     []string{"--extra"},
	})

	require.Equal(t, []string{
		"sandbox_mode=read-only",
		"show_raw_agent_reasoning=true",
		"model_reasoning_effort=high",
		"model_reasoning_summary=detailed",
	}, configPairs(args))
	require.Equal(t, "--extra", args[len(args)-1])
}

func TestBuildArgs_CustomArgsUnvalidated(t *testing.T) {
	custom := []string{"", "-c", "key with spaces=\"quoted\"", "--flag=a=b"}
	args := BuildArgs(&config.Options{CustomArgs: custom})

	require.Equal(t, custom, args[1:])
}

func TestBuildCommand_WorkingDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cwd has no override", func(t *testing.T) {
		cmd, err := BuildCommand(ctx, &config.Options{CodexPath: "/bin/codex"}, nil)
		require.NoError(t, err)
		require.Empty(t, cmd.Dir)
	})

	t.Run("non-empty cwd is carried as attribute", func(t *testing.T) {
		cmd, err := BuildCommand(ctx, &config.Options{CodexPath: "/bin/codex", Cwd: "/work/repo"}, nil)
		require.NoError(t, err)
		require.Equal(t, "/work/repo", cmd.Dir)
		require.NotContains(t, cmd.Args, "/work/repo")
	})
}

func TestBuildCommand_ExplicitPathVerbatim(t *testing.T) {
	discoverer := &stubDiscoverer{err: stderrors.New("must not be called")}

	cmd, err := BuildCommand(context.Background(), &config.Options{CodexPath: "relative/codex"}, discoverer)
	require.NoError(t, err)
	require.Equal(t, "relative/codex", cmd.Path)
	require.Equal(t, []string{"proto"}, cmd.Args)
	require.Nil(t, cmd.Env)
}

func TestBuildCommand_UsesDiscoverer(t *testing.T) {
	cmd, err := BuildCommand(context.Background(), &config.Options{Model: "o3"}, &stubDiscoverer{path: "/found/codex"})
	require.NoError(t, err)
	require.Equal(t, []string{"/found/codex", "proto", "-c", "model=o3"}, cmd.Argv())
}

func TestBuildCommand_DiscoveryFailed(t *testing.T) {
	notFound := &errors.DiscoveryError{SearchedPaths: []string{"$PATH"}}

	_, err := BuildCommand(context.Background(), &config.Options{}, &stubDiscoverer{err: notFound})

	discoveryErr, ok := stderrors.AsType[*errors.DiscoveryError](err)
	require.True(t, ok)
	require.Equal(t, []string{"$PATH"}, discoveryErr.SearchedPaths)
}

func TestDiscoverer_FindsInPath(t *testing.T) {
	dir := t.TempDir()
	fake := writeFakeCodex(t, dir, "echo codex-cli 0.1.0")

	t.Setenv("PATH", dir)

	path, err := NewDiscoverer(&Config{Logger: slog.Default()}).Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, fake, path)
}

func TestDiscoverer_FindsExtraPath(t *testing.T) {
	dir := t.TempDir()
	fake := writeFakeCodex(t, dir, "exit 0")

	t.Setenv("PATH", t.TempDir())

	d := &discoverer{
		cfg: &Config{ExtraPaths: []string{filepath.Join(t.TempDir(), "missing"), fake}},
		log: slog.Default(),
	}

	path, err := d.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, fake, path)
}

func TestDiscoverer_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	missing := filepath.Join(t.TempDir(), "codex")
	d := &discoverer{
		cfg: &Config{ExtraPaths: []string{missing}},
		log: slog.Default(),
	}

	_, err := d.Discover(context.Background())

	require.Error(t, err)
	require.IsType(t, &errors.DiscoveryError{}, err)

	discoveryErr, _ := stderrors.AsType[*errors.DiscoveryError](err)
	require.Equal(t, []string{"$PATH", missing}, discoveryErr.SearchedPaths)
}

func TestDiscoverer_SkipsNonExecutable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	plain := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(plain, []byte("not a binary"), 0o644))

	d := &discoverer{cfg: &Config{ExtraPaths: []string{plain}}, log: slog.Default()}

	_, err := d.Discover(context.Background())
	require.IsType(t, &errors.DiscoveryError{}, err)
}

func TestCommonPaths_IncludeHomeLocations(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	paths := commonPaths()

	require.Contains(t, paths, "/usr/local/bin/codex")
	require.True(t, slices.Contains(paths, filepath.Join(home, ".cargo", "bin", "codex")))
}

func TestVersion(t *testing.T) {
	fake := writeFakeCodex(t, t.TempDir(), "echo '  codex-cli 0.42.0  '")

	version, err := Version(context.Background(), fake)
	require.NoError(t, err)
	require.Equal(t, "codex-cli 0.42.0", version)
}

func TestVersion_NonZeroExit(t *testing.T) {
	fake := writeFakeCodex(t, t.TempDir(), "echo 'unknown flag' >&2\nexit 3")

	_, err := Version(context.Background(), fake)

	procErr, ok := stderrors.AsType[*errors.ProcessError](err)
	require.True(t, ok)
	require.Equal(t, 3, procErr.ExitCode)
	require.Equal(t, "unknown flag", procErr.Stderr)
}

func TestVersion_MissingBinary(t *testing.T) {
	_, err := Version(context.Background(), filepath.Join(t.TempDir(), "codex"))

	spawnErr, ok := stderrors.AsType[*errors.SpawnError](err)
	require.True(t, ok)
	require.ErrorIs(t, spawnErr, fs.ErrNotExist)
}
