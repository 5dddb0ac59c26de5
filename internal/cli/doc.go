// Package cli provides codex discovery, version probing, and command building.
//
// # Discovery
//
// The Discoverer locates the codex binary:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{Logger: slog.Default()})
//	codexPath, err := discoverer.Discover(ctx)
//
// Discovery searches the system PATH first and then common installation
// directories (/usr/local/bin, /opt/homebrew/bin, ~/.local/bin,
// ~/.npm-global/bin, ~/.bun/bin, ~/.cargo/bin).
//
// # Command Building
//
//	cmd, err := cli.BuildCommand(ctx, options, discoverer)
//
// produces `<codex> proto [-c key=value]... [custom args]...` with the working
// directory carried as a process attribute.
//
// # Quoting
//
// ShellQuote and ShellJoin turn an argument vector into a single POSIX shell
// string, used when codex is wrapped by the script(1) helper.
package cli
