package cli

import (
	"context"
	"fmt"

	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/sandbox"
)

// ProtoSubcommand selects codex's machine protocol instead of the interactive TUI.
const ProtoSubcommand = "proto"

const flagConfig = "-c"

// reasoningOverrides are appended when Options.ForceReasoning is set.
var reasoningOverrides = []string{
	"show_raw_agent_reasoning=true",
	"model_reasoning_effort=high",
	"model_reasoning_summary=detailed",
}

// BuildArgs constructs the codex command arguments.
//
// The order is part of the contract: codex lets a later -c override an earlier
// one with the same key, so custom arguments always come last and can override
// anything set from typed options.
func BuildArgs(options *config.Options) []string {
	args := []string{ProtoSubcommand}

	if options.UseOSS {
		args = append(args, flagConfig, "model_provider=oss")
	}

	if options.Model != "" {
		args = append(args, flagConfig, "model="+options.Model)
	}

	if options.ApprovalPolicy != "" {
		args = append(args, flagConfig, "approval_policy="+config.NormalizeApprovalPolicy(options.ApprovalPolicy))
	}

	if options.SandboxMode != "" {
		args = append(args, flagConfig, fmt.Sprintf("sandbox_mode=%s", sandbox.Normalize(options.SandboxMode)))
	}

	if options.ForceReasoning {
		for _, kv := range reasoningOverrides {
			args = append(args, flagConfig, kv)
		}
	}

	return append(args, options.CustomArgs...)
}

// BuildCommand resolves the executable and assembles the full invocation.
//
// An explicit CodexPath is used verbatim. Otherwise discoverer locates the
// binary and its error (typically a DiscoveryError) is returned unchanged.
func BuildCommand(ctx context.Context, options *config.Options, discoverer config.Discoverer) (*config.Command, error) {
	path := options.CodexPath
	if path == "" {
		if discoverer == nil {
			discoverer = NewDiscoverer(&Config{Logger: options.Logger})
		}

		found, err := discoverer.Discover(ctx)
		if err != nil {
			return nil, err
		}

		path = found
	}

	return &config.Command{
		Path: path,
		Args: BuildArgs(options),
		Dir:  options.Cwd,
	}, nil
}
