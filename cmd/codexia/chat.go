package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	codexsdk "github.com/wagiedev/codex-proto-go"
	"github.com/wagiedev/codex-proto-go/internal/settings"
)

// chatAction is what a line typed at the chat prompt asks for.
type chatAction int

const (
	actionSend chatAction = iota
	actionApproveExec
	actionDenyExec
	actionApprovePatch
	actionDenyPatch
	actionInterrupt
	actionQuit
	actionHelp
	actionNone
)

// chatCommand is a parsed prompt line.
type chatCommand struct {
	action chatAction
	arg    string
}

const chatHelp = `/approve <id>        allow a command
/deny <id>           refuse a command
/approve-patch <id>  allow a patch
/deny-patch <id>     refuse a patch
/interrupt           stop the current turn
/quit                end the session`

// parseChatLine turns a prompt line into a command. Anything that is not a
// known slash command is sent to codex as user input.
func parseChatLine(line string) (chatCommand, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return chatCommand{action: actionNone}, nil
	}

	if !strings.HasPrefix(line, "/") {
		return chatCommand{action: actionSend, arg: line}, nil
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	needsID := func(a chatAction) (chatCommand, error) {
		if arg == "" {
			return chatCommand{}, fmt.Errorf("%s needs an approval id", name)
		}

		return chatCommand{action: a, arg: arg}, nil
	}

	switch name {
	case "/approve":
		return needsID(actionApproveExec)
	case "/deny":
		return needsID(actionDenyExec)
	case "/approve-patch":
		return needsID(actionApprovePatch)
	case "/deny-patch":
		return needsID(actionDenyPatch)
	case "/interrupt":
		return chatCommand{action: actionInterrupt}, nil
	case "/quit", "/exit":
		return chatCommand{action: actionQuit}, nil
	case "/help":
		return chatCommand{action: actionHelp}, nil
	default:
		return chatCommand{}, fmt.Errorf("unknown command %s (try /help)", name)
	}
}

// apply runs a parsed command against the session. It reports false once
// the chat should end.
func (c chatCommand) apply(s *codexsdk.Session, out io.Writer) (bool, error) {
	switch c.action {
	case actionSend:
		return true, s.SendUserInput(c.arg)
	case actionApproveExec:
		return true, s.ApproveExecution(c.arg, true)
	case actionDenyExec:
		return true, s.ApproveExecution(c.arg, false)
	case actionApprovePatch:
		return true, s.ApprovePatch(c.arg, true)
	case actionDenyPatch:
		return true, s.ApprovePatch(c.arg, false)
	case actionInterrupt:
		return true, s.Interrupt()
	case actionQuit:
		return false, nil
	case actionHelp:
		fmt.Fprintln(out, chatHelp)
	}

	return true, nil
}

type chatFlags struct {
	model          string
	cwd            string
	sandbox        string
	approvalPolicy string
	spawnMode      string
	oss            bool
	forceReasoning bool
}

func newChatCommand(a *app) *cobra.Command {
	var f chatFlags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to codex interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			over := settings.Session{
				WorkingDirectory: f.cwd,
				Model:            f.model,
				ApprovalPolicy:   f.approvalPolicy,
				SandboxMode:      f.sandbox,
				SpawnMode:        f.spawnMode,
				UseOSS:           f.oss,
				ForceReasoning:   f.forceReasoning,
			}

			return a.chat(cmd.Context(), a.settings.Session.Merge(over), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.model, "model", "m", "", "model name")
	flags.StringVarP(&f.cwd, "cwd", "C", "", "working directory for codex")
	flags.StringVar(&f.sandbox, "sandbox", "", "read-only, workspace-write or danger-full-access")
	flags.StringVar(&f.approvalPolicy, "approval-policy", "", "untrusted, on-failure, on-request or never")
	flags.StringVar(&f.spawnMode, "spawn", "", "direct, script or pty")
	flags.BoolVar(&f.oss, "oss", false, "use the open source model provider")
	flags.BoolVar(&f.forceReasoning, "reasoning", false, "show raw reasoning")

	return cmd
}

func (a *app) chat(ctx context.Context, defaults settings.Session, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := codexsdk.NewSession(ctx,
		codexsdk.WithOptions(defaults.Options(nil)),
		codexsdk.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	r := newRenderer(out)
	rendered := make(chan struct{})

	go func() {
		defer close(rendered)

		for event := range session.Events() {
			r.render(event)
		}

		r.notice("codex exited")
	}()

	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	r.notice("session " + session.ID() + " started, /help for commands")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rendered:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			c, err := parseChatLine(line)
			if err != nil {
				r.warn(err.Error())

				continue
			}

			more, err := c.apply(session, out)
			if err != nil {
				r.warn(err.Error())
			}

			if !more {
				return nil
			}
		}
	}
}
