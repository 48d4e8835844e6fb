// Package repl implements the interactive spess shell. Every input line is
// run as a command of a fresh cobra command tree, so the same commands work
// from the shell and as spess arguments.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/spess/pkg/client"
	"github.com/Sternrassler/spess/pkg/logging"
	"github.com/Sternrassler/spess/pkg/models"
)

// Prompt is printed before every line read by Run.
const Prompt = "spess> "

// ErrExit is returned by the exit command.
var ErrExit = errors.New("exit")

// Shell runs commands against one client. It remembers the last known state
// of every ship it has seen so wait needs no request. A Shell is not safe for
// concurrent use.
type Shell struct {
	client *client.Client
	out    io.Writer
	ships  map[string]*models.Ship
	logger zerolog.Logger
}

// New creates a shell writing command output to out.
func New(c *client.Client, out io.Writer) *Shell {
	return &Shell{
		client: c,
		out:    out,
		ships:  map[string]*models.Ship{},
		logger: logging.NewLogger("spess-repl"),
	}
}

// Client returns the client commands currently run against. register
// switches it to the new agent.
func (s *Shell) Client() *client.Client {
	return s.client
}

// Exec runs a single command line given as arguments.
func (s *Shell) Exec(ctx context.Context, args []string) error {
	root := s.Command()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// Run reads commands from in until EOF or exit. Command errors are printed
// and do not stop the shell; only a cancelled ctx or a read error does.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		args, err := SplitArgs(scanner.Text())
		if err != nil {
			s.printError(err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		err = s.Exec(ctx, args)
		switch {
		case errors.Is(err, ErrExit):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			s.printError(err)
		}
	}
}

func (s *Shell) printError(err error) {
	fmt.Fprintln(s.out, errorStyle.Render("error: "+err.Error()))
}

// Command builds the command tree. It is rebuilt for every line so flag
// values never leak between commands.
func (s *Shell) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "spess",
		Short: "SpaceTraders client shell",
		Long: `spess talks to the SpaceTraders API.

Without arguments it starts an interactive shell. Symbols may be given
directly or through aliases defined with the alias command.

Examples:
  spess status
  spess ships
  spess navigate NAME-1 X1-DF55-20250Z
  spess waypoints X1-DF55 --trait SHIPYARD`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetOut(s.out)
	root.SetErr(s.out)

	root.AddCommand(
		s.statusCommand(),
		s.registerCommand(),
		s.agentCommand(),
		s.agentsCommand(),
		s.shipsCommand(),
		s.shipCommand(),
		s.orbitCommand(),
		s.dockCommand(),
		s.navigateCommand(),
		s.flightModeCommand(),
		s.refuelCommand(),
		s.cooldownCommand(),
		s.waitCommand(),
		s.systemsCommand(),
		s.systemCommand(),
		s.waypointsCommand(),
		s.waypointCommand(),
		s.contractsCommand(),
		s.contractCommand(),
		s.acceptCommand(),
		s.negotiateCommand(),
		s.aliasCommand(),
		s.unaliasCommand(),
		s.aliasesCommand(),
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Leave the shell",
			Args:    cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return ErrExit
			},
		},
	)
	return root
}

// SplitArgs splits a command line at spaces. Single and double quotes group
// words; there are no escapes.
func SplitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
