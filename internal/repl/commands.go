package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/spess/pkg/client"
	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/pagination"
)

// collect reads a listing, at most limit items when limit is positive.
// Whole listings are fetched in parallel.
func collect[T any](ctx context.Context, p *pagination.Paged[T], limit, offset int) ([]T, error) {
	if limit <= 0 && offset <= 0 {
		return pagination.NewBatchFetcher[T](pagination.DefaultConfig()).FetchAll(ctx, p)
	}
	if offset > 0 {
		p = p.Offset(offset)
	}
	if limit > 0 {
		p = p.Limit(limit)
	}
	return p.Collect(ctx)
}

func listFlags(cmd *cobra.Command, limit, offset *int, defaultLimit int) {
	cmd.Flags().IntVar(limit, "limit", defaultLimit, "Maximum number of items, 0 for all")
	cmd.Flags().IntVar(offset, "offset", 0, "Number of items to skip")
}

// remember records the latest state of a ship.
func (s *Shell) remember(ship *models.Ship) {
	s.ships[ship.Symbol] = ship
}

// known returns the remembered state of a ship symbol or alias.
func (s *Shell) known(symbol string) (*models.Ship, bool) {
	ship, ok := s.ships[s.client.Resolve(models.KindShip, symbol)]
	return ship, ok
}

func (s *Shell) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := s.client.Status(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(s.out, status)
			return nil
		},
	}
}

func (s *Shell) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register <symbol> <faction>",
		Short: "Register a new agent and switch to it",
		Long: `Register a new agent with the account token and switch the shell to it.
The agent token is stored in the tokens file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, reg, err := s.client.RegisterAgent(cmd.Context(), args[0], strings.ToUpper(args[1]))
			if err != nil {
				return err
			}
			s.client = agent
			s.ships = map[string]*models.Ship{}
			for i := range reg.Ships {
				s.remember(&reg.Ships[i])
			}
			fmt.Fprintf(s.out, "%s registered with %s\n", titleStyle.Render(reg.Agent.Symbol), reg.Faction.Symbol)
			printAgent(s.out, &reg.Agent)
			printShips(s.out, reg.Ships)
			return nil
		},
	}
}

func (s *Shell) agentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "agent [symbol]",
		Short: "Show your agent, or a public agent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				agent *models.Agent
				err   error
			)
			if len(args) == 0 {
				agent, err = s.client.MyAgent(cmd.Context())
			} else {
				agent, err = s.client.Agent(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			printAgent(s.out, agent)
			return nil
		},
	}
}

func (s *Shell) agentsCommand() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List public agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, err := collect(cmd.Context(), s.client.Agents(), limit, offset)
			if err != nil {
				return err
			}
			printAgents(s.out, agents)
			return nil
		},
	}
	listFlags(cmd, &limit, &offset, 20)
	return cmd
}

func (s *Shell) shipsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ships",
		Short: "List your ships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ships, err := s.client.Ships().Collect(cmd.Context())
			if err != nil {
				return err
			}
			for i := range ships {
				s.remember(&ships[i])
			}
			printShips(s.out, ships)
			return nil
		},
	}
}

func (s *Shell) shipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ship <ship>",
		Short: "Show one of your ships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ship, err := s.client.Ship(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s.remember(ship)
			printShip(s.out, ship)
			return nil
		},
	}
}

func (s *Shell) orbitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orbit <ship>",
		Short: "Move a docked ship into orbit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := s.client.Orbit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s.applyNav(args[0], u)
			printNav(s.out, &u.Nav)
			return nil
		},
	}
}

func (s *Shell) dockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dock <ship>",
		Short: "Dock an orbiting ship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := s.client.Dock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s.applyNav(args[0], u)
			printNav(s.out, &u.Nav)
			return nil
		},
	}
}

func (s *Shell) applyNav(symbol string, u *models.NavUpdate) {
	if ship, ok := s.known(symbol); ok {
		ship.ApplyNav(*u)
	}
}

func (s *Shell) navigateCommand() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "navigate <ship> <waypoint>",
		Short: "Fly an orbiting ship to a waypoint in its system",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := s.client.Navigate(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if ship, ok := s.known(args[0]); ok {
				ship.ApplyNavigation(*nav)
			}
			printNavigation(s.out, nav)
			if !wait {
				return nil
			}
			return s.client.WaitUntil(cmd.Context(), nav.Nav.Route.Arrival)
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait for the ship to arrive")
	return cmd
}

func (s *Shell) flightModeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "flight-mode <ship> <mode>",
		Short: "Set the flight mode: DRIFT, STEALTH, CRUISE or BURN",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := models.FlightMode(strings.ToUpper(args[1]))
			u, err := s.client.SetFlightMode(cmd.Context(), args[0], mode)
			if err != nil {
				return err
			}
			s.applyNav(args[0], u)
			printNav(s.out, &u.Nav)
			return nil
		},
	}
}

func (s *Shell) refuelCommand() *cobra.Command {
	var opts client.RefuelOptions
	cmd := &cobra.Command{
		Use:   "refuel <ship>",
		Short: "Refuel a docked ship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.client.Refuel(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if ship, ok := s.known(args[0]); ok {
				ship.ApplyRefuel(*r)
			}
			printRefuel(s.out, r)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Units, "units", 0, "Units of fuel to buy, 0 for a full tank")
	cmd.Flags().BoolVar(&opts.FromCargo, "from-cargo", false, "Refuel from fuel in the cargo hold")
	return cmd
}

func (s *Shell) cooldownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cooldown <ship>",
		Short: "Show the reactor cooldown of a ship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cd, err := s.client.Cooldown(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ship, ok := s.known(args[0]); ok {
				ship.ApplyCooldown(cd)
			}
			printCooldown(s.out, cd)
			return nil
		},
	}
}

func (s *Shell) waitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wait <ship>",
		Short: "Wait until a ship has arrived and cooled down",
		Long: `Wait until a ship has arrived and its cooldown has expired, using the
last known state of the ship. The ship is fetched first if the shell has
not seen it yet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ship, ok := s.known(args[0])
			if !ok {
				fetched, err := s.client.Ship(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				s.remember(fetched)
				ship = fetched
			}
			if err := s.client.Wait(cmd.Context(), ship); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s is ready\n", ship.Symbol)
			return nil
		},
	}
}

func (s *Shell) systemsCommand() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "systems",
		Short: "List systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			systems, err := collect(cmd.Context(), s.client.Systems(), limit, offset)
			if err != nil {
				return err
			}
			printSystems(s.out, systems)
			return nil
		},
	}
	listFlags(cmd, &limit, &offset, 20)
	return cmd
}

func (s *Shell) systemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "system <system>",
		Short: "Show a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, err := s.client.System(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSystem(s.out, system)
			return nil
		},
	}
}

func (s *Shell) waypointsCommand() *cobra.Command {
	var (
		limit, offset int
		traits        []string
		typ           string
	)
	cmd := &cobra.Command{
		Use:   "waypoints <system>",
		Short: "List the waypoints of a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := client.WaypointFilter{Type: models.WaypointType(strings.ToUpper(typ))}
			for _, t := range traits {
				filter.Traits = append(filter.Traits, models.WaypointTrait(strings.ToUpper(t)))
			}
			wps, err := collect(cmd.Context(), s.client.SystemWaypoints(args[0], filter), limit, offset)
			if err != nil {
				return err
			}
			printWaypoints(s.out, wps)
			return nil
		},
	}
	listFlags(cmd, &limit, &offset, 0)
	cmd.Flags().StringSliceVar(&traits, "trait", nil, "Only waypoints with this trait (repeatable)")
	cmd.Flags().StringVar(&typ, "type", "", "Only waypoints of this type")
	return cmd
}

func (s *Shell) waypointCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "waypoint <waypoint>",
		Short: "Show a waypoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wp, err := s.client.Waypoint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printWaypoint(s.out, wp)
			return nil
		},
	}
}

func (s *Shell) contractsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "List your contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contracts, err := s.client.Contracts().Collect(cmd.Context())
			if err != nil {
				return err
			}
			printContracts(s.out, contracts)
			return nil
		},
	}
}

func (s *Shell) contractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "contract <id>",
		Short: "Show a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := s.client.Contract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printContract(s.out, contract)
			return nil
		},
	}
}

func (s *Shell) acceptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.client.AcceptContract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printContract(s.out, &res.Contract)
			fmt.Fprintf(s.out, "credits: %d\n", res.Agent.Credits)
			return nil
		},
	}
}

func (s *Shell) negotiateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "negotiate <ship>",
		Short: "Negotiate a new contract at the ship's waypoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.client.NegotiateContract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printContract(s.out, &res.Contract)
			return nil
		},
	}
}

func (s *Shell) aliasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alias <kind> <name> <symbol>",
		Short: "Define a short name for a symbol",
		Long: `Define a short name for a symbol. kind is one of agent, ship, waypoint,
system or contract.

Examples:
  alias ship cmd NAME-1
  alias waypoint hq X1-DF55-20250Z`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			s.client.AddAlias(kind, args[1], args[2])
			fmt.Fprintf(s.out, "%s %s = %s\n", kind, args[1], s.client.Resolve(kind, args[1]))
			return nil
		},
	}
}

func (s *Shell) unaliasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unalias <kind> <name>",
		Short: "Remove an alias",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			if _, ok := s.client.RemoveAlias(kind, args[1]); !ok {
				return fmt.Errorf("no %s alias %q", kind, args[1])
			}
			return nil
		},
	}
}

func (s *Shell) aliasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printAliases(s.out, s.client.Aliases())
			return nil
		},
	}
}
