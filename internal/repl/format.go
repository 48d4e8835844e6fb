package repl

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sternrassler/spess/pkg/client"
	"github.com/Sternrassler/spess/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func table(out io.Writer, header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

func empty(out io.Writer, what string) {
	fmt.Fprintln(out, faintStyle.Render("no "+what))
}

func printStatus(out io.Writer, st *models.Status) {
	fmt.Fprintln(out, titleStyle.Render(st.Status))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "version:\t%s\n", st.Version)
	fmt.Fprintf(w, "reset date:\t%s\n", st.ResetDate)
	if !st.ServerResets.Next.IsZero() {
		fmt.Fprintf(w, "next reset:\t%s (%s)\n", st.ServerResets.Next.Format(time.RFC3339), st.ServerResets.Frequency)
	}
	fmt.Fprintf(w, "agents:\t%d\n", st.Stats.Agents)
	fmt.Fprintf(w, "ships:\t%d\n", st.Stats.Ships)
	fmt.Fprintf(w, "systems:\t%d\n", st.Stats.Systems)
	fmt.Fprintf(w, "waypoints:\t%d\n", st.Stats.Waypoints)
	w.Flush()
}

func printAgent(out io.Writer, a *models.Agent) {
	fmt.Fprintln(out, titleStyle.Render(a.Symbol))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "faction:\t%s\n", a.StartingFaction)
	fmt.Fprintf(w, "headquarters:\t%s\n", a.Headquarters)
	fmt.Fprintf(w, "credits:\t%d\n", a.Credits)
	fmt.Fprintf(w, "ships:\t%d\n", a.ShipCount)
	w.Flush()
}

func printAgents(out io.Writer, agents []models.Agent) {
	if len(agents) == 0 {
		empty(out, "agents")
		return
	}
	w := table(out, "SYMBOL", "FACTION", "HEADQUARTERS", "CREDITS", "SHIPS")
	for _, a := range agents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", a.Symbol, a.StartingFaction, a.Headquarters, a.Credits, a.ShipCount)
	}
	w.Flush()
}

func printShips(out io.Writer, ships []models.Ship) {
	if len(ships) == 0 {
		empty(out, "ships")
		return
	}
	w := table(out, "SHIP", "ROLE", "LOCATION", "STATUS", "FUEL", "CARGO")
	for _, s := range ships {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%d/%d\n",
			s.Symbol,
			s.Registration.Role,
			s.Nav.WaypointSymbol,
			s.Nav.Status,
			s.Fuel.Current, s.Fuel.Capacity,
			s.Cargo.Units, s.Cargo.Capacity,
		)
	}
	w.Flush()
}

func printShip(out io.Writer, s *models.Ship) {
	fmt.Fprintln(out, titleStyle.Render(s.Symbol))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "role:\t%s\n", s.Registration.Role)
	fmt.Fprintf(w, "frame:\t%s\n", s.Frame.Name)
	fmt.Fprintf(w, "fuel:\t%d/%d\n", s.Fuel.Current, s.Fuel.Capacity)
	fmt.Fprintf(w, "cargo:\t%d/%d\n", s.Cargo.Units, s.Cargo.Capacity)
	for _, item := range s.Cargo.Inventory {
		fmt.Fprintf(w, "\t%d %s\n", item.Units, item.Symbol)
	}
	if ready := s.ReadyAt(); !ready.IsZero() {
		fmt.Fprintf(w, "ready at:\t%s\n", ready.Format(time.RFC3339))
	}
	w.Flush()
	printNav(out, &s.Nav)
}

func printNav(out io.Writer, nav *models.ShipNav) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "status:\t%s\n", nav.Status)
	fmt.Fprintf(w, "waypoint:\t%s\n", nav.WaypointSymbol)
	fmt.Fprintf(w, "flight mode:\t%s\n", nav.FlightMode)
	if nav.Status == models.ShipStatusInTransit {
		fmt.Fprintf(w, "route:\t%s -> %s\n", nav.Route.Origin.Symbol, nav.Route.Destination.Symbol)
		fmt.Fprintf(w, "arrival:\t%s\n", nav.Route.Arrival.Format(time.RFC3339))
	}
	w.Flush()
}

func printNavigation(out io.Writer, n *models.Navigation) {
	printNav(out, &n.Nav)
	fmt.Fprintf(out, "fuel: %d/%d\n", n.Fuel.Current, n.Fuel.Capacity)
	for _, e := range n.Events {
		fmt.Fprintf(out, "event: %s (%s)\n", e.Name, e.Component)
	}
}

func printRefuel(out io.Writer, r *models.Refuel) {
	fmt.Fprintf(out, "fuel: %d/%d\n", r.Fuel.Current, r.Fuel.Capacity)
	if r.Transaction.Units > 0 {
		fmt.Fprintf(out, "bought %d units for %d credits\n", r.Transaction.Units, r.Transaction.TotalPrice)
	}
	fmt.Fprintf(out, "credits: %d\n", r.Agent.Credits)
}

func printCooldown(out io.Writer, cd *models.Cooldown) {
	if cd == nil || cd.Expiration == nil {
		fmt.Fprintln(out, "no cooldown")
		return
	}
	fmt.Fprintf(out, "cooldown: %ds of %ds, expires %s\n",
		cd.RemainingSeconds, cd.TotalSeconds, cd.Expiration.Format(time.RFC3339))
}

func printSystems(out io.Writer, systems []models.System) {
	if len(systems) == 0 {
		empty(out, "systems")
		return
	}
	w := table(out, "SYSTEM", "TYPE", "X", "Y", "WAYPOINTS")
	for _, s := range systems {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", s.Symbol, s.Type, s.X, s.Y, len(s.Waypoints))
	}
	w.Flush()
}

func printSystem(out io.Writer, s *models.System) {
	fmt.Fprintln(out, titleStyle.Render(s.Symbol))
	fmt.Fprintf(out, "type: %s at (%d, %d) in sector %s\n", s.Type, s.X, s.Y, s.SectorSymbol)
	if len(s.Waypoints) == 0 {
		return
	}
	w := table(out, "WAYPOINT", "TYPE", "X", "Y")
	for _, wp := range s.Waypoints {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", wp.Symbol, wp.Type, wp.X, wp.Y)
	}
	w.Flush()
}

func traitNames(wp *models.Waypoint) string {
	names := make([]string, len(wp.Traits))
	for i, t := range wp.Traits {
		names[i] = string(t.Symbol)
	}
	return strings.Join(names, ",")
}

func printWaypoints(out io.Writer, wps []models.Waypoint) {
	if len(wps) == 0 {
		empty(out, "waypoints")
		return
	}
	w := table(out, "WAYPOINT", "TYPE", "X", "Y", "TRAITS")
	for i := range wps {
		wp := &wps[i]
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", wp.Symbol, wp.Type, wp.X, wp.Y, traitNames(wp))
	}
	w.Flush()
}

func printWaypoint(out io.Writer, wp *models.Waypoint) {
	fmt.Fprintln(out, titleStyle.Render(wp.Symbol))
	fmt.Fprintf(out, "type: %s at (%d, %d)\n", wp.Type, wp.X, wp.Y)
	if wp.Faction != nil {
		fmt.Fprintf(out, "faction: %s\n", wp.Faction.Symbol)
	}
	for _, t := range wp.Traits {
		fmt.Fprintf(out, "  %s %s\n", t.Symbol, faintStyle.Render(t.Name))
	}
}

func printContracts(out io.Writer, contracts []models.Contract) {
	if len(contracts) == 0 {
		empty(out, "contracts")
		return
	}
	w := table(out, "ID", "FACTION", "TYPE", "ACCEPTED", "FULFILLED", "DEADLINE")
	for _, c := range contracts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%s\n",
			c.ID, c.FactionSymbol, c.Type, c.Accepted, c.Fulfilled, c.Terms.Deadline.Format(time.RFC3339))
	}
	w.Flush()
}

func printContract(out io.Writer, c *models.Contract) {
	fmt.Fprintln(out, titleStyle.Render(c.ID))
	fmt.Fprintf(out, "%s contract for %s, accepted: %t, fulfilled: %t\n", c.Type, c.FactionSymbol, c.Accepted, c.Fulfilled)
	fmt.Fprintf(out, "payment: %d on accept, %d on fulfil\n", c.Terms.Payment.OnAccepted, c.Terms.Payment.OnFulfilled)
	for _, d := range c.Terms.Deliver {
		fmt.Fprintf(out, "  deliver %d/%d %s to %s\n", d.UnitsFulfilled, d.UnitsRequired, d.TradeSymbol, d.DestinationSymbol)
	}
}

func printAliases(out io.Writer, aliases []client.Alias) {
	if len(aliases) == 0 {
		empty(out, "aliases")
		return
	}
	w := table(out, "KIND", "NAME", "SYMBOL")
	for _, a := range aliases {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Kind, a.Name, a.Value)
	}
	w.Flush()
}
