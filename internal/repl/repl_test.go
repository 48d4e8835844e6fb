package repl

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/spess/internal/testutil"
	"github.com/Sternrassler/spess/pkg/client"
	"github.com/Sternrassler/spess/pkg/clock"
	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/ratelimit"
)

var epoch = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

type fixture struct {
	mock  *testutil.MockAPI
	clock *clock.Mock
	shell *Shell
	out   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mock := testutil.NewMockAPI()
	t.Cleanup(mock.Close)

	clk := clock.NewMock(epoch)
	cfg := client.DefaultConfig("token")
	cfg.BaseURL = mock.URL()
	cfg.Clock = clk
	cfg.Limiter = ratelimit.Unlimited{}
	c, err := client.New(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &fixture{mock: mock, clock: clk, shell: New(c, out), out: out}
}

func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	f.out.Reset()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, f.shell.Run(context.Background(), in))
	return f.out.String()
}

func testShip(symbol string) models.Ship {
	return models.Ship{
		Symbol:       symbol,
		Registration: models.ShipRegistration{Role: "COMMAND"},
		Nav: models.ShipNav{
			SystemSymbol:   "X1-AB12",
			WaypointSymbol: "X1-AB12-A1",
			Status:         models.ShipStatusInOrbit,
			FlightMode:     models.FlightModeCruise,
		},
		Fuel:  models.ShipFuel{Current: 300, Capacity: 400},
		Cargo: models.ShipCargo{Capacity: 40},
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "   ", want: nil},
		{line: "ships", want: []string{"ships"}},
		{line: "navigate  NAME-1\tX1-AB12-B2", want: []string{"navigate", "NAME-1", "X1-AB12-B2"}},
		{line: `alias ship "my ship" NAME-1`, want: []string{"alias", "ship", "my ship", "NAME-1"}},
		{line: `alias ship '' NAME-1`, want: []string{"alias", "ship", "", "NAME-1"}},
		{line: `say "it's"`, want: []string{"say", "it's"}},
		{line: `ship "NAME-1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_ExitStopsReading(t *testing.T) {
	f := newFixture(t)
	f.mock.SetPaged(http.MethodGet, "/my/ships", []any{testShip("BADGER-1")})

	out := f.run(t, "", "bogus", "exit", "ships")

	assert.Contains(t, out, Prompt)
	assert.Contains(t, out, `error: unknown command "bogus"`)
	assert.Zero(t, f.mock.Count(http.MethodGet, "/my/ships"), "nothing runs after exit")
}

func TestRun_ErrorsDoNotStopTheShell(t *testing.T) {
	f := newFixture(t)
	f.mock.SetResponse(http.MethodGet, "/my/agent", testutil.NewErrorResponse(http.StatusUnauthorized, 401, "Missing authorization header"))
	f.mock.SetPaged(http.MethodGet, "/my/ships", []any{testShip("BADGER-1")})

	out := f.run(t, "agent", `ship "BADGER`, "ships")

	assert.Contains(t, out, "Missing authorization header")
	assert.Contains(t, out, "unterminated")
	assert.Contains(t, out, "BADGER-1")
	assert.Contains(t, out, "IN_ORBIT")
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t)
	f.mock.SetData(http.MethodGet, "/my/agent", models.Agent{Symbol: "BADGER"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.shell.Run(ctx, strings.NewReader("agent\nagent\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExec(t *testing.T) {
	f := newFixture(t)
	f.mock.SetData(http.MethodGet, "/agents/OTTER", models.Agent{Symbol: "OTTER", Credits: 42})

	require.NoError(t, f.shell.Exec(context.Background(), []string{"agent", "OTTER"}))
	assert.Contains(t, f.out.String(), "OTTER")
	assert.Contains(t, f.out.String(), "42")

	err := f.shell.Exec(context.Background(), []string{"ship"})
	assert.Error(t, err, "missing argument")
	assert.ErrorIs(t, f.shell.Exec(context.Background(), []string{"exit"}), ErrExit)
}

func TestWait_UsesRememberedShip(t *testing.T) {
	f := newFixture(t)
	ship := testShip("BADGER-1")
	ship.Nav.Status = models.ShipStatusInTransit
	ship.Nav.Route.Arrival = epoch.Add(20 * time.Second)
	f.mock.SetPaged(http.MethodGet, "/my/ships", []any{ship})

	out := f.run(t, "ships", "wait BADGER-1")

	assert.Contains(t, out, "BADGER-1 is ready")
	assert.Zero(t, f.mock.Count(http.MethodGet, "/my/ships/BADGER-1"))
	assert.Equal(t, []time.Duration{21 * time.Second}, f.clock.Sleeps())
}

func TestWait_FetchesUnknownShip(t *testing.T) {
	f := newFixture(t)
	f.mock.SetData(http.MethodGet, "/my/ships/BADGER-1", testShip("BADGER-1"))

	out := f.run(t, "wait BADGER-1", "wait BADGER-1")

	assert.Contains(t, out, "BADGER-1 is ready")
	assert.Equal(t, 1, f.mock.Count(http.MethodGet, "/my/ships/BADGER-1"))
	assert.Empty(t, f.clock.Sleeps())
}

func TestNavigate_UpdatesRememberedShip(t *testing.T) {
	f := newFixture(t)
	f.mock.SetData(http.MethodGet, "/my/ships/BADGER-1", testShip("BADGER-1"))
	f.mock.SetData(http.MethodPost, "/my/ships/BADGER-1/navigate", models.Navigation{
		Fuel: models.ShipFuel{Current: 280, Capacity: 400},
		Nav: models.ShipNav{
			WaypointSymbol: "X1-AB12-B2",
			Status:         models.ShipStatusInTransit,
			Route:          models.ShipRoute{Arrival: epoch.Add(45 * time.Second)},
		},
	})

	out := f.run(t, "ship BADGER-1", "navigate BADGER-1 X1-AB12-B2", "wait BADGER-1")

	assert.Contains(t, out, "IN_TRANSIT")
	assert.Contains(t, out, "fuel: 280/400")
	assert.Equal(t, []time.Duration{46 * time.Second}, f.clock.Sleeps())

	ship, ok := f.shell.known("BADGER-1")
	require.True(t, ok)
	assert.Equal(t, "X1-AB12-B2", ship.Nav.WaypointSymbol)
	assert.Equal(t, 280, ship.Fuel.Current)
}

func TestNavigate_Wait(t *testing.T) {
	f := newFixture(t)
	f.mock.SetData(http.MethodPost, "/my/ships/BADGER-1/navigate", models.Navigation{
		Nav: models.ShipNav{
			Status: models.ShipStatusInTransit,
			Route:  models.ShipRoute{Arrival: epoch.Add(10 * time.Second)},
		},
	})

	f.run(t, "navigate --wait BADGER-1 X1-AB12-B2")
	assert.Equal(t, []time.Duration{11 * time.Second}, f.clock.Sleeps())
}

func TestShipOperations(t *testing.T) {
	f := newFixture(t)
	f.mock.SetData(http.MethodPost, "/my/ships/BADGER-1/dock", models.NavUpdate{Nav: models.ShipNav{Status: models.ShipStatusDocked}})
	f.mock.SetData(http.MethodPost, "/my/ships/BADGER-1/orbit", models.NavUpdate{Nav: models.ShipNav{Status: models.ShipStatusInOrbit}})
	f.mock.SetData(http.MethodPatch, "/my/ships/BADGER-1/nav", models.NavUpdate{Nav: models.ShipNav{FlightMode: models.FlightModeBurn}})
	f.mock.SetData(http.MethodPost, "/my/ships/BADGER-1/refuel", models.Refuel{Fuel: models.ShipFuel{Current: 400, Capacity: 400}})
	f.mock.SetResponse(http.MethodGet, "/my/ships/BADGER-1/cooldown", testutil.NewNoContentResponse())

	out := f.run(t, "dock BADGER-1")
	assert.Contains(t, out, "DOCKED")

	out = f.run(t, "orbit BADGER-1")
	assert.Contains(t, out, "IN_ORBIT")

	out = f.run(t, "flight-mode BADGER-1 burn")
	assert.Contains(t, out, "BURN")
	assert.JSONEq(t, `{"flightMode":"BURN"}`, string(f.mock.LastRequestBody))

	out = f.run(t, "flight-mode BADGER-1 warp")
	assert.Contains(t, out, `unknown flight mode "WARP"`)

	out = f.run(t, "refuel BADGER-1 --units 5")
	assert.Contains(t, out, "fuel: 400/400")
	assert.JSONEq(t, `{"units":5}`, string(f.mock.LastRequestBody))

	f.run(t, "refuel BADGER-1")
	assert.JSONEq(t, `{}`, string(f.mock.LastRequestBody), "flags do not carry over between lines")

	out = f.run(t, "cooldown BADGER-1")
	assert.Contains(t, out, "no cooldown")
}

func TestAliasCommands(t *testing.T) {
	f := newFixture(t)
	f.mock.SetData(http.MethodGet, "/my/ships/BADGER-1", testShip("BADGER-1"))

	out := f.run(t, "alias ship cmd BADGER-1", "ship cmd", "aliases")
	assert.Contains(t, out, "ship cmd = BADGER-1")
	assert.Equal(t, 1, f.mock.Count(http.MethodGet, "/my/ships/BADGER-1"))
	assert.Regexp(t, `ship\s+cmd\s+BADGER-1`, out)

	out = f.run(t, "unalias ship cmd", "unalias ship cmd", "aliases", "alias planet x y")
	assert.Contains(t, out, `no ship alias "cmd"`)
	assert.Contains(t, out, "no aliases")
	assert.Contains(t, out, `unknown kind "planet"`)
}

func TestWaypointsCommand(t *testing.T) {
	f := newFixture(t)
	f.mock.SetPaged(http.MethodGet, "/systems/X1-AB12/waypoints", []any{
		models.Waypoint{
			Symbol: "X1-AB12-A1",
			Type:   models.WaypointTypePlanet,
			Traits: []models.Trait{{Symbol: models.TraitShipyard}, {Symbol: models.TraitMarketplace}},
		},
	})

	out := f.run(t, "waypoints X1-AB12 --trait shipyard --trait marketplace --type planet")
	assert.Contains(t, out, "X1-AB12-A1")
	assert.Contains(t, out, "SHIPYARD,MARKETPLACE")

	q, err := url.ParseQuery(f.mock.LastRequestQuery)
	require.NoError(t, err)
	assert.Equal(t, []string{"SHIPYARD", "MARKETPLACE"}, q["traits"])
	assert.Equal(t, "PLANET", q.Get("type"))
}

func TestListingLimit(t *testing.T) {
	f := newFixture(t)
	items := make([]any, 30)
	for i := range items {
		items[i] = models.System{Symbol: "X1-S" + string(rune('A'+i))}
	}
	f.mock.SetPaged(http.MethodGet, "/systems", items)

	out := f.run(t, "systems --limit 3 --offset 1")
	assert.Contains(t, out, "X1-SB")
	assert.Contains(t, out, "X1-SD")
	assert.NotContains(t, out, "X1-SA ")
	assert.NotContains(t, out, "X1-SE")

	out = f.run(t, "systems")
	assert.Contains(t, out, "X1-S"+string(rune('A'+19)))
	assert.NotContains(t, out, "X1-S"+string(rune('A'+20)), "20 systems unless asked for more")

	before := f.mock.Count(http.MethodGet, "/systems")
	out = f.run(t, "systems --limit 0")
	assert.Contains(t, out, "X1-S"+string(rune('A'+29)))
	assert.Equal(t, 2, f.mock.Count(http.MethodGet, "/systems")-before, "two pages of 20")
}

func TestContractCommands(t *testing.T) {
	f := newFixture(t)
	contract := models.Contract{
		ID:            "clq1",
		FactionSymbol: "COSMIC",
		Type:          models.ContractProcurement,
		Terms: models.ContractTerms{
			Payment: models.ContractPayment{OnAccepted: 1000, OnFulfilled: 5000},
			Deliver: []models.ContractDeliverGood{{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AB12-A1", UnitsRequired: 50}},
		},
	}
	f.mock.SetPaged(http.MethodGet, "/my/contracts", []any{contract})
	accepted := contract
	accepted.Accepted = true
	f.mock.SetData(http.MethodPost, "/my/contracts/clq1/accept", models.ContractAccept{
		Agent:    models.Agent{Symbol: "BADGER", Credits: 176000},
		Contract: accepted,
	})
	f.mock.SetData(http.MethodPost, "/my/ships/BADGER-1/negotiate/contract", models.ContractNegotiation{Contract: contract})

	out := f.run(t, "contracts")
	assert.Contains(t, out, "clq1")
	assert.Contains(t, out, "PROCUREMENT")

	out = f.run(t, "accept clq1")
	assert.Contains(t, out, "accepted: true")
	assert.Contains(t, out, "credits: 176000")
	assert.Contains(t, out, "deliver 0/50 IRON_ORE to X1-AB12-A1")

	out = f.run(t, "negotiate BADGER-1")
	assert.Contains(t, out, "clq1")
}

func TestStatusCommand(t *testing.T) {
	f := newFixture(t)
	f.mock.SetResponse(http.MethodGet, "/", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"status":"online","version":"v2.3.0","resetDate":"2026-10-05","stats":{"agents":7}}`,
	})

	out := f.run(t, "status")
	assert.Contains(t, out, "online")
	assert.Contains(t, out, "2026-10-05")
	assert.Regexp(t, `agents:\s+7`, out)
}
