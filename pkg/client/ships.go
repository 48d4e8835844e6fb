package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/pagination"
)

// Ships lists the ships of the authenticated agent.
func (c *Client) Ships() *pagination.Paged[models.Ship] {
	return paged[models.Ship](c, newRequest(http.MethodGet, "/my/ships"))
}

// Ship returns one of the agent's ships.
func (c *Client) Ship(ctx context.Context, ship string) (*models.Ship, error) {
	return call[*models.Ship](ctx, c, c.shipRequest(http.MethodGet, "/my/ships/{shipSymbol}", ship))
}

// Orbit moves a docked ship into orbit.
func (c *Client) Orbit(ctx context.Context, ship string) (*models.NavUpdate, error) {
	return call[*models.NavUpdate](ctx, c, c.shipRequest(http.MethodPost, "/my/ships/{shipSymbol}/orbit", ship))
}

// Dock docks an orbiting ship.
func (c *Client) Dock(ctx context.Context, ship string) (*models.NavUpdate, error) {
	return call[*models.NavUpdate](ctx, c, c.shipRequest(http.MethodPost, "/my/ships/{shipSymbol}/dock", ship))
}

type navigateBody struct {
	WaypointSymbol string `json:"waypointSymbol"`
}

// Navigate flies an orbiting ship to a waypoint in its system.
func (c *Client) Navigate(ctx context.Context, ship, waypoint string) (*models.Navigation, error) {
	req := c.shipRequest(http.MethodPost, "/my/ships/{shipSymbol}/navigate", ship).
		withBody(navigateBody{WaypointSymbol: c.Resolve(models.KindWaypoint, waypoint)})
	return call[*models.Navigation](ctx, c, req)
}

type flightModeBody struct {
	FlightMode models.FlightMode `json:"flightMode"`
}

// SetFlightMode changes the flight mode used for future navigation.
func (c *Client) SetFlightMode(ctx context.Context, ship string, mode models.FlightMode) (*models.NavUpdate, error) {
	if !mode.Valid() {
		return nil, &Error{Class: ErrorClassClient, Message: fmt.Sprintf("unknown flight mode %q", mode)}
	}
	req := c.shipRequest(http.MethodPatch, "/my/ships/{shipSymbol}/nav", ship).
		withBody(flightModeBody{FlightMode: mode})
	return call[*models.NavUpdate](ctx, c, req)
}

// RefuelOptions tune a refuel. The zero value fills the tank from the market.
type RefuelOptions struct {
	// Units to buy, 0 for a full tank
	Units int `json:"units,omitempty"`
	// FromCargo refuels from fuel carried in the cargo hold
	FromCargo bool `json:"fromCargo,omitempty"`
}

// Refuel refuels a docked ship.
func (c *Client) Refuel(ctx context.Context, ship string, opts RefuelOptions) (*models.Refuel, error) {
	req := c.shipRequest(http.MethodPost, "/my/ships/{shipSymbol}/refuel", ship).withBody(opts)
	return call[*models.Refuel](ctx, c, req)
}

// Cooldown returns the reactor cooldown of a ship, or nil when it has none.
func (c *Client) Cooldown(ctx context.Context, ship string) (*models.Cooldown, error) {
	cd, err := call[*models.Cooldown](ctx, c, c.shipRequest(http.MethodGet, "/my/ships/{shipSymbol}/cooldown", ship))
	if errors.Is(err, ErrNoContent) {
		return nil, nil
	}
	return cd, err
}

func (c *Client) shipRequest(method, route, ship string) request {
	return newRequest(method, route, c.Resolve(models.KindShip, ship))
}
