package client

import (
	"context"
	"net/http"

	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/pagination"
)

// Systems lists every system in the universe.
func (c *Client) Systems() *pagination.Paged[models.System] {
	return paged[models.System](c, newRequest(http.MethodGet, "/systems"))
}

// System returns a system by symbol.
func (c *Client) System(ctx context.Context, system string) (*models.System, error) {
	system = c.Resolve(models.KindSystem, system)
	return call[*models.System](ctx, c, newRequest(http.MethodGet, "/systems/{systemSymbol}", system))
}

// WaypointFilter narrows a waypoint listing. Empty fields do not filter.
type WaypointFilter struct {
	Traits []models.WaypointTrait
	Type   models.WaypointType
}

// SystemWaypoints lists the waypoints of a system.
func (c *Client) SystemWaypoints(system string, filter WaypointFilter) *pagination.Paged[models.Waypoint] {
	system = c.Resolve(models.KindSystem, system)
	traits := make([]string, len(filter.Traits))
	for i, t := range filter.Traits {
		traits[i] = string(t)
	}
	req := newRequest(http.MethodGet, "/systems/{systemSymbol}/waypoints", system).
		withQuery("traits", traits...).
		withQuery("type", string(filter.Type))
	return paged[models.Waypoint](c, req)
}

// Waypoint returns a waypoint. Its system is derived from the symbol.
func (c *Client) Waypoint(ctx context.Context, waypoint string) (*models.Waypoint, error) {
	waypoint = c.Resolve(models.KindWaypoint, waypoint)
	system, err := c.systemOf(waypoint)
	if err != nil {
		return nil, err
	}
	req := newRequest(http.MethodGet, "/systems/{systemSymbol}/waypoints/{waypointSymbol}", system, waypoint)
	return call[*models.Waypoint](ctx, c, req)
}
