package models

import "time"

// Ship is a ship owned by the authenticated agent.
type Ship struct {
	Symbol       string           `json:"symbol"`
	Registration ShipRegistration `json:"registration"`
	Nav          ShipNav          `json:"nav"`
	Crew         ShipCrew         `json:"crew"`
	Frame        ShipComponent    `json:"frame"`
	Reactor      ShipComponent    `json:"reactor"`
	Engine       ShipEngine       `json:"engine"`
	Cooldown     Cooldown         `json:"cooldown"`
	Modules      []ShipComponent  `json:"modules"`
	Mounts       []ShipComponent  `json:"mounts"`
	Cargo        ShipCargo        `json:"cargo"`
	Fuel         ShipFuel         `json:"fuel"`
}

// Key returns the ship symbol.
func (s *Ship) Key() string { return s.Symbol }

// Kind reports the alias kind of Ship values.
func (s *Ship) Kind() Kind { return KindShip }

// ReadyAt returns the time at which the ship has neither a pending arrival nor
// an active cooldown. The zero time means the ship is ready now.
func (s *Ship) ReadyAt() time.Time {
	var ready time.Time
	if s.Nav.Status == ShipStatusInTransit && s.Nav.Route.Arrival.After(ready) {
		ready = s.Nav.Route.Arrival
	}
	if s.Cooldown.Expiration != nil && s.Cooldown.Expiration.After(ready) {
		ready = *s.Cooldown.Expiration
	}
	return ready
}

// ShipRegistration is the public registration of a ship.
type ShipRegistration struct {
	Name          string `json:"name"`
	FactionSymbol string `json:"factionSymbol"`
	Role          string `json:"role"`
}

// ShipNav is the navigation state of a ship.
type ShipNav struct {
	SystemSymbol   string     `json:"systemSymbol"`
	WaypointSymbol string     `json:"waypointSymbol"`
	Route          ShipRoute  `json:"route"`
	Status         ShipStatus `json:"status"`
	FlightMode     FlightMode `json:"flightMode"`
}

// ShipRoute is the current or last route a ship flew.
type ShipRoute struct {
	Destination   RouteWaypoint `json:"destination"`
	Origin        RouteWaypoint `json:"origin"`
	DepartureTime time.Time     `json:"departureTime"`
	Arrival       time.Time     `json:"arrival"`
}

// RouteWaypoint is a waypoint as referenced by a route.
type RouteWaypoint struct {
	Symbol       string       `json:"symbol"`
	Type         WaypointType `json:"type"`
	SystemSymbol string       `json:"systemSymbol"`
	X            int          `json:"x"`
	Y            int          `json:"y"`
}

// ShipCrew describes the crew of a ship.
type ShipCrew struct {
	Current  int    `json:"current"`
	Required int    `json:"required"`
	Capacity int    `json:"capacity"`
	Rotation string `json:"rotation"`
	Morale   int    `json:"morale"`
	Wages    int    `json:"wages"`
}

// ShipComponent is a frame, reactor, module or mount.
type ShipComponent struct {
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Condition   *float64 `json:"condition,omitempty"`
	Integrity   *float64 `json:"integrity,omitempty"`
}

// ShipEngine is the engine of a ship.
type ShipEngine struct {
	ShipComponent
	Speed int `json:"speed"`
}

// Cooldown is the reactor cooldown of a ship.
type Cooldown struct {
	ShipSymbol       string     `json:"shipSymbol"`
	TotalSeconds     int        `json:"totalSeconds"`
	RemainingSeconds int        `json:"remainingSeconds"`
	Expiration       *time.Time `json:"expiration,omitempty"`
}

// ShipCargo is the cargo hold of a ship.
type ShipCargo struct {
	Capacity  int         `json:"capacity"`
	Units     int         `json:"units"`
	Inventory []CargoItem `json:"inventory"`
}

// CargoItem is one stack of goods in a cargo hold.
type CargoItem struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       int    `json:"units"`
}

// ShipFuel is the fuel tank of a ship.
type ShipFuel struct {
	Current  int           `json:"current"`
	Capacity int           `json:"capacity"`
	Consumed *FuelConsumed `json:"consumed,omitempty"`
}

// FuelConsumed records the fuel used by the last navigation.
type FuelConsumed struct {
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NavEvent is an event that occurred during navigation.
type NavEvent struct {
	Symbol      string `json:"symbol"`
	Component   string `json:"component"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Navigation is the result of a navigate call.
type Navigation struct {
	Fuel   ShipFuel   `json:"fuel"`
	Nav    ShipNav    `json:"nav"`
	Events []NavEvent `json:"events"`
}

// NavUpdate is the result of orbit, dock and flight mode changes.
type NavUpdate struct {
	Nav ShipNav `json:"nav"`
}

// MarketTransaction is a purchase or sale at a market.
type MarketTransaction struct {
	WaypointSymbol string    `json:"waypointSymbol"`
	ShipSymbol     string    `json:"shipSymbol"`
	TradeSymbol    string    `json:"tradeSymbol"`
	Type           string    `json:"type"`
	Units          int       `json:"units"`
	PricePerUnit   int       `json:"pricePerUnit"`
	TotalPrice     int       `json:"totalPrice"`
	Timestamp      time.Time `json:"timestamp"`
}

// Refuel is the result of a refuel call.
type Refuel struct {
	Agent       Agent             `json:"agent"`
	Fuel        ShipFuel          `json:"fuel"`
	Transaction MarketTransaction `json:"transaction"`
}

// ApplyNav records a nav state returned by orbit, dock or flight mode changes.
func (s *Ship) ApplyNav(u NavUpdate) {
	s.Nav = u.Nav
}

// ApplyNavigation records the result of a navigate call.
func (s *Ship) ApplyNavigation(n Navigation) {
	s.Nav = n.Nav
	s.Fuel = n.Fuel
}

// ApplyRefuel records the result of a refuel call.
func (s *Ship) ApplyRefuel(r Refuel) {
	s.Fuel = r.Fuel
}

// ApplyCooldown records a cooldown. A nil cooldown clears it.
func (s *Ship) ApplyCooldown(c *Cooldown) {
	if c == nil {
		s.Cooldown = Cooldown{ShipSymbol: s.Symbol}
		return
	}
	s.Cooldown = *c
}
