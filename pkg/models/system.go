package models

// System is a star system.
type System struct {
	Symbol       string           `json:"symbol"`
	SectorSymbol string           `json:"sectorSymbol"`
	Type         string           `json:"type"`
	X            int              `json:"x"`
	Y            int              `json:"y"`
	Waypoints    []SystemWaypoint `json:"waypoints"`
	Factions     []FactionRef     `json:"factions"`
}

// Key returns the system symbol.
func (s *System) Key() string { return s.Symbol }

// Kind reports the alias kind of System values.
func (s *System) Kind() Kind { return KindSystem }

// SystemWaypoint is the short form of a waypoint listed inside a system.
type SystemWaypoint struct {
	Symbol   string            `json:"symbol"`
	Type     WaypointType      `json:"type"`
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Orbitals []WaypointOrbital `json:"orbitals"`
	Orbits   string            `json:"orbits,omitempty"`
}
