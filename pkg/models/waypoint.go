package models

// Waypoint is a navigable location inside a system.
type Waypoint struct {
	Symbol              string             `json:"symbol"`
	Type                WaypointType       `json:"type"`
	SystemSymbol        string             `json:"systemSymbol"`
	X                   int                `json:"x"`
	Y                   int                `json:"y"`
	Orbitals            []WaypointOrbital  `json:"orbitals"`
	Orbits              string             `json:"orbits,omitempty"`
	Faction             *FactionRef        `json:"faction,omitempty"`
	Traits              []Trait            `json:"traits"`
	Modifiers           []WaypointModifier `json:"modifiers,omitempty"`
	Chart               *Chart             `json:"chart,omitempty"`
	IsUnderConstruction bool               `json:"isUnderConstruction"`
}

// Key returns the waypoint symbol.
func (w *Waypoint) Key() string { return w.Symbol }

// Kind reports the alias kind of Waypoint values.
func (w *Waypoint) Kind() Kind { return KindWaypoint }

// HasTrait reports whether the waypoint carries trait t.
func (w *Waypoint) HasTrait(t WaypointTrait) bool {
	for _, trait := range w.Traits {
		if trait.Symbol == t {
			return true
		}
	}
	return false
}

// Trait describes a waypoint trait.
type Trait struct {
	Symbol      WaypointTrait `json:"symbol"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

// WaypointOrbital references a waypoint orbiting another.
type WaypointOrbital struct {
	Symbol string `json:"symbol"`
}

// WaypointModifier is a temporary condition at a waypoint.
type WaypointModifier struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FactionRef references a faction by symbol.
type FactionRef struct {
	Symbol string `json:"symbol"`
}

// Chart records who charted a waypoint.
type Chart struct {
	WaypointSymbol string `json:"waypointSymbol,omitempty"`
	SubmittedBy    string `json:"submittedBy,omitempty"`
	SubmittedOn    string `json:"submittedOn,omitempty"`
}
