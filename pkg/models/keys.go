package models

import (
	"fmt"
	"strings"
)

// Kind names a keyed entity type. Aliases are registered per kind.
type Kind string

const (
	KindAgent    Kind = "agent"
	KindShip     Kind = "ship"
	KindWaypoint Kind = "waypoint"
	KindSystem   Kind = "system"
	KindContract Kind = "contract"
)

// Kinds lists every keyed entity type.
var Kinds = []Kind{KindAgent, KindShip, KindWaypoint, KindSystem, KindContract}

// ParseKind converts a user supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// Keyed is implemented by entities identified by a symbol or id.
type Keyed interface {
	Key() string
	Kind() Kind
}

// SystemOf derives the system symbol of a waypoint symbol by dropping its last
// dash separated segment, e.g. X1-DF55-20250Z becomes X1-DF55.
func SystemOf(waypoint string) (string, error) {
	i := strings.LastIndex(waypoint, "-")
	if i <= 0 {
		return "", fmt.Errorf("bad waypoint: %q", waypoint)
	}
	return waypoint[:i], nil
}
