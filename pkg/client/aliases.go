package client

import (
	"cmp"
	"slices"
	"sync"

	"github.com/Sternrassler/spess/pkg/models"
)

// Alias maps a short name to the symbol of a keyed entity.
type Alias struct {
	Kind  models.Kind
	Name  string
	Value string
}

type aliasKey struct {
	kind models.Kind
	name string
}

type aliases struct {
	mu     sync.RWMutex
	values map[aliasKey]string
}

func newAliases() *aliases {
	return &aliases{values: map[aliasKey]string{}}
}

// AddAlias makes name usable wherever a symbol of kind is accepted. value may
// itself be an alias of the same kind.
//
//	c.AddAlias(models.KindShip, "hauler", "NAME-2")
//	ship, err := c.Ship(ctx, "hauler")
func (c *Client) AddAlias(kind models.Kind, name, value string) {
	resolved := c.Resolve(kind, value)

	c.aliases.mu.Lock()
	defer c.aliases.mu.Unlock()
	c.aliases.values[aliasKey{kind, name}] = resolved
}

// RemoveAlias removes an alias and returns the symbol it pointed to.
func (c *Client) RemoveAlias(kind models.Kind, name string) (string, bool) {
	c.aliases.mu.Lock()
	defer c.aliases.mu.Unlock()

	key := aliasKey{kind, name}
	value, ok := c.aliases.values[key]
	delete(c.aliases.values, key)
	return value, ok
}

// Aliases lists the defined aliases ordered by kind and name.
func (c *Client) Aliases() []Alias {
	c.aliases.mu.RLock()
	defer c.aliases.mu.RUnlock()

	out := make([]Alias, 0, len(c.aliases.values))
	for k, v := range c.aliases.values {
		out = append(out, Alias{Kind: k.kind, Name: k.name, Value: v})
	}
	slices.SortFunc(out, func(a, b Alias) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// Resolve returns the symbol an alias points to, or symbol itself.
func (c *Client) Resolve(kind models.Kind, symbol string) string {
	c.aliases.mu.RLock()
	defer c.aliases.mu.RUnlock()

	if v, ok := c.aliases.values[aliasKey{kind, symbol}]; ok {
		return v
	}
	return symbol
}

// systemOf resolves a waypoint (or waypoint alias) to its system symbol.
func (c *Client) systemOf(waypoint string) (string, error) {
	system, err := models.SystemOf(c.Resolve(models.KindWaypoint, waypoint))
	if err != nil {
		return "", &Error{Class: ErrorClassClient, Message: "bad waypoint symbol", Err: err}
	}
	return system, nil
}
