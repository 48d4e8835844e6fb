package models

// Agent is a player identity.
type Agent struct {
	AccountID       string `json:"accountId,omitempty"`
	Symbol          string `json:"symbol"`
	Headquarters    string `json:"headquarters"`
	Credits         int64  `json:"credits"`
	StartingFaction string `json:"startingFaction"`
	ShipCount       int    `json:"shipCount"`
}

// Key returns the agent symbol.
func (a *Agent) Key() string { return a.Symbol }

// Kind reports the alias kind of Agent values.
func (a *Agent) Kind() Kind { return KindAgent }

// Faction is a faction as embedded in registration responses.
type Faction struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Headquarters string `json:"headquarters"`
	IsRecruiting bool   `json:"isRecruiting"`
}

// Registration is the result of registering a new agent.
type Registration struct {
	Agent    Agent    `json:"agent"`
	Contract Contract `json:"contract"`
	Faction  Faction  `json:"faction"`
	Ships    []Ship   `json:"ships"`
	Token    string   `json:"token"`
}
