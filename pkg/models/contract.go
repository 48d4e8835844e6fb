package models

import "time"

// Contract is a faction contract offered to or accepted by the agent.
type Contract struct {
	ID               string        `json:"id"`
	FactionSymbol    string        `json:"factionSymbol"`
	Type             ContractType  `json:"type"`
	Terms            ContractTerms `json:"terms"`
	Accepted         bool          `json:"accepted"`
	Fulfilled        bool          `json:"fulfilled"`
	DeadlineToAccept *time.Time    `json:"deadlineToAccept,omitempty"`
}

// Key returns the contract id.
func (c *Contract) Key() string { return c.ID }

// Kind reports the alias kind of Contract values.
func (c *Contract) Kind() Kind { return KindContract }

// ContractTerms are the obligations and rewards of a contract.
type ContractTerms struct {
	Deadline time.Time             `json:"deadline"`
	Payment  ContractPayment       `json:"payment"`
	Deliver  []ContractDeliverGood `json:"deliver"`
}

// ContractPayment is the credit reward of a contract.
type ContractPayment struct {
	OnAccepted  int64 `json:"onAccepted"`
	OnFulfilled int64 `json:"onFulfilled"`
}

// ContractDeliverGood is one delivery obligation.
type ContractDeliverGood struct {
	TradeSymbol       string `json:"tradeSymbol"`
	DestinationSymbol string `json:"destinationSymbol"`
	UnitsRequired     int    `json:"unitsRequired"`
	UnitsFulfilled    int    `json:"unitsFulfilled"`
}

// Remaining returns the units still to deliver.
func (g ContractDeliverGood) Remaining() int {
	if g.UnitsFulfilled >= g.UnitsRequired {
		return 0
	}
	return g.UnitsRequired - g.UnitsFulfilled
}

// ContractAccept is the result of accepting a contract.
type ContractAccept struct {
	Agent    Agent    `json:"agent"`
	Contract Contract `json:"contract"`
}

// ContractNegotiation is the result of negotiating a new contract.
type ContractNegotiation struct {
	Contract Contract `json:"contract"`
}
