package client

import (
	"context"
	"net/http"

	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/pagination"
)

// Contracts lists the agent's contracts.
func (c *Client) Contracts() *pagination.Paged[models.Contract] {
	return paged[models.Contract](c, newRequest(http.MethodGet, "/my/contracts"))
}

// Contract returns a contract by id.
func (c *Client) Contract(ctx context.Context, id string) (*models.Contract, error) {
	id = c.Resolve(models.KindContract, id)
	return call[*models.Contract](ctx, c, newRequest(http.MethodGet, "/my/contracts/{contractId}", id))
}

// AcceptContract accepts a contract and collects the up-front payment.
func (c *Client) AcceptContract(ctx context.Context, id string) (*models.ContractAccept, error) {
	id = c.Resolve(models.KindContract, id)
	return call[*models.ContractAccept](ctx, c, newRequest(http.MethodPost, "/my/contracts/{contractId}/accept", id))
}

// NegotiateContract asks the faction at the ship's waypoint for a new contract.
func (c *Client) NegotiateContract(ctx context.Context, ship string) (*models.ContractNegotiation, error) {
	req := c.shipRequest(http.MethodPost, "/my/ships/{shipSymbol}/negotiate/contract", ship)
	return call[*models.ContractNegotiation](ctx, c, req)
}
