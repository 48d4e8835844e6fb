package client

import (
	"context"
	"net/http"

	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/pagination"
)

// MyAgent returns the authenticated agent.
func (c *Client) MyAgent(ctx context.Context) (*models.Agent, error) {
	return call[*models.Agent](ctx, c, newRequest(http.MethodGet, "/my/agent"))
}

// Agents lists all public agents.
func (c *Client) Agents() *pagination.Paged[models.Agent] {
	return paged[models.Agent](c, newRequest(http.MethodGet, "/agents"))
}

// Agent returns a public agent by symbol.
func (c *Client) Agent(ctx context.Context, symbol string) (*models.Agent, error) {
	symbol = c.Resolve(models.KindAgent, symbol)
	return call[*models.Agent](ctx, c, newRequest(http.MethodGet, "/agents/{agentSymbol}", symbol))
}
