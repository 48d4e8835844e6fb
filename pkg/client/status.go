package client

import (
	"context"
	"net/http"

	"github.com/Sternrassler/spess/pkg/models"
)

// Status returns the server status. It needs no token.
func (c *Client) Status(ctx context.Context) (*models.Status, error) {
	req := newRequest(http.MethodGet, "/")
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, c.logFailure(req, err)
	}
	status, err := decodeRaw[*models.Status](resp)
	if err != nil {
		return nil, c.logFailure(req, err)
	}
	return status, nil
}

type registerBody struct {
	Symbol  string `json:"symbol"`
	Faction string `json:"faction"`
}

// Register creates a new agent. The client must hold an account token; the
// agent token is returned in the registration.
func (c *Client) Register(ctx context.Context, symbol, faction string) (*models.Registration, error) {
	req := newRequest(http.MethodPost, "/register").
		withBody(registerBody{Symbol: symbol, Faction: faction})
	return call[*models.Registration](ctx, c, req)
}
