package client

import (
	"context"
	"time"

	"github.com/Sternrassler/spess/pkg/models"
)

// readyMargin is added to server timestamps before a ship is considered ready.
const readyMargin = time.Second

// Wait blocks until ship has arrived and its cooldown has expired. It uses
// the state held in ship and makes no request.
func (c *Client) Wait(ctx context.Context, ship *models.Ship) error {
	if ship == nil {
		return &Error{Class: ErrorClassClient, Message: "wait needs a ship"}
	}
	return c.WaitUntil(ctx, ship.ReadyAt())
}

// WaitUntil blocks until one second past t. A zero t returns immediately.
func (c *Client) WaitUntil(ctx context.Context, t time.Time) error {
	if t.IsZero() {
		return nil
	}
	d := t.Add(readyMargin).Sub(c.clock.Now())
	if d <= 0 {
		return nil
	}

	c.logger.Info().
		Time("until", t).
		Dur("wait_duration", d).
		Msg("Waiting for ship")

	if err := c.clock.Sleep(ctx, d); err != nil {
		return networkError("wait cancelled", err)
	}
	return nil
}
