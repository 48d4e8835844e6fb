package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sternrassler/spess/pkg/models"
)

// TokenKind is the JWT subject of a SpaceTraders token.
type TokenKind string

const (
	KindAccount TokenKind = "account-token"
	KindAgent   TokenKind = "agent-token"
)

// ErrInvalidToken is returned for strings that are not SpaceTraders tokens.
var ErrInvalidToken = errors.New("invalid token")

// Token is a parsed SpaceTraders bearer token.
type Token struct {
	// Raw is the encoded JWT sent as bearer token
	Raw string
	// Kind is the JWT subject
	Kind TokenKind
	// Identifier is the agent symbol or account id
	Identifier string
	// ResetDate is the server reset an agent token belongs to
	ResetDate models.Date
	// IssuedAt is the iat claim
	IssuedAt time.Time
}

type tokenClaims struct {
	Identifier string `json:"identifier"`
	ResetDate  string `json:"reset_date,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// ParseToken decodes the claims of a token. The signature is not verified,
// only the server can do that.
func ParseToken(raw string) (*Token, error) {
	raw = strings.TrimSpace(raw)

	var claims tokenClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	tok := &Token{
		Raw:        raw,
		Kind:       TokenKind(claims.Subject),
		Identifier: claims.Identifier,
	}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.UTC()
	}
	if claims.ResetDate != "" {
		date, err := models.ParseDate(claims.ResetDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		tok.ResetDate = date
	}

	switch tok.Kind {
	case KindAccount, KindAgent:
	default:
		return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidToken, claims.Subject)
	}
	return tok, nil
}

// IsToken reports whether s looks like a JWT rather than an identifier.
func IsToken(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Count(s, ".") != 2 {
		return false
	}
	_, _, err := parser.ParseUnverified(s, &tokenClaims{})
	return err == nil
}

// String describes the token without revealing it.
func (t *Token) String() string {
	if t.Kind == KindAgent {
		return fmt.Sprintf("%s %s (reset %s)", t.Kind, t.Identifier, t.ResetDate)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Identifier)
}
