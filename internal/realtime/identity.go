package realtime

import (
	"errors"
	"strings"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/auth"
)

// ErrMissingClaims rejects a connect attempt whose token lacks the
// fields the hubs route on. Checked before anything is registered.
var ErrMissingClaims = errors.New("missing required identity claims")

// Identity is the verified principal behind one connection. It is
// extracted once from the authenticated transport context and never
// changes for the connection's lifetime.
type Identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// IdentityFromClaims fails closed: no userId or role, no connection.
func IdentityFromClaims(c *auth.Claims) (Identity, error) {
	if c == nil || c.UserID == "" || c.Role == "" {
		return Identity{}, ErrMissingClaims
	}
	return Identity{
		UserID:    c.UserID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.Role,
	}, nil
}

func (i Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Email
	}
	return name
}

func (i Identity) IsAdmin() bool {
	return strings.EqualFold(i.Role, "admin")
}
