// Package auth guards the administrator and staff menus with access codes.
// Codes are kept only as bcrypt hashes.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role is an operator role protected by an access code.
type Role string

const (
	Admin Role = "admin"
	Staff Role = "staff"
)

// ErrDenied is returned when a code does not match.
var ErrDenied = errors.New("access denied")

// Gate verifies access codes per role.
type Gate struct {
	hashes map[Role][]byte
	cost   int
}

// Option configures a Gate.
type Option func(*Gate)

// WithCost sets the bcrypt cost used to hash plain codes.
func WithCost(cost int) Option {
	return func(g *Gate) {
		g.cost = cost
	}
}

// NewGate builds a gate from role codes. A code that already looks like a
// bcrypt hash is used as is; anything else is hashed.
func NewGate(codes map[Role]string, opts ...Option) (*Gate, error) {
	g := &Gate{
		hashes: make(map[Role][]byte, len(codes)),
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(g)
	}

	for role, code := range codes {
		if code == "" {
			return nil, fmt.Errorf("empty access code for %s", role)
		}
		if isHash(code) {
			if _, err := bcrypt.Cost([]byte(code)); err != nil {
				return nil, fmt.Errorf("invalid hash for %s: %w", role, err)
			}
			g.hashes[role] = []byte(code)
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(code), g.cost)
		if err != nil {
			return nil, fmt.Errorf("hash access code for %s: %w", role, err)
		}
		g.hashes[role] = hashed
	}
	return g, nil
}

// Verify checks code against the role's hash.
func (g *Gate) Verify(role Role, code string) error {
	hashed, ok := g.hashes[role]
	if !ok {
		return fmt.Errorf("%w: no code configured for %s", ErrDenied, role)
	}
	if err := bcrypt.CompareHashAndPassword(hashed, []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrDenied
		}
		return fmt.Errorf("verify access code: %w", err)
	}
	return nil
}

// VerifyAny returns the first role whose code matches.
func (g *Gate) VerifyAny(code string, roles ...Role) (Role, error) {
	for _, role := range roles {
		if err := g.Verify(role, code); err == nil {
			return role, nil
		}
	}
	return "", ErrDenied
}

// Hash returns the bcrypt hash of code, for storing in a config file in
// place of the plain code. NewGate accepts the result as is.
func Hash(code string) (string, error) {
	if code == "" {
		return "", errors.New("empty access code")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash access code: %w", err)
	}
	return string(hashed), nil
}

func isHash(code string) bool {
	return strings.HasPrefix(code, "$2a$") || strings.HasPrefix(code, "$2b$") || strings.HasPrefix(code, "$2y$")
}
