// Package session carries the authenticated identity of a request as an
// explicit value.
package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Role is the closed set of session roles.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole converts a raw role name. An empty value means RoleCustomer.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(s)) {
	case "", RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Session is the identity on whose behalf an operation runs.
type Session struct {
	CustomerID string
	Name       string
	Email      string
	Role       Role
}

// IsAdmin reports whether the session may manage orders.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Provider resolves the session of an incoming request.
type Provider interface {
	Resolve(r *http.Request) (Session, error)
}

// Header names read by HeaderProvider.
const (
	HeaderCustomerID = "X-Customer-ID"
	HeaderName       = "X-Customer-Name"
	HeaderEmail      = "X-Customer-Email"
	HeaderRole       = "X-Customer-Role"
)

// HeaderProvider trusts identity headers set by an upstream authenticator.
type HeaderProvider struct{}

// Resolve builds a Session from request headers.
func (HeaderProvider) Resolve(r *http.Request) (Session, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderCustomerID))
	if id == "" {
		return Session{}, fmt.Errorf("missing %s header", HeaderCustomerID)
	}

	role, err := ParseRole(r.Header.Get(HeaderRole))
	if err != nil {
		return Session{}, err
	}

	return Session{
		CustomerID: id,
		Name:       strings.TrimSpace(r.Header.Get(HeaderName)),
		Email:      strings.TrimSpace(r.Header.Get(HeaderEmail)),
		Role:       role,
	}, nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
