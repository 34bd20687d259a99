// Package auth provides JWT-based authentication for techstacks-engine.
// Tokens are validated against configured JWKS endpoints; the service
// itself never issues tokens.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// RoleAdmin is the administrative role carried in the roles claim.
// Admins may edit locked technologies and delete technologies they
// do not own.
const RoleAdmin = "admin"

// Claims represents the JWT claims structure accepted by the service.
// It embeds RegisteredClaims for standard fields (sub, iss, exp, ...)
// and adds the display name and role list used by authorization policy.
type Claims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name,omitempty"`  // Display name of the user
	Roles []string `json:"roles,omitempty"` // Roles granted to the user
}

// Actor is the authenticated identity performing a request. Services take
// it as an explicit parameter rather than reading ambient session state.
type Actor struct {
	ID    string
	Name  string
	Roles []string
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the administrative role.
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// ActorFromClaims builds an Actor from validated JWT claims.
// The name falls back to the subject when no display name claim is set.
func ActorFromClaims(claims *Claims) Actor {
	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	return Actor{
		ID:    claims.Subject,
		Name:  name,
		Roles: claims.Roles,
	}
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetActor retrieves the authenticated actor from the request context.
// Returns a zero Actor and false when the request is unauthenticated.
func GetActor(ctx context.Context) (Actor, bool) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil || claims.Subject == "" {
		return Actor{}, false
	}
	return ActorFromClaims(claims), true
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
