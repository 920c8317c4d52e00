package auth

import (
	"context"
)

// Authz
type AuthzProvider interface {
	// Check verifies if the session can perform the action on the resource.
	Check(ctx context.Context, s *Session, verb PermissionAction, resource Resource) error
}

type Authorizer struct {
	Authz AuthzProvider
}

func (a *Authorizer) Check(ctx context.Context, verb PermissionAction, resource Resource) error {
	if a == nil || a.Authz == nil {
		return nil
	}
	// Get session from context - may be nil for unauthenticated requests.
	// The AuthzProvider decides whether to allow unauthenticated access.
	s, _ := AuthSessionFrom(ctx)
	return a.Authz.Check(ctx, s, verb, resource)
}

// PermissionAction is an operation a caller wants to perform.
type PermissionAction string

const (
	PermissionActionRead    PermissionAction = "read"
	PermissionActionWrite   PermissionAction = "write"
	PermissionActionPublish PermissionAction = "publish"
)

// Resource identifies what an action targets.
type Resource struct {
	Type string
	Name string
}

// PublicActions defines which actions are allowed without authentication.
// Reads and writes fall back to the shared anonymous owner.
var PublicActions = map[PermissionAction]bool{
	PermissionActionRead:  true,
	PermissionActionWrite: true,
}

// PublicAuthzProvider allows public actions for everyone and requires a
// verified session for everything else.
type PublicAuthzProvider struct{}

// NewPublicAuthzProvider creates a new public authorization provider.
func NewPublicAuthzProvider() *PublicAuthzProvider {
	return &PublicAuthzProvider{}
}

// Check verifies if the session can perform the action on the resource.
//   - Public actions (read, write) are allowed without authentication
//   - Publishing a personality requires a session
func (o *PublicAuthzProvider) Check(_ context.Context, s *Session, verb PermissionAction, _ Resource) error {
	if PublicActions[verb] {
		return nil
	}
	if s == nil || s.Email == "" {
		return ErrUnauthorized
	}
	return nil
}
