// Package directory exposes the external collaborators the core consumes:
// the team/roster directory, the tournament directory, the referee
// directory, and the authorization service. The core only reads through
// these interfaces; managing the underlying records is someone else's job.
package directory

import "context"

// Team is one team as seen by the core.
type Team struct {
	ID        string
	Nombre    string
	Categoria string
}

// Teams is the team/roster directory.
type Teams interface {
	// Team returns the team or domain.ErrNotFound.
	Team(ctx context.Context, id string) (*Team, error)
	// TeamsInCategory lists a tournament category's teams in roster order.
	TeamsInCategory(ctx context.Context, torneoID, categoria string) ([]Team, error)
}

// Tournaments is the tournament directory.
type Tournaments interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Referees is the referee directory.
type Referees interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Authorizer answers role checks. Authentication and role resolution happen
// upstream; the core only asks whether an already-resolved role may invoke
// privileged operations (state transitions, score-affecting edits).
type Authorizer interface {
	IsPrivileged(rol string) bool
}

// RoleSet is an Authorizer backed by a fixed allow-list of role names.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from the configured privileged role names.
func NewRoleSet(roles []string) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) IsPrivileged(rol string) bool {
	_, ok := s[rol]
	return ok
}
