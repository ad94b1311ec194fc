// Package auth carries the acting user's identity through the call chain.
// Services receive it as an explicit parameter; nothing reads it from
// ambient/global state.
package auth

import "github.com/google/uuid"

const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Context identifies the actor behind one request.
type Context struct {
	UserID uuid.UUID
	Role   string
}

// IsModerator reports whether the actor may moderate catalog submissions.
func (c Context) IsModerator() bool {
	return c.Role == RoleModerator || c.Role == RoleAdmin
}

// IsAdmin reports whether the actor has full administrative rights.
func (c Context) IsAdmin() bool {
	return c.Role == RoleAdmin
}
