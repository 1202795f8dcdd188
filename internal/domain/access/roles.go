package access

import (
	"log"

	"events-app/internal/domain/applications"
)

// Role is a symbolic role resolved per request, never persisted. Except for
// RolePublic and RoleBoardMember, roles only exist relative to one event.
type Role string

const (
	RolePublic              Role = "Public"
	RoleOrganizer           Role = "Organizer"
	RoleParticipant         Role = "Participant"
	RoleAcceptedParticipant Role = "AcceptedParticipant"
	RoleBoardMember         Role = "BoardMember"
	RoleOwnBody             Role = "OwnBody"
)

// Context carries the per-event facts needed to resolve symbolic roles.
type Context struct {
	Organizers       []uint
	OrganizingBodies []uint
	Applications     []applications.Application
}

// ApplicationFor returns the context's application record for the given user.
// Duplicate records for one user violate a persistence invariant; the most
// recently created record wins and the duplication is logged.
func (c *Context) ApplicationFor(userID uint) (applications.Application, bool) {
	if c == nil || userID == 0 {
		return applications.Application{}, false
	}
	var (
		found bool
		best  applications.Application
		seen  int
	)
	for _, app := range c.Applications {
		if app.UserID != userID {
			continue
		}
		seen++
		if !found || app.CreatedAt.After(best.CreatedAt) ||
			(app.CreatedAt.Equal(best.CreatedAt) && app.ID > best.ID) {
			best = app
			found = true
		}
	}
	if seen > 1 {
		log.Printf("data integrity: user %d has %d application records for event, using latest", userID, seen)
	}
	return best, found
}

// ComputeRoles resolves the symbolic roles the identity holds in the given
// context. Every access decision goes through this one resolution so that
// "Organizer", "Participant" etc. mean the same thing everywhere.
func ComputeRoles(identity Identity, ctx *Context) map[Role]bool {
	roles := map[Role]bool{RolePublic: true}

	if len(identity.BoardBodies) > 0 {
		roles[RoleBoardMember] = true
	}

	if ctx == nil {
		return roles
	}

	for _, org := range ctx.Organizers {
		if org == identity.ID && identity.ID != 0 {
			roles[RoleOrganizer] = true
			break
		}
	}

	if app, ok := ctx.ApplicationFor(identity.ID); ok {
		roles[RoleParticipant] = true
		if app.Status == applications.StatusAccepted {
			roles[RoleAcceptedParticipant] = true
		}
	}

	for _, body := range ctx.OrganizingBodies {
		if identity.MemberOf(body) {
			roles[RoleOwnBody] = true
			break
		}
	}

	return roles
}
