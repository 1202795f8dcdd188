package events

import (
	"events-app/internal/domain/access"
	"events-app/internal/domain/applications"
	"events-app/internal/domain/lifecycle"
)

// Permissions is the capability set for one (user, event) pair. It
// serializes directly as the "rights" payload of event responses.
type Permissions struct {
	Is  IsSet  `json:"is"`
	Can CanSet `json:"can"`
}

type IsSet struct {
	Superadmin          bool `json:"superadmin"`
	Organizer           bool `json:"organizer"`
	Participant         bool `json:"participant"`
	AcceptedParticipant bool `json:"accepted_participant"`
	BoardMember         bool `json:"board_member"`
	OwnBody             bool `json:"own_body"`
}

type CanSet struct {
	View                  bool `json:"view"`
	ViewApplications      bool `json:"view_applications"`
	ApproveParticipants   bool `json:"approve_participants"`
	EditDetails           bool `json:"edit_details"`
	EditOrganizers        bool `json:"edit_organizers"`
	Delete                bool `json:"delete"`
	EditApplicationStatus bool `json:"edit_application_status"`
	Apply                 bool `json:"apply"`
	// TransitionTo maps each status reachable from the current one to
	// whether this user may move the event there.
	TransitionTo map[string]bool `json:"transition_to"`
}

// ComputePermissions derives the full capability set for the identity
// against the snapshot. It is pure and never panics; a snapshot whose
// status cannot be resolved in its lifecycle yields a fully denied set.
func ComputePermissions(identity access.Identity, snap Snapshot) Permissions {
	ctx := snap.Context()
	roles := access.ComputeRoles(identity, ctx)

	p := Permissions{
		Is: IsSet{
			Superadmin:          identity.Superadmin,
			Organizer:           roles[access.RoleOrganizer],
			Participant:         roles[access.RoleParticipant],
			AcceptedParticipant: roles[access.RoleAcceptedParticipant],
			BoardMember:         roles[access.RoleBoardMember],
			OwnBody:             roles[access.RoleOwnBody],
		},
		Can: CanSet{TransitionTo: map[string]bool{}},
	}

	status, ok := snap.CurrentStatus()
	if !ok {
		// unknown status: every capability stays denied
		return p
	}

	p.Can.View = access.Matches(identity, status.Rule(lifecycle.CapVisibility), ctx)
	p.Can.ViewApplications = access.Matches(identity, status.Rule(lifecycle.CapViewApplications), ctx)

	// Approving while applications are open is forbidden no matter what the
	// lifecycle says, superadmins included.
	p.Can.ApproveParticipants = !snap.ApplicationOpen &&
		access.Matches(identity, status.Rule(lifecycle.CapApproveParticipants), ctx)

	p.Can.EditDetails = access.Matches(identity, status.Rule(lifecycle.CapEditDetails), ctx)
	p.Can.EditOrganizers = access.Matches(identity, status.Rule(lifecycle.CapEditOrganizers), ctx)

	// Only events still in the entry status may be deleted outright; after
	// that, removal goes through the transition system.
	p.Can.Delete = p.Can.EditDetails && snap.Status == snap.Lifecycle.InitialStatus

	p.Can.EditApplicationStatus = access.Matches(identity, status.Rule(lifecycle.CapEditApplicationStatus), ctx)

	for _, tr := range snap.Lifecycle.TransitionsFrom(snap.Status) {
		allowed := access.Matches(identity, tr.AllowedFor, ctx)
		p.Can.TransitionTo[tr.To] = p.Can.TransitionTo[tr.To] || allowed
	}

	p.Can.Apply = canApply(identity, status, snap, ctx, p.Is.Organizer)

	return p
}

func canApply(identity access.Identity, status lifecycle.Status, snap Snapshot, ctx *access.Context, isOrganizer bool) bool {
	// organizers cannot be participants of their own event
	if isOrganizer || !snap.ApplicationOpen {
		return false
	}
	if !access.Matches(identity, status.Rule(lifecycle.CapApplicable), ctx) {
		return false
	}
	if app, ok := ctx.ApplicationFor(identity.ID); ok && app.Status != applications.StatusRejected {
		return false
	}
	return true
}
