package access

// Identity describes the acting user as reported by the core identity
// service. A zero Identity is an anonymous visitor.
type Identity struct {
	ID         uint   `json:"id"`
	Superadmin bool   `json:"superadmin"`
	Bodies     []uint `json:"bodies"`
	// BoardBodies is the subset of Bodies where the user holds a board
	// position.
	BoardBodies []uint `json:"board_bodies"`
}

// MemberOf reports whether the identity belongs to the given body.
func (i Identity) MemberOf(bodyID uint) bool {
	for _, b := range i.Bodies {
		if b == bodyID {
			return true
		}
	}
	return false
}
