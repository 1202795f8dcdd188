package access

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Rule declares who may exercise one capability: an explicit user list, a
// body list, and a set of symbolic roles resolved per event. An empty rule
// matches nobody; a rule carrying RolePublic matches everybody.
type Rule struct {
	Users  []uint `json:"users"`
	Bodies []uint `json:"bodies"`
	Roles  []Role `json:"roles"`
}

// Empty reports whether the rule can never match a non-superadmin.
func (r Rule) Empty() bool {
	return len(r.Users) == 0 && len(r.Bodies) == 0 && len(r.Roles) == 0
}

// Stored as a JSON column, mirroring how lifecycles are persisted.
func (r Rule) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *Rule) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = Rule{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into access.Rule", value)
	}
}

// Union merges rules into one that matches whenever any of the inputs would.
func Union(rules ...Rule) Rule {
	var out Rule
	seenUsers := map[uint]bool{}
	seenBodies := map[uint]bool{}
	seenRoles := map[Role]bool{}
	for _, r := range rules {
		for _, u := range r.Users {
			if !seenUsers[u] {
				seenUsers[u] = true
				out.Users = append(out.Users, u)
			}
		}
		for _, b := range r.Bodies {
			if !seenBodies[b] {
				seenBodies[b] = true
				out.Bodies = append(out.Bodies, b)
			}
		}
		for _, role := range r.Roles {
			if !seenRoles[role] {
				seenRoles[role] = true
				out.Roles = append(out.Roles, role)
			}
		}
	}
	return out
}

// Matches reports whether the identity satisfies the rule in the given event
// context (nil for global operations). Superadmins pass every rule.
func Matches(identity Identity, rule Rule, ctx *Context) bool {
	if identity.Superadmin {
		return true
	}
	if rule.Empty() {
		return false
	}
	for _, u := range rule.Users {
		if u == identity.ID && identity.ID != 0 {
			return true
		}
	}
	for _, b := range rule.Bodies {
		if identity.MemberOf(b) {
			return true
		}
	}
	if len(rule.Roles) > 0 {
		roles := ComputeRoles(identity, ctx)
		for _, want := range rule.Roles {
			if roles[want] {
				return true
			}
		}
	}
	return false
}
