package lifecycle

import "events-app/internal/domain/access"

// StatusByName looks up a status node by name.
func (l Lifecycle) StatusByName(name string) (Status, bool) {
	for _, st := range l.Statuses {
		if st.Name == name {
			return st, true
		}
	}
	return Status{}, false
}

// TransitionsFrom returns every transition leaving the named status. The
// empty string selects the creation transitions.
func (l Lifecycle) TransitionsFrom(from string) []Transition {
	var out []Transition
	for _, tr := range l.Transitions {
		if from == "" {
			if tr.IsCreation() {
				out = append(out, tr)
			}
			continue
		}
		if tr.From != nil && *tr.From == from {
			out = append(out, tr)
		}
	}
	return out
}

// CreationTransition returns the lifecycle's entry edge. A validated
// lifecycle has exactly one.
func (l Lifecycle) CreationTransition() (Transition, bool) {
	for _, tr := range l.Transitions {
		if tr.IsCreation() {
			return tr, true
		}
	}
	return Transition{}, false
}

// TransitionBetween returns the edge from one status to another. Should the
// graph carry duplicate edges for the same pair, their rules are merged
// permissively: the result matches whenever any duplicate would.
func (l Lifecycle) TransitionBetween(from, to string) (Transition, bool) {
	var (
		found bool
		rules []access.Rule
		match Transition
	)
	for _, tr := range l.TransitionsFrom(from) {
		if tr.To != to {
			continue
		}
		if !found {
			match = tr
			found = true
		}
		rules = append(rules, tr.AllowedFor)
	}
	if !found {
		return Transition{}, false
	}
	if len(rules) > 1 {
		match.AllowedFor = access.Union(rules...)
	}
	return match, true
}
