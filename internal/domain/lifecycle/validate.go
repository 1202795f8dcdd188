package lifecycle

import "fmt"

// ValidationError is one field-level violation found in a lifecycle
// definition. API handlers return the full list so admins can fix a broken
// lifecycle in one round trip.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks every structural invariant of the lifecycle and returns
// one error per violation. It never stops at the first failure. An empty
// result means the lifecycle is safe to use.
func Validate(lc Lifecycle) []ValidationError {
	var errs []ValidationError

	if len(lc.Statuses) == 0 {
		errs = append(errs, ValidationError{Field: "statuses", Message: "at least one status is required"})
	}
	if len(lc.Transitions) == 0 {
		errs = append(errs, ValidationError{Field: "transitions", Message: "at least one transition is required"})
	}

	names := map[string]bool{}
	for i, st := range lc.Statuses {
		field := fmt.Sprintf("statuses[%d]", i)
		if st.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "status name is required"})
		}
		if names[st.Name] {
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate status name %q", st.Name)})
		}
		names[st.Name] = true

		for _, cap := range AllCapabilities {
			if _, ok := st.Rules[cap]; !ok {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.rules.%s", field, cap),
					Message: "rule is required (use an empty rule to grant nobody)",
				})
			}
		}
	}

	if lc.InitialStatus == "" {
		errs = append(errs, ValidationError{Field: "initial_status", Message: "initial status is required"})
	} else if len(lc.Statuses) > 0 && !names[lc.InitialStatus] {
		errs = append(errs, ValidationError{Field: "initial_status", Message: fmt.Sprintf("unknown status %q", lc.InitialStatus)})
	}

	creations := 0
	for i, tr := range lc.Transitions {
		field := fmt.Sprintf("transitions[%d]", i)
		if tr.From != nil && !names[*tr.From] {
			errs = append(errs, ValidationError{Field: field + ".from", Message: fmt.Sprintf("unknown status %q", *tr.From)})
		}
		if tr.To == "" {
			errs = append(errs, ValidationError{Field: field + ".to", Message: "target status is required"})
		} else if !names[tr.To] {
			errs = append(errs, ValidationError{Field: field + ".to", Message: fmt.Sprintf("unknown status %q", tr.To)})
		}
		if tr.IsCreation() {
			creations++
			if tr.To != "" && lc.InitialStatus != "" && tr.To != lc.InitialStatus {
				errs = append(errs, ValidationError{
					Field:   field + ".to",
					Message: fmt.Sprintf("creation transition must target the initial status %q", lc.InitialStatus),
				})
			}
		}
	}

	switch creations {
	case 0:
		if len(lc.Transitions) > 0 {
			errs = append(errs, ValidationError{Field: "transitions", Message: "a creation transition (from = null) is required"})
		}
	case 1:
	default:
		errs = append(errs, ValidationError{Field: "transitions", Message: fmt.Sprintf("exactly one creation transition is allowed, found %d", creations)})
	}

	return errs
}
