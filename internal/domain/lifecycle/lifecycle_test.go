package lifecycle

import (
	"encoding/json"
	"strings"
	"testing"

	"events-app/internal/domain/access"
)

func strPtr(s string) *string { return &s }

func emptyRules() map[Capability]access.Rule {
	rules := make(map[Capability]access.Rule, len(AllCapabilities))
	for _, cap := range AllCapabilities {
		rules[cap] = access.Rule{}
	}
	return rules
}

func testStatus(name string) Status {
	rules := emptyRules()
	rules[CapVisibility] = access.Rule{Roles: []access.Role{access.RolePublic}}
	rules[CapEditDetails] = access.Rule{Roles: []access.Role{access.RoleOrganizer}}
	return Status{Name: name, Rules: rules}
}

func testLifecycle() Lifecycle {
	return Lifecycle{
		EventType: "statutory",
		Statuses: StatusList{
			testStatus("Draft"),
			testStatus("Requesting"),
			testStatus("Published"),
		},
		Transitions: TransitionList{
			{From: nil, To: "Draft", AllowedFor: access.Rule{Roles: []access.Role{access.RolePublic}}},
			{From: strPtr("Draft"), To: "Requesting", AllowedFor: access.Rule{Roles: []access.Role{access.RoleOrganizer}}},
			{From: strPtr("Requesting"), To: "Published", AllowedFor: access.Rule{Users: []uint{1}}},
			{From: strPtr("Requesting"), To: "Draft", AllowedFor: access.Rule{Roles: []access.Role{access.RoleOrganizer}}},
		},
		InitialStatus: "Draft",
	}
}

func TestValidateAcceptsWellFormedLifecycle(t *testing.T) {
	if errs := Validate(testLifecycle()); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	errs := Validate(Lifecycle{})
	if len(errs) < 3 {
		t.Fatalf("expected errors for statuses, transitions and initial status, got %v", errs)
	}
}

func TestValidateDuplicateStatusNames(t *testing.T) {
	lc := testLifecycle()
	lc.Statuses = append(lc.Statuses, testStatus("Draft"))

	if !hasError(Validate(lc), "duplicate status name") {
		t.Fatalf("expected a duplicate-name error, got %v", Validate(lc))
	}
}

func TestValidateUnknownInitialStatus(t *testing.T) {
	lc := testLifecycle()
	lc.InitialStatus = "Approved"

	if !hasError(Validate(lc), "unknown status") {
		t.Fatalf("expected an unknown-status error, got %v", Validate(lc))
	}
}

func TestValidateMissingCapabilityRule(t *testing.T) {
	lc := testLifecycle()
	delete(lc.Statuses[1].Rules, CapApproveParticipants)

	errs := Validate(lc)
	if !hasError(errs, "rule is required") {
		t.Fatalf("expected a missing-rule error, got %v", errs)
	}
}

func TestValidateCreationTransitionInvariants(t *testing.T) {
	lc := testLifecycle()
	lc.Transitions = append(lc.Transitions, Transition{From: nil, To: "Draft"})
	if !hasError(Validate(lc), "exactly one creation transition") {
		t.Fatalf("expected a duplicate-creation error, got %v", Validate(lc))
	}

	lc = testLifecycle()
	lc.Transitions[0].To = "Published"
	if !hasError(Validate(lc), "must target the initial status") {
		t.Fatalf("expected a wrong-target error, got %v", Validate(lc))
	}

	lc = testLifecycle()
	lc.Transitions = lc.Transitions[1:]
	if !hasError(Validate(lc), "creation transition (from = null) is required") {
		t.Fatalf("expected a missing-creation error, got %v", Validate(lc))
	}
}

func TestValidateTransitionToUnknownStatus(t *testing.T) {
	lc := testLifecycle()
	lc.Transitions = append(lc.Transitions, Transition{From: strPtr("Draft"), To: "Archived"})
	if !hasError(Validate(lc), "unknown status") {
		t.Fatalf("expected an unknown-status error, got %v", Validate(lc))
	}
}

func TestTransitionsFrom(t *testing.T) {
	lc := testLifecycle()

	if got := lc.TransitionsFrom("Requesting"); len(got) != 2 {
		t.Fatalf("expected 2 transitions out of Requesting, got %d", len(got))
	}
	// terminal status
	if got := lc.TransitionsFrom("Published"); len(got) != 0 {
		t.Fatalf("expected no transitions out of Published, got %d", len(got))
	}
	// creation edge
	creations := lc.TransitionsFrom("")
	if len(creations) != 1 || !creations[0].IsCreation() {
		t.Fatalf("expected exactly the creation transition, got %v", creations)
	}
}

func TestCreationTransitionTargetsInitialStatus(t *testing.T) {
	lc := testLifecycle()
	tr, ok := lc.CreationTransition()
	if !ok {
		t.Fatal("expected a creation transition")
	}
	if tr.To != lc.InitialStatus {
		t.Fatalf("creation transition targets %q, want %q", tr.To, lc.InitialStatus)
	}
}

func TestTransitionBetweenMergesDuplicateEdges(t *testing.T) {
	lc := testLifecycle()
	lc.Transitions = append(lc.Transitions,
		Transition{From: strPtr("Requesting"), To: "Published", AllowedFor: access.Rule{Users: []uint{2}}})

	tr, ok := lc.TransitionBetween("Requesting", "Published")
	if !ok {
		t.Fatal("expected a transition")
	}
	if len(tr.AllowedFor.Users) != 2 {
		t.Fatalf("expected merged user list, got %v", tr.AllowedFor.Users)
	}
}

func TestLifecycleJSONRoundTrip(t *testing.T) {
	lc := testLifecycle()
	raw, err := json.Marshal(lc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored Lifecycle
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if errs := Validate(restored); len(errs) != 0 {
		t.Fatalf("restored lifecycle should validate cleanly, got %v", errs)
	}
	if restored.InitialStatus != lc.InitialStatus || len(restored.Statuses) != len(lc.Statuses) {
		t.Fatal("restored lifecycle lost data")
	}
}

func hasError(errs []ValidationError, fragment string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}
