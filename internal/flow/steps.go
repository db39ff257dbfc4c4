package flow

import "incorporator/internal/domain"

// Step is one stage of the wizard. Its integer value is the step index
// persisted with a session.
type Step int

const (
	StepSelectState Step = iota
	StepSelectCompanyType
	StepSelectEntityEnding
	StepEnterBaseName
	StepCollectRegisteredAgent
	StepCollectShareStructure
	StepCollectParties
	StepSelectAuthorizedSigner
	StepReviewAndConfirm
)

// Steps lists every step in wizard order.
func Steps() []Step {
	return []Step{
		StepSelectState,
		StepSelectCompanyType,
		StepSelectEntityEnding,
		StepEnterBaseName,
		StepCollectRegisteredAgent,
		StepCollectShareStructure,
		StepCollectParties,
		StepSelectAuthorizedSigner,
		StepReviewAndConfirm,
	}
}

var stepNames = map[Step]string{
	StepSelectState:            "select_state",
	StepSelectCompanyType:      "select_company_type",
	StepSelectEntityEnding:     "select_entity_ending",
	StepEnterBaseName:          "enter_base_name",
	StepCollectRegisteredAgent: "collect_registered_agent",
	StepCollectShareStructure:  "collect_share_structure",
	StepCollectParties:         "collect_parties",
	StepSelectAuthorizedSigner: "select_authorized_signer",
	StepReviewAndConfirm:       "review_and_confirm",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether s names a step.
func (s Step) Valid() bool { return s >= StepSelectState && s <= StepReviewAndConfirm }

var stepFields = map[Step]domain.Field{
	StepSelectState:            domain.FieldState,
	StepSelectCompanyType:      domain.FieldCompanyType,
	StepSelectEntityEnding:     domain.FieldEntityEnding,
	StepEnterBaseName:          domain.FieldBaseName,
	StepCollectRegisteredAgent: domain.FieldRegisteredAgent,
	StepCollectShareStructure:  domain.FieldShareStructure,
	StepCollectParties:         domain.FieldParties,
	StepSelectAuthorizedSigner: domain.FieldAuthorizedSigner,
}

// Field returns the draft field s collects. Review owns no field.
func (s Step) Field() (domain.Field, bool) {
	f, ok := stepFields[s]
	return f, ok
}

// StepFor returns the step that collects f.
func StepFor(f domain.Field) (Step, bool) {
	for s, sf := range stepFields {
		if sf == f {
			return s, true
		}
	}
	return 0, false
}

// Applies reports whether s is part of the flow for d. Only the share
// structure step is conditional.
func Applies(s Step, d *domain.FormationDraft) bool {
	if s == StepCollectShareStructure {
		return d.RequiresShares()
	}
	return s.Valid()
}

// NextStep returns the first applicable step whose field is unfilled, or
// review when the draft is complete.
func NextStep(d *domain.FormationDraft) Step {
	for _, s := range Steps() {
		f, ok := s.Field()
		if !ok || !Applies(s, d) {
			continue
		}
		if !d.Filled(f) {
			return s
		}
	}
	return StepReviewAndConfirm
}

// dependency invalidates field when a change from before to after makes its
// answer stale.
type dependency struct {
	field domain.Field
	when  func(before, after *domain.FormationDraft) bool
}

// dependents maps a field to the fields that depend on its value.
var dependents = map[domain.Field][]dependency{
	domain.FieldState: {
		{domain.FieldEntityEnding, stateChanged},
		{domain.FieldRegisteredAgent, stateChanged},
	},
	domain.FieldCompanyType: {
		{domain.FieldEntityEnding, typeChanged},
		{domain.FieldShareStructure, sharesToggled},
	},
	domain.FieldParties: {
		{domain.FieldAuthorizedSigner, signerStale},
	},
}

func stateChanged(before, after *domain.FormationDraft) bool {
	return before.State.Value != after.State.Value
}

func typeChanged(before, after *domain.FormationDraft) bool {
	return before.CompanyType.Value != after.CompanyType.Value
}

func sharesToggled(before, after *domain.FormationDraft) bool {
	return before.CompanyType.Value.IsCorporation() != after.CompanyType.Value.IsCorporation()
}

func signerStale(_, after *domain.FormationDraft) bool {
	s := after.AuthorizedSigner.Value
	if !after.AuthorizedSigner.Filled || !s.IsParty() {
		return false
	}
	return s.PartyIndex >= len(after.Parties.Value) || after.Parties.Value[s.PartyIndex].Name != s.Name
}

// Invalidated returns the dependents of f made stale by the change from before
// to after.
func Invalidated(f domain.Field, before, after *domain.FormationDraft) []domain.Field {
	var out []domain.Field
	for _, dep := range dependents[f] {
		if dep.when(before, after) {
			out = append(out, dep.field)
		}
	}
	return out
}
