package app

import (
	"encoding/json"
	"fmt"
	"time"

	"incorporator/internal/crypto"
	"incorporator/internal/domain"
	"incorporator/internal/flow"
	"incorporator/internal/store"
)

// Formation is the confirmed draft as handed to document generation.
type Formation struct {
	LegalName        string                 `json:"legal_name"`
	State            domain.Jurisdiction    `json:"state"`
	CompanyType      domain.CompanyType     `json:"company_type"`
	BaseName         string                 `json:"base_name"`
	EntityEnding     string                 `json:"entity_ending"`
	RegisteredAgent  domain.RegisteredAgent `json:"registered_agent"`
	ShareStructure   *domain.ShareStructure `json:"share_structure,omitempty"`
	Parties          []FormationParty       `json:"parties"`
	AuthorizedSigner domain.Signer          `json:"authorized_signer"`
	NameCheck        FormationNameCheck     `json:"name_check"`
	ConfirmedAt      time.Time              `json:"confirmed_at"`
	// Digest is the SHA-256 of the fields above, excluding ConfirmedAt.
	Digest string `json:"digest"`
}

// FormationParty is a party with its role labelled for the company type.
type FormationParty struct {
	domain.Party
	RoleLabel string `json:"role_label"`
}

// FormationNameCheck records what was known about name availability.
type FormationNameCheck struct {
	Status     domain.TaskStatus `json:"status"`
	Overridden bool              `json:"overridden"`
	TaskID     string            `json:"task_id,omitempty"`
}

// NewFormation converts a confirmed outcome.
func NewFormation(out flow.Outcome, now time.Time) (Formation, error) {
	if out.Kind != flow.Confirmed {
		return Formation{}, fmt.Errorf("outcome is %s, not confirmed", out.Kind)
	}
	d := out.Draft
	f := Formation{
		LegalName:        d.LegalName(),
		State:            d.State.Value,
		CompanyType:      d.CompanyType.Value,
		BaseName:         d.BaseName.Value,
		EntityEnding:     d.EntityEnding.Value,
		RegisteredAgent:  d.RegisteredAgent.Value,
		AuthorizedSigner: d.AuthorizedSigner.Value,
		NameCheck: FormationNameCheck{
			Status:     out.NameCheck.Status,
			Overridden: out.NameCheckOverridden,
			TaskID:     string(out.NameCheck.ID),
		},
	}
	if d.RequiresShares() {
		ss := d.ShareStructure.Value
		f.ShareStructure = &ss
	}
	for _, p := range d.Parties.Value {
		f.Parties = append(f.Parties, FormationParty{Party: p, RoleLabel: p.Role.Label(d.CompanyType.Value)})
	}

	b, err := json.Marshal(f)
	if err != nil {
		return Formation{}, err
	}
	f.Digest = crypto.Hash(b)
	f.ConfirmedAt = now.UTC()
	return f, nil
}

// Reference is a short id for the formation, shown to the user.
func (f Formation) Reference() string {
	return crypto.Fingerprint([]byte(f.Digest))
}

// WriteFormation writes f as JSON to path, replacing it atomically.
func WriteFormation(path string, f Formation) error {
	if err := store.WriteJSON(path, f, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
