package domain

import "strings"

// Slot is a draft value together with whether the wizard has collected it.
//
// Filled is independent of Value: an optional answer left blank is filled with
// the zero value, while a field that was never visited (or was invalidated by
// an edit) is not filled even if Value still holds the previous answer as a
// prefill hint.
type Slot[T any] struct {
	Value  T    `json:"value"`
	Filled bool `json:"filled"`
}

// Set stores v and marks the slot filled.
func (s *Slot[T]) Set(v T) {
	s.Value = v
	s.Filled = true
}

// Invalidate marks the slot unfilled. When keep is false the value is reset too.
func (s *Slot[T]) Invalidate(keep bool) {
	s.Filled = false
	if !keep {
		var zero T
		s.Value = zero
	}
}

// Jurisdiction identifies the state of formation.
type Jurisdiction string

// Delaware is currently the only supported jurisdiction.
const Delaware Jurisdiction = "DE"

// Name returns the display name of the jurisdiction.
func (j Jurisdiction) Name() string {
	switch j {
	case Delaware:
		return "Delaware"
	default:
		return string(j)
	}
}

// SupportedJurisdictions lists the jurisdictions the wizard can form in.
func SupportedJurisdictions() []Jurisdiction { return []Jurisdiction{Delaware} }

// CompanyType is the legal form of the entity.
type CompanyType string

const (
	LLC   CompanyType = "LLC"
	CCorp CompanyType = "C-Corp"
	SCorp CompanyType = "S-Corp"
)

// CompanyTypes lists the supported company types in display order.
func CompanyTypes() []CompanyType { return []CompanyType{LLC, CCorp, SCorp} }

// IsCorporation reports whether the type issues shares.
func (t CompanyType) IsCorporation() bool { return t == CCorp || t == SCorp }

// Address is a postal address.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

func (a Address) String() string {
	return strings.TrimSpace(a.Street + ", " + a.City + ", " + a.State + " " + a.Zip)
}

// RegisteredAgent receives service of process in the state of formation.
type RegisteredAgent struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// ShareStructure is required for corporations only.
type ShareStructure struct {
	AuthorizedShares int64 `json:"authorized_shares"`
	// ParValue is a decimal string (e.g. "0.0001") to avoid float rounding.
	ParValue string `json:"par_value"`
}

// Role is a party's relationship to the company, independent of company type.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleOfficer Role = "officer"
)

// Roles lists roles in display order.
func Roles() []Role { return []Role{RoleOwner, RoleManager, RoleOfficer} }

// Label returns the role's name for the given company type.
func (r Role) Label(t CompanyType) string {
	switch r {
	case RoleOwner:
		if t.IsCorporation() {
			return "Shareholder"
		}
		return "Member"
	case RoleManager:
		if t.IsCorporation() {
			return "Director"
		}
		return "Manager"
	case RoleOfficer:
		return "Officer"
	default:
		return string(r)
	}
}

// Party is a member, shareholder or officer of the company.
type Party struct {
	Name             string  `json:"name"`
	Address          Address `json:"address"`
	OwnershipPercent float64 `json:"ownership_percent"`
	Role             Role    `json:"role"`
}

// Signer is the person authorised to sign the formation documents. When
// PartyIndex is non-negative the signer is that party and Name mirrors the
// party's name at the time of selection; otherwise the signer is external.
type Signer struct {
	PartyIndex int    `json:"party_index"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
}

// IsParty reports whether the signer refers to a collected party.
func (s Signer) IsParty() bool { return s.PartyIndex >= 0 }

// FormationDraft is the mutable aggregate the wizard builds.
type FormationDraft struct {
	State            Slot[Jurisdiction]    `json:"state"`
	CompanyType      Slot[CompanyType]     `json:"company_type"`
	EntityEnding     Slot[string]          `json:"entity_ending"`
	BaseName         Slot[string]          `json:"base_name"`
	RegisteredAgent  Slot[RegisteredAgent] `json:"registered_agent"`
	ShareStructure   Slot[ShareStructure]  `json:"share_structure"`
	Parties          Slot[[]Party]         `json:"parties"`
	AuthorizedSigner Slot[Signer]          `json:"authorized_signer"`
}

// RequiresShares reports whether the share structure applies to this draft.
func (d *FormationDraft) RequiresShares() bool {
	return d.CompanyType.Filled && d.CompanyType.Value.IsCorporation()
}

// LegalName is the full name submitted for the availability check.
func (d *FormationDraft) LegalName() string {
	name := strings.TrimSpace(d.BaseName.Value)
	if d.EntityEnding.Value == "" {
		return name
	}
	return name + " " + d.EntityEnding.Value
}

// NameCheckReady reports whether enough is known to check availability.
func (d *FormationDraft) NameCheckReady() bool {
	return d.State.Filled && d.BaseName.Filled && d.EntityEnding.Filled
}

// OwnershipTotal sums ownership percentages over all parties.
func (d *FormationDraft) OwnershipTotal() float64 {
	return OwnershipTotal(d.Parties.Value)
}

// OwnershipTotal sums ownership percentages in list order.
func OwnershipTotal(parties []Party) float64 {
	var total float64
	for _, p := range parties {
		total += p.OwnershipPercent
	}
	return total
}

// Clone returns a deep copy of the draft.
func (d *FormationDraft) Clone() FormationDraft {
	out := *d
	if d.Parties.Value != nil {
		out.Parties.Value = append([]Party(nil), d.Parties.Value...)
	}
	return out
}

// Field names one logical field of the draft.
type Field string

const (
	FieldState            Field = "state"
	FieldCompanyType      Field = "company_type"
	FieldEntityEnding     Field = "entity_ending"
	FieldBaseName         Field = "base_name"
	FieldRegisteredAgent  Field = "registered_agent"
	FieldShareStructure   Field = "share_structure"
	FieldParties          Field = "parties"
	FieldAuthorizedSigner Field = "authorized_signer"
)

// Label returns the human-readable field name.
func (f Field) Label() string {
	switch f {
	case FieldState:
		return "State of formation"
	case FieldCompanyType:
		return "Company type"
	case FieldEntityEnding:
		return "Entity ending"
	case FieldBaseName:
		return "Company name"
	case FieldRegisteredAgent:
		return "Registered agent"
	case FieldShareStructure:
		return "Share structure"
	case FieldParties:
		return "Parties"
	case FieldAuthorizedSigner:
		return "Authorized signer"
	default:
		return string(f)
	}
}

// Filled reports whether f has been collected.
func (d *FormationDraft) Filled(f Field) bool {
	switch f {
	case FieldState:
		return d.State.Filled
	case FieldCompanyType:
		return d.CompanyType.Filled
	case FieldEntityEnding:
		return d.EntityEnding.Filled
	case FieldBaseName:
		return d.BaseName.Filled
	case FieldRegisteredAgent:
		return d.RegisteredAgent.Filled
	case FieldShareStructure:
		return d.ShareStructure.Filled
	case FieldParties:
		return d.Parties.Filled
	case FieldAuthorizedSigner:
		return d.AuthorizedSigner.Filled
	default:
		return false
	}
}

// Invalidate marks f unfilled, keeping its value as a prefill when keep is
// true.
func (d *FormationDraft) Invalidate(f Field, keep bool) {
	switch f {
	case FieldState:
		d.State.Invalidate(keep)
	case FieldCompanyType:
		d.CompanyType.Invalidate(keep)
	case FieldEntityEnding:
		d.EntityEnding.Invalidate(keep)
	case FieldBaseName:
		d.BaseName.Invalidate(keep)
	case FieldRegisteredAgent:
		d.RegisteredAgent.Invalidate(keep)
	case FieldShareStructure:
		d.ShareStructure.Invalidate(keep)
	case FieldParties:
		d.Parties.Invalidate(keep)
	case FieldAuthorizedSigner:
		d.AuthorizedSigner.Invalidate(keep)
	}
}
