// Package validate holds the pure input validators used by every wizard step.
// Each validator maps raw text to a domain.ValidationResult; none keep state.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"incorporator/internal/domain"
)

const (
	maxNameLen = 120
	// OwnershipTolerance is the rounding slack allowed when percentages must
	// total 100.
	OwnershipTolerance = 0.01
	maxParDecimals     = 6
)

var (
	companyNameChars = regexp.MustCompile(`^[A-Za-z0-9&'.,\- ]+$`)
	zipPattern       = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	statePattern     = regexp.MustCompile(`^[A-Za-z]{2}$`)
	decimalPattern   = regexp.MustCompile(`^\d+(\.\d+)?$`)
	percentPattern   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// Required rejects blank input.
func Required(label string) func(string) domain.ValidationResult {
	return func(s string) domain.ValidationResult {
		if strings.TrimSpace(s) == "" {
			return domain.Invalid(label + " is required")
		}
		return domain.Valid()
	}
}

// CompanyBaseName validates the name without its entity ending.
func CompanyBaseName(s string) domain.ValidationResult {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return domain.Invalid("company name is required")
	case utf8.RuneCountInString(s) > maxNameLen:
		return domain.Invalid(fmt.Sprintf("company name must be at most %d characters", maxNameLen))
	case !companyNameChars.MatchString(s):
		return domain.Invalid("company name may contain letters, digits, spaces and & ' . , - only")
	}
	if ending := trailingEnding(s); ending != "" {
		return domain.Invalid(fmt.Sprintf("leave out the entity ending %q; it is chosen separately", ending))
	}
	return domain.Valid()
}

func trailingEnding(s string) string {
	lower := strings.ToLower(s)
	for _, t := range domain.CompanyTypes() {
		for _, e := range domain.EntityEndings(domain.Delaware, t) {
			le := strings.ToLower(e)
			if lower == le || strings.HasSuffix(lower, " "+le) {
				return e
			}
		}
	}
	return ""
}

// PersonName validates an individual's or agent's name.
func PersonName(s string) domain.ValidationResult {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return domain.Invalid("name is required")
	case utf8.RuneCountInString(s) > maxNameLen:
		return domain.Invalid(fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}
	return domain.Valid()
}

// Street validates a street address line.
func Street(s string) domain.ValidationResult {
	if strings.TrimSpace(s) == "" {
		return domain.Invalid("street address is required")
	}
	if strings.Contains(strings.ToLower(s), "p.o. box") || strings.Contains(strings.ToLower(s), "po box") {
		return domain.Invalid("a physical street address is required, not a P.O. box")
	}
	return domain.Valid()
}

// StateCode validates a two-letter US state code.
func StateCode(s string) domain.ValidationResult {
	if !statePattern.MatchString(strings.TrimSpace(s)) {
		return domain.Invalid("use a two-letter state code, e.g. DE")
	}
	return domain.Valid()
}

// Zip validates a 5 or 9 digit ZIP code.
func Zip(s string) domain.ValidationResult {
	if !zipPattern.MatchString(strings.TrimSpace(s)) {
		return domain.Invalid("ZIP code must be 12345 or 12345-6789")
	}
	return domain.Valid()
}

// AgentAddress validates a registered agent address, which must be in the
// state of formation.
func AgentAddress(state domain.Jurisdiction) func(string) domain.ValidationResult {
	return func(s string) domain.ValidationResult {
		if r := StateCode(s); !r.Valid {
			return r
		}
		if !strings.EqualFold(strings.TrimSpace(s), string(state)) {
			return domain.Invalid(fmt.Sprintf("the registered agent must have an address in %s", state.Name()))
		}
		return domain.Valid()
	}
}

// AuthorizedShares validates a positive whole number of shares.
func AuthorizedShares(s string) domain.ValidationResult {
	n, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	if err != nil || n <= 0 {
		return domain.Invalid("authorized shares must be a positive whole number")
	}
	return domain.Valid()
}

// ParseShares parses input accepted by AuthorizedShares.
func ParseShares(s string) int64 {
	n, _ := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	return n
}

// ParValue validates a non-negative decimal par value.
func ParValue(s string) domain.ValidationResult {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if !decimalPattern.MatchString(s) {
		return domain.Invalid("par value must be a decimal such as 0.0001")
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > maxParDecimals {
		return domain.Invalid(fmt.Sprintf("par value may have at most %d decimal places", maxParDecimals))
	}
	return domain.Valid()
}

// NormalizeParValue strips a leading dollar sign and surrounding space.
func NormalizeParValue(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "$")
}

// OwnershipPercent validates one party's percentage: greater than zero, at
// most 100, and at most two decimal places.
func OwnershipPercent(s string) domain.ValidationResult {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if !percentPattern.MatchString(s) {
		return domain.Invalid("ownership must be a number with at most two decimals, e.g. 50 or 33.33")
	}
	v, _ := strconv.ParseFloat(s, 64)
	if v <= 0 || v > 100 {
		return domain.Invalid("ownership must be greater than 0 and at most 100")
	}
	return domain.Valid()
}

// ParsePercent parses input accepted by OwnershipPercent.
func ParsePercent(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	return v
}

// PartyCount validates the number of parties to collect.
func PartyCount(s string) domain.ValidationResult {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 50 {
		return domain.Invalid("enter a number of parties between 1 and 50")
	}
	return domain.Valid()
}

// OwnershipTotal checks that parties' percentages total 100 within
// OwnershipTolerance. The sum is always recomputed from the list.
func OwnershipTotal(parties []domain.Party) domain.ValidationResult {
	total := domain.OwnershipTotal(parties)
	if math.Abs(total-100) > OwnershipTolerance+1e-9 {
		return domain.Invalid(fmt.Sprintf("ownership totals %.2f%%; it must total 100%%", total))
	}
	return domain.Valid()
}

// Draft checks that every applicable field is filled and consistent. It
// returns the first problem found, naming the field.
func Draft(d *domain.FormationDraft) error {
	required := []domain.Field{
		domain.FieldState,
		domain.FieldCompanyType,
		domain.FieldEntityEnding,
		domain.FieldBaseName,
		domain.FieldRegisteredAgent,
		domain.FieldShareStructure,
		domain.FieldParties,
		domain.FieldAuthorizedSigner,
	}
	for _, f := range required {
		if f == domain.FieldShareStructure && !d.RequiresShares() {
			continue
		}
		if !d.Filled(f) {
			return &domain.ValidationError{Field: string(f), Message: "not yet provided"}
		}
	}
	if !domain.ValidEntityEnding(d.State.Value, d.CompanyType.Value, d.EntityEnding.Value) {
		return &domain.ValidationError{Field: string(domain.FieldEntityEnding), Message: fmt.Sprintf("%q is not valid for a %s", d.EntityEnding.Value, d.CompanyType.Value)}
	}
	if len(d.Parties.Value) == 0 {
		return &domain.ValidationError{Field: string(domain.FieldParties), Message: "at least one party is required"}
	}
	if r := OwnershipTotal(d.Parties.Value); !r.Valid {
		return &domain.ValidationError{Field: string(domain.FieldParties), Message: r.Message}
	}
	if s := d.AuthorizedSigner.Value; s.IsParty() && (s.PartyIndex >= len(d.Parties.Value) || d.Parties.Value[s.PartyIndex].Name != s.Name) {
		return &domain.ValidationError{Field: string(domain.FieldAuthorizedSigner), Message: "refers to a party that no longer exists"}
	}
	return nil
}
