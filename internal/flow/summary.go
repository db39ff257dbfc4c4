package flow

import (
	"fmt"
	"math"
	"strconv"

	"incorporator/internal/domain"
)

// Summary is the review screen's rendering-independent content.
type Summary struct {
	LegalName string
	Sections  []Section
}

// Section is one editable block of the review screen.
type Section struct {
	Field domain.Field
	Title string
	Lines []string
}

// Fields returns the fields offered for editing, in display order.
func (s Summary) Fields() []domain.Field {
	out := make([]domain.Field, len(s.Sections))
	for i, sec := range s.Sections {
		out[i] = sec.Field
	}
	return out
}

// BuildSummary describes d for review. Fields that do not apply to the
// draft's company type are omitted.
func BuildSummary(d *domain.FormationDraft) Summary {
	s := Summary{LegalName: d.LegalName()}
	add := func(f domain.Field, lines ...string) {
		s.Sections = append(s.Sections, Section{Field: f, Title: f.Label(), Lines: lines})
	}

	add(domain.FieldState, d.State.Value.Name())
	add(domain.FieldCompanyType, string(d.CompanyType.Value))
	add(domain.FieldEntityEnding, d.EntityEnding.Value)
	add(domain.FieldBaseName, d.BaseName.Value)

	ra := d.RegisteredAgent.Value
	add(domain.FieldRegisteredAgent, ra.Name, ra.Address.String())

	if d.RequiresShares() {
		ss := d.ShareStructure.Value
		add(domain.FieldShareStructure,
			"Authorized shares: "+groupThousands(ss.AuthorizedShares),
			"Par value: $"+ss.ParValue,
		)
	}

	var parties []string
	for _, p := range d.Parties.Value {
		parties = append(parties, fmt.Sprintf("%s (%s, %s%%), %s",
			p.Name, p.Role.Label(d.CompanyType.Value), formatPercent(p.OwnershipPercent), p.Address))
	}
	parties = append(parties, "Total ownership: "+formatPercent(d.OwnershipTotal())+"%")
	add(domain.FieldParties, parties...)

	signer := d.AuthorizedSigner.Value
	title := signer.Title
	if signer.IsParty() && signer.PartyIndex < len(d.Parties.Value) {
		title = d.Parties.Value[signer.PartyIndex].Role.Label(d.CompanyType.Value)
	}
	line := signer.Name
	if title != "" {
		line += ", " + title
	}
	add(domain.FieldAuthorizedSigner, line)
	return s
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
