package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incorporator/internal/domain"
	"incorporator/internal/validate"
)

func TestCompanyBaseName(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"Acme", true},
		{"Smith & Jones", true},
		{"O'Brien Tools", true},
		{"", false},
		{"   ", false},
		{"Acme LLC", false},
		{"Acme Inc.", false},
		{"Acme Corporation", false},
		{"Acme ☃", false},
		{strings.Repeat("a", 121), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := validate.CompanyBaseName(tt.in)
			assert.Equal(t, tt.valid, got.Valid, got.Message)
			if !got.Valid {
				assert.NotEmpty(t, got.Message)
			}
		})
	}
}

func TestAddressParts(t *testing.T) {
	assert.True(t, validate.Zip("19801").Valid)
	assert.True(t, validate.Zip("19801-1234").Valid)
	assert.False(t, validate.Zip("1980").Valid)

	assert.True(t, validate.StateCode("de").Valid)
	assert.False(t, validate.StateCode("Delaware").Valid)

	assert.True(t, validate.Street("1 Main St").Valid)
	assert.False(t, validate.Street("PO Box 12").Valid)

	inDE := validate.AgentAddress(domain.Delaware)
	assert.True(t, inDE("DE").Valid)
	assert.False(t, inDE("NY").Valid)
}

func TestShares(t *testing.T) {
	assert.True(t, validate.AuthorizedShares("10,000,000").Valid)
	assert.Equal(t, int64(10000000), validate.ParseShares("10,000,000"))
	assert.False(t, validate.AuthorizedShares("0").Valid)
	assert.False(t, validate.AuthorizedShares("-5").Valid)
	assert.False(t, validate.AuthorizedShares("1.5").Valid)

	assert.True(t, validate.ParValue("0.0001").Valid)
	assert.True(t, validate.ParValue("$1").Valid)
	assert.Equal(t, "1", validate.NormalizeParValue(" $1 "))
	assert.False(t, validate.ParValue("0.0000001").Valid)
	assert.False(t, validate.ParValue("abc").Valid)
}

func TestOwnershipPercent(t *testing.T) {
	for _, ok := range []string{"50", "33.33", "100", "0.01", "25%"} {
		assert.True(t, validate.OwnershipPercent(ok).Valid, ok)
	}
	for _, bad := range []string{"0", "100.01", "-1", "33.333", "half"} {
		assert.False(t, validate.OwnershipPercent(bad).Valid, bad)
	}
	assert.InDelta(t, 25.0, validate.ParsePercent("25%"), 1e-9)
}

func parties(pcts ...float64) []domain.Party {
	out := make([]domain.Party, len(pcts))
	for i, p := range pcts {
		out[i] = domain.Party{Name: string(rune('A' + i)), OwnershipPercent: p, Role: domain.RoleOwner}
	}
	return out
}

func TestOwnershipTotal(t *testing.T) {
	assert.True(t, validate.OwnershipTotal(parties(100)).Valid)
	assert.True(t, validate.OwnershipTotal(parties(33.33, 33.33, 33.34)).Valid)
	assert.True(t, validate.OwnershipTotal(parties(33.33, 33.33, 33.33)).Valid, "within rounding tolerance")
	assert.False(t, validate.OwnershipTotal(parties(50, 40)).Valid)
	assert.False(t, validate.OwnershipTotal(nil).Valid)
}

func filledDraft() domain.FormationDraft {
	var d domain.FormationDraft
	d.State.Set(domain.Delaware)
	d.CompanyType.Set(domain.LLC)
	d.EntityEnding.Set("LLC")
	d.BaseName.Set("Acme")
	d.RegisteredAgent.Set(domain.RegisteredAgent{Name: "Agent", Address: domain.Address{Street: "1 Main", City: "Dover", State: "DE", Zip: "19901"}})
	d.Parties.Set(parties(60, 40))
	d.AuthorizedSigner.Set(domain.Signer{PartyIndex: 0, Name: "A"})
	return d
}

func TestDraft(t *testing.T) {
	d := filledDraft()
	require.NoError(t, validate.Draft(&d))

	corp := filledDraft()
	corp.CompanyType.Set(domain.CCorp)
	corp.EntityEnding.Set("Inc.")
	var ve *domain.ValidationError
	require.True(t, errors.As(validate.Draft(&corp), &ve))
	assert.Equal(t, string(domain.FieldShareStructure), ve.Field)

	badEnding := filledDraft()
	badEnding.EntityEnding.Set("Inc.")
	require.True(t, errors.As(validate.Draft(&badEnding), &ve))
	assert.Equal(t, string(domain.FieldEntityEnding), ve.Field)

	staleSigner := filledDraft()
	staleSigner.AuthorizedSigner.Set(domain.Signer{PartyIndex: 5, Name: "Z"})
	require.True(t, errors.As(validate.Draft(&staleSigner), &ve))
	assert.Equal(t, string(domain.FieldAuthorizedSigner), ve.Field)
}

func TestEntityEndings_DeterministicPerType(t *testing.T) {
	for _, j := range domain.SupportedJurisdictions() {
		for _, ct := range domain.CompanyTypes() {
			first := domain.DefaultEntityEnding(j, ct)
			for i := 0; i < 5; i++ {
				assert.Equal(t, first, domain.DefaultEntityEnding(j, ct))
			}
			assert.True(t, domain.ValidEntityEnding(j, ct, first))
			if ct.IsCorporation() {
				assert.Equal(t, "Inc.", first)
				assert.False(t, domain.ValidEntityEnding(j, ct, "LLC"))
			} else {
				assert.Equal(t, "LLC", first)
				assert.False(t, domain.ValidEntityEnding(j, ct, "Inc."))
			}
		}
	}
}
