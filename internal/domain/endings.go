package domain

var (
	llcEndings  = []string{"LLC", "L.L.C.", "Limited Liability Company"}
	corpEndings = []string{"Inc.", "Incorporated", "Corporation", "Corp.", "Company", "Co.", "Limited", "Ltd."}
)

// EntityEndings returns the endings permitted for t in state j. The first
// entry is the default.
func EntityEndings(j Jurisdiction, t CompanyType) []string {
	if j != Delaware {
		return nil
	}
	switch {
	case t == LLC:
		return append([]string(nil), llcEndings...)
	case t.IsCorporation():
		return append([]string(nil), corpEndings...)
	default:
		return nil
	}
}

// DefaultEntityEnding returns the ending preselected for t in state j.
func DefaultEntityEnding(j Jurisdiction, t CompanyType) string {
	endings := EntityEndings(j, t)
	if len(endings) == 0 {
		return ""
	}
	return endings[0]
}

// ValidEntityEnding reports whether ending is permitted for t in state j.
func ValidEntityEnding(j Jurisdiction, t CompanyType, ending string) bool {
	for _, e := range EntityEndings(j, t) {
		if e == ending {
			return true
		}
	}
	return false
}
