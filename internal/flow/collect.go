package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"incorporator/internal/domain"
	"incorporator/internal/validate"
)

const (
	defaultAuthorizedShares = "10,000,000"
	defaultParValue         = "0.0001"
)

func (c *Controller) collect(ctx context.Context, s Step) error {
	switch s {
	case StepSelectState:
		return c.collectState(ctx)
	case StepSelectCompanyType:
		return c.collectCompanyType(ctx)
	case StepSelectEntityEnding:
		return c.collectEntityEnding(ctx)
	case StepEnterBaseName:
		return c.collectBaseName(ctx)
	case StepCollectRegisteredAgent:
		return c.collectRegisteredAgent(ctx)
	case StepCollectShareStructure:
		return c.collectShareStructure(ctx)
	case StepCollectParties:
		return c.collectParties(ctx)
	case StepSelectAuthorizedSigner:
		return c.collectSigner(ctx)
	default:
		return fmt.Errorf("flow: no collector for step %s", s)
	}
}

// ask prompts until v accepts the answer, which is returned trimmed.
func (c *Controller) ask(ctx context.Context, q Question, v func(string) domain.ValidationResult) (string, error) {
	for {
		ans, err := c.prompt.Input(ctx, q)
		if err != nil {
			return "", err
		}
		if r := v(ans); !r.Valid {
			c.prompt.Notify(LevelWarn, r.Message)
			continue
		}
		return strings.TrimSpace(ans), nil
	}
}

// choose prompts for one of options and returns its index.
func (c *Controller) choose(ctx context.Context, q Question, options []string, def int) (int, error) {
	if def < 0 || def >= len(options) {
		def = 0
	}
	for {
		i, err := c.prompt.Select(ctx, q, options, def)
		if err != nil {
			return 0, err
		}
		if i >= 0 && i < len(options) {
			return i, nil
		}
		c.prompt.Notify(LevelWarn, fmt.Sprintf("choose an option between 1 and %d", len(options)))
	}
}

func (c *Controller) collectState(ctx context.Context) error {
	states := domain.SupportedJurisdictions()
	opts := make([]string, len(states))
	def := 0
	for i, j := range states {
		opts[i] = j.Name()
		if j == c.draft.State.Value {
			def = i
		}
	}
	i, err := c.choose(ctx, Question{Key: "state", Label: "State of formation"}, opts, def)
	if err != nil {
		return err
	}
	c.draft.State.Set(states[i])
	return nil
}

func (c *Controller) collectCompanyType(ctx context.Context) error {
	types := domain.CompanyTypes()
	opts := make([]string, len(types))
	def := 0
	for i, t := range types {
		opts[i] = string(t)
		if t == c.draft.CompanyType.Value {
			def = i
		}
	}
	i, err := c.choose(ctx, Question{Key: "company_type", Label: "Company type"}, opts, def)
	if err != nil {
		return err
	}
	c.draft.CompanyType.Set(types[i])
	return nil
}

func (c *Controller) collectEntityEnding(ctx context.Context) error {
	endings := domain.EntityEndings(c.draft.State.Value, c.draft.CompanyType.Value)
	if len(endings) == 0 {
		return fmt.Errorf("flow: no entity endings for %s in %s", c.draft.CompanyType.Value, c.draft.State.Value)
	}
	def := 0
	for i, e := range endings {
		if e == c.draft.EntityEnding.Value {
			def = i
		}
	}
	q := Question{
		Key:   "entity_ending",
		Label: "Entity ending",
		Help:  fmt.Sprintf("Required suffix for a %s %s", c.draft.State.Value.Name(), c.draft.CompanyType.Value),
	}
	i, err := c.choose(ctx, q, endings, def)
	if err != nil {
		return err
	}
	c.draft.EntityEnding.Set(endings[i])
	return nil
}

func (c *Controller) collectBaseName(ctx context.Context) error {
	q := Question{
		Key:     "base_name",
		Label:   "Company name",
		Help:    fmt.Sprintf("Without the ending; it will be filed as \"<name> %s\"", c.draft.EntityEnding.Value),
		Default: c.draft.BaseName.Value,
	}
	name, err := c.ask(ctx, q, validate.CompanyBaseName)
	if err != nil {
		return err
	}
	c.draft.BaseName.Set(name)
	return nil
}

func (c *Controller) askAddress(ctx context.Context, key string, prev domain.Address, state func(string) domain.ValidationResult) (domain.Address, error) {
	var a domain.Address
	var err error
	if a.Street, err = c.ask(ctx, Question{Key: key + ".street", Label: "Street address", Default: prev.Street}, validate.Street); err != nil {
		return a, err
	}
	if a.City, err = c.ask(ctx, Question{Key: key + ".city", Label: "City", Default: prev.City}, validate.Required("city")); err != nil {
		return a, err
	}
	st, err := c.ask(ctx, Question{Key: key + ".state", Label: "State", Default: prev.State}, state)
	if err != nil {
		return a, err
	}
	a.State = strings.ToUpper(st)
	if a.Zip, err = c.ask(ctx, Question{Key: key + ".zip", Label: "ZIP code", Default: prev.Zip}, validate.Zip); err != nil {
		return a, err
	}
	return a, nil
}

func (c *Controller) collectRegisteredAgent(ctx context.Context) error {
	prev := c.draft.RegisteredAgent.Value
	if prev.Address.State == "" {
		prev.Address.State = string(c.draft.State.Value)
	}
	name, err := c.ask(ctx, Question{
		Key:     "agent.name",
		Label:   "Registered agent name",
		Help:    "A person or company with a physical address in " + c.draft.State.Value.Name(),
		Default: prev.Name,
	}, validate.PersonName)
	if err != nil {
		return err
	}
	addr, err := c.askAddress(ctx, "agent", prev.Address, validate.AgentAddress(c.draft.State.Value))
	if err != nil {
		return err
	}
	c.draft.RegisteredAgent.Set(domain.RegisteredAgent{Name: name, Address: addr})
	return nil
}

func (c *Controller) collectShareStructure(ctx context.Context) error {
	prev := c.draft.ShareStructure.Value
	sharesDef, parDef := defaultAuthorizedShares, defaultParValue
	if prev.AuthorizedShares > 0 {
		sharesDef = strconv.FormatInt(prev.AuthorizedShares, 10)
	}
	if prev.ParValue != "" {
		parDef = prev.ParValue
	}
	shares, err := c.ask(ctx, Question{Key: "shares.authorized", Label: "Authorized shares", Default: sharesDef}, validate.AuthorizedShares)
	if err != nil {
		return err
	}
	par, err := c.ask(ctx, Question{Key: "shares.par_value", Label: "Par value per share ($)", Default: parDef}, validate.ParValue)
	if err != nil {
		return err
	}
	c.draft.ShareStructure.Set(domain.ShareStructure{
		AuthorizedShares: validate.ParseShares(shares),
		ParValue:         validate.NormalizeParValue(par),
	})
	return nil
}

// collectParties collects the full party list, re-asking until ownership
// totals 100%. Previous answers are offered as defaults.
func (c *Controller) collectParties(ctx context.Context) error {
	prev := c.draft.Parties.Value
	for {
		parties, err := c.askParties(ctx, prev)
		if err != nil {
			return err
		}
		if r := validate.OwnershipTotal(parties); !r.Valid {
			c.prompt.Notify(LevelWarn, r.Message)
			prev = parties
			continue
		}
		c.draft.Parties.Set(parties)
		return nil
	}
}

func (c *Controller) askParties(ctx context.Context, prev []domain.Party) ([]domain.Party, error) {
	countDef := "1"
	if len(prev) > 0 {
		countDef = strconv.Itoa(len(prev))
	}
	ct := c.draft.CompanyType.Value
	countLabel := "Number of members"
	if ct.IsCorporation() {
		countLabel = "Number of shareholders, directors and officers"
	}
	raw, err := c.ask(ctx, Question{Key: "parties.count", Label: countLabel, Default: countDef}, validate.PartyCount)
	if err != nil {
		return nil, err
	}
	n, _ := strconv.Atoi(raw)

	roles := domain.Roles()
	roleOpts := make([]string, len(roles))
	for i, r := range roles {
		roleOpts[i] = r.Label(ct)
	}

	parties := make([]domain.Party, n)
	var total float64
	for i := range parties {
		var p domain.Party
		if i < len(prev) {
			p = prev[i]
		}
		key := fmt.Sprintf("party.%d", i+1)

		name, err := c.ask(ctx, Question{Key: key + ".name", Label: fmt.Sprintf("Party %d name", i+1), Default: p.Name}, validate.PersonName)
		if err != nil {
			return nil, err
		}
		addr, err := c.askAddress(ctx, key, p.Address, validate.StateCode)
		if err != nil {
			return nil, err
		}

		pctDef := ""
		switch {
		case p.OwnershipPercent > 0:
			pctDef = formatPercent(p.OwnershipPercent)
		case i == n-1 && total < 100:
			pctDef = formatPercent(100 - total)
		}
		pct, err := c.ask(ctx, Question{Key: key + ".percent", Label: "Ownership %", Default: pctDef}, validate.OwnershipPercent)
		if err != nil {
			return nil, err
		}

		roleDef := 0
		for j, r := range roles {
			if r == p.Role {
				roleDef = j
			}
		}
		ri, err := c.choose(ctx, Question{Key: key + ".role", Label: "Role"}, roleOpts, roleDef)
		if err != nil {
			return nil, err
		}

		parties[i] = domain.Party{
			Name:             name,
			Address:          addr,
			OwnershipPercent: validate.ParsePercent(pct),
			Role:             roles[ri],
		}
		total += parties[i].OwnershipPercent
	}
	return parties, nil
}

func (c *Controller) collectSigner(ctx context.Context) error {
	parties := c.draft.Parties.Value
	ct := c.draft.CompanyType.Value
	opts := make([]string, 0, len(parties)+1)
	for _, p := range parties {
		opts = append(opts, fmt.Sprintf("%s (%s)", p.Name, p.Role.Label(ct)))
	}
	opts = append(opts, "Someone else")

	prev := c.draft.AuthorizedSigner.Value
	def := 0
	switch {
	case prev.IsParty() && prev.PartyIndex < len(parties):
		def = prev.PartyIndex
	case !prev.IsParty() && prev.Name != "":
		def = len(parties)
	}
	i, err := c.choose(ctx, Question{Key: "signer", Label: "Who will sign the formation documents?"}, opts, def)
	if err != nil {
		return err
	}

	if i < len(parties) {
		c.draft.AuthorizedSigner.Set(domain.Signer{PartyIndex: i, Name: parties[i].Name})
		return nil
	}
	if prev.IsParty() {
		prev = domain.Signer{}
	}
	name, err := c.ask(ctx, Question{Key: "signer.name", Label: "Signer name", Default: prev.Name}, validate.PersonName)
	if err != nil {
		return err
	}
	title, err := c.ask(ctx, Question{Key: "signer.title", Label: "Signer title", Default: prev.Title}, validate.Required("title"))
	if err != nil {
		return err
	}
	c.draft.AuthorizedSigner.Set(domain.Signer{PartyIndex: -1, Name: name, Title: title})
	return nil
}
