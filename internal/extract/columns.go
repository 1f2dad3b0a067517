package extract

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Role is the semantic meaning of a tabular column, inferred from its header.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleAmount      Role = "amount"
	RoleType        Role = "type"
	RoleDebit       Role = "debit"
	RoleCredit      Role = "credit"
)

// InferenceConfig carries the ordered header patterns tried per role. A header
// matches a role when it contains any pattern, case-insensitively; earlier
// patterns win.
type InferenceConfig struct {
	RolePatterns map[Role][]string
}

func DefaultInferenceConfig() InferenceConfig {
	return InferenceConfig{
		RolePatterns: map[Role][]string{
			RoleDate:        {"date"},
			RoleDescription: {"desc", "memo"},
			RoleAmount:      {"amount", "debit", "credit"},
			RoleType:        {"type"},
			RoleDebit:       {"debit"},
			RoleCredit:      {"credit"},
		},
	}
}

// Mapping holds the resolved column index per role; -1 means absent.
type Mapping struct {
	Date        int
	Description int
	Amount      int
	Type        int
	Debit       int
	Credit      int
}

// InferColumns maps header names to semantic roles. Date, description and
// amount fall back positionally to columns 1/2/3 when no header matches;
// type, debit and credit stay absent.
func InferColumns(headers []string, cfg InferenceConfig) Mapping {
	if cfg.RolePatterns == nil {
		cfg = DefaultInferenceConfig()
	}
	find := func(role Role) int {
		for _, pat := range cfg.RolePatterns[role] {
			for i, h := range headers {
				if strings.Contains(strings.ToLower(h), pat) {
					return i
				}
			}
		}
		return -1
	}

	m := Mapping{
		Date:        find(RoleDate),
		Description: find(RoleDescription),
		Amount:      find(RoleAmount),
		Type:        find(RoleType),
		Debit:       find(RoleDebit),
		Credit:      find(RoleCredit),
	}
	if m.Date < 0 && len(headers) > 0 {
		m.Date = 0
	}
	if m.Description < 0 && len(headers) > 1 {
		m.Description = 1
	}
	if m.Amount < 0 && len(headers) > 2 {
		m.Amount = 2
	}
	return m
}

// ResolveRow maps one data row through the column mapping and renders it as a
// canonical `date,description,amount,type` pseudo-CSV line. Rows missing a
// date, description or numeric amount are dropped (ok=false), not fatal.
func (m Mapping) ResolveRow(row []string) (string, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date := cell(m.Date)
	description := cell(m.Description)
	typeHint := cell(m.Type)

	var amount decimal.Decimal
	if m.Debit >= 0 && m.Credit >= 0 {
		// Separate debit/credit columns take precedence over a generic amount.
		debit, _ := parseAmountCell(cell(m.Debit))
		credit, _ := parseAmountCell(cell(m.Credit))
		if debit.IsPositive() {
			amount = debit.Neg()
			if typeHint == "" {
				typeHint = "Debit"
			}
		} else if credit.IsPositive() {
			amount = credit
			if typeHint == "" {
				typeHint = "Credit"
			}
		}
	} else if m.Amount >= 0 {
		parsed, ok := parseAmountCell(cell(m.Amount))
		if !ok {
			return "", false
		}
		amount = parsed

		// A recognizable type keyword corrects the sign of an ambiguous amount.
		hint := strings.ToLower(typeHint)
		switch {
		case amount.IsPositive() && containsAny(hint, "debit", "expense", "withdrawal"):
			amount = amount.Neg()
		case amount.IsNegative() && containsAny(hint, "credit", "income", "deposit"):
			amount = amount.Abs()
		}
	} else {
		return "", false
	}

	if date == "" || description == "" {
		return "", false
	}
	return fmt.Sprintf("%s,%s,%s,%s", date, description, amount.String(), typeHint), true
}

func parseAmountCell(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
