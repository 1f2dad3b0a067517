package fallback

import "regexp"

// lineMatch is the structured result of one matcher: raw captured fields,
// before any normalization.
type lineMatch struct {
	Date        string
	Description string
	Amount      string
	TypeHint    string
}

// matcher is one pure pattern in the cascade. Matchers are tried in priority
// order and the first match wins for a line.
type matcher struct {
	name    string
	re      *regexp.Regexp
	hasType bool
}

const dateAlt = `\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2}|\d{2}-\d{2}-\d{4}`

var matchers = []matcher{
	{
		// Pseudo-CSV produced by the tabular extractors: field,field,numeric,optional-trailing.
		name:    "pseudo-csv",
		re:      regexp.MustCompile(`^([^,]+),([^,]+),([-+]?\d*\.?\d+),?(.*)$`),
		hasType: true,
	},
	{
		// Leading date, description, $-optional amount, comma/tab separated.
		name: "date-csv",
		re:   regexp.MustCompile(`^(` + dateAlt + `),?\s*([^,\t]+),?\s*([-+]?\$?\d+\.?\d*)`),
	},
	{
		// Date, free-text description, trailing amount, whitespace separated.
		name: "date-space",
		re:   regexp.MustCompile(`^(` + dateAlt + `)\s+(.+?)\s+([-+]?\$?\d+\.?\d*)$`),
	},
	{
		// Same shape anchored to end-of-line, date not required at line start.
		name: "date-trailing",
		re:   regexp.MustCompile(`(` + dateAlt + `)\s+(.+?)\s+([-+]?\$?\d+\.?\d*)\s*$`),
	},
}

// matchLine runs the cascade over one trimmed line.
func matchLine(line string) (lineMatch, bool) {
	for _, m := range matchers {
		groups := m.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		lm := lineMatch{
			Date:        groups[1],
			Description: groups[2],
			Amount:      groups[3],
		}
		if m.hasType {
			lm.TypeHint = groups[4]
		}
		return lm, true
	}
	return lineMatch{}, false
}
