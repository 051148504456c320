package searchterm

import "errors"

// Term is a fully parsed search term.
type Term struct {
	Raw       string    `json:"raw"`
	Prefix    string    `json:"prefix"`
	Operator  Operator  `json:"operator"`
	Literal   string    `json:"literal"`
	Precision Precision `json:"precision"`
	Range     Range     `json:"range"`
}

// Parse parses a raw term such as "ge2023" or "eb2024-05-14T18:25:43.1234".
//
// The prefix is checked before the literal, so a term with both a bad prefix
// and a bad date reports ErrCodeInvalidPrefix. Date errors carry the full raw
// term rather than just the literal.
func Parse(raw string) (Term, error) {
	op, literal, err := ParsePrefix(raw)
	if err != nil {
		return Term{}, err
	}

	precision, rng, err := ParseDate(literal)
	if err != nil {
		var detail string
		var te *TermError
		if errors.As(err, &te) {
			detail = te.Detail
		}
		return Term{}, invalidDateError(raw, detail)
	}

	return Term{
		Raw:       raw,
		Prefix:    raw[:PrefixLength],
		Operator:  op,
		Literal:   literal,
		Precision: precision,
		Range:     rng,
	}, nil
}
