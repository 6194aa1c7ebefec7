// Package formula implements the formula preprocessor: a symbolic
// description of outcomes and predictor terms ("mpg ~ cyl + disp",
// "Sepal.Length ~ .") molded into encoded predictor and outcome tables
// under a blueprint.
package formula

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

var (
	ErrMalformed     = errors.New("formula must have the form outcome ~ terms")
	ErrEmptyOutcome  = errors.New("formula must name at least one outcome")
	ErrEmptyTerms    = errors.New("formula must name at least one predictor term")
	ErrDotOutcome    = errors.New("formula outcome cannot be .")
	ErrUnknownColumn = errors.New("formula names a column not present in the data")
)

// Formula is a parsed model formula. The zero value is not usable;
// build one with Parse.
type Formula struct {
	outcomes []string
	terms    []string
	dot      bool
	raw      string
}

// Parse parses a formula of the form "outcome ~ term + term" where the
// right-hand side may be "." to mean every column not named on the left.
func Parse(raw string) (Formula, error) {
	parts := strings.Split(raw, "~")
	if len(parts) != 2 {
		return Formula{}, errors.Wrap(ErrMalformed, raw)
	}

	outcomes := splitTerms(parts[0])
	if len(outcomes) == 0 {
		return Formula{}, errors.Wrap(ErrEmptyOutcome, raw)
	}
	for _, o := range outcomes {
		if o == "." {
			return Formula{}, errors.Wrap(ErrDotOutcome, raw)
		}
	}

	terms := splitTerms(parts[1])
	if len(terms) == 0 {
		return Formula{}, errors.Wrap(ErrEmptyTerms, raw)
	}

	f := Formula{outcomes: outcomes, raw: strings.TrimSpace(raw)}
	if len(terms) == 1 && terms[0] == "." {
		f.dot = true

		return f, nil
	}
	for _, term := range terms {
		if term == "." {
			return Formula{}, errors.Wrap(ErrMalformed, "the . term cannot be combined with named terms")
		}
	}
	f.terms = terms

	return f, nil
}

func splitTerms(side string) []string {
	fields := strings.Split(side, "+")
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		terms = append(terms, field)
	}

	return terms
}

// String returns the formula as originally written.
func (f Formula) String() string {
	return f.raw
}

// Outcomes returns the outcome column names.
func (f Formula) Outcomes() []string {
	return append([]string(nil), f.outcomes...)
}

// Terms resolves the predictor term names against a dataset, expanding
// the . shorthand to every column not used as an outcome.
func (f Formula) Terms(data table.Table) ([]string, error) {
	if !f.dot {
		for _, term := range f.terms {
			if !data.Has(term) {
				return nil, errors.Wrap(ErrUnknownColumn, term)
			}
		}

		return append([]string(nil), f.terms...), nil
	}

	isOutcome := make(map[string]struct{}, len(f.outcomes))
	for _, o := range f.outcomes {
		isOutcome[o] = struct{}{}
	}

	terms := make([]string, 0, data.NumCols())
	for _, name := range data.Names() {
		if _, ok := isOutcome[name]; ok {
			continue
		}
		terms = append(terms, name)
	}
	if len(terms) == 0 {
		return nil, errors.Wrap(ErrEmptyTerms, f.raw)
	}

	return terms, nil
}

// Mold encodes a dataset under the blueprint: outcomes are pulled from
// the left-hand side unchanged, predictors from the resolved terms with
// factor columns expanded to indicators when the blueprint asks for them.
func (f Formula) Mold(data table.Table, bp encode.Blueprint) (predictors, outcomes table.Table, err error) {
	for _, o := range f.outcomes {
		if !data.Has(o) {
			return table.Table{}, table.Table{}, errors.Wrap(ErrUnknownColumn, o)
		}
	}
	outcomes, err = data.Select(f.outcomes...)
	if err != nil {
		return table.Table{}, table.Table{}, errors.Wrap(err, "unable to select outcomes")
	}

	terms, err := f.Terms(data)
	if err != nil {
		return table.Table{}, table.Table{}, err
	}

	cols := make([]table.Column, 0, len(terms))
	for _, term := range terms {
		col, colErr := data.Column(term)
		if colErr != nil {
			return table.Table{}, table.Table{}, errors.Wrap(colErr, "unable to select predictor")
		}

		if col.Kind == table.Factor && bp.Indicators {
			expanded, expErr := encode.Indicators(col)
			if expErr != nil {
				return table.Table{}, table.Table{}, errors.Wrapf(expErr, "unable to expand %s", term)
			}
			cols = append(cols, expanded...)

			continue
		}
		cols = append(cols, col)
	}

	predictors, err = table.New(cols...)
	if err != nil {
		return table.Table{}, table.Table{}, errors.Wrap(err, "unable to assemble predictors")
	}

	return predictors, outcomes, nil
}
