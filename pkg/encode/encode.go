// Package encode holds the blueprint describing how raw columns become a
// model-ready design matrix, and the indicator expansion shared by the
// formula molder and the recipe dummy step.
package encode

import (
	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/table"
)

var ErrNotFactor = errors.New("indicator expansion requires a factor column")

// Encoding is a model specification's declared encoding preference.
type Encoding struct {
	// Indicators reports whether the engine needs factor predictors
	// expanded into one numeric indicator column per level.
	Indicators bool
}

// Blueprint configures how a preprocessor encodes raw data. A blueprint
// built with New is treated as user-supplied and is never adjusted by
// model encoding preferences; the zero-argument Default is eligible for
// adjustment.
type Blueprint struct {
	Indicators bool

	userSupplied bool
}

// BlueprintOption configures a user-supplied blueprint.
type BlueprintOption func(*Blueprint)

// WithIndicators sets whether factor predictors are expanded into
// indicator columns.
func WithIndicators(indicators bool) BlueprintOption {
	return func(b *Blueprint) {
		b.Indicators = indicators
	}
}

// Default returns the system default blueprint: indicators on, eligible
// for adjustment by a model's encoding preference.
func Default() Blueprint {
	return Blueprint{Indicators: true}
}

// New returns a user-supplied blueprint. It starts from the default and
// applies the given options.
func New(opts ...BlueprintOption) Blueprint {
	b := Default()
	b.userSupplied = true
	for _, opt := range opts {
		opt(&b)
	}

	return b
}

// UserSupplied reports whether the blueprint was explicitly constructed
// by the caller rather than defaulted by the system.
func (b Blueprint) UserSupplied() bool {
	return b.userSupplied
}

// WithPreference returns a copy of the blueprint adjusted to a model's
// encoding preference. User-supplied blueprints are returned unchanged.
func (b Blueprint) WithPreference(enc Encoding) Blueprint {
	if b.userSupplied {
		return b
	}
	b.Indicators = enc.Indicators

	return b
}

// Indicators expands a factor column into one numeric 0/1 column per
// level, named column+level in first-seen level order.
func Indicators(col table.Column) ([]table.Column, error) {
	if col.Kind != table.Factor {
		return nil, errors.Wrap(ErrNotFactor, col.Name)
	}

	levels := col.Levels()
	out := make([]table.Column, 0, len(levels))
	for _, level := range levels {
		values := make([]float64, len(col.Strings))
		for i, v := range col.Strings {
			if v == level {
				values[i] = 1
			}
		}
		out = append(out, table.Num(col.Name+level, values))
	}

	return out, nil
}
