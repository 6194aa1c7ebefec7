package model

import (
	"context"

	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

var (
	ErrEngineNotSet      = errors.New("model specification must have an engine")
	ErrUnsupportedEngine = errors.New("engine is not supported by this specification")
	ErrSingleOutcome     = errors.New("model fitting requires exactly one numeric outcome column")
	ErrNoTrainingRows    = errors.New("model fitting requires at least one row")
	ErrNumericPredictors = errors.New("engine requires numeric predictors")
)

// Spec is an untrained, engine-tagged model specification.
type Spec interface {
	Engine() string
	Mode() string
	Fit(ctx context.Context, predictors, outcomes table.Table) (Fit, error)
}

// Fit is a trained model produced by a Spec.
type Fit interface {
	Engine() string
	Predict(predictors table.Table) ([]float64, error)
}

// EncodingAdvertiser is implemented by specifications that can report how
// their engine wants predictors encoded. The second return is false when
// the preference cannot be determined yet, typically because no engine has
// been chosen.
type EncodingAdvertiser interface {
	RequiredEncoding() (encode.Encoding, bool)
}

// singleOutcome pulls the one numeric outcome column a regression engine
// trains against.
func singleOutcome(outcomes table.Table) ([]float64, error) {
	if outcomes.NumCols() != 1 {
		return nil, errors.Wrapf(ErrSingleOutcome, "got %d columns", outcomes.NumCols())
	}

	col, err := outcomes.Column(outcomes.Names()[0])
	if err != nil {
		return nil, err
	}
	if col.Kind != table.Numeric {
		return nil, errors.Wrap(ErrSingleOutcome, col.Name)
	}
	if len(col.Floats) == 0 {
		return nil, ErrNoTrainingRows
	}

	return col.Floats, nil
}
