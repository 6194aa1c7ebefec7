package model

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

var ErrSingularDesign = errors.New("design matrix is singular")

const engineLM = "lm"

// LinearRegression is an ordinary-least-squares regression specification.
// It needs fully numeric predictors, so it advertises indicator encoding.
type LinearRegression struct {
	engine string
}

// NewLinearRegression returns a linear regression specification with no
// engine chosen yet.
func NewLinearRegression() LinearRegression {
	return LinearRegression{}
}

// SetEngine returns a copy of the specification tagged with the engine.
func (m LinearRegression) SetEngine(engine string) LinearRegression {
	m.engine = engine

	return m
}

func (m LinearRegression) Engine() string { return m.engine }
func (m LinearRegression) Mode() string   { return "regression" }

// RequiredEncoding reports that the engine needs indicator columns. The
// preference is unavailable until an engine is chosen.
func (m LinearRegression) RequiredEncoding() (encode.Encoding, bool) {
	if m.engine == "" {
		return encode.Encoding{}, false
	}

	return encode.Encoding{Indicators: true}, true
}

// Fit estimates intercept and coefficients by least squares.
func (m LinearRegression) Fit(_ context.Context, predictors, outcomes table.Table) (Fit, error) {
	if m.engine == "" {
		return nil, ErrEngineNotSet
	}
	if m.engine != engineLM {
		return nil, errors.Wrap(ErrUnsupportedEngine, m.engine)
	}

	y, err := singleOutcome(outcomes)
	if err != nil {
		return nil, err
	}

	names := predictors.Names()
	rows := predictors.NumRows()
	if rows == 0 {
		return nil, ErrNoTrainingRows
	}
	if rows != len(y) {
		return nil, errors.Wrapf(table.ErrColumnLengthMismatch, "%d predictor rows vs %d outcomes", rows, len(y))
	}

	// Design matrix with a leading intercept column.
	design := make([][]float64, rows)
	for i := range design {
		design[i] = make([]float64, len(names)+1)
		design[i][0] = 1
	}
	for j, name := range names {
		col, colErr := predictors.Column(name)
		if colErr != nil {
			return nil, colErr
		}
		if col.Kind != table.Numeric {
			return nil, errors.Wrap(ErrNumericPredictors, name)
		}
		for i, v := range col.Floats {
			design[i][j+1] = v
		}
	}

	beta, err := solveLeastSquares(design, y)
	if err != nil {
		return nil, err
	}

	coefficients := make(map[string]float64, len(names))
	for j, name := range names {
		coefficients[name] = beta[j+1]
	}

	return &LinearFit{
		engine:       m.engine,
		names:        names,
		intercept:    beta[0],
		coefficients: coefficients,
	}, nil
}

// solveLeastSquares solves the normal equations XᵀXβ = Xᵀy with
// partial-pivot Gaussian elimination.
func solveLeastSquares(design [][]float64, y []float64) ([]float64, error) {
	p := len(design[0])

	xtx := make([][]float64, p)
	xty := make([]float64, p)
	for i := range xtx {
		xtx[i] = make([]float64, p)
	}
	for r, row := range design {
		for i := 0; i < p; i++ {
			xty[i] += row[i] * y[r]
			for j := i; j < p; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 1; i < p; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(xtx[r][col]) > math.Abs(xtx[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(xtx[pivot][col]) < 1e-12 {
			return nil, ErrSingularDesign
		}
		xtx[col], xtx[pivot] = xtx[pivot], xtx[col]
		xty[col], xty[pivot] = xty[pivot], xty[col]

		for r := col + 1; r < p; r++ {
			factor := xtx[r][col] / xtx[col][col]
			for c := col; c < p; c++ {
				xtx[r][c] -= factor * xtx[col][c]
			}
			xty[r] -= factor * xty[col]
		}
	}

	beta := make([]float64, p)
	for i := p - 1; i >= 0; i-- {
		sum := xty[i]
		for j := i + 1; j < p; j++ {
			sum -= xtx[i][j] * beta[j]
		}
		beta[i] = sum / xtx[i][i]
	}

	return beta, nil
}

// LinearFit is a trained linear regression.
type LinearFit struct {
	engine       string
	names        []string
	intercept    float64
	coefficients map[string]float64
}

func (f *LinearFit) Engine() string { return f.engine }

// Intercept returns the fitted intercept.
func (f *LinearFit) Intercept() float64 { return f.intercept }

// Coefficients returns the fitted coefficient per predictor column.
func (f *LinearFit) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(f.coefficients))
	for k, v := range f.coefficients {
		out[k] = v
	}

	return out
}

// Predict returns fitted values for new predictors.
func (f *LinearFit) Predict(predictors table.Table) ([]float64, error) {
	out := make([]float64, predictors.NumRows())
	for i := range out {
		out[i] = f.intercept
	}
	for _, name := range f.names {
		col, err := predictors.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != table.Numeric {
			return nil, errors.Wrap(ErrNumericPredictors, name)
		}
		for i, v := range col.Floats {
			out[i] += f.coefficients[name] * v
		}
	}

	return out, nil
}
