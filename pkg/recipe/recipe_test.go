package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IanniMuliterno/workflows/pkg/formula"
	"github.com/IanniMuliterno/workflows/pkg/recipe"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

func trainingData(t *testing.T) table.Table {
	t.Helper()

	data, err := table.New(
		table.Num("mpg", []float64{28, 22, 16, 28, 22, 16}),
		table.Num("cyl", []float64{4, 6, 8, 4, 6, 8}),
		table.Fct("gear", []string{"three", "four", "three", "four", "three", "four"}),
	)
	require.NoError(t, err)

	return data
}

func TestPrepAndBakeCenterScale(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ cyl"), recipe.StepCenter("cyl"), recipe.StepScale("cyl"))
	assert.False(t, r.Prepped())

	prepped, err := r.Prep(trainingData(t))
	require.NoError(t, err)
	assert.True(t, prepped.Prepped())
	// The original recipe is untouched.
	assert.False(t, r.Prepped())

	baked, err := prepped.Bake(trainingData(t))
	require.NoError(t, err)

	col, err := baked.Column("cyl")
	require.NoError(t, err)

	var sum float64
	for _, v := range col.Floats {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestPrepTrainsStepsSequentially(t *testing.T) {
	t.Parallel()

	// Scale after center must see centered values: the learned standard
	// deviation is that of the centered column, so baking yields unit
	// variance.
	r := recipe.New(mustParse(t, "mpg ~ cyl"), recipe.StepCenter("cyl"), recipe.StepScale("cyl"))
	prepped, err := r.Prep(trainingData(t))
	require.NoError(t, err)

	baked, err := prepped.Bake(trainingData(t))
	require.NoError(t, err)

	col, err := baked.Column("cyl")
	require.NoError(t, err)

	var ss float64
	for _, v := range col.Floats {
		ss += v * v
	}
	assert.InDelta(t, 1, ss/float64(len(col.Floats)-1), 1e-9)
}

func TestStepDummy(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ ."), recipe.StepDummy("gear"))
	prepped, err := r.Prep(trainingData(t))
	require.NoError(t, err)

	baked, err := prepped.Bake(trainingData(t))
	require.NoError(t, err)

	assert.False(t, baked.Has("gear"))
	assert.True(t, baked.Has("gearthree"))
	assert.True(t, baked.Has("gearfour"))

	origins, err := prepped.Origins("gearthree")
	require.NoError(t, err)
	assert.Equal(t, []string{"gear"}, origins)
}

func TestStepDummyUnseenLevel(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ ."), recipe.StepDummy("gear"))
	prepped, err := r.Prep(trainingData(t))
	require.NoError(t, err)

	fresh, err := table.New(
		table.Num("mpg", []float64{20}),
		table.Num("cyl", []float64{6}),
		table.Fct("gear", []string{"five"}),
	)
	require.NoError(t, err)

	baked, err := prepped.Bake(fresh)
	require.NoError(t, err)

	// Unseen levels do not mint new columns; the trained levels are all
	// zero for that row.
	assert.False(t, baked.Has("gearfive"))
	col, err := baked.Column("gearthree")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, col.Floats)
}

func TestPrepMissingStepInput(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ cyl"), recipe.StepCenter("weight"))
	_, err := r.Prep(trainingData(t))
	assert.ErrorIs(t, err, recipe.ErrMissingStepInput)
}

func TestPrepStepOrderMatters(t *testing.T) {
	t.Parallel()

	// Centering an indicator column before the dummy step creates it
	// must fail: the column does not exist at that position.
	r := recipe.New(mustParse(t, "mpg ~ ."),
		recipe.StepCenter("gearthree"),
		recipe.StepDummy("gear"),
	)
	_, err := r.Prep(trainingData(t))
	assert.ErrorIs(t, err, recipe.ErrMissingStepInput)
}

func TestPrepTwiceFails(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ cyl"))
	prepped, err := r.Prep(trainingData(t))
	require.NoError(t, err)

	_, err = prepped.Prep(trainingData(t))
	assert.ErrorIs(t, err, recipe.ErrAlreadyPrepped)
}

func TestBakeRequiresPrep(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ cyl"))
	_, err := r.Bake(trainingData(t))
	assert.ErrorIs(t, err, recipe.ErrNotPrepped)
}

func TestScaleConstantColumn(t *testing.T) {
	t.Parallel()

	data, err := table.New(
		table.Num("mpg", []float64{1, 2, 3}),
		table.Num("cyl", []float64{4, 4, 4}),
	)
	require.NoError(t, err)

	r := recipe.New(mustParse(t, "mpg ~ cyl"), recipe.StepScale("cyl"))
	_, err = r.Prep(data)
	assert.ErrorIs(t, err, recipe.ErrConstantColumn)
}

func TestCenterRejectsFactor(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ ."), recipe.StepCenter("gear"))
	_, err := r.Prep(trainingData(t))
	assert.ErrorIs(t, err, recipe.ErrStepNeedsNumeric)
}

func TestOriginsUnknownColumn(t *testing.T) {
	t.Parallel()

	r := recipe.New(mustParse(t, "mpg ~ cyl"))
	prepped, err := r.Prep(trainingData(t))
	require.NoError(t, err)

	_, err = prepped.Origins("cyl")
	assert.ErrorIs(t, err, recipe.ErrUnknownDerivation)
}

func TestWithStepDoesNotMutate(t *testing.T) {
	t.Parallel()

	base := recipe.New(mustParse(t, "mpg ~ cyl"))
	extended := base.WithStep(recipe.StepCenter("cyl"))

	assert.Len(t, base.Steps(), 0)
	assert.Len(t, extended.Steps(), 1)
}

func mustParse(t *testing.T, raw string) formula.Formula {
	t.Helper()

	f, err := formula.Parse(raw)
	require.NoError(t, err)

	return f
}
