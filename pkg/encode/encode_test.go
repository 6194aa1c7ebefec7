package encode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

func TestDefaultBlueprint(t *testing.T) {
	t.Parallel()

	bp := encode.Default()
	assert.True(t, bp.Indicators)
	assert.False(t, bp.UserSupplied())
}

func TestUserSuppliedBlueprint(t *testing.T) {
	t.Parallel()

	bp := encode.New(encode.WithIndicators(false))
	assert.False(t, bp.Indicators)
	assert.True(t, bp.UserSupplied())
}

func TestWithPreference(t *testing.T) {
	t.Parallel()

	adjusted := encode.Default().WithPreference(encode.Encoding{Indicators: false})
	assert.False(t, adjusted.Indicators)

	// A user-supplied blueprint ignores the preference entirely.
	supplied := encode.New(encode.WithIndicators(true))
	unchanged := supplied.WithPreference(encode.Encoding{Indicators: false})
	assert.Equal(t, supplied, unchanged)
}

func TestIndicators(t *testing.T) {
	t.Parallel()

	col := table.Fct("Species", []string{"setosa", "versicolor", "setosa"})
	expanded, err := encode.Indicators(col)
	require.NoError(t, err)
	require.Len(t, expanded, 2)

	assert.Equal(t, "Speciessetosa", expanded[0].Name)
	assert.Equal(t, []float64{1, 0, 1}, expanded[0].Floats)
	assert.Equal(t, "Speciesversicolor", expanded[1].Name)
	assert.Equal(t, []float64{0, 1, 0}, expanded[1].Floats)
}

func TestIndicatorsRejectsNumeric(t *testing.T) {
	t.Parallel()

	_, err := encode.Indicators(table.Num("a", []float64{1}))
	assert.ErrorIs(t, err, encode.ErrNotFactor)
}
