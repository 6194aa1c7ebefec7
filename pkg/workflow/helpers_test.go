package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IanniMuliterno/workflows/pkg/formula"
	"github.com/IanniMuliterno/workflows/pkg/model"
	"github.com/IanniMuliterno/workflows/pkg/recipe"
	"github.com/IanniMuliterno/workflows/pkg/table"
	"github.com/IanniMuliterno/workflows/pkg/workflow"
)

// mtcarsLike has mpg as an exact linear function of cyl (mpg = 40 - 3*cyl)
// so least-squares coefficients are known in closed form.
func mtcarsLike(t *testing.T) table.Table {
	t.Helper()

	data, err := table.New(
		table.Num("mpg", []float64{28, 22, 16, 28, 22, 16}),
		table.Num("cyl", []float64{4, 6, 8, 4, 6, 8}),
		table.Num("disp", []float64{108, 160, 360, 147, 225, 318}),
	)
	require.NoError(t, err)

	return data
}

// irisLike carries a three-level factor column alongside numerics.
func irisLike(t *testing.T) table.Table {
	t.Helper()

	data, err := table.New(
		table.Num("Sepal.Length", []float64{5.1, 4.9, 6.4, 6.9, 6.3, 5.8}),
		table.Num("Sepal.Width", []float64{3.5, 3.0, 3.2, 3.1, 3.3, 2.7}),
		table.Fct("Species", []string{"setosa", "setosa", "versicolor", "versicolor", "virginica", "virginica"}),
	)
	require.NoError(t, err)

	return data
}

func mustFormula(t *testing.T, raw string) formula.Formula {
	t.Helper()

	f, err := formula.Parse(raw)
	require.NoError(t, err)

	return f
}

func formulaWorkflow(t *testing.T, raw string, opts ...workflow.PreprocessorOption) workflow.Workflow {
	t.Helper()

	wf, err := workflow.New().AddFormula(mustFormula(t, raw), opts...)
	require.NoError(t, err)

	return wf
}

func recipeWorkflow(t *testing.T, r *recipe.Recipe) workflow.Workflow {
	t.Helper()

	wf, err := workflow.New().AddRecipe(r)
	require.NoError(t, err)

	return wf
}

func withModel(t *testing.T, wf workflow.Workflow, spec model.Spec) workflow.Workflow {
	t.Helper()

	out, err := wf.AddModel(spec)
	require.NoError(t, err)

	return out
}
