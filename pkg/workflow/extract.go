package workflow

import (
	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/formula"
	"github.com/IanniMuliterno/workflows/pkg/model"
	"github.com/IanniMuliterno/workflows/pkg/recipe"
)

// Preprocessor returns the attached preprocessor action.
func (w Workflow) Preprocessor() (Preprocessor, error) {
	if w.pre == nil {
		return Preprocessor{}, ErrMissingPreprocessor
	}

	return *w.pre, nil
}

// Formula returns the attached formula.
func (w Workflow) Formula() (formula.Formula, error) {
	switch {
	case w.pre == nil:
		return formula.Formula{}, ErrMissingPreprocessor
	case w.pre.Kind != FormulaKind:
		return formula.Formula{}, errors.Wrapf(ErrNotFormulaPreprocessor, "got a %s", w.pre.Kind)
	}

	return w.pre.Formula, nil
}

// Recipe returns the attached, untrained recipe.
func (w Workflow) Recipe() (*recipe.Recipe, error) {
	switch {
	case w.pre == nil:
		return nil, ErrMissingPreprocessor
	case w.pre.Kind != RecipeKind:
		return nil, errors.Wrapf(ErrNotRecipePreprocessor, "got a %s", w.pre.Kind)
	}

	return w.pre.Recipe, nil
}

// Spec returns the attached, untrained model specification.
func (w Workflow) Spec() (model.Spec, error) {
	if w.mod == nil {
		return nil, ErrMissingModel
	}

	return w.mod.spec, nil
}

// ModelRole returns the role name assigned to the model action.
func (w Workflow) ModelRole() (string, error) {
	if w.mod == nil {
		return "", ErrMissingModel
	}

	return w.mod.role, nil
}

// Mold returns the preprocessing artifact.
func (w Workflow) Mold() (Mold, error) {
	if w.mold == nil {
		return Mold{}, ErrMissingMold
	}

	return *w.mold, nil
}

// ModelFit returns the trained model.
func (w Workflow) ModelFit() (model.Fit, error) {
	if w.fit == nil {
		return nil, ErrMissingFit
	}

	return w.fit, nil
}

// PreppedRecipe returns the trained recipe from the preprocessing
// artifact. It requires a recipe-kind preprocessor: asking a formula
// workflow for a prepped recipe is a distinct failure from having no
// preprocessor at all.
func (w Workflow) PreppedRecipe() (*recipe.Recipe, error) {
	switch {
	case w.pre == nil:
		return nil, ErrMissingPreprocessor
	case w.pre.Kind != RecipeKind:
		return nil, errors.Wrapf(ErrNotRecipePreprocessor, "got a %s", w.pre.Kind)
	case w.mold == nil:
		return nil, ErrMissingMold
	}

	return w.mold.PreppedRecipe, nil
}
