package workflow

import (
	"github.com/pkg/errors"
)

var (
	ErrRecipeMustBeSet = errors.New("recipe must be set")
	ErrSpecMustBeSet   = errors.New("model specification must be set")

	ErrDuplicatePreprocessor = errors.New("workflow already has a preprocessor of a different kind")
	ErrDuplicateModel        = errors.New("workflow already has a model")

	ErrMissingPreprocessor = errors.New("workflow must have a formula or recipe")
	ErrMissingModel        = errors.New("workflow must have a model")
	ErrMissingData         = errors.New("data must be provided to fit a workflow")
	ErrMissingMold         = errors.New("workflow must run its preprocessor before the model can be fit")
	ErrMissingFit          = errors.New("workflow does not have a model fit")

	ErrNotFormulaPreprocessor = errors.New("workflow preprocessor must be a formula")
	ErrNotRecipePreprocessor  = errors.New("workflow preprocessor must be a recipe")
)
