package workflow

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/model"
	"github.com/IanniMuliterno/workflows/pkg/recipe"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

// Mold is the artifact of a successful preprocessing phase: the encoded
// predictor and outcome tables, the blueprint actually used, and - when
// the preprocessor was a recipe - the trained recipe.
type Mold struct {
	Predictors table.Table
	Outcomes   table.Table
	Blueprint  encode.Blueprint

	// PreppedRecipe is nil for formula preprocessors.
	PreppedRecipe *recipe.Recipe
}

// resolveBlueprint reconciles the preprocessor's blueprint with the model
// action's encoding preference. Only a defaulted blueprint on a formula
// preprocessor is eligible: recipes define their own encoding and a
// user-supplied blueprint is contractually untouched. A model that cannot
// report a preference leaves the default as-is.
func (w Workflow) resolveBlueprint() encode.Blueprint {
	bp := w.pre.Blueprint
	if w.pre.Kind != FormulaKind || bp.UserSupplied() || w.mod == nil {
		return bp
	}

	adv, ok := w.mod.spec.(model.EncodingAdvertiser)
	if !ok {
		return bp
	}
	enc, ok := adv.RequiredEncoding()
	if !ok {
		return bp
	}

	return bp.WithPreference(enc)
}

// FitPreprocessor runs the preprocessing phase against the data and
// returns a new workflow carrying the mold. The model fit, if any, is
// left untouched.
func (w Workflow) FitPreprocessor(ctx context.Context, data table.Table) (Workflow, error) {
	if w.pre == nil {
		return Workflow{}, ErrMissingPreprocessor
	}
	if data.IsEmpty() {
		return Workflow{}, ErrMissingData
	}

	bp := w.resolveBlueprint()

	switch w.pre.Kind {
	case FormulaKind:
		predictors, outcomes, err := w.pre.Formula.Mold(data, bp)
		if err != nil {
			return Workflow{}, errors.Wrap(err, "unable to mold formula")
		}
		w.mold = &Mold{Predictors: predictors, Outcomes: outcomes, Blueprint: bp}
	case RecipeKind:
		mold, err := moldRecipe(w.pre.Recipe, data, bp)
		if err != nil {
			return Workflow{}, err
		}
		w.mold = mold
	default:
		return Workflow{}, errors.Errorf("unhandled preprocessor kind %s", w.pre.Kind)
	}

	return w, nil
}

func moldRecipe(r *recipe.Recipe, data table.Table, bp encode.Blueprint) (*Mold, error) {
	prepped, err := r.Prep(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to prep recipe")
	}

	baked, err := prepped.Bake(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to bake recipe")
	}

	outcomeNames := prepped.Formula().Outcomes()
	outcomes, err := baked.Select(outcomeNames...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to select recipe outcomes")
	}
	predictors := baked.Drop(outcomeNames...)

	return &Mold{Predictors: predictors, Outcomes: outcomes, Blueprint: bp, PreppedRecipe: prepped}, nil
}

// FitModel runs the model-fitting phase against the mold and returns a
// new workflow carrying the trained model.
func (w Workflow) FitModel(ctx context.Context) (Workflow, error) {
	if w.mod == nil {
		return Workflow{}, ErrMissingModel
	}
	if w.mold == nil {
		return Workflow{}, ErrMissingMold
	}

	fit, err := w.mod.spec.Fit(ctx, w.mold.Predictors, w.mold.Outcomes)
	if err != nil {
		return Workflow{}, errors.Wrap(err, "unable to fit model")
	}
	w.fit = fit

	return w, nil
}

// Fit runs both phases in order, failing fast on the first phase's error.
func (w Workflow) Fit(ctx context.Context, data table.Table) (Workflow, error) {
	pre, err := w.FitPreprocessor(ctx, data)
	if err != nil {
		return Workflow{}, err
	}

	return pre.FitModel(ctx)
}

// FitAll fits independent workflows concurrently against the same data.
// Workflows share no state, so the only coordination is the errgroup: the
// first failure cancels the remaining fits and is returned. Results keep
// the input order.
func FitAll(ctx context.Context, workflows []Workflow, data table.Table) ([]Workflow, error) {
	fitted := make([]Workflow, len(workflows))

	errGrp, dCtx := errgroup.WithContext(ctx)
	for i := range workflows {
		idx := i
		errGrp.Go(func() error {
			out, err := workflows[idx].Fit(dCtx, data)
			if err != nil {
				return errors.Wrapf(err, "workflow %d", idx)
			}
			fitted[idx] = out

			return nil
		})
	}

	if err := errGrp.Wait(); err != nil {
		return nil, err
	}

	return fitted, nil
}
