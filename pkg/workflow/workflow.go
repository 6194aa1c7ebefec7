package workflow

import (
	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/formula"
	"github.com/IanniMuliterno/workflows/pkg/model"
	"github.com/IanniMuliterno/workflows/pkg/recipe"
)

// PreprocessorKind tags the preprocessor variant attached to a workflow.
type PreprocessorKind uint8

const (
	FormulaKind PreprocessorKind = iota + 1
	RecipeKind
)

func (k PreprocessorKind) String() string {
	switch k {
	case FormulaKind:
		return "formula"
	case RecipeKind:
		return "recipe"
	}

	return "unknown"
}

// Preprocessor is the tagged preprocessing action of a workflow: exactly
// one of Formula or Recipe is meaningful, selected by Kind, together with
// the blueprint that will encode the data.
type Preprocessor struct {
	Kind      PreprocessorKind
	Formula   formula.Formula
	Recipe    *recipe.Recipe
	Blueprint encode.Blueprint
}

// DefaultModelRole is the role assigned to a model action when the caller
// does not choose one.
const DefaultModelRole = "model"

type modelAction struct {
	spec model.Spec
	role string
}

// Workflow binds a preprocessing action to a model action and carries the
// artifacts produced by fitting them. It is a value: every mutator and
// fit phase returns a new Workflow, so a template workflow is never
// aliased by its fitted descendants.
type Workflow struct {
	pre  *Preprocessor
	mod  *modelAction
	mold *Mold
	fit  model.Fit
}

// New returns an empty workflow.
func New() Workflow {
	return Workflow{}
}

// PreprocessorOption configures the preprocessor action being added.
type PreprocessorOption func(*Preprocessor)

// WithBlueprint attaches a user-supplied blueprint. User-supplied
// blueprints are never adjusted by model encoding preferences.
func WithBlueprint(bp encode.Blueprint) PreprocessorOption {
	return func(p *Preprocessor) {
		p.Blueprint = bp
	}
}

// ModelOption configures the model action being added.
type ModelOption func(*modelAction)

// WithModelRole assigns a role name to the model action.
func WithModelRole(role string) ModelOption {
	return func(m *modelAction) {
		m.role = role
	}
}

// HasFormula reports whether the workflow's preprocessor is a formula.
func (w Workflow) HasFormula() bool {
	return w.pre != nil && w.pre.Kind == FormulaKind
}

// HasRecipe reports whether the workflow's preprocessor is a recipe.
func (w Workflow) HasRecipe() bool {
	return w.pre != nil && w.pre.Kind == RecipeKind
}

// HasPreprocessor reports whether any preprocessor action is set.
func (w Workflow) HasPreprocessor() bool {
	return w.pre != nil
}

// HasModel reports whether a model action is set.
func (w Workflow) HasModel() bool {
	return w.mod != nil
}

// HasMold reports whether the preprocessing phase has produced its
// artifact.
func (w Workflow) HasMold() bool {
	return w.mold != nil
}

// HasFit reports whether the model-fitting phase has produced a trained
// model.
func (w Workflow) HasFit() bool {
	return w.fit != nil
}

// AddFormula attaches a formula preprocessor. Re-adding a formula
// overwrites the previous one and clears the mold and model fit; if a
// recipe is already attached the call fails, and UpdateFormula is the
// explicit overwrite.
func (w Workflow) AddFormula(f formula.Formula, opts ...PreprocessorOption) (Workflow, error) {
	if w.pre != nil && w.pre.Kind != FormulaKind {
		return Workflow{}, errors.Wrap(ErrDuplicatePreprocessor, "a recipe is attached; use UpdateFormula to replace it")
	}

	return w.withPreprocessor(Preprocessor{Kind: FormulaKind, Formula: f}, opts), nil
}

// UpdateFormula replaces whatever preprocessor is attached with a formula
// and clears the mold and model fit.
func (w Workflow) UpdateFormula(f formula.Formula, opts ...PreprocessorOption) Workflow {
	return w.withPreprocessor(Preprocessor{Kind: FormulaKind, Formula: f}, opts)
}

// AddRecipe attaches a recipe preprocessor. Re-adding a recipe overwrites
// the previous one and clears the mold and model fit; if a formula is
// already attached the call fails, and UpdateRecipe is the explicit
// overwrite.
func (w Workflow) AddRecipe(r *recipe.Recipe, opts ...PreprocessorOption) (Workflow, error) {
	if r == nil {
		return Workflow{}, ErrRecipeMustBeSet
	}
	if w.pre != nil && w.pre.Kind != RecipeKind {
		return Workflow{}, errors.Wrap(ErrDuplicatePreprocessor, "a formula is attached; use UpdateRecipe to replace it")
	}

	return w.withPreprocessor(Preprocessor{Kind: RecipeKind, Recipe: r}, opts), nil
}

// UpdateRecipe replaces whatever preprocessor is attached with a recipe
// and clears the mold and model fit.
func (w Workflow) UpdateRecipe(r *recipe.Recipe, opts ...PreprocessorOption) (Workflow, error) {
	if r == nil {
		return Workflow{}, ErrRecipeMustBeSet
	}

	return w.withPreprocessor(Preprocessor{Kind: RecipeKind, Recipe: r}, opts), nil
}

func (w Workflow) withPreprocessor(pre Preprocessor, opts []PreprocessorOption) Workflow {
	pre.Blueprint = encode.Default()
	for _, opt := range opts {
		opt(&pre)
	}

	w.pre = &pre
	w.mold = nil
	w.fit = nil

	return w
}

// RemovePreprocessor clears the preprocessor action along with the mold
// and model fit derived from it.
func (w Workflow) RemovePreprocessor() Workflow {
	w.pre = nil
	w.mold = nil
	w.fit = nil

	return w
}

// AddModel attaches a model specification. Fails when a model action is
// already present; UpdateModel is the explicit overwrite.
func (w Workflow) AddModel(spec model.Spec, opts ...ModelOption) (Workflow, error) {
	if spec == nil {
		return Workflow{}, ErrSpecMustBeSet
	}
	if w.mod != nil {
		return Workflow{}, errors.Wrap(ErrDuplicateModel, "use UpdateModel to replace it")
	}

	return w.withModel(spec, opts), nil
}

// UpdateModel replaces the model action and clears the model fit. The
// mold belongs to the preprocessing phase and survives.
func (w Workflow) UpdateModel(spec model.Spec, opts ...ModelOption) (Workflow, error) {
	if spec == nil {
		return Workflow{}, ErrSpecMustBeSet
	}

	return w.withModel(spec, opts), nil
}

func (w Workflow) withModel(spec model.Spec, opts []ModelOption) Workflow {
	mod := modelAction{spec: spec, role: DefaultModelRole}
	for _, opt := range opts {
		opt(&mod)
	}

	w.mod = &mod
	w.fit = nil

	return w
}

// RemoveModel clears the model action and the model fit.
func (w Workflow) RemoveModel() Workflow {
	w.mod = nil
	w.fit = nil

	return w
}
