package recipe

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/internal/store"
	"github.com/IanniMuliterno/workflows/pkg/formula"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

var (
	ErrMissingStepInput  = errors.New("step requires a column that is not available at its position")
	ErrCyclicDerivation  = errors.New("recipe steps derive columns from each other in a cycle")
	ErrNotPrepped        = errors.New("recipe must be prepped before baking")
	ErrAlreadyPrepped    = errors.New("recipe is already prepped")
	ErrUnknownDerivation = errors.New("column was not derived by this recipe")
)

// Step is a single untrained preprocessing operation. Columns names the
// columns the step reads at its position in the recipe.
type Step interface {
	Name() string
	Columns() []string
	Prep(data table.Table) (TrainedStep, error)
}

// TrainedStep is a step whose parameters have been estimated against
// training data.
type TrainedStep interface {
	Name() string
	Bake(data table.Table) (table.Table, error)
}

// Recipe is an ordered sequence of preprocessing steps tied to a formula
// that assigns outcome and predictor roles. A recipe is a value: WithStep
// and Prep return new recipes and never modify the receiver.
type Recipe struct {
	f     formula.Formula
	steps []Step

	variables []string
	trained   []TrainedStep
	junctions graph.Graph[string, string]
	prepped   bool
}

// New builds an untrained recipe from a formula and optional steps.
func New(f formula.Formula, steps ...Step) *Recipe {
	return &Recipe{f: f, steps: append([]Step(nil), steps...)}
}

// WithStep returns a copy of the recipe with the step appended.
func (r *Recipe) WithStep(s Step) *Recipe {
	out := *r
	out.steps = append(append([]Step(nil), r.steps...), s)

	return &out
}

// Formula returns the recipe's role-assigning formula.
func (r *Recipe) Formula() formula.Formula {
	return r.f
}

// Steps returns the declared steps in order.
func (r *Recipe) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Prepped reports whether the recipe's steps have been trained.
func (r *Recipe) Prepped() bool {
	return r.prepped
}

// Prep trains every step against the data, in order. Each step is trained
// on the data as transformed by the steps before it, mirroring how Bake
// will later apply them. Column derivations are tracked in a dependency
// graph so an unavailable input or a cyclic derivation fails with a typed
// error instead of producing a silently wrong table.
func (r *Recipe) Prep(data table.Table) (*Recipe, error) {
	if r.prepped {
		return nil, ErrAlreadyPrepped
	}

	terms, err := r.f.Terms(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve recipe roles")
	}
	variables := append(r.f.Outcomes(), terms...)

	// Only the formula's variables take part in the recipe; other
	// columns in the training data are not given a role.
	current, err := data.Select(variables...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to select recipe variables")
	}

	junctions := graph.NewWithStore(graph.StringHash, store.New[string, string](), graph.Directed(), graph.PreventCycles())
	for _, name := range current.Names() {
		if err := junctions.AddVertex(name); err != nil {
			return nil, errors.Wrapf(err, "unable to register column %s", name)
		}
	}

	trained := make([]TrainedStep, 0, len(r.steps))
	for _, step := range r.steps {
		for _, col := range step.Columns() {
			if !current.Has(col) {
				return nil, errors.Wrapf(ErrMissingStepInput, "step %s needs %s", step.Name(), col)
			}
		}

		ts, err := step.Prep(current)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to prep step %s", step.Name())
		}

		baked, err := ts.Bake(current)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to apply step %s during prep", step.Name())
		}

		if err := recordDerivations(junctions, step, current, baked); err != nil {
			return nil, err
		}

		current = baked
		trained = append(trained, ts)
	}

	out := *r
	out.variables = variables
	out.trained = trained
	out.junctions = junctions
	out.prepped = true

	return &out, nil
}

// recordDerivations adds an edge from each step input to each column the
// step created, so column provenance stays queryable after prep.
func recordDerivations(junctions graph.Graph[string, string], step Step, before, after table.Table) error {
	for _, name := range after.Names() {
		if before.Has(name) {
			continue
		}
		if err := junctions.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return errors.Wrapf(err, "unable to register derived column %s", name)
		}
		for _, input := range step.Columns() {
			if input == name {
				continue
			}
			err := junctions.AddEdge(input, name)
			switch {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return errors.Wrapf(ErrCyclicDerivation, "step %s: %s -> %s", step.Name(), input, name)
			default:
				return errors.Wrapf(err, "unable to link %s to %s", input, name)
			}
		}
	}

	return nil
}

// Bake applies the trained steps to new data, which must carry the
// recipe's variables.
func (r *Recipe) Bake(data table.Table) (table.Table, error) {
	if !r.prepped {
		return table.Table{}, ErrNotPrepped
	}

	current, err := data.Select(r.variables...)
	if err != nil {
		return table.Table{}, errors.Wrap(err, "unable to select recipe variables")
	}
	for _, ts := range r.trained {
		baked, err := ts.Bake(current)
		if err != nil {
			return table.Table{}, errors.Wrapf(err, "unable to bake step %s", ts.Name())
		}
		current = baked
	}

	return current, nil
}

// Origins returns the columns a derived column was computed from, or
// ErrUnknownDerivation when the column came straight from the data.
func (r *Recipe) Origins(column string) ([]string, error) {
	if !r.prepped {
		return nil, ErrNotPrepped
	}

	predecessors, err := r.junctions.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to inspect derivations")
	}

	sources, ok := predecessors[column]
	if !ok || len(sources) == 0 {
		return nil, errors.Wrap(ErrUnknownDerivation, column)
	}

	origins := make([]string, 0, len(sources))
	for source := range sources {
		origins = append(origins, source)
	}

	return origins, nil
}
