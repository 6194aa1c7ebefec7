package recipe

import (
	"math"

	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

var (
	ErrStepNeedsNumeric = errors.New("step requires a numeric column")
	ErrStepNeedsFactor  = errors.New("step requires a factor column")
	ErrConstantColumn   = errors.New("cannot scale a constant column")
	ErrEmptyTraining    = errors.New("cannot train a step on an empty table")
)

type centerStep struct {
	columns []string
}

// StepCenter subtracts the training mean from each named numeric column.
func StepCenter(columns ...string) Step {
	return &centerStep{columns: columns}
}

func (s *centerStep) Name() string      { return "center" }
func (s *centerStep) Columns() []string { return append([]string(nil), s.columns...) }

func (s *centerStep) Prep(data table.Table) (TrainedStep, error) {
	means, err := columnMeans(data, s.columns, s.Name())
	if err != nil {
		return nil, err
	}

	return &trainedCenter{means: means}, nil
}

type trainedCenter struct {
	means map[string]float64
}

func (t *trainedCenter) Name() string { return "center" }

func (t *trainedCenter) Bake(data table.Table) (table.Table, error) {
	return shiftScale(data, t.means, nil, t.Name())
}

type scaleStep struct {
	columns []string
}

// StepScale divides each named numeric column by its training standard
// deviation.
func StepScale(columns ...string) Step {
	return &scaleStep{columns: columns}
}

func (s *scaleStep) Name() string      { return "scale" }
func (s *scaleStep) Columns() []string { return append([]string(nil), s.columns...) }

func (s *scaleStep) Prep(data table.Table) (TrainedStep, error) {
	means, err := columnMeans(data, s.columns, s.Name())
	if err != nil {
		return nil, err
	}

	sds := make(map[string]float64, len(s.columns))
	for _, name := range s.columns {
		col, err := data.Column(name)
		if err != nil {
			return nil, errors.Wrapf(err, "step %s", s.Name())
		}

		var ss float64
		for _, v := range col.Floats {
			d := v - means[name]
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(len(col.Floats)-1))
		if sd == 0 || math.IsNaN(sd) {
			return nil, errors.Wrapf(ErrConstantColumn, "step %s: %s", s.Name(), name)
		}
		sds[name] = sd
	}

	return &trainedScale{sds: sds}, nil
}

type trainedScale struct {
	sds map[string]float64
}

func (t *trainedScale) Name() string { return "scale" }

func (t *trainedScale) Bake(data table.Table) (table.Table, error) {
	return shiftScale(data, nil, t.sds, t.Name())
}

type dummyStep struct {
	columns []string
}

// StepDummy replaces each named factor column with one indicator column
// per level seen during training.
func StepDummy(columns ...string) Step {
	return &dummyStep{columns: columns}
}

func (s *dummyStep) Name() string      { return "dummy" }
func (s *dummyStep) Columns() []string { return append([]string(nil), s.columns...) }

func (s *dummyStep) Prep(data table.Table) (TrainedStep, error) {
	levels := make(map[string][]string, len(s.columns))
	for _, name := range s.columns {
		col, err := data.Column(name)
		if err != nil {
			return nil, errors.Wrapf(err, "step %s", s.Name())
		}
		if col.Kind != table.Factor {
			return nil, errors.Wrapf(ErrStepNeedsFactor, "step %s: %s is %s", s.Name(), name, col.Kind)
		}
		levels[name] = col.Levels()
	}

	return &trainedDummy{columns: append([]string(nil), s.columns...), levels: levels}, nil
}

type trainedDummy struct {
	columns []string
	levels  map[string][]string
}

func (t *trainedDummy) Name() string { return "dummy" }

func (t *trainedDummy) Bake(data table.Table) (table.Table, error) {
	out := data.Clone()
	for _, name := range t.columns {
		col, err := out.Column(name)
		if err != nil {
			return table.Table{}, errors.Wrapf(err, "step %s", t.Name())
		}

		expanded, err := encode.Indicators(col)
		if err != nil {
			return table.Table{}, errors.Wrapf(err, "step %s", t.Name())
		}

		// Levels are fixed at prep time: unseen bake levels get all-zero
		// rows rather than new columns.
		wanted := make(map[string]struct{}, len(t.levels[name]))
		for _, level := range t.levels[name] {
			wanted[name+level] = struct{}{}
		}

		out = out.Drop(name)
		added := make(map[string]struct{}, len(expanded))
		for _, ind := range expanded {
			if _, ok := wanted[ind.Name]; !ok {
				continue
			}
			added[ind.Name] = struct{}{}
			out, err = out.WithColumn(ind)
			if err != nil {
				return table.Table{}, errors.Wrapf(err, "step %s", t.Name())
			}
		}
		for _, level := range t.levels[name] {
			indName := name + level
			if _, ok := added[indName]; ok {
				continue
			}
			out, err = out.WithColumn(table.Num(indName, make([]float64, out.NumRows())))
			if err != nil {
				return table.Table{}, errors.Wrapf(err, "step %s", t.Name())
			}
		}
	}

	return out, nil
}

func columnMeans(data table.Table, columns []string, stepName string) (map[string]float64, error) {
	if data.IsEmpty() {
		return nil, errors.Wrapf(ErrEmptyTraining, "step %s", stepName)
	}

	means := make(map[string]float64, len(columns))
	for _, name := range columns {
		col, err := data.Column(name)
		if err != nil {
			return nil, errors.Wrapf(err, "step %s", stepName)
		}
		if col.Kind != table.Numeric {
			return nil, errors.Wrapf(ErrStepNeedsNumeric, "step %s: %s is %s", stepName, name, col.Kind)
		}

		var sum float64
		for _, v := range col.Floats {
			sum += v
		}
		means[name] = sum / float64(len(col.Floats))
	}

	return means, nil
}

func shiftScale(data table.Table, shift, scale map[string]float64, stepName string) (table.Table, error) {
	out := data.Clone()
	names := shift
	if names == nil {
		names = scale
	}

	for name := range names {
		col, err := out.Column(name)
		if err != nil {
			return table.Table{}, errors.Wrapf(err, "step %s", stepName)
		}
		if col.Kind != table.Numeric {
			return table.Table{}, errors.Wrapf(ErrStepNeedsNumeric, "step %s: %s is %s", stepName, name, col.Kind)
		}

		values := make([]float64, len(col.Floats))
		for i, v := range col.Floats {
			if shift != nil {
				values[i] = v - shift[name]
			} else {
				values[i] = v / scale[name]
			}
		}
		out, err = out.WithColumn(table.Num(name, values))
		if err != nil {
			return table.Table{}, errors.Wrapf(err, "step %s", stepName)
		}
	}

	return out, nil
}
