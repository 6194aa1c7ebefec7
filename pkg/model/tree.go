package model

import (
	"context"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/IanniMuliterno/workflows/pkg/encode"
	"github.com/IanniMuliterno/workflows/pkg/table"
)

const engineCART = "cart"

// DecisionTree is a regression tree specification. Trees split on factor
// levels directly, so the engine advertises that it does not need
// indicator columns.
type DecisionTree struct {
	engine   string
	maxDepth int
	minSplit int
}

// NewDecisionTree returns a tree specification with no engine chosen yet.
func NewDecisionTree() DecisionTree {
	return DecisionTree{maxDepth: 5, minSplit: 2}
}

// SetEngine returns a copy of the specification tagged with the engine.
func (m DecisionTree) SetEngine(engine string) DecisionTree {
	m.engine = engine

	return m
}

// SetMaxDepth returns a copy with the given depth limit.
func (m DecisionTree) SetMaxDepth(depth int) DecisionTree {
	m.maxDepth = depth

	return m
}

func (m DecisionTree) Engine() string { return m.engine }
func (m DecisionTree) Mode() string   { return "regression" }

// RequiredEncoding reports that the engine consumes factor columns as-is.
func (m DecisionTree) RequiredEncoding() (encode.Encoding, bool) {
	if m.engine == "" {
		return encode.Encoding{}, false
	}

	return encode.Encoding{Indicators: false}, true
}

// Fit grows a depth-limited regression tree by greedy SSE reduction.
func (m DecisionTree) Fit(_ context.Context, predictors, outcomes table.Table) (Fit, error) {
	if m.engine == "" {
		return nil, ErrEngineNotSet
	}
	if m.engine != engineCART {
		return nil, errors.Wrap(ErrUnsupportedEngine, m.engine)
	}

	y, err := singleOutcome(outcomes)
	if err != nil {
		return nil, err
	}
	if predictors.NumRows() != len(y) {
		return nil, errors.Wrapf(table.ErrColumnLengthMismatch, "%d predictor rows vs %d outcomes", predictors.NumRows(), len(y))
	}

	rows := make([]int, len(y))
	for i := range rows {
		rows[i] = i
	}

	root := grow(predictors.Columns(), y, rows, m.maxDepth, m.minSplit)

	return &TreeFit{engine: m.engine, root: root}, nil
}

type treeNode struct {
	// Leaf fields.
	leaf  bool
	value float64

	// Split fields: threshold splits numeric columns, level splits
	// factor columns by membership.
	column    string
	kind      table.Kind
	threshold float64
	level     string
	left      *treeNode
	right     *treeNode
}

func grow(cols []table.Column, y []float64, rows []int, depth, minSplit int) *treeNode {
	mean := subsetMean(y, rows)
	if depth == 0 || len(rows) < minSplit {
		return &treeNode{leaf: true, value: mean}
	}

	best, ok := bestSplit(cols, y, rows)
	if !ok {
		return &treeNode{leaf: true, value: mean}
	}

	left, right := partition(best, rows)
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	node := best.node
	node.left = grow(cols, y, left, depth-1, minSplit)
	node.right = grow(cols, y, right, depth-1, minSplit)

	return node
}

type candidate struct {
	node *treeNode
	col  table.Column
	sse  float64
}

func bestSplit(cols []table.Column, y []float64, rows []int) (candidate, bool) {
	baseline := subsetSSE(y, rows)
	best := candidate{sse: baseline}
	found := false

	for _, col := range cols {
		switch col.Kind {
		case table.Numeric:
			thresholds := numericThresholds(col, rows)
			for _, th := range thresholds {
				node := &treeNode{column: col.Name, kind: table.Numeric, threshold: th}
				if sse, ok := splitSSE(candidate{node: node, col: col}, y, rows); ok && sse < best.sse {
					best = candidate{node: node, col: col, sse: sse}
					found = true
				}
			}
		case table.Factor:
			for _, level := range col.Levels() {
				node := &treeNode{column: col.Name, kind: table.Factor, level: level}
				if sse, ok := splitSSE(candidate{node: node, col: col}, y, rows); ok && sse < best.sse {
					best = candidate{node: node, col: col, sse: sse}
					found = true
				}
			}
		}
	}

	return best, found
}

func numericThresholds(col table.Column, rows []int) []float64 {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		values = append(values, col.Floats[r])
	}
	sort.Float64s(values)

	thresholds := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			continue
		}
		thresholds = append(thresholds, (values[i]+values[i-1])/2)
	}

	return thresholds
}

func (n *treeNode) goesLeft(col table.Column, row int) bool {
	if n.kind == table.Factor {
		return col.Strings[row] == n.level
	}

	return col.Floats[row] <= n.threshold
}

func splitSSE(c candidate, y []float64, rows []int) (float64, bool) {
	left, right := partition(c, rows)
	if len(left) == 0 || len(right) == 0 {
		return 0, false
	}

	return subsetSSE(y, left) + subsetSSE(y, right), true
}

func partition(c candidate, rows []int) (left, right []int) {
	for _, r := range rows {
		if c.node.goesLeft(c.col, r) {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	return left, right
}

func subsetMean(y []float64, rows []int) float64 {
	if len(rows) == 0 {
		return math.NaN()
	}

	var sum float64
	for _, r := range rows {
		sum += y[r]
	}

	return sum / float64(len(rows))
}

func subsetSSE(y []float64, rows []int) float64 {
	mean := subsetMean(y, rows)

	var sse float64
	for _, r := range rows {
		d := y[r] - mean
		sse += d * d
	}

	return sse
}

// TreeFit is a trained regression tree.
type TreeFit struct {
	engine string
	root   *treeNode
}

func (f *TreeFit) Engine() string { return f.engine }

// Predict routes each row down the tree to its leaf mean.
func (f *TreeFit) Predict(predictors table.Table) ([]float64, error) {
	out := make([]float64, predictors.NumRows())
	for i := range out {
		value, err := f.predictRow(predictors, i)
		if err != nil {
			return nil, err
		}
		out[i] = value
	}

	return out, nil
}

func (f *TreeFit) predictRow(predictors table.Table, row int) (float64, error) {
	node := f.root
	for !node.leaf {
		col, err := predictors.Column(node.column)
		if err != nil {
			return 0, err
		}
		if node.goesLeft(col, row) {
			node = node.left
		} else {
			node = node.right
		}
	}

	return node.value, nil
}
