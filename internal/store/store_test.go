package store_test

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IanniMuliterno/workflows/internal/store"
)

func TestVertexLifecycle(t *testing.T) {
	t.Parallel()

	s := store.New[string, string]()

	require.NoError(t, s.AddVertex("cyl", "cyl", graph.VertexProperties{}))
	assert.ErrorIs(t, s.AddVertex("cyl", "cyl", graph.VertexProperties{}), graph.ErrVertexAlreadyExists)

	v, _, err := s.Vertex("cyl")
	require.NoError(t, err)
	assert.Equal(t, "cyl", v)

	_, _, err = s.Vertex("mpg")
	assert.ErrorIs(t, err, graph.ErrVertexNotFound)

	count, err := s.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.RemoveVertex("cyl"))
	assert.ErrorIs(t, s.RemoveVertex("cyl"), graph.ErrVertexNotFound)
}

func TestEdgeLifecycle(t *testing.T) {
	t.Parallel()

	s := store.New[string, string]()
	require.NoError(t, s.AddVertex("gear", "gear", graph.VertexProperties{}))
	require.NoError(t, s.AddVertex("gearthree", "gearthree", graph.VertexProperties{}))

	require.NoError(t, s.AddEdge("gear", "gearthree", graph.Edge[string]{Source: "gear", Target: "gearthree"}))

	edge, err := s.Edge("gear", "gearthree")
	require.NoError(t, err)
	assert.Equal(t, "gear", edge.Source)

	_, err = s.Edge("gearthree", "gear")
	assert.ErrorIs(t, err, graph.ErrEdgeNotFound)

	edges, err := s.ListEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	// A vertex with edges cannot be removed.
	assert.ErrorIs(t, s.RemoveVertex("gear"), graph.ErrVertexHasEdges)

	require.NoError(t, s.RemoveEdge("gear", "gearthree"))
	require.NoError(t, s.RemoveVertex("gear"))
}

func TestCreatesCycle(t *testing.T) {
	t.Parallel()

	s := store.New[string, string]()
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddVertex(v, v, graph.VertexProperties{}))
	}
	require.NoError(t, s.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))
	require.NoError(t, s.AddEdge("b", "c", graph.Edge[string]{Source: "b", Target: "c"}))

	tcs := map[string]struct {
		source, target string
		cycle          bool
	}{
		"closing the loop": {source: "c", target: "a", cycle: true},
		"self loop":        {source: "a", target: "a", cycle: true},
		"forward edge":     {source: "a", target: "c", cycle: false},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cycle, err := s.CreatesCycle(tc.source, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.cycle, cycle)
		})
	}
}

func TestCreatesCycleUnknownVertex(t *testing.T) {
	t.Parallel()

	s := store.New[string, string]()
	_, err := s.CreatesCycle("a", "b")
	assert.Error(t, err)
}
