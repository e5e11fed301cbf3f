package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discern/internal/object"
)

func refs(store string, ids ...string) []object.Ref {
	out := make([]object.Ref, len(ids))
	for i, id := range ids {
		out[i] = object.Ref{Store: store, ID: id}
	}
	return out
}

// similarTo builds a pairFunc from an adjacency list of left id -> right ids.
func similarTo(edges map[string][]string) pairFunc {
	return func(a, b object.Ref) (bool, int, error) {
		for _, id := range edges[a.ID] {
			if id == b.ID {
				return true, independent, nil
			}
		}
		return false, independent, nil
	}
}

func TestMatcher_Perfect(t *testing.T) {
	tests := []struct {
		name  string
		left  []string
		right []string
		edges map[string][]string
		want  bool
	}{
		{
			name:  "in order",
			left:  []string{"x1", "x2", "x3"},
			right: []string{"y1", "y2", "y3"},
			edges: map[string][]string{"x1": {"y1"}, "x2": {"y2"}, "x3": {"y3"}},
			want:  true,
		},
		{
			name:  "crossed",
			left:  []string{"x1", "x2"},
			right: []string{"y1", "y2"},
			edges: map[string][]string{"x1": {"y2"}, "x2": {"y1"}},
			want:  true,
		},
		{
			name:  "needs reassignment",
			left:  []string{"x1", "x2"},
			right: []string{"y1", "y2"},
			edges: map[string][]string{"x1": {"y1", "y2"}, "x2": {"y1"}},
			want:  true,
		},
		{
			name:  "two compete for one",
			left:  []string{"x1", "x2"},
			right: []string{"y1", "y2"},
			edges: map[string][]string{"x1": {"y1"}, "x2": {"y1"}},
			want:  false,
		},
		{
			name:  "sizes differ",
			left:  []string{"x1"},
			right: []string{"y1", "y2"},
			edges: map[string][]string{"x1": {"y1"}},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatcher(refs("left", tt.left...), refs("right", tt.right...), similarTo(tt.edges))
			got, _, err := m.perfect()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcher_InOrderProbesOncePerElement(t *testing.T) {
	m := newMatcher(
		refs("left", "x1", "x2", "x3"),
		refs("right", "y1", "y2", "y3"),
		similarTo(map[string][]string{"x1": {"y1"}, "x2": {"y2"}, "x3": {"y3"}}),
	)
	ok, _, err := m.perfect()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, m.probes)
}

func TestMatcher_TracksAssumptionDepth(t *testing.T) {
	m := newMatcher(refs("left", "x1"), refs("right", "y1"), func(a, b object.Ref) (bool, int, error) {
		return true, 2, nil
	})
	ok, low, err := m.perfect()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, low)
}

func TestMatcher_Error(t *testing.T) {
	boom := errors.New("boom")
	m := newMatcher(refs("left", "x1", "x2"), refs("right", "y1", "y2"), func(a, b object.Ref) (bool, int, error) {
		return false, independent, boom
	})
	ok, _, err := m.perfect()
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
