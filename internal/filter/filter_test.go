package filter

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/adapter/adaptertest"
	"github.com/jask/stitchlist/internal/composed"
)

var fruit = map[int64]string{
	0: "Apple pie",
	1: "Banana bread",
	2: "Cherry tart",
	3: "apple crumble",
	4: "Grape juice",
}

func newFruit(t *testing.T, opts ...Option) (*Wrapper, *adaptertest.Leaf, *adaptertest.Recorder) {
	t.Helper()
	leaf := adaptertest.NewDraggableLeaf("fruit", 0, len(fruit))
	w := New(leaf, func(p int) string { return fruit[leaf.IDs[p]] }, opts...)
	rec := &adaptertest.Recorder{}
	w.RegisterObserver(rec)
	return w, leaf, rec
}

func visibleIDs(t *testing.T, a adapter.Adapter) []int64 {
	t.Helper()
	var out []int64
	for p := 0; p < a.ItemCount(); p++ {
		id, err := a.ItemID(p)
		require.NoError(t, err)
		out = append(out, id)
	}
	return out
}

func TestFilterMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		distance int
		want     []int64
	}{
		{name: "empty", query: "", want: []int64{0, 1, 2, 3, 4}},
		{name: "substring ignores case", query: "APPLE", want: []int64{0, 3}},
		{name: "trimmed", query: "  tart ", want: []int64{2}},
		{name: "no match", query: "grap3", want: nil},
		{name: "within distance", query: "grap3", distance: 1, want: []int64{4}},
		{name: "too far", query: "chery", distance: 0, want: nil},
		{name: "one edit", query: "chery", distance: 1, want: []int64{2}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w, _, _ := newFruit(t, WithMaxDistance(tc.distance))
			w.SetQuery(tc.query)
			assert.Equal(t, tc.want, visibleIDs(t, w))
		})
	}
}

func TestFilterPositionMapping(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newFruit(t)
	w.SetQuery("e")
	// every label has an e
	assert.Equal(t, 5, w.ItemCount())

	w.SetQuery("a")
	assert.Equal(t, []string{"changed", "changed"}, rec.Events)
	require.True(t, w.Active())

	w.SetQuery("pie")
	require.Equal(t, 1, w.ItemCount())
	res := w.UnwrapPosition(0)
	assert.Equal(t, adapter.Adapter(leaf), res.Adapter)
	assert.Equal(t, 0, res.Position)

	w.SetQuery("apple")
	res = w.UnwrapPosition(1)
	assert.Equal(t, 3, res.Position)
	assert.Equal(t, 1, w.WrapPosition(adapter.PathSegment{Adapter: leaf}, 3))
	assert.Equal(t, adapter.NoPosition, w.WrapPosition(adapter.PathSegment{Adapter: leaf}, 2))
	assert.False(t, w.UnwrapPosition(2).Valid())

	h, err := w.CreateView(0)
	require.NoError(t, err)
	require.NoError(t, w.BindView(h, 1, nil))
	assert.Equal(t, "fruit:3", h.Content)
}

func TestFilterRecomputesOnChildChange(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newFruit(t)
	leaf.Move(0, 4)
	assert.Equal(t, []string{"moved(0,4)"}, rec.Events)

	w.SetQuery("apple")
	rec.Reset()
	assert.Equal(t, []int64{3, 0}, visibleIDs(t, w))

	leaf.Remove(0, 1)
	assert.Equal(t, []string{"changed"}, rec.Events)
	assert.Equal(t, []int64{3, 0}, visibleIDs(t, w))

	leaf.Remove(1, 1)
	assert.Equal(t, []int64{0}, visibleIDs(t, w))
}

func TestFilterDisablesDrags(t *testing.T) {
	t.Parallel()

	w, _, _ := newFruit(t)
	assert.NotNil(t, w.DragHandler())
	w.SetQuery("apple")
	assert.Nil(t, w.DragHandler())
	w.SetQuery("")
	assert.NotNil(t, w.DragHandler())
	assert.False(t, w.Active())
}

func TestFilterRoundTripThroughComposition(t *testing.T) {
	t.Parallel()

	inner := composed.New()
	a := adaptertest.NewLeaf("a", 0, 4)
	b := adaptertest.NewLeaf("b", 10, 4)
	_, err := inner.AppendChild(a)
	require.NoError(t, err)
	_, err = inner.AppendChild(b)
	require.NoError(t, err)

	labels := func(p int) string {
		if p%2 == 0 {
			return "even"
		}
		return "odd"
	}
	w := New(inner, labels)
	w.SetQuery("odd")

	outer := composed.New()
	head := adaptertest.NewLeaf("head", 100, 2)
	_, err = outer.AppendChild(head)
	require.NoError(t, err)
	_, err = outer.AppendChild(w)
	require.NoError(t, err)
	require.Equal(t, 6, outer.ItemCount())

	// outer 2..5 -> filter 0..3 -> inner 1,3,5,7
	wantLeaf := []adapter.Adapter{a, a, b, b}
	wantPos := []int{1, 3, 1, 3}
	for i := 0; i < 4; i++ {
		var path adapter.Path
		pos := adapter.UnwrapPosition(outer, nil, nil, 2+i, &path)
		require.Equal(t, wantPos[i], pos)
		last, ok := path.Last()
		require.True(t, ok)
		require.Equal(t, wantLeaf[i], last.Adapter)
		require.Equal(t, 4, path.Len())
		assert.Equal(t, 2+i, adapter.WrapPosition(&path, path.Len()-1, 0, pos))
	}

	// hidden leaf items do not wrap
	var path adapter.Path
	pos := adapter.UnwrapPosition(outer, nil, nil, 2, &path)
	require.Equal(t, 1, pos)
	assert.Equal(t, adapter.NoPosition, adapter.WrapPosition(&path, path.Len()-1, 0, 0))
}

func randomTree(t *testing.T, rng *rand.Rand, depth int, next *int64) adapter.Adapter {
	t.Helper()
	if depth == 0 {
		l := adaptertest.NewLeaf(fmt.Sprintf("leaf%d", *next), *next, 1+rng.Intn(4))
		*next += 100
		return l
	}
	switch rng.Intn(3) {
	case 0:
		return adapter.NewSimpleWrapper(randomTree(t, rng, depth-1, next), nil)
	case 1:
		w := New(randomTree(t, rng, depth-1, next), func(p int) string {
			if p%3 == 0 {
				return "drop"
			}
			return "keep"
		})
		w.SetQuery("keep")
		return w
	}
	c := composed.New()
	for i, n := 0, 1+rng.Intn(3); i < n; i++ {
		_, err := c.AppendChild(randomTree(t, rng, depth-1-rng.Intn(depth), next))
		require.NoError(t, err)
	}
	return c
}

func TestRandomTreesRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	for depth := 1; depth <= 4; depth++ {
		for trial := 0; trial < 25; trial++ {
			var next int64
			root := randomTree(t, rng, depth, &next)
			for pos := 0; pos < root.ItemCount(); pos++ {
				var path adapter.Path
				leafPos := adapter.UnwrapPosition(root, nil, nil, pos, &path)
				require.NotEqual(t, adapter.NoPosition, leafPos, "depth %d trial %d pos %d", depth, trial, pos)

				last, ok := path.Last()
				require.True(t, ok)
				_, isLeaf := last.Adapter.(*adaptertest.Leaf)
				require.True(t, isLeaf)
				require.Equal(t, pos, adapter.WrapPosition(&path, path.Len()-1, 0, leafPos),
					"depth %d trial %d pos %d", depth, trial, pos)
			}
		}
	}
}
