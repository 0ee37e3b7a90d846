package composed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/adapter/adaptertest"
	"github.com/jask/stitchlist/internal/codec"
)

func compose(t *testing.T, children ...adapter.Adapter) (*ComposedAdapter, []*ChildTag) {
	t.Helper()
	c := New()
	var tags []*ChildTag
	for _, ch := range children {
		tag, err := c.AppendChild(ch)
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	return c, tags
}

func TestComposedItems(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 10, 3)
	b := adaptertest.NewLeaf("b", 100, 2)
	b.ViewTypes = []int32{7, 8}
	c, tags := compose(t, a, b)

	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, 2, c.ChildCount())
	assert.Equal(t, 1, c.Segment(tags[1]))
	assert.Same(t, b, c.Child(1))

	for pos := 0; pos < c.ItemCount(); pos++ {
		_, err := c.ItemViewType(pos)
		require.NoError(t, err)
	}

	vt, err := c.ItemViewType(4)
	require.NoError(t, err)
	assert.Equal(t, 2, codec.ViewTypeSegment(vt))
	assert.Equal(t, int32(8), codec.WrappedViewType(vt))

	id, err := c.ItemID(4)
	require.NoError(t, err)
	assert.Equal(t, 2, codec.IDSegment(id))
	assert.Equal(t, int64(101), codec.WrappedID(id))

	id, err = c.ItemID(1)
	require.NoError(t, err)
	assert.Equal(t, 1, codec.IDSegment(id))
	assert.Equal(t, int64(11), codec.WrappedID(id))

	_, err = c.ItemID(5)
	require.ErrorIs(t, err, codec.ErrOutOfRange)
}

func TestComposedIDsDistinctAcrossChildren(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 0, 4)
	b := adaptertest.NewLeaf("b", 0, 4)
	c, _ := compose(t, a, b)

	seen := map[int64]int{}
	for pos := 0; pos < c.ItemCount(); pos++ {
		id, err := c.ItemID(pos)
		require.NoError(t, err)
		prev, dup := seen[id]
		require.False(t, dup, "positions %d and %d share id %#x", prev, pos, id)
		seen[id] = pos
	}
}

func TestComposedNoIDPassesThrough(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 0, 2)
	a.IDs[1] = adapter.NoID
	c, _ := compose(t, a)

	id, err := c.ItemID(1)
	require.NoError(t, err)
	assert.Equal(t, adapter.NoID, id)
}

func TestComposedStableIDCheck(t *testing.T) {
	t.Parallel()

	unstable := adaptertest.NewLeaf("u", 0, 1)
	unstable.SetHasStableIDs(false)

	c := New()
	_, err := c.AppendChild(unstable)
	require.NoError(t, err, "unobserved compositions accept any child")

	observed := New()
	observed.RegisterObserver(&adaptertest.Recorder{})
	_, err = observed.AppendChild(unstable)
	require.ErrorIs(t, err, adapter.ErrIllegalState)
	assert.Equal(t, 0, observed.ChildCount())

	require.NoError(t, c.SetHasStableIDs(false))
	require.ErrorIs(t, c.SetHasStableIDs(true), adapter.ErrIllegalState)

	_, err = c.AddChild(adaptertest.NewLeaf("x", 0, 1), 5)
	require.ErrorIs(t, err, adapter.ErrIllegalState)
}

func TestComposedMembershipNotifies(t *testing.T) {
	t.Parallel()

	c := New()
	rec := &adaptertest.Recorder{}
	c.RegisterObserver(rec)

	a := adaptertest.NewLeaf("a", 0, 2)
	b := adaptertest.NewLeaf("b", 10, 3)
	tagA, err := c.AppendChild(a)
	require.NoError(t, err)
	_, err = c.AddChild(b, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, 1, c.Segment(tagA))

	assert.True(t, c.RemoveChild(tagA))
	assert.False(t, c.RemoveChild(tagA))
	assert.False(t, c.RemoveChild(&ChildTag{}))
	assert.Equal(t, 3, c.ItemCount())
	assert.Equal(t, []string{"changed", "changed", "changed"}, rec.Events)

	rec.Reset()
	a.NotifyItemInserted(0)
	assert.Empty(t, rec.Events, "removed child is no longer observed")
	assert.False(t, a.HasObservers())
}

func TestComposedTranslatesNotifications(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 0, 3)
	empty := adaptertest.NewLeaf("e", 50, 0)
	b := adaptertest.NewLeaf("b", 100, 5)
	c, _ := compose(t, a, empty, b)
	rec := &adaptertest.Recorder{}
	c.RegisterObserver(rec)
	require.Equal(t, 8, c.ItemCount())

	b.Insert(2, 900)
	assert.Equal(t, 9, c.ItemCount())
	a.Remove(0, 1)
	assert.Equal(t, 8, c.ItemCount())
	b.Move(0, 4)
	b.NotifyRangeChanged(1, 2, "p")
	empty.Insert(0, 51, 52)
	assert.Equal(t, 10, c.ItemCount())
	b.NotifyDataSetChanged()

	assert.Equal(t, []string{
		"inserted(5,1)",
		"removed(0,1)",
		"moved(2,6)",
		"changed(3,2,p)",
		"inserted(2,2)",
		"changed",
	}, rec.Events)

	id, err := c.ItemID(2)
	require.NoError(t, err)
	assert.Equal(t, int64(51), codec.WrappedID(id))
}

func TestComposedSameChildTwice(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 0, 2)
	b := adaptertest.NewLeaf("b", 10, 1)
	c, tags := compose(t, a, b, a)
	rec := &adaptertest.Recorder{}
	c.RegisterObserver(rec)

	assert.Equal(t, 5, c.ItemCount())
	assert.Len(t, c.WrappedAdapters(), 2)

	a.NotifyItemChanged(1)
	assert.Equal(t, []string{"changed(1,1)", "changed(4,1)"}, rec.Events)

	rec.Reset()
	a.Insert(0, 99)
	assert.Equal(t, []string{"changed"}, rec.Events, "multi-tag insert falls back to a full reset")
	assert.Equal(t, 7, c.ItemCount())

	rec.Reset()
	a.Move(0, 1)
	assert.Equal(t, []string{"changed"}, rec.Events)

	require.True(t, c.RemoveChild(tags[0]))
	assert.True(t, a.HasObservers(), "second membership keeps the bridge")
	require.True(t, c.RemoveChild(tags[2]))
	assert.False(t, a.HasObservers())
}

func TestComposedForwardsRawViewTypes(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 0, 1)
	b := adaptertest.NewLeaf("b", 10, 2)
	b.ViewTypes = []int32{3, 4}
	c, _ := compose(t, a, b)

	vt, err := c.ItemViewType(2)
	require.NoError(t, err)
	require.NotEqual(t, int32(4), vt)

	h, err := c.CreateView(vt)
	require.NoError(t, err)
	assert.Equal(t, vt, h.ViewType)
	require.NoError(t, c.BindView(h, 2, nil))
	assert.Equal(t, "b:11", h.Content)
	require.NoError(t, c.ViewAttached(h, vt))
	require.NoError(t, c.ViewDetached(h, vt))
	require.NoError(t, c.ViewRecycled(h, vt))
	b.FailRecycle = true
	ok, err := c.FailedToRecycleView(h, vt)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"create(4)", "bind(1)", "attached(4)", "detached(4)", "recycled(4)", "failed(4)"}, b.Calls)
	assert.Empty(t, a.Calls)

	_, err = c.CreateView(12345)
	require.ErrorIs(t, err, adapter.ErrIllegalState)
}

func TestComposedUnwrapWrap(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 0, 2)
	b := adaptertest.NewLeaf("b", 10, 3)
	c, tags := compose(t, a, b)

	r := c.UnwrapPosition(3)
	require.True(t, r.Valid())
	assert.Same(t, b, r.Adapter)
	assert.Equal(t, tags[1], r.Tag)
	assert.Equal(t, 1, r.Position)

	assert.Equal(t, 3, c.WrapPosition(adapter.PathSegment{Adapter: b, Tag: tags[1]}, 1))
	assert.Equal(t, adapter.NoPosition, c.WrapPosition(adapter.PathSegment{Adapter: a, Tag: tags[1]}, 1))
	assert.Equal(t, adapter.NoPosition, c.WrapPosition(adapter.PathSegment{Adapter: b, Tag: "x"}, 1))
	assert.Equal(t, adapter.NoPosition, c.WrapPosition(adapter.PathSegment{Adapter: b, Tag: tags[1]}, 3))
	assert.False(t, c.UnwrapPosition(5).Valid())
}

func TestNestedCompositionPath(t *testing.T) {
	t.Parallel()

	a := adaptertest.NewLeaf("a", 0, 2)
	b := adaptertest.NewLeaf("b", 0, 3)
	x := adaptertest.NewLeaf("x", 0, 1)
	inner, _ := compose(t, a, b)
	root, _ := compose(t, x, adapter.NewSimpleWrapper(inner, nil))

	seen := map[int64]bool{}
	var path adapter.Path
	for pos := 0; pos < root.ItemCount(); pos++ {
		leafPos := adapter.UnwrapPosition(root, nil, nil, pos, &path)
		require.NotEqual(t, adapter.NoPosition, leafPos)
		require.Equal(t, pos, adapter.WrapPosition(&path, path.Len()-1, 0, leafPos))

		id, err := root.ItemID(pos)
		require.NoError(t, err)
		require.False(t, seen[id], "id %#x repeated", id)
		seen[id] = true
	}

	rec := &adaptertest.Recorder{}
	root.RegisterObserver(rec)
	b.Move(2, 0)
	assert.Equal(t, []string{"moved(5,3)"}, rec.Events)
}

func TestComposedReleaseDropsStaleEvents(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	a := adaptertest.NewLeaf("a", 0, 2)
	c := New(WithLogger(zap.New(core)))
	_, err := c.AppendChild(a)
	require.NoError(t, err)

	stale := adapter.NewBridge(c, a, nil, c.Generation())
	a.RegisterObserver(stale)

	rec := &adaptertest.Recorder{}
	c.RegisterObserver(rec)

	adapter.ReleaseAll(c)
	assert.Equal(t, 0, c.ItemCount())
	assert.Equal(t, 0, c.ChildCount())

	a.NotifyItemInserted(0)
	assert.Empty(t, rec.Events)
	assert.Equal(t, 1, stale.Dropped())
	assert.Equal(t, 1, logs.FilterMessage("composition released").Len())
	assert.Equal(t, 1, logs.FilterMessage("child added").Len())
}

func TestComposedUnknownChildIsIllegalState(t *testing.T) {
	t.Parallel()

	c, _ := compose(t, adaptertest.NewLeaf("a", 0, 2))
	rec := &adaptertest.Recorder{}
	c.RegisterObserver(rec)
	require.NoError(t, c.Err())

	stranger := adaptertest.NewLeaf("s", 0, 1)
	c.BridgedRangeInserted(stranger, nil, 0, 1)
	require.ErrorIs(t, c.Err(), adapter.ErrIllegalState)
	assert.Contains(t, c.Err().Error(), "inserted")
	assert.Equal(t, []string{"changed"}, rec.Events)

	_, err := c.ItemID(0)
	require.ErrorIs(t, err, adapter.ErrIllegalState)
	_, err = c.ItemViewType(0)
	require.ErrorIs(t, err, adapter.ErrIllegalState)
	require.ErrorIs(t, c.BindView(&adapter.Holder{}, 0, nil), adapter.ErrIllegalState)
	_, err = c.CreateView(0)
	require.ErrorIs(t, err, adapter.ErrIllegalState)

	c.BridgedMoved(stranger, nil, 0, 1)
	assert.Contains(t, c.Err().Error(), "inserted", "the first failure is kept")
}

func TestComposedDragRouting(t *testing.T) {
	t.Parallel()

	plain := adaptertest.NewLeaf("p", 0, 2)
	c, _ := compose(t, plain)
	assert.Nil(t, c.DragHandler())

	a := adaptertest.NewDraggableLeaf("a", 10, 3)
	_, err := c.AppendChild(a)
	require.NoError(t, err)
	b := adaptertest.NewDraggableLeaf("b", 20, 4)
	b.Handler.(*adaptertest.Handler).Start = 1
	b.Handler.(*adaptertest.Handler).End = 2
	b.Handler.(*adaptertest.Handler).Ranged = true
	_, err = c.AppendChild(b)
	require.NoError(t, err)

	rec := &adaptertest.Recorder{}
	c.RegisterObserver(rec)

	h := c.DragHandler()
	require.NotNil(t, h)

	assert.False(t, h.CanStartDrag(1, 0, 0), "child without handler")
	assert.True(t, h.CanStartDrag(3, 0, 0))
	assert.True(t, h.CanDrop(2, 4))
	assert.False(t, h.CanDrop(4, 5), "drops never cross children")

	start, end, ok := h.DraggableRange(3)
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 4}, [2]int{start, end})

	start, end, ok = h.DraggableRange(6)
	require.True(t, ok)
	assert.Equal(t, [2]int{6, 7}, [2]int{start, end})

	require.NoError(t, h.MoveItem(2, 4))
	assert.Equal(t, [][2]int{{0, 2}}, a.Moves)
	assert.Equal(t, []string{"moved(2,4)"}, rec.Events)
	assert.Equal(t, []int64{11, 12, 10}, a.IDs)

	require.ErrorIs(t, h.MoveItem(4, 5), adapter.ErrIllegalState)
	require.ErrorIs(t, h.MoveItem(0, 1), adapter.ErrIllegalState)

	rec.Reset()
	require.NoError(t, h.SwapItems(4, 2))
	assert.Equal(t, [][2]int{{2, 0}}, a.Swaps)
	assert.Equal(t, []int64{10, 12, 11}, a.IDs)
	assert.Equal(t, []string{"moved(2,4)", "moved(3,2)"}, rec.Events)
	require.ErrorIs(t, h.SwapItems(4, 6), adapter.ErrIllegalState)
}
