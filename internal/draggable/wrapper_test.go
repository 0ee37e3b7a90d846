package draggable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/adapter/adaptertest"
)

func newTestWrapper(t *testing.T, count int) (*Wrapper, *adaptertest.Leaf, *adaptertest.Recorder) {
	t.Helper()
	leaf := adaptertest.NewDraggableLeaf("items", 40, count)
	w, err := NewWrapper(leaf)
	require.NoError(t, err)
	rec := &adaptertest.Recorder{}
	w.RegisterObserver(rec)
	return w, leaf, rec
}

func ids(t *testing.T, a adapter.Adapter) []int64 {
	t.Helper()
	out := make([]int64, a.ItemCount())
	for i := range out {
		id, err := a.ItemID(i)
		require.NoError(t, err)
		out[i] = id
	}
	return out
}

func TestNewWrapperRequiresHandler(t *testing.T) {
	t.Parallel()

	_, err := NewWrapper(adaptertest.NewLeaf("plain", 0, 3))
	require.ErrorIs(t, err, adapter.ErrIllegalState)
}

func TestWrapperPassThroughWhenIdle(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newTestWrapper(t, 4)
	assert.Equal(t, []int64{40, 41, 42, 43}, ids(t, w))
	assert.False(t, w.IsDragging())
	assert.Equal(t, adapter.NoPosition, w.CurrentPosition())
	assert.Equal(t, adapter.NoID, w.DraggingID())

	leaf.Insert(1, 99)
	assert.Equal(t, []string{"inserted(1,1)"}, rec.Events)
}

func TestWrapperShiftSession(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newTestWrapper(t, 6)
	store := &adaptertest.Recorder{}
	leaf.RegisterObserver(store)

	require.NoError(t, w.Start(2, WholeRange(6), Shift))
	assert.Equal(t, int64(42), w.DraggingID())
	require.NoError(t, w.Step(2, 3))
	require.NoError(t, w.Step(3, 4))
	assert.Equal(t, []int64{40, 41, 43, 44, 42, 45}, ids(t, w))
	assert.Equal(t, []int64{40, 41, 42, 43, 44, 45}, leaf.IDs)

	res := w.UnwrapPosition(4)
	assert.Equal(t, 2, res.Position)
	assert.Equal(t, 4, w.WrapPosition(adapter.PathSegment{Adapter: leaf}, 2))

	require.NoError(t, w.Finish(true))
	assert.Equal(t, [][2]int{{2, 4}}, leaf.Moves)
	assert.Equal(t, []int64{40, 41, 43, 44, 42, 45}, leaf.IDs)
	assert.Equal(t, []string{"changed", "moved(2,3)", "moved(3,4)", "changed"}, rec.Events)
	assert.Equal(t, []string{"moved(2,4)"}, store.Events)
	assert.False(t, w.IsDragging())
}

func TestWrapperSwapSession(t *testing.T) {
	t.Parallel()

	w, _, rec := newTestWrapper(t, 5)
	require.NoError(t, w.Start(1, WholeRange(5), Swap))
	require.NoError(t, w.Step(1, 2))
	assert.Equal(t, []int64{40, 42, 41, 43, 44}, ids(t, w))

	err := w.Step(2, 4)
	require.ErrorIs(t, err, adapter.ErrIllegalState)
	assert.Equal(t, 2, w.CurrentPosition())
	assert.Equal(t, []string{"changed", "changed"}, rec.Events)
}

func TestWrapperSwapCommit(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newTestWrapper(t, 5)
	store := &adaptertest.Recorder{}
	leaf.RegisterObserver(store)

	require.NoError(t, w.Start(3, WholeRange(5), Swap))
	require.NoError(t, w.Step(3, 2))
	require.NoError(t, w.Step(2, 1))
	shown := ids(t, w)
	assert.Equal(t, []int64{40, 43, 42, 41, 44}, shown)

	require.NoError(t, w.Finish(true))
	assert.Equal(t, [][2]int{{3, 1}}, leaf.Swaps)
	assert.Equal(t, shown, leaf.IDs)
	assert.Equal(t, []string{"moved(1,3)", "moved(2,1)"}, store.Events)
	assert.Equal(t, []string{"changed", "changed", "changed", "changed"}, rec.Events)
}

func TestWrapperStepChecksDraggedSlot(t *testing.T) {
	t.Parallel()

	w, _, _ := newTestWrapper(t, 5)
	require.ErrorIs(t, w.Step(0, 1), adapter.ErrIllegalState)

	require.NoError(t, w.Start(1, WholeRange(5), Shift))
	require.ErrorIs(t, w.Step(3, 4), adapter.ErrIllegalState)
	require.ErrorIs(t, w.Start(2, WholeRange(5), Shift), adapter.ErrIllegalState)
}

func TestWrapperCancelDoesNotCommit(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newTestWrapper(t, 4)
	require.NoError(t, w.Start(0, WholeRange(4), Shift))
	require.NoError(t, w.Step(0, 1))
	require.NoError(t, w.Finish(false))

	assert.Empty(t, leaf.Moves)
	assert.Equal(t, []int64{40, 41, 42, 43}, ids(t, w))
	assert.Equal(t, []string{"changed", "moved(0,1)", "changed"}, rec.Events)
}

func TestWrapperFinishWithoutMoveSkipsCommit(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newTestWrapper(t, 4)
	require.NoError(t, w.Start(2, WholeRange(4), Shift))
	require.NoError(t, w.Finish(true))
	assert.Empty(t, leaf.Moves)
	assert.Equal(t, []string{"changed", "changed"}, rec.Events)
}

func TestWrapperChildChangeCancelsDrag(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newTestWrapper(t, 4)
	require.NoError(t, w.Start(1, WholeRange(4), Shift))
	rec.Reset()

	leaf.Insert(0, 7)
	assert.False(t, w.IsDragging())
	assert.Equal(t, []string{"changed"}, rec.Events)
	assert.Empty(t, leaf.Moves)
}

func TestWrapperItemRange(t *testing.T) {
	t.Parallel()

	leaf := adaptertest.NewLeaf("items", 0, 6)
	h := &adaptertest.Handler{Leaf: leaf, Start: 1, End: 3, Ranged: true}
	leaf.Handler = h
	w, err := NewWrapper(leaf)
	require.NoError(t, err)

	r, err := w.ItemRange(2)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 1, End: 3}, r)

	_, err = w.ItemRange(5)
	require.ErrorIs(t, err, adapter.ErrIllegalState)

	h.End = 9
	_, err = w.ItemRange(2)
	require.ErrorIs(t, err, adapter.ErrIllegalState)

	h.Start, h.End = 3, 1
	_, err = w.ItemRange(2)
	require.Error(t, err)

	h.Ranged = false
	r, err = w.ItemRange(5)
	require.NoError(t, err)
	assert.Equal(t, WholeRange(6), r)
}

func TestWrapperBindFlags(t *testing.T) {
	t.Parallel()

	w, leaf, _ := newTestWrapper(t, 5)
	h, err := w.CreateView(0)
	require.NoError(t, err)
	other, err := w.CreateView(0)
	require.NoError(t, err)

	require.NoError(t, w.BindView(h, 1, nil))
	assert.Equal(t, StateUpdated, h.DragState)
	require.NoError(t, w.BindView(h, 1, nil))
	assert.Equal(t, 0, h.DragState)

	require.NoError(t, w.Start(1, Range{Start: 0, End: 2}, Shift))
	require.NoError(t, w.Step(1, 2))

	require.NoError(t, w.BindView(h, 2, nil))
	assert.Equal(t, StateDragging|StateActive|StateInRange|StateUpdated, h.DragState)
	assert.Equal(t, "items:41", h.Content)

	require.NoError(t, w.BindView(other, 3, nil))
	assert.Equal(t, StateDragging|StateUpdated, other.DragState)
	assert.Equal(t, "items:43", other.Content)
	assert.Contains(t, leaf.Calls, "bind(1)")
}

func TestWrapperRecyclingDraggedViewCancels(t *testing.T) {
	t.Parallel()

	w, leaf, _ := newTestWrapper(t, 5)
	h, err := w.CreateView(0)
	require.NoError(t, err)
	other, err := w.CreateView(0)
	require.NoError(t, err)

	require.NoError(t, w.Start(2, WholeRange(5), Shift))
	require.NoError(t, w.BindView(h, 2, nil))
	require.NoError(t, w.BindView(other, 0, nil))

	require.NoError(t, w.ViewRecycled(other, 0))
	assert.True(t, w.IsDragging())

	require.NoError(t, w.ViewRecycled(h, 0))
	assert.False(t, w.IsDragging())
	assert.Contains(t, leaf.Calls, "recycled(0)")
}

func TestWrapperDetachCancels(t *testing.T) {
	t.Parallel()

	w, _, _ := newTestWrapper(t, 5)
	h, err := w.CreateView(0)
	require.NoError(t, err)
	require.NoError(t, w.Start(3, WholeRange(5), Shift))
	require.NoError(t, w.BindView(h, 3, nil))
	require.NoError(t, w.ViewDetached(h, 0))
	assert.False(t, w.IsDragging())

	require.NoError(t, w.Start(3, WholeRange(5), Shift))
	w.DetachedFromHost()
	assert.False(t, w.IsDragging())
}

func TestWrapperReleaseDropsSession(t *testing.T) {
	t.Parallel()

	w, leaf, rec := newTestWrapper(t, 3)
	require.NoError(t, w.Start(0, WholeRange(3), Shift))
	rec.Reset()
	w.Release()

	assert.False(t, w.IsDragging())
	leaf.Insert(0, 1)
	assert.Empty(t, rec.Events)
	assert.False(t, leaf.HasObservers())
}
