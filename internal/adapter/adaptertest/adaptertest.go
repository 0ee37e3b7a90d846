// Package adaptertest provides a scriptable leaf adapter and a recording
// observer for tests of wrappers and hosts.
package adaptertest

import (
	"fmt"
	"strings"

	"github.com/jask/stitchlist/internal/adapter"
)

// Leaf is an in-memory adapter over a slice of ids. View types come from
// ViewTypes when set, otherwise every item has view type 0.
type Leaf struct {
	adapter.Base

	Name      string
	IDs       []int64
	ViewTypes []int32
	// Calls records lifecycle hooks as "hook(viewType)" or "bind(pos)".
	Calls []string
	// Moves records MoveItem calls as [from, to].
	Moves [][2]int
	// Swaps records SwapItems calls as [a, b].
	Swaps [][2]int
	// Handler, when set, is returned from DragHandler.
	Handler adapter.DragHandler
	// FailRecycle is returned from FailedToRecycleView.
	FailRecycle bool
}

// NewLeaf creates a leaf with count items whose ids are base, base+1, ...
func NewLeaf(name string, base int64, count int) *Leaf {
	l := &Leaf{Name: name}
	for i := 0; i < count; i++ {
		l.IDs = append(l.IDs, base+int64(i))
	}
	l.SetHasStableIDs(true)
	return l
}

func (l *Leaf) ItemCount() int { return len(l.IDs) }

func (l *Leaf) ItemID(position int) (int64, error) {
	if position < 0 || position >= len(l.IDs) {
		return adapter.NoID, fmt.Errorf("%s: position %d of %d", l.Name, position, len(l.IDs))
	}
	return l.IDs[position], nil
}

func (l *Leaf) ItemViewType(position int) (int32, error) {
	if position < 0 || position >= len(l.IDs) {
		return 0, fmt.Errorf("%s: position %d of %d", l.Name, position, len(l.IDs))
	}
	if l.ViewTypes == nil {
		return 0, nil
	}
	return l.ViewTypes[position], nil
}

func (l *Leaf) CreateView(viewType int32) (*adapter.Holder, error) {
	l.Calls = append(l.Calls, fmt.Sprintf("create(%d)", viewType))
	return l.Base.CreateView(viewType)
}

func (l *Leaf) BindView(h *adapter.Holder, position int, _ []any) error {
	l.Calls = append(l.Calls, fmt.Sprintf("bind(%d)", position))
	h.Content = fmt.Sprintf("%s:%d", l.Name, l.IDs[position])
	return nil
}

func (l *Leaf) ViewAttached(_ *adapter.Holder, viewType int32) error {
	l.Calls = append(l.Calls, fmt.Sprintf("attached(%d)", viewType))
	return nil
}

func (l *Leaf) ViewDetached(_ *adapter.Holder, viewType int32) error {
	l.Calls = append(l.Calls, fmt.Sprintf("detached(%d)", viewType))
	return nil
}

func (l *Leaf) ViewRecycled(_ *adapter.Holder, viewType int32) error {
	l.Calls = append(l.Calls, fmt.Sprintf("recycled(%d)", viewType))
	return nil
}

func (l *Leaf) FailedToRecycleView(_ *adapter.Holder, viewType int32) (bool, error) {
	l.Calls = append(l.Calls, fmt.Sprintf("failed(%d)", viewType))
	return l.FailRecycle, nil
}

func (l *Leaf) DragHandler() adapter.DragHandler { return l.Handler }

// Insert adds ids at position and notifies one ranged insert.
func (l *Leaf) Insert(position int, ids ...int64) {
	tail := append([]int64(nil), l.IDs[position:]...)
	l.IDs = append(append(l.IDs[:position], ids...), tail...)
	l.NotifyRangeInserted(position, len(ids))
}

// Remove drops count ids at position and notifies one ranged remove.
func (l *Leaf) Remove(position, count int) {
	l.IDs = append(l.IDs[:position], l.IDs[position+count:]...)
	l.NotifyRangeRemoved(position, count)
}

// Move relocates one id and notifies a single move.
func (l *Leaf) Move(from, to int) {
	MoveInSlice(l.IDs, from, to)
	l.NotifyMoved(from, to)
}

// Swap exchanges two ids and notifies the moves that produce it.
func (l *Leaf) Swap(a, b int) {
	l.IDs[a], l.IDs[b] = l.IDs[b], l.IDs[a]
	l.NotifySwapped(a, b)
}

// MoveInSlice shifts s[from] to index to, sliding the items between.
func MoveInSlice[T any](s []T, from, to int) {
	if from == to {
		return
	}
	v := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = v
}

// Handler is a DragHandler backed by a Leaf. MoveItem applies the move to the
// leaf and emits exactly one moved notification.
type Handler struct {
	Leaf       *Leaf
	Start, End int
	Ranged     bool
	// Locked positions refuse to start a drag or accept a drop.
	Locked map[int]bool
}

func (h *Handler) CanStartDrag(position, _, _ int) bool { return !h.Locked[position] }

func (h *Handler) CanDrop(_, dropPosition int) bool { return !h.Locked[dropPosition] }

func (h *Handler) DraggableRange(int) (int, int, bool) {
	return h.Start, h.End, h.Ranged
}

func (h *Handler) MoveItem(from, to int) error {
	h.Leaf.Moves = append(h.Leaf.Moves, [2]int{from, to})
	h.Leaf.Move(from, to)
	return nil
}

func (h *Handler) SwapItems(a, b int) error {
	h.Leaf.Swaps = append(h.Leaf.Swaps, [2]int{a, b})
	h.Leaf.Swap(a, b)
	return nil
}

// NewDraggableLeaf returns a leaf whose drag handler moves its own ids.
func NewDraggableLeaf(name string, base int64, count int) *Leaf {
	l := NewLeaf(name, base, count)
	l.Handler = &Handler{Leaf: l}
	return l
}

// Recorder is an Observer that logs every event as a short string, for
// example "moved(2,4)" or "inserted(3,1)".
type Recorder struct {
	Events []string
}

func (r *Recorder) DataSetChanged() { r.Events = append(r.Events, "changed") }

func (r *Recorder) RangeChanged(start, count int, payload any) {
	if payload != nil {
		r.Events = append(r.Events, fmt.Sprintf("changed(%d,%d,%v)", start, count, payload))
		return
	}
	r.Events = append(r.Events, fmt.Sprintf("changed(%d,%d)", start, count))
}

func (r *Recorder) RangeInserted(start, count int) {
	r.Events = append(r.Events, fmt.Sprintf("inserted(%d,%d)", start, count))
}

func (r *Recorder) RangeRemoved(start, count int) {
	r.Events = append(r.Events, fmt.Sprintf("removed(%d,%d)", start, count))
}

func (r *Recorder) Moved(from, to int) {
	r.Events = append(r.Events, fmt.Sprintf("moved(%d,%d)", from, to))
}

// Reset forgets recorded events.
func (r *Recorder) Reset() { r.Events = nil }

func (r *Recorder) String() string { return strings.Join(r.Events, " ") }
