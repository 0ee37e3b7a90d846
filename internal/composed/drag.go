package composed

import (
	"fmt"

	"github.com/jask/stitchlist/internal/adapter"
)

// DragHandler routes drag queries to the child owning the position. Items of
// a child without a handler cannot be dragged, and an item never leaves its
// child.
func (c *ComposedAdapter) DragHandler() adapter.DragHandler {
	for _, a := range c.children.adapters {
		if a.DragHandler() != nil {
			return composedDrag{c}
		}
	}
	return nil
}

type composedDrag struct {
	c *ComposedAdapter
}

func (d composedDrag) handler(position int) (SegmentedPosition, adapter.DragHandler) {
	sp := d.c.positions.SegmentedPosition(position)
	if sp == NoSegmentedPosition {
		return sp, nil
	}
	return sp, d.c.children.adapters[sp.Segment].DragHandler()
}

func (d composedDrag) CanStartDrag(position, x, y int) bool {
	sp, h := d.handler(position)
	return h != nil && h.CanStartDrag(sp.Offset, x, y)
}

func (d composedDrag) CanDrop(draggingPosition, dropPosition int) bool {
	from, h := d.handler(draggingPosition)
	to := d.c.positions.SegmentedPosition(dropPosition)
	if h == nil || to.Segment != from.Segment {
		return false
	}
	return h.CanDrop(from.Offset, to.Offset)
}

// DraggableRange is the child's own range in flat positions, or the whole
// child when it does not narrow it.
func (d composedDrag) DraggableRange(position int) (int, int, bool) {
	sp, h := d.handler(position)
	if h == nil {
		return 0, 0, false
	}
	start, end, ok := h.DraggableRange(sp.Offset)
	if !ok {
		start, end = 0, d.c.positions.SegmentItemCount(sp.Segment)-1
	}
	return d.c.positions.FlatPosition(sp.Segment, start), d.c.positions.FlatPosition(sp.Segment, end), true
}

// local resolves both flat positions to one child's handler and offsets.
func (d composedDrag) local(from, to int) (adapter.DragHandler, int, int, error) {
	src, h := d.handler(from)
	if h == nil {
		return nil, 0, 0, fmt.Errorf("drag from %d: no drag handler: %w", from, adapter.ErrIllegalState)
	}
	dst := d.c.positions.SegmentedPosition(to)
	if dst.Segment != src.Segment {
		return nil, 0, 0, fmt.Errorf("drag %d -> %d crosses children: %w", from, to, adapter.ErrIllegalState)
	}
	return h, src.Offset, dst.Offset, nil
}

func (d composedDrag) MoveItem(from, to int) error {
	h, a, b, err := d.local(from, to)
	if err != nil {
		return err
	}
	return h.MoveItem(a, b)
}

func (d composedDrag) SwapItems(a, b int) error {
	h, la, lb, err := d.local(a, b)
	if err != nil {
		return err
	}
	return h.SwapItems(la, lb)
}
