package adapter

import "github.com/jask/stitchlist/internal/codec"

// NoPosition is returned wherever a position does not apply.
const NoPosition = -1

// NoID aliases codec.NoID for adapters that do not declare stable ids.
const NoID = codec.NoID

// Holder is the host's handle for one rendered row. The host owns it; adapters
// only fill Content and Data during BindView.
type Holder struct {
	// ViewType is the view type the holder was created for, in the
	// coordinates of the adapter that created it.
	ViewType int32
	// Position is the host position of the last bind.
	Position int
	// Content is the rendered row.
	Content string
	// DragState carries flags maintained by a drag wrapper.
	DragState int
	// Data is private to the adapter that bound the holder.
	Data any
}

// Observer receives structural change notifications. Exactly one call is made
// per logical edit.
type Observer interface {
	DataSetChanged()
	RangeChanged(start, count int, payload any)
	RangeInserted(start, count int)
	RangeRemoved(start, count int)
	Moved(from, to int)
}

// DragHandler is the drag capability of an adapter. Positions are in the
// coordinates of the adapter that returned the handler.
type DragHandler interface {
	// CanStartDrag reports whether the item at position may be dragged when
	// grabbed at view-local (x, y).
	CanStartDrag(position, x, y int) bool
	// CanDrop reports whether the dragged item may take dropPosition.
	CanDrop(draggingPosition, dropPosition int) bool
	// DraggableRange limits where the item at position may travel.
	// ok=false means the whole list.
	DraggableRange(position int) (start, end int, ok bool)
	// MoveItem commits a move in the backing store: the item at from is
	// removed and reinserted at to.
	MoveItem(from, to int) error
	// SwapItems commits the exchange of the items at a and b, leaving every
	// other item in place.
	SwapItems(a, b int) error
}

// Adapter is a source of list items. Positions, ids and view types are always
// in the adapter's own coordinates; wrappers translate at their boundary.
type Adapter interface {
	ItemCount() int
	// ItemID returns the stable id at position, or NoID.
	ItemID(position int) (int64, error)
	ItemViewType(position int) (int32, error)
	HasStableIDs() bool

	CreateView(viewType int32) (*Holder, error)
	BindView(h *Holder, position int, payloads []any) error
	ViewAttached(h *Holder, viewType int32) error
	ViewDetached(h *Holder, viewType int32) error
	ViewRecycled(h *Holder, viewType int32) error
	FailedToRecycleView(h *Holder, viewType int32) (bool, error)
	AttachedToHost()
	DetachedFromHost()

	RegisterObserver(o Observer)
	UnregisterObserver(o Observer)
	HasObservers() bool

	// UnwrapPosition resolves position to the child that owns it. Leaves
	// return an invalid result.
	UnwrapPosition(position int) UnwrapResult
	// WrapPosition maps a child position back to this adapter's position,
	// or NoPosition when seg does not name a child of this adapter.
	WrapPosition(seg PathSegment, position int) int
	// WrappedAdapters lists each distinct child once.
	WrappedAdapters() []Adapter
	// Release detaches the adapter from its children.
	Release()

	// DragHandler answers the drag capability query, either directly or by
	// forwarding to a child. Nil means items cannot be dragged.
	DragHandler() DragHandler
}

// Base provides the optional parts of Adapter for leaf adapters: observer
// registration, no-op lifecycle hooks and the leaf side of the wrapper
// protocol. Embed it and implement ItemCount, ItemID, ItemViewType and
// BindView.
type Base struct {
	Notifier
	stableIDs bool
}

// SetHasStableIDs declares whether ItemID returns stable ids.
func (b *Base) SetHasStableIDs(v bool) { b.stableIDs = v }

func (b *Base) HasStableIDs() bool { return b.stableIDs }

func (b *Base) CreateView(viewType int32) (*Holder, error) {
	return &Holder{ViewType: viewType, Position: NoPosition}, nil
}

func (b *Base) ViewAttached(*Holder, int32) error { return nil }

func (b *Base) ViewDetached(*Holder, int32) error { return nil }

func (b *Base) ViewRecycled(*Holder, int32) error { return nil }

func (b *Base) FailedToRecycleView(*Holder, int32) (bool, error) { return false, nil }

func (b *Base) AttachedToHost() {}

func (b *Base) DetachedFromHost() {}

func (b *Base) UnwrapPosition(int) UnwrapResult { return UnwrapResult{Position: NoPosition} }

func (b *Base) WrapPosition(PathSegment, int) int { return NoPosition }

func (b *Base) WrappedAdapters() []Adapter { return nil }

func (b *Base) Release() {}

func (b *Base) DragHandler() DragHandler { return nil }
