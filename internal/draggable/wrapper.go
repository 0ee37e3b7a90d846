package draggable

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
)

// Holder drag state flags, stored in adapter.Holder.DragState.
const (
	// StateDragging is set on every holder while a drag is in progress.
	StateDragging = 1 << iota
	// StateActive marks the holder showing the dragged item.
	StateActive
	// StateInRange marks holders inside the dragged item's range.
	StateInRange
	// StateUpdated is set when the other flags changed in the last bind.
	StateUpdated
)

const stateUnset = -1

type session struct {
	initial int
	current int
	mode    MoveMode
	id      int64
	rng     Range
	holder  *adapter.Holder
}

// Wrapper presents its child through the virtual permutation of the current
// drag session. Outside a drag it is a pass-through.
type Wrapper struct {
	*adapter.SimpleWrapper

	s          *session
	committing bool
	onFault    func(reason string)
	logger     *zap.Logger
}

// WrapperOption configures a Wrapper.
type WrapperOption func(*Wrapper)

// WithWrapperLogger sets the diagnostics sink.
func WithWrapperLogger(l *zap.Logger) WrapperOption {
	return func(w *Wrapper) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWrapper wraps child, which must answer the drag capability query.
func NewWrapper(child adapter.Adapter, opts ...WrapperOption) (*Wrapper, error) {
	if child.DragHandler() == nil {
		return nil, fmt.Errorf("wrap adapter without drag handler: %w", adapter.ErrIllegalState)
	}
	w := &Wrapper{logger: zap.NewNop()}
	w.SimpleWrapper = adapter.NewSimpleWrapper(child, w)
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Wrapper) handler() adapter.DragHandler {
	if w.Child() == nil {
		return nil
	}
	return w.Child().DragHandler()
}

// IsDragging reports whether a session is active.
func (w *Wrapper) IsDragging() bool { return w.s != nil }

// InitialPosition is where the dragged item started, or NoPosition.
func (w *Wrapper) InitialPosition() int {
	if w.s == nil {
		return adapter.NoPosition
	}
	return w.s.initial
}

// CurrentPosition is where the dragged item is shown, or NoPosition.
func (w *Wrapper) CurrentPosition() int {
	if w.s == nil {
		return adapter.NoPosition
	}
	return w.s.current
}

// DraggingID is the id of the dragged item, or NoID.
func (w *Wrapper) DraggingID() int64 {
	if w.s == nil {
		return adapter.NoID
	}
	return w.s.id
}

// DraggableRange is the range of the active session.
func (w *Wrapper) DraggableRange() (Range, bool) {
	if w.s == nil {
		return Range{}, false
	}
	return w.s.rng, true
}

func (w *Wrapper) original(position int) int {
	if w.s == nil {
		return position
	}
	return ConvertToOriginalPosition(position, w.s.initial, w.s.current, w.s.mode)
}

func (w *Wrapper) visual(position int) int {
	if w.s == nil {
		return position
	}
	return ConvertToVisualPosition(position, w.s.initial, w.s.current, w.s.mode)
}

// CanStartDrag asks the child whether the item at position may be dragged.
func (w *Wrapper) CanStartDrag(position, x, y int) bool {
	h := w.handler()
	return h != nil && h.CanStartDrag(position, x, y)
}

// CanDrop asks the child whether the dragged item may land on dropPosition.
func (w *Wrapper) CanDrop(draggingPosition, dropPosition int) bool {
	h := w.handler()
	return h != nil && h.CanDrop(draggingPosition, dropPosition)
}

// ItemRange returns the child's range for position, defaulting to the whole
// list, validated against the item count.
func (w *Wrapper) ItemRange(position int) (Range, error) {
	count := w.ItemCount()
	r := WholeRange(count)
	if h := w.handler(); h != nil {
		if start, end, ok := h.DraggableRange(position); ok {
			var err error
			if r, err = NewRange(start, end); err != nil {
				return Range{}, err
			}
		}
	}
	if r.Start < 0 || r.End > max(0, count-1) {
		return Range{}, fmt.Errorf("draggable range %v outside %d items: %w", r, count, adapter.ErrIllegalState)
	}
	if !r.Contains(position) {
		return Range{}, fmt.Errorf("draggable range %v excludes position %d: %w", r, position, adapter.ErrIllegalState)
	}
	return r, nil
}

// Start opens a session for the item at position.
func (w *Wrapper) Start(position int, rng Range, mode MoveMode) error {
	if w.s != nil {
		return fmt.Errorf("start drag at %d: already dragging: %w", position, adapter.ErrIllegalState)
	}
	id, err := w.Child().ItemID(position)
	if err != nil {
		return err
	}
	if id == adapter.NoID {
		return fmt.Errorf("start drag at %d: item has no id: %w", position, adapter.ErrIllegalState)
	}
	w.s = &session{initial: position, current: position, mode: mode, id: id, rng: rng}
	w.logger.Debug("drag started", zap.Int("position", position), zap.Int64("id", id), zap.Stringer("mode", mode))
	w.NotifyDataSetChanged()
	return nil
}

// Step moves the dragged item from slot from to slot to. The item shown at
// from must be the dragged one.
func (w *Wrapper) Step(from, to int) error {
	if w.s == nil {
		return fmt.Errorf("step %d -> %d: not dragging: %w", from, to, adapter.ErrIllegalState)
	}
	if orig := w.original(from); orig != w.s.initial {
		return fmt.Errorf("step %d -> %d: slot shows %d, dragging %d: %w", from, to, orig, w.s.initial, adapter.ErrIllegalState)
	}
	if w.s.mode == Swap && from != to && (to-from != 1 && from-to != 1) {
		return fmt.Errorf("swap %d -> %d: not adjacent: %w", from, to, adapter.ErrIllegalState)
	}
	if from == to {
		return nil
	}

	w.s.current = to
	if w.s.mode == Shift {
		w.NotifyMoved(from, to)
	} else {
		w.NotifyDataSetChanged()
	}
	return nil
}

// Finish closes the session. On success, a changed position is committed to
// the child with a single MoveItem call.
func (w *Wrapper) Finish(success bool) error {
	if w.s == nil {
		return nil
	}
	s := w.s

	var err error
	if success && s.current != s.initial {
		w.committing = true
		if h := w.handler(); h != nil {
			if s.mode == Swap {
				err = h.SwapItems(s.initial, s.current)
			} else {
				err = h.MoveItem(s.initial, s.current)
			}
		}
		w.committing = false
	}

	w.s = nil
	w.logger.Debug("drag finished",
		zap.Int("from", s.initial), zap.Int("to", s.current), zap.Bool("success", success), zap.Error(err))
	w.NotifyDataSetChanged()
	return err
}

// fault cancels the session because its assumptions no longer hold.
func (w *Wrapper) fault(reason string) {
	if w.s == nil {
		return
	}
	w.logger.Debug("drag cancelled", zap.String("reason", reason))
	if w.onFault != nil {
		w.onFault(reason)
		return
	}
	_ = w.Finish(false)
}

func (w *Wrapper) ItemID(position int) (int64, error) {
	return w.SimpleWrapper.ItemID(w.original(position))
}

func (w *Wrapper) ItemViewType(position int) (int32, error) {
	return w.SimpleWrapper.ItemViewType(w.original(position))
}

func (w *Wrapper) CreateView(viewType int32) (*adapter.Holder, error) {
	h, err := w.SimpleWrapper.CreateView(viewType)
	if err != nil {
		return nil, err
	}
	h.DragState = stateUnset
	return h, nil
}

func (w *Wrapper) BindView(h *adapter.Holder, position int, payloads []any) error {
	if w.s == nil {
		updateFlags(h, 0)
		return w.SimpleWrapper.BindView(h, position, payloads)
	}

	orig := w.original(position)
	flags := StateDragging
	if orig == w.s.initial {
		flags |= StateActive
		w.s.holder = h
	}
	if w.s.rng.Contains(position) {
		flags |= StateInRange
	}
	updateFlags(h, flags)
	return w.SimpleWrapper.BindView(h, orig, payloads)
}

func updateFlags(h *adapter.Holder, flags int) {
	if h.DragState == stateUnset || (h.DragState^flags)&^StateUpdated != 0 {
		flags |= StateUpdated
	}
	h.DragState = flags
}

func (w *Wrapper) ViewRecycled(h *adapter.Holder, viewType int32) error {
	if w.s != nil && h == w.s.holder {
		w.fault("dragging view recycled")
	}
	return w.SimpleWrapper.ViewRecycled(h, viewType)
}

func (w *Wrapper) ViewDetached(h *adapter.Holder, viewType int32) error {
	if w.s != nil && h == w.s.holder {
		w.fault("dragging view detached")
	}
	return w.SimpleWrapper.ViewDetached(h, viewType)
}

func (w *Wrapper) DetachedFromHost() {
	w.fault("detached from host")
	w.SimpleWrapper.DetachedFromHost()
}

func (w *Wrapper) UnwrapPosition(position int) adapter.UnwrapResult {
	if position < 0 || position >= w.ItemCount() {
		return adapter.UnwrapResult{Position: adapter.NoPosition}
	}
	return adapter.UnwrapResult{Adapter: w.Child(), Position: w.original(position)}
}

func (w *Wrapper) WrapPosition(seg adapter.PathSegment, position int) int {
	if seg.Adapter == nil || seg.Adapter != w.Child() || position < 0 || position >= w.ItemCount() {
		return adapter.NoPosition
	}
	return w.visual(position)
}

// Release drops the session without committing and detaches the child.
func (w *Wrapper) Release() {
	w.s = nil
	w.onFault = nil
	w.SimpleWrapper.Release()
}

// intercept reports whether a child notification must not reach the host. A
// notification during the commit is the commit itself; any other while
// dragging cancels the session, whose reset replaces the notification.
func (w *Wrapper) intercept(event string) bool {
	if w.committing {
		return true
	}
	if w.s == nil {
		return false
	}
	w.fault("child " + event + " while dragging")
	return true
}

func (w *Wrapper) BridgedDataSetChanged(source adapter.Adapter, tag any) {
	if !w.intercept("changed") {
		w.SimpleWrapper.BridgedDataSetChanged(source, tag)
	}
}

func (w *Wrapper) BridgedRangeChanged(source adapter.Adapter, tag any, start, count int, payload any) {
	if !w.intercept("range changed") {
		w.SimpleWrapper.BridgedRangeChanged(source, tag, start, count, payload)
	}
}

func (w *Wrapper) BridgedRangeInserted(source adapter.Adapter, tag any, start, count int) {
	if !w.intercept("inserted") {
		w.SimpleWrapper.BridgedRangeInserted(source, tag, start, count)
	}
}

func (w *Wrapper) BridgedRangeRemoved(source adapter.Adapter, tag any, start, count int) {
	if !w.intercept("removed") {
		w.SimpleWrapper.BridgedRangeRemoved(source, tag, start, count)
	}
}

func (w *Wrapper) BridgedMoved(source adapter.Adapter, tag any, from, to int) {
	if !w.intercept("moved") {
		w.SimpleWrapper.BridgedMoved(source, tag, from, to)
	}
}
