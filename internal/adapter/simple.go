package adapter

import "fmt"

// SimpleWrapper presents exactly one child unchanged. Wrappers that alter a
// few behaviours embed it and override the methods they care about; the
// subscriber passed to NewSimpleWrapper receives the child's notifications so
// the embedding type can intercept them.
type SimpleWrapper struct {
	Notifier
	child      Adapter
	bridge     *Bridge
	generation uint64
}

// NewSimpleWrapper wraps child. When sub is nil the wrapper subscribes itself
// and forwards child notifications as they are.
func NewSimpleWrapper(child Adapter, sub Subscriber) *SimpleWrapper {
	w := &SimpleWrapper{child: child}
	if sub == nil {
		sub = w
	}
	w.bridge = NewBridge(sub, child, nil, w.generation)
	child.RegisterObserver(w.bridge)
	return w
}

// Child returns the wrapped adapter, or nil after Release.
func (w *SimpleWrapper) Child() Adapter { return w.child }

func (w *SimpleWrapper) Generation() uint64 { return w.generation }

func (w *SimpleWrapper) released() error {
	if w.child == nil {
		return fmt.Errorf("wrapper released: %w", ErrIllegalState)
	}
	return nil
}

func (w *SimpleWrapper) ItemCount() int {
	if w.child == nil {
		return 0
	}
	return w.child.ItemCount()
}

func (w *SimpleWrapper) ItemID(position int) (int64, error) {
	if err := w.released(); err != nil {
		return NoID, err
	}
	return w.child.ItemID(position)
}

func (w *SimpleWrapper) ItemViewType(position int) (int32, error) {
	if err := w.released(); err != nil {
		return 0, err
	}
	return w.child.ItemViewType(position)
}

func (w *SimpleWrapper) HasStableIDs() bool {
	return w.child != nil && w.child.HasStableIDs()
}

func (w *SimpleWrapper) CreateView(viewType int32) (*Holder, error) {
	if err := w.released(); err != nil {
		return nil, err
	}
	return w.child.CreateView(viewType)
}

func (w *SimpleWrapper) BindView(h *Holder, position int, payloads []any) error {
	if err := w.released(); err != nil {
		return err
	}
	return w.child.BindView(h, position, payloads)
}

func (w *SimpleWrapper) ViewAttached(h *Holder, viewType int32) error {
	if err := w.released(); err != nil {
		return err
	}
	return w.child.ViewAttached(h, viewType)
}

func (w *SimpleWrapper) ViewDetached(h *Holder, viewType int32) error {
	if err := w.released(); err != nil {
		return err
	}
	return w.child.ViewDetached(h, viewType)
}

func (w *SimpleWrapper) ViewRecycled(h *Holder, viewType int32) error {
	if err := w.released(); err != nil {
		return err
	}
	return w.child.ViewRecycled(h, viewType)
}

func (w *SimpleWrapper) FailedToRecycleView(h *Holder, viewType int32) (bool, error) {
	if err := w.released(); err != nil {
		return false, err
	}
	return w.child.FailedToRecycleView(h, viewType)
}

func (w *SimpleWrapper) AttachedToHost() {
	if w.child != nil {
		w.child.AttachedToHost()
	}
}

func (w *SimpleWrapper) DetachedFromHost() {
	if w.child != nil {
		w.child.DetachedFromHost()
	}
}

func (w *SimpleWrapper) UnwrapPosition(position int) UnwrapResult {
	if w.child == nil || position < 0 || position >= w.child.ItemCount() {
		return UnwrapResult{Position: NoPosition}
	}
	return UnwrapResult{Adapter: w.child, Position: position}
}

func (w *SimpleWrapper) WrapPosition(seg PathSegment, position int) int {
	if w.child == nil || seg.Adapter != w.child {
		return NoPosition
	}
	return position
}

func (w *SimpleWrapper) WrappedAdapters() []Adapter {
	if w.child == nil {
		return nil
	}
	return []Adapter{w.child}
}

// Release unregisters from the child and drops it. Events the child still
// delivers through an old bridge are discarded.
func (w *SimpleWrapper) Release() {
	w.generation++
	if w.bridge != nil {
		w.bridge.Detach()
		w.bridge = nil
	}
	w.child = nil
}

func (w *SimpleWrapper) DragHandler() DragHandler {
	if w.child == nil {
		return nil
	}
	return w.child.DragHandler()
}

func (w *SimpleWrapper) BridgedDataSetChanged(Adapter, any) {
	w.NotifyDataSetChanged()
}

func (w *SimpleWrapper) BridgedRangeChanged(_ Adapter, _ any, start, count int, payload any) {
	w.NotifyRangeChanged(start, count, payload)
}

func (w *SimpleWrapper) BridgedRangeInserted(_ Adapter, _ any, start, count int) {
	w.NotifyRangeInserted(start, count)
}

func (w *SimpleWrapper) BridgedRangeRemoved(_ Adapter, _ any, start, count int) {
	w.NotifyRangeRemoved(start, count)
}

func (w *SimpleWrapper) BridgedMoved(_ Adapter, _ any, from, to int) {
	w.NotifyMoved(from, to)
}
