package draggable

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
)

// PointerKind is the phase of a pointer gesture.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

// PointerEvent is one pointer sample in view-local coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y int
	Time time.Time
}

// Rect is an on-screen rectangle.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) MidY() int { return r.Y + r.H/2 }

// Layout is the host's vertical list layout, in root adapter positions.
type Layout interface {
	// PositionAt returns the position of the row under (x, y), or NoPosition.
	PositionAt(x, y int) int
	// Bounds returns the on-screen rectangle of the row at position. ok is
	// false when the row is not laid out.
	Bounds(position int) (r Rect, ok bool)
	// Viewport is the visible area.
	Viewport() Rect
	// ScrollBy scrolls the content by dy and returns how far it moved.
	ScrollBy(dy int) int
}

// Scheduler runs fn once after d on the host's event loop.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
}

// Listener observes drag sessions. Positions are Wrapper positions.
type Listener interface {
	DragStarted(position int)
	DragPositionChanged(from, to int)
	DragFinished(from, to int, success bool)
	MoveDistanceUpdated(dy int)
}

// State is the gesture state of an Engine.
type State int

const (
	Idle State = iota
	Armed
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	scrollUp = 1 << iota
	scrollDown
)

type options struct {
	mode           MoveMode
	touchSlop      int
	checkCanDrop   bool
	initiateOnMove bool
	scrollInterval time.Duration
	edgeBand       int
	scrollStep     int
	listener       Listener
	logger         *zap.Logger
}

// Option configures an Engine.
type Option func(*options)

func WithMoveMode(m MoveMode) Option { return func(o *options) { o.mode = m } }

// WithTouchSlop sets how far the pointer travels before a drag starts.
func WithTouchSlop(slop int) Option { return func(o *options) { o.touchSlop = slop } }

// WithCheckCanDrop asks the adapter before every swap.
func WithCheckCanDrop(v bool) Option { return func(o *options) { o.checkCanDrop = v } }

// WithInitiateOnMove starts drags once the slop is exceeded. When false a
// drag starts on pointer down.
func WithInitiateOnMove(v bool) Option { return func(o *options) { o.initiateOnMove = v } }

// WithAutoScroll sets the auto-scroll tick, the height of the edge bands that
// trigger it and the distance scrolled per tick.
func WithAutoScroll(interval time.Duration, edgeBand, step int) Option {
	return func(o *options) {
		o.scrollInterval = interval
		o.edgeBand = edgeBand
		o.scrollStep = step
	}
}

func WithListener(l Listener) Option { return func(o *options) { o.listener = l } }

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type nopListener struct{}

func (nopListener) DragStarted(int)              {}
func (nopListener) DragPositionChanged(int, int) {}
func (nopListener) DragFinished(int, int, bool)  {}
func (nopListener) MoveDistanceUpdated(int)      {}

// Engine drives drag sessions on a Wrapper from pointer input. root is the
// adapter the host displays; it is the Wrapper itself or an adapter wrapping
// it.
type Engine struct {
	root   adapter.Adapter
	w      *Wrapper
	layout Layout
	sched  Scheduler
	opts   options

	state State

	downX, downY int
	downID       int64
	lastX, lastY int

	path          adapter.Path
	rootRange     Range
	grabOffset    int
	itemHeight    int
	startY        int
	minY, maxY    int
	scrollDirs    int
	scrollTotal   int
	scroll        autoScroller
	lastMoveDelta int
}

func NewEngine(root adapter.Adapter, w *Wrapper, layout Layout, sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		root:   root,
		w:      w,
		layout: layout,
		sched:  sched,
		opts: options{
			mode:           Shift,
			touchSlop:      1,
			initiateOnMove: true,
			scrollInterval: 50 * time.Millisecond,
			edgeBand:       1,
			scrollStep:     1,
			listener:       nopListener{},
			logger:         zap.NewNop(),
		},
		downID: adapter.NoID,
	}
	for _, opt := range opts {
		opt(&e.opts)
	}
	e.scroll.e = e
	w.onFault = e.forceCancel
	return e
}

func (e *Engine) State() State { return e.state }

func (e *Engine) MoveMode() MoveMode { return e.opts.mode }

// SetMoveMode changes the mode for the next session.
func (e *Engine) SetMoveMode(m MoveMode) { e.opts.mode = m }

// RootRange is the draggable range of the session in root positions.
func (e *Engine) RootRange() (Range, bool) {
	if e.state != Dragging {
		return Range{}, false
	}
	return e.rootRange, true
}

// OverlayTop is the on-screen top of the dragged item's overlay.
func (e *Engine) OverlayTop() int { return e.lastY - e.grabOffset }

// HandlePointer feeds one pointer event. It reports whether the event was
// consumed by a drag.
func (e *Engine) HandlePointer(ev PointerEvent) (bool, error) {
	switch ev.Kind {
	case PointerDown:
		return e.down(ev)
	case PointerMove:
		switch e.state {
		case Armed:
			if e.opts.initiateOnMove {
				return e.tryStart(ev, true)
			}
		case Dragging:
			e.moveWhileDragging(ev.X, ev.Y)
			return true, nil
		}
		return false, nil
	case PointerUp, PointerCancel:
		handled := e.state == Dragging
		err := e.finish(ev.Kind == PointerUp)
		return handled, err
	}
	return false, nil
}

func (e *Engine) down(ev PointerEvent) (bool, error) {
	if e.state == Dragging {
		return true, nil
	}
	e.reset()

	pos := e.layout.PositionAt(ev.X, ev.Y)
	if pos == adapter.NoPosition || !e.canStartDrag(pos, ev.X, ev.Y) {
		return false, nil
	}
	id, err := e.root.ItemID(pos)
	if err != nil {
		return false, err
	}
	if id == adapter.NoID {
		return false, nil
	}

	e.state = Armed
	e.downX, e.downY = ev.X, ev.Y
	e.lastX, e.lastY = ev.X, ev.Y
	e.downID = id

	if !e.opts.initiateOnMove {
		return e.tryStart(ev, false)
	}
	return false, nil
}

// canStartDrag asks the wrapper with coordinates local to the row.
func (e *Engine) canStartDrag(pos, x, y int) bool {
	wrapped := adapter.UnwrapPosition(e.root, e.w, nil, pos, nil)
	if wrapped == adapter.NoPosition {
		return false
	}
	b, ok := e.layout.Bounds(pos)
	if !ok {
		return false
	}
	return e.w.CanStartDrag(wrapped, x-b.X, y-b.Y)
}

func (e *Engine) tryStart(ev PointerEvent, checkSlop bool) (bool, error) {
	e.lastX, e.lastY = ev.X, ev.Y
	if checkSlop && abs(ev.Y-e.downY) <= e.opts.touchSlop {
		return false, nil
	}

	pos := e.layout.PositionAt(e.downX, e.downY)
	if pos == adapter.NoPosition {
		e.reset()
		return false, nil
	}
	if id, err := e.root.ItemID(pos); err != nil || id != e.downID {
		e.reset()
		return false, err
	}
	if !e.canStartDrag(pos, ev.X, ev.Y) {
		e.reset()
		return false, nil
	}
	if err := e.start(pos); err != nil {
		return false, err
	}
	return true, nil
}

// Begin starts a drag on the item at root position without a pointer, as a
// keyboard reorder does. The virtual pointer rests on the row's middle.
func (e *Engine) Begin(position int) error {
	if e.state == Dragging {
		return fmt.Errorf("begin drag at %d: already dragging: %w", position, adapter.ErrIllegalState)
	}
	e.reset()
	b, ok := e.layout.Bounds(position)
	if !ok {
		return fmt.Errorf("begin drag at %d: row not laid out: %w", position, adapter.ErrIllegalState)
	}
	if !e.canStartDrag(position, b.X, b.H/2+b.Y) {
		return nil
	}
	e.downX, e.downY = b.X, b.MidY()
	e.lastX, e.lastY = e.downX, e.downY
	return e.start(position)
}

func (e *Engine) start(pos int) error {
	wrapped := adapter.UnwrapPosition(e.root, e.w, nil, pos, &e.path)
	if wrapped == adapter.NoPosition {
		e.reset()
		return fmt.Errorf("start drag at %d: wrapper not on route: %w", pos, adapter.ErrIllegalState)
	}
	rng, err := e.w.ItemRange(wrapped)
	if err != nil {
		e.reset()
		return err
	}
	b, ok := e.layout.Bounds(pos)
	if !ok {
		e.reset()
		return fmt.Errorf("start drag at %d: row not laid out: %w", pos, adapter.ErrIllegalState)
	}
	if err := e.w.Start(wrapped, rng, e.opts.mode); err != nil {
		e.reset()
		return err
	}

	e.rootRange = Range{
		Start: adapter.WrapPositionBetween(&e.path, e.w, e.root, rng.Start),
		End:   adapter.WrapPositionBetween(&e.path, e.w, e.root, rng.End),
	}
	e.grabOffset = e.lastY - b.Y
	e.itemHeight = b.H
	e.startY, e.minY, e.maxY = e.lastY, e.lastY, e.lastY
	e.scrollDirs = 0
	e.scrollTotal = 0
	e.state = Dragging
	e.scroll.start()

	e.opts.logger.Debug("drag session opened",
		zap.Int("root", pos), zap.Int("position", wrapped), zap.Stringer("range", rng))
	e.opts.listener.DragStarted(wrapped)
	e.opts.listener.MoveDistanceUpdated(0)
	return nil
}

func (e *Engine) moveWhileDragging(x, y int) {
	e.lastX, e.lastY = x, y
	e.minY = min(e.minY, y)
	e.maxY = max(e.maxY, y)
	e.updateScrollDirs()
	e.checkSwap()
	e.distanceUpdated()
}

// updateScrollDirs enables auto-scroll in a direction once the pointer has
// travelled that way by more than the slop.
func (e *Engine) updateScrollDirs() {
	slop := e.opts.touchSlop
	if e.startY-e.minY > slop || e.maxY-e.lastY > slop {
		e.scrollDirs |= scrollUp
	}
	if e.maxY-e.startY > slop || e.lastY-e.minY > slop {
		e.scrollDirs |= scrollDown
	}
}

func (e *Engine) distanceUpdated() {
	d := e.scrollTotal + e.lastY - e.startY
	if d != e.lastMoveDelta {
		e.lastMoveDelta = d
		e.opts.listener.MoveDistanceUpdated(d)
	}
}

func (e *Engine) rootPosition(wrapped int) int {
	return adapter.WrapPositionBetween(&e.path, e.w, e.root, wrapped)
}

// checkSwap moves the dragged item at most one slot: toward the neighbour
// the overlay is heading to, once the overlay's leading edge has crossed
// that neighbour's midpoint.
func (e *Engine) checkSwap() {
	if e.state != Dragging || !e.w.IsDragging() {
		return
	}
	cur := e.w.CurrentPosition()
	if id, err := e.w.ItemID(cur); err != nil || id != e.w.DraggingID() {
		return
	}
	rootCur := e.rootPosition(cur)
	if rootCur == adapter.NoPosition {
		return
	}
	slot, ok := e.layout.Bounds(rootCur)
	if !ok {
		return
	}

	top := e.OverlayTop()
	bottom := top + e.itemHeight
	var neighbor int
	switch {
	case top < slot.Y:
		neighbor = rootCur - 1
	case top > slot.Y:
		neighbor = rootCur + 1
	default:
		return
	}
	if neighbor < 0 || neighbor >= e.root.ItemCount() {
		return
	}
	nb, ok := e.layout.Bounds(neighbor)
	if !ok {
		return
	}
	if neighbor < rootCur && top >= nb.MidY() {
		return
	}
	if neighbor > rootCur && bottom <= nb.MidY() {
		return
	}

	target := adapter.UnwrapPosition(e.root, e.w, nil, neighbor, nil)
	if target == adapter.NoPosition || !e.w.s.rng.Contains(target) {
		return
	}
	if e.opts.checkCanDrop && !e.w.CanDrop(e.w.InitialPosition(), target) {
		return
	}
	e.step(cur, target)
}

func (e *Engine) step(from, to int) {
	e.opts.listener.DragPositionChanged(from, to)
	if err := e.w.Step(from, to); err != nil {
		e.opts.logger.Debug("drag step rejected", zap.Error(err))
		e.forceCancel("step rejected")
	}
}

// Nudge moves the dragged item one slot up (delta < 0) or down, as a
// keyboard reorder does.
func (e *Engine) Nudge(delta int) bool {
	if e.state != Dragging || delta == 0 {
		return false
	}
	cur := e.w.CurrentPosition()
	target := cur + 1
	if delta < 0 {
		target = cur - 1
	}
	if target < 0 || target >= e.w.ItemCount() || !e.w.s.rng.Contains(target) {
		return false
	}
	if e.opts.checkCanDrop && !e.w.CanDrop(e.w.InitialPosition(), target) {
		return false
	}
	e.step(cur, target)
	if e.state != Dragging {
		return false
	}
	if b, ok := e.layout.Bounds(e.rootPosition(target)); ok {
		e.lastY = b.Y + e.grabOffset
	}
	return true
}

// Drop ends the session and commits the move.
func (e *Engine) Drop() error { return e.finish(true) }

// Cancel ends the session without committing.
func (e *Engine) Cancel() error { return e.finish(false) }

func (e *Engine) forceCancel(reason string) {
	e.opts.logger.Debug("drag force-cancelled", zap.String("reason", reason))
	if e.state != Dragging {
		_ = e.w.Finish(false)
		return
	}
	_ = e.finish(false)
}

func (e *Engine) finish(success bool) error {
	if e.state != Dragging {
		e.reset()
		return nil
	}
	e.scroll.stop()
	from, to := e.w.InitialPosition(), e.w.CurrentPosition()
	e.state = Idle
	err := e.w.Finish(success)
	e.reset()
	e.opts.logger.Debug("drag session closed",
		zap.Int("from", from), zap.Int("to", to), zap.Bool("success", success))
	e.opts.listener.DragFinished(from, to, success && err == nil)
	return err
}

func (e *Engine) reset() {
	e.state = Idle
	e.downID = adapter.NoID
	e.downX, e.downY, e.lastX, e.lastY = 0, 0, 0, 0
	e.startY, e.minY, e.maxY = 0, 0, 0
	e.scrollDirs, e.scrollTotal, e.lastMoveDelta = 0, 0, 0
	e.grabOffset, e.itemHeight = 0, 0
	e.path.Clear()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
