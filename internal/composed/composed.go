package composed

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/codec"
)

// Option configures a ComposedAdapter.
type Option func(*ComposedAdapter)

// WithLogger sets the diagnostics sink.
func WithLogger(l *zap.Logger) Option {
	return func(c *ComposedAdapter) {
		if l != nil {
			c.logger = l
		}
	}
}

// ComposedAdapter lays its children out end to end. It declares stable ids by
// default.
type ComposedAdapter struct {
	adapter.Notifier

	children   *childSet
	positions  *Translator
	viewTypes  *ViewTypeAllocator
	stableIDs  bool
	generation uint64
	logger     *zap.Logger
	// broken holds the first notification that came from a non-member.
	broken error
}

func New(opts ...Option) *ComposedAdapter {
	c := &ComposedAdapter{
		children:  newChildSet(),
		viewTypes: NewViewTypeAllocator(),
		stableIDs: true,
		logger:    zap.NewNop(),
	}
	c.positions = NewTranslator(c.children)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChildCount returns the number of memberships.
func (c *ComposedAdapter) ChildCount() int { return c.children.SegmentCount() }

// Child returns the adapter at segment.
func (c *ComposedAdapter) Child(segment int) adapter.Adapter {
	if segment < 0 || segment >= c.children.SegmentCount() {
		return nil
	}
	return c.children.adapters[segment]
}

// Segment returns the segment of tag, or -1 when tag is not a member.
func (c *ComposedAdapter) Segment(tag *ChildTag) int { return c.children.segment(tag) }

// SegmentedPosition resolves a flat position.
func (c *ComposedAdapter) SegmentedPosition(flat int) SegmentedPosition {
	return c.positions.SegmentedPosition(flat)
}

// FlatPosition maps an offset inside the child at segment to a flat position.
func (c *ComposedAdapter) FlatPosition(segment, offset int) int {
	return c.positions.FlatPosition(segment, offset)
}

// AppendChild adds a at the end.
func (c *ComposedAdapter) AppendChild(a adapter.Adapter) (*ChildTag, error) {
	return c.AddChild(a, c.ChildCount())
}

// AddChild inserts a at segment index at. Once the composition is observed
// and declares stable ids, children without stable ids are refused.
func (c *ComposedAdapter) AddChild(a adapter.Adapter, at int) (*ChildTag, error) {
	if at < 0 || at > c.ChildCount() {
		return nil, fmt.Errorf("add child at %d of %d: %w", at, c.ChildCount(), adapter.ErrIllegalState)
	}
	if c.HasObservers() && c.stableIDs && !a.HasStableIDs() {
		return nil, fmt.Errorf("add child without stable ids: %w", adapter.ErrIllegalState)
	}

	tag := c.children.insert(a, at)
	if _, ok := c.children.bridges[a]; !ok {
		b := adapter.NewBridge(c, a, nil, c.generation)
		c.children.bridges[a] = b
		a.RegisterObserver(b)
	}

	c.positions.InvalidateAll()
	c.logger.Debug("child added", zap.Int("segment", at), zap.Int("children", c.ChildCount()))
	c.NotifyDataSetChanged()
	return tag, nil
}

// RemoveChild drops the membership named by tag. It reports false for tags
// this adapter does not know.
func (c *ComposedAdapter) RemoveChild(tag *ChildTag) bool {
	segment := c.children.segment(tag)
	if segment < 0 {
		return false
	}

	a, last := c.children.remove(segment)
	if last {
		if b, ok := c.children.bridges[a]; ok {
			b.Detach()
			delete(c.children.bridges, a)
		}
	}

	c.positions.InvalidateAll()
	c.logger.Debug("child removed", zap.Int("segment", segment), zap.Int("children", c.ChildCount()))
	c.NotifyDataSetChanged()
	return true
}

// SetHasStableIDs switches the stable id declaration. Turning it on fails
// when any child lacks stable ids.
func (c *ComposedAdapter) SetHasStableIDs(v bool) error {
	if v && !c.stableIDs {
		for i, a := range c.children.adapters {
			if !a.HasStableIDs() {
				return fmt.Errorf("child %d has no stable ids: %w", i, adapter.ErrIllegalState)
			}
		}
	}
	c.stableIDs = v
	return nil
}

func (c *ComposedAdapter) HasStableIDs() bool { return c.stableIDs }

func (c *ComposedAdapter) ItemCount() int { return c.positions.TotalItemCount() }

// Err returns the ErrIllegalState recorded when a child that is not a member
// notified the composition. Once set, every data call fails with it.
func (c *ComposedAdapter) Err() error { return c.broken }

func (c *ComposedAdapter) resolve(position int) (SegmentedPosition, adapter.Adapter, error) {
	if c.broken != nil {
		return NoSegmentedPosition, nil, c.broken
	}
	sp := c.positions.SegmentedPosition(position)
	if sp == NoSegmentedPosition {
		return sp, nil, fmt.Errorf("position %d of %d: %w", position, c.ItemCount(), codec.ErrOutOfRange)
	}
	return sp, c.children.adapters[sp.Segment], nil
}

// ItemID returns the child's id tagged with the view-type segment allocated
// for the item. A child reporting NoID yields the NoID sentinel itself, not a
// segment-tagged id.
func (c *ComposedAdapter) ItemID(position int) (int64, error) {
	sp, child, err := c.resolve(position)
	if err != nil {
		return adapter.NoID, err
	}
	raw, err := child.ItemViewType(sp.Offset)
	if err != nil {
		return adapter.NoID, err
	}
	id, err := child.ItemID(sp.Offset)
	if err != nil || id == adapter.NoID {
		return adapter.NoID, err
	}
	vt, err := c.viewTypes.Wrap(sp.Segment, raw)
	if err != nil {
		return adapter.NoID, err
	}
	return codec.ComposeIDSegment(codec.ViewTypeSegment(vt), id)
}

func (c *ComposedAdapter) ItemViewType(position int) (int32, error) {
	sp, child, err := c.resolve(position)
	if err != nil {
		return 0, err
	}
	raw, err := child.ItemViewType(sp.Offset)
	if err != nil {
		return 0, err
	}
	return c.viewTypes.Wrap(sp.Segment, raw)
}

func (c *ComposedAdapter) childFor(viewType int32) (adapter.Adapter, int32, error) {
	segment, raw, err := c.viewTypes.Unwrap(viewType)
	if err != nil {
		return nil, 0, err
	}
	child := c.Child(segment)
	if child == nil {
		return nil, 0, fmt.Errorf("view type %#x names segment %d of %d: %w",
			uint32(viewType), segment, c.ChildCount(), adapter.ErrIllegalState)
	}
	return child, raw, nil
}

func (c *ComposedAdapter) CreateView(viewType int32) (*adapter.Holder, error) {
	if c.broken != nil {
		return nil, c.broken
	}
	child, raw, err := c.childFor(viewType)
	if err != nil {
		return nil, err
	}
	h, err := child.CreateView(raw)
	if err != nil {
		return nil, err
	}
	h.ViewType = viewType
	return h, nil
}

func (c *ComposedAdapter) BindView(h *adapter.Holder, position int, payloads []any) error {
	sp, child, err := c.resolve(position)
	if err != nil {
		return err
	}
	return child.BindView(h, sp.Offset, payloads)
}

func (c *ComposedAdapter) ViewAttached(h *adapter.Holder, viewType int32) error {
	child, raw, err := c.childFor(viewType)
	if err != nil {
		return err
	}
	return child.ViewAttached(h, raw)
}

func (c *ComposedAdapter) ViewDetached(h *adapter.Holder, viewType int32) error {
	child, raw, err := c.childFor(viewType)
	if err != nil {
		return err
	}
	return child.ViewDetached(h, raw)
}

func (c *ComposedAdapter) ViewRecycled(h *adapter.Holder, viewType int32) error {
	child, raw, err := c.childFor(viewType)
	if err != nil {
		return err
	}
	return child.ViewRecycled(h, raw)
}

func (c *ComposedAdapter) FailedToRecycleView(h *adapter.Holder, viewType int32) (bool, error) {
	child, raw, err := c.childFor(viewType)
	if err != nil {
		return false, err
	}
	return child.FailedToRecycleView(h, raw)
}

func (c *ComposedAdapter) AttachedToHost() {
	for _, a := range c.children.unique() {
		a.AttachedToHost()
	}
}

func (c *ComposedAdapter) DetachedFromHost() {
	for _, a := range c.children.unique() {
		a.DetachedFromHost()
	}
}

func (c *ComposedAdapter) UnwrapPosition(position int) adapter.UnwrapResult {
	sp := c.positions.SegmentedPosition(position)
	if sp == NoSegmentedPosition {
		return adapter.UnwrapResult{Position: adapter.NoPosition}
	}
	return adapter.UnwrapResult{
		Adapter:  c.children.adapters[sp.Segment],
		Tag:      c.children.tags[sp.Segment],
		Position: sp.Offset,
	}
}

func (c *ComposedAdapter) WrapPosition(seg adapter.PathSegment, position int) int {
	tag, ok := seg.Tag.(*ChildTag)
	if !ok {
		return adapter.NoPosition
	}
	segment := c.children.segment(tag)
	if segment < 0 || (seg.Adapter != nil && seg.Adapter != c.children.adapters[segment]) {
		return adapter.NoPosition
	}
	if position < 0 || position >= c.positions.SegmentItemCount(segment) {
		return adapter.NoPosition
	}
	return c.positions.FlatPosition(segment, position)
}

func (c *ComposedAdapter) WrappedAdapters() []adapter.Adapter { return c.children.unique() }

// Release detaches every child. Events still delivered by an old bridge are
// dropped.
func (c *ComposedAdapter) Release() {
	c.generation++
	c.children.release()
	c.positions.InvalidateAll()
	c.logger.Debug("composition released", zap.Uint64("generation", c.generation))
}

func (c *ComposedAdapter) Generation() uint64 { return c.generation }

// tagged returns the segments the notifying child occupies. A child that is
// not a member means the composition graph is broken: the error is recorded
// for Err and the data calls, and observers get a data-set-changed so the
// host re-reads and meets it.
func (c *ComposedAdapter) tagged(source adapter.Adapter, event string) []int {
	segs := c.children.segmentsOf(source)
	if len(segs) == 0 && c.broken == nil {
		c.broken = fmt.Errorf("%s notification from a child that is not a member: %w", event, adapter.ErrIllegalState)
		c.logger.Debug("event from unknown child", zap.String("event", event), zap.Error(c.broken))
	}
	return segs
}

func (c *ComposedAdapter) BridgedDataSetChanged(adapter.Adapter, any) {
	c.positions.InvalidateAll()
	c.logger.Debug("child data set changed")
	c.NotifyDataSetChanged()
}

// BridgedRangeChanged leaves the translator alone: a change never alters a
// child's item count.
func (c *ComposedAdapter) BridgedRangeChanged(source adapter.Adapter, _ any, start, count int, payload any) {
	segs := c.tagged(source, "changed")
	if len(segs) == 0 {
		c.BridgedDataSetChanged(source, nil)
		return
	}
	for _, s := range segs {
		c.NotifyRangeChanged(c.positions.FlatPosition(s, start), count, payload)
	}
}

func (c *ComposedAdapter) BridgedRangeInserted(source adapter.Adapter, _ any, start, count int) {
	if count <= 0 {
		return
	}
	segs := c.tagged(source, "inserted")
	if len(segs) != 1 {
		c.invalidateAndReset(segs)
		return
	}
	c.positions.InvalidateSegment(segs[0])
	c.NotifyRangeInserted(c.positions.FlatPosition(segs[0], start), count)
}

func (c *ComposedAdapter) BridgedRangeRemoved(source adapter.Adapter, _ any, start, count int) {
	if count <= 0 {
		return
	}
	segs := c.tagged(source, "removed")
	if len(segs) != 1 {
		c.invalidateAndReset(segs)
		return
	}
	c.positions.InvalidateSegment(segs[0])
	c.NotifyRangeRemoved(c.positions.FlatPosition(segs[0], start), count)
}

func (c *ComposedAdapter) BridgedMoved(source adapter.Adapter, _ any, from, to int) {
	segs := c.tagged(source, "moved")
	if len(segs) != 1 {
		c.invalidateAndReset(segs)
		return
	}
	c.NotifyMoved(c.positions.FlatPosition(segs[0], from), c.positions.FlatPosition(segs[0], to))
}

func (c *ComposedAdapter) invalidateAndReset(segs []int) {
	if len(segs) == 0 {
		c.positions.InvalidateAll()
	}
	for _, s := range segs {
		c.positions.InvalidateSegment(s)
	}
	c.NotifyDataSetChanged()
}
