package adapter

// Subscriber receives the notifications of its children through Bridges.
// Generation changes whenever the subscriber drops its children, which turns
// every bridge created before the change into a no-op.
type Subscriber interface {
	Generation() uint64
	BridgedDataSetChanged(source Adapter, tag any)
	BridgedRangeChanged(source Adapter, tag any, start, count int, payload any)
	BridgedRangeInserted(source Adapter, tag any, start, count int)
	BridgedRangeRemoved(source Adapter, tag any, start, count int)
	BridgedMoved(source Adapter, tag any, from, to int)
}

// Bridge is the Observer a wrapper registers on one child. It stamps each
// event with the child and its tag and forwards it while the subscriber is
// still on the generation the bridge was created for.
type Bridge struct {
	subscriber Subscriber
	source     Adapter
	tag        any
	generation uint64
	dropped    int
}

// NewBridge ties source to sub for the subscriber generation gen.
func NewBridge(sub Subscriber, source Adapter, tag any, gen uint64) *Bridge {
	return &Bridge{
		subscriber: sub,
		source:     source,
		tag:        tag,
		generation: gen,
	}
}

func (b *Bridge) Source() Adapter { return b.source }

func (b *Bridge) Tag() any { return b.tag }

// Dropped counts events discarded because the bridge was stale.
func (b *Bridge) Dropped() int { return b.dropped }

func (b *Bridge) live() bool {
	if b.subscriber == nil || b.subscriber.Generation() != b.generation {
		b.dropped++
		return false
	}
	return true
}

func (b *Bridge) DataSetChanged() {
	if b.live() {
		b.subscriber.BridgedDataSetChanged(b.source, b.tag)
	}
}

func (b *Bridge) RangeChanged(start, count int, payload any) {
	if b.live() {
		b.subscriber.BridgedRangeChanged(b.source, b.tag, start, count, payload)
	}
}

func (b *Bridge) RangeInserted(start, count int) {
	if b.live() {
		b.subscriber.BridgedRangeInserted(b.source, b.tag, start, count)
	}
}

func (b *Bridge) RangeRemoved(start, count int) {
	if b.live() {
		b.subscriber.BridgedRangeRemoved(b.source, b.tag, start, count)
	}
}

func (b *Bridge) Moved(from, to int) {
	if b.live() {
		b.subscriber.BridgedMoved(b.source, b.tag, from, to)
	}
}

// Detach unregisters the bridge from its child and cuts it off from the
// subscriber.
func (b *Bridge) Detach() {
	if b.source != nil {
		b.source.UnregisterObserver(b)
	}
	b.subscriber = nil
}
