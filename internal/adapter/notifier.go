package adapter

// Notifier keeps the observers of one adapter and fans notifications out to
// them. Dispatch iterates a snapshot so observers may unregister while being
// notified.
type Notifier struct {
	observers []Observer
}

func (n *Notifier) RegisterObserver(o Observer) {
	for _, existing := range n.observers {
		if existing == o {
			return
		}
	}
	n.observers = append(n.observers, o)
}

func (n *Notifier) UnregisterObserver(o Observer) {
	for i, existing := range n.observers {
		if existing == o {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

func (n *Notifier) HasObservers() bool { return len(n.observers) > 0 }

func (n *Notifier) snapshot() []Observer {
	return append([]Observer(nil), n.observers...)
}

func (n *Notifier) NotifyDataSetChanged() {
	for _, o := range n.snapshot() {
		o.DataSetChanged()
	}
}

func (n *Notifier) NotifyItemChanged(position int) {
	n.NotifyRangeChanged(position, 1, nil)
}

func (n *Notifier) NotifyRangeChanged(start, count int, payload any) {
	for _, o := range n.snapshot() {
		o.RangeChanged(start, count, payload)
	}
}

func (n *Notifier) NotifyItemInserted(position int) {
	n.NotifyRangeInserted(position, 1)
}

func (n *Notifier) NotifyRangeInserted(start, count int) {
	for _, o := range n.snapshot() {
		o.RangeInserted(start, count)
	}
}

func (n *Notifier) NotifyItemRemoved(position int) {
	n.NotifyRangeRemoved(position, 1)
}

func (n *Notifier) NotifyRangeRemoved(start, count int) {
	for _, o := range n.snapshot() {
		o.RangeRemoved(start, count)
	}
}

func (n *Notifier) NotifyMoved(from, to int) {
	for _, o := range n.snapshot() {
		o.Moved(from, to)
	}
}

// NotifySwapped reports the transposition of a and b as the moves that
// produce it: the lower item to the higher slot, then the displaced item back
// down. Adjacent items need a single move.
func (n *Notifier) NotifySwapped(a, b int) {
	if a == b {
		return
	}
	lo, hi := min(a, b), max(a, b)
	n.NotifyMoved(lo, hi)
	if hi-lo > 1 {
		n.NotifyMoved(hi-1, lo)
	}
}
