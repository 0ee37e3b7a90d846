// Package filter hides the items of a child adapter whose label does not
// match a query.
package filter

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
)

// LabelFunc returns the searchable text of the child item at position.
type LabelFunc func(position int) string

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithMaxDistance also matches words within n edits of the query.
func WithMaxDistance(n int) Option { return func(w *Wrapper) { w.maxDistance = max(0, n) } }

func WithLogger(l *zap.Logger) Option {
	return func(w *Wrapper) {
		if l != nil {
			w.logger = l
		}
	}
}

// Wrapper shows the child items matching its query, in child order. With an
// empty query it is a pass-through.
type Wrapper struct {
	*adapter.SimpleWrapper

	label       LabelFunc
	query       string
	maxDistance int
	// index maps visible positions to child positions, ascending. nil when
	// no query is set.
	index  []int
	logger *zap.Logger
}

func New(child adapter.Adapter, label LabelFunc, opts ...Option) *Wrapper {
	w := &Wrapper{label: label, logger: zap.NewNop()}
	w.SimpleWrapper = adapter.NewSimpleWrapper(child, w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wrapper) Query() string { return w.query }

// Active reports whether a query is hiding items.
func (w *Wrapper) Active() bool { return w.index != nil }

// SetQuery replaces the query and resets observers.
func (w *Wrapper) SetQuery(q string) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == w.query {
		return
	}
	w.query = q
	w.rebuild()
	w.NotifyDataSetChanged()
}

// Matches reports whether label matches the current query.
func (w *Wrapper) Matches(label string) bool {
	if w.query == "" {
		return true
	}
	label = strings.ToLower(label)
	if strings.Contains(label, w.query) {
		return true
	}
	if w.maxDistance == 0 {
		return false
	}
	for _, word := range strings.Fields(label) {
		if levenshtein.ComputeDistance(word, w.query) <= w.maxDistance {
			return true
		}
	}
	return false
}

func (w *Wrapper) rebuild() {
	if w.query == "" || w.Child() == nil {
		w.index = nil
		return
	}
	n := w.Child().ItemCount()
	index := make([]int, 0, n)
	for p := 0; p < n; p++ {
		if w.Matches(w.label(p)) {
			index = append(index, p)
		}
	}
	w.index = index
	w.logger.Debug("filter rebuilt", zap.String("query", w.query), zap.Int("visible", len(index)), zap.Int("total", n))
}

func (w *Wrapper) childPosition(position int) int {
	if w.index == nil {
		if position < 0 || position >= w.SimpleWrapper.ItemCount() {
			return adapter.NoPosition
		}
		return position
	}
	if position < 0 || position >= len(w.index) {
		return adapter.NoPosition
	}
	return w.index[position]
}

func (w *Wrapper) ItemCount() int {
	if w.index == nil {
		return w.SimpleWrapper.ItemCount()
	}
	return len(w.index)
}

func (w *Wrapper) ItemID(position int) (int64, error) {
	return w.SimpleWrapper.ItemID(w.childPosition(position))
}

func (w *Wrapper) ItemViewType(position int) (int32, error) {
	return w.SimpleWrapper.ItemViewType(w.childPosition(position))
}

func (w *Wrapper) BindView(h *adapter.Holder, position int, payloads []any) error {
	return w.SimpleWrapper.BindView(h, w.childPosition(position), payloads)
}

func (w *Wrapper) UnwrapPosition(position int) adapter.UnwrapResult {
	p := w.childPosition(position)
	if p == adapter.NoPosition || w.Child() == nil {
		return adapter.UnwrapResult{Position: adapter.NoPosition}
	}
	return adapter.UnwrapResult{Adapter: w.Child(), Position: p}
}

// WrapPosition returns NoPosition for child items hidden by the query.
func (w *Wrapper) WrapPosition(seg adapter.PathSegment, position int) int {
	if w.Child() == nil || seg.Adapter != w.Child() || position < 0 || position >= w.Child().ItemCount() {
		return adapter.NoPosition
	}
	if w.index == nil {
		return position
	}
	i := sort.SearchInts(w.index, position)
	if i == len(w.index) || w.index[i] != position {
		return adapter.NoPosition
	}
	return i
}

// DragHandler is nil while filtering: visible neighbours are not child
// neighbours, so a move could not be expressed.
func (w *Wrapper) DragHandler() adapter.DragHandler {
	if w.index != nil {
		return nil
	}
	return w.SimpleWrapper.DragHandler()
}

func (w *Wrapper) Release() {
	w.index = nil
	w.SimpleWrapper.Release()
}

// refresh recomputes the index after a child change. Positions shift in ways
// a ranged notification cannot describe, so observers are reset.
func (w *Wrapper) refresh() bool {
	if w.index == nil {
		return false
	}
	w.rebuild()
	w.NotifyDataSetChanged()
	return true
}

func (w *Wrapper) BridgedDataSetChanged(source adapter.Adapter, tag any) {
	if !w.refresh() {
		w.SimpleWrapper.BridgedDataSetChanged(source, tag)
	}
}

func (w *Wrapper) BridgedRangeChanged(source adapter.Adapter, tag any, start, count int, payload any) {
	if !w.refresh() {
		w.SimpleWrapper.BridgedRangeChanged(source, tag, start, count, payload)
	}
}

func (w *Wrapper) BridgedRangeInserted(source adapter.Adapter, tag any, start, count int) {
	if !w.refresh() {
		w.SimpleWrapper.BridgedRangeInserted(source, tag, start, count)
	}
}

func (w *Wrapper) BridgedRangeRemoved(source adapter.Adapter, tag any, start, count int) {
	if !w.refresh() {
		w.SimpleWrapper.BridgedRangeRemoved(source, tag, start, count)
	}
}

func (w *Wrapper) BridgedMoved(source adapter.Adapter, tag any, from, to int) {
	if !w.refresh() {
		w.SimpleWrapper.BridgedMoved(source, tag, from, to)
	}
}
