package tui

import (
	"time"

	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/draggable"
)

// Every row is one terminal line, so root positions and list-local y differ
// only by the scroll offset.

func (l *List) listHeight() int { return max(1, l.height-chromeRows) }

func (l *List) maxScroll() int { return max(0, l.root.ItemCount()-l.listHeight()) }

func (l *List) PositionAt(_, y int) int {
	if y < 0 || y >= l.listHeight() {
		return adapter.NoPosition
	}
	p := y + l.scroll
	if p >= l.root.ItemCount() {
		return adapter.NoPosition
	}
	return p
}

func (l *List) Bounds(position int) (draggable.Rect, bool) {
	if position < 0 || position >= l.root.ItemCount() {
		return draggable.Rect{}, false
	}
	y := position - l.scroll
	if y < 0 || y >= l.listHeight() {
		return draggable.Rect{}, false
	}
	return draggable.Rect{X: 0, Y: y, W: l.width, H: 1}, true
}

func (l *List) Viewport() draggable.Rect {
	return draggable.Rect{W: l.width, H: l.listHeight()}
}

func (l *List) ScrollBy(dy int) int {
	target := min(max(l.scroll+dy, 0), l.maxScroll())
	moved := target - l.scroll
	l.scroll = target
	return moved
}

// Schedule queues fn; the queue becomes tea.Tick commands when the current
// Update returns, and fn runs on a later Update.
func (l *List) Schedule(d time.Duration, fn func()) {
	l.pending = append(l.pending, scheduled{d: d, fn: fn})
}

// bind brings the holders of the visible rows up to date. Holders follow
// item ids, so the dragged item keeps its holder while it moves.
func (l *List) bind() {
	count := l.root.ItemCount()
	if l.dragging() {
		l.cursor = l.drag.CurrentPosition()
	}
	l.cursor = min(max(l.cursor, 0), max(count-1, 0))
	if !l.dragging() {
		if l.cursor < l.scroll {
			l.scroll = l.cursor
		}
		if l.cursor >= l.scroll+l.listHeight() {
			l.scroll = l.cursor - l.listHeight() + 1
		}
	}
	l.scroll = min(max(l.scroll, 0), l.maxScroll())

	end := min(count, l.scroll+l.listHeight())
	seen := make(map[int64]bool, end-l.scroll)
	visible := make([]*adapter.Holder, 0, end-l.scroll)
	for p := l.scroll; p < end; p++ {
		vt, err := l.root.ItemViewType(p)
		if err != nil {
			l.fail(err)
			break
		}
		id, err := l.root.ItemID(p)
		if err != nil {
			l.fail(err)
			break
		}
		h, ok := l.attached[id]
		if ok && h.ViewType != vt {
			l.recycle(id, h)
			ok = false
		}
		if !ok {
			if h, err = l.obtain(vt); err != nil {
				l.fail(err)
				break
			}
			l.attached[id] = h
			if err := l.root.ViewAttached(h, vt); err != nil {
				l.fail(err)
			}
		}
		seen[id] = true
		if err := l.root.BindView(h, p, nil); err != nil {
			l.fail(err)
			break
		}
		visible = append(visible, h)
	}
	for id, h := range l.attached {
		if !seen[id] {
			l.recycle(id, h)
		}
	}
	l.visible = visible
}

func (l *List) obtain(viewType int32) (*adapter.Holder, error) {
	if free := l.pool[viewType]; len(free) > 0 {
		h := free[len(free)-1]
		l.pool[viewType] = free[:len(free)-1]
		return h, nil
	}
	return l.root.CreateView(viewType)
}

func (l *List) recycle(id int64, h *adapter.Holder) {
	delete(l.attached, id)
	if err := l.root.ViewDetached(h, h.ViewType); err != nil {
		l.logger.Debug("detach failed", zap.Error(err))
	}
	if err := l.root.ViewRecycled(h, h.ViewType); err != nil {
		l.logger.Debug("recycle failed", zap.Error(err))
		return
	}
	l.pool[h.ViewType] = append(l.pool[h.ViewType], h)
}
