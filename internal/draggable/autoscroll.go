package draggable

import (
	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
)

// autoScroller ticks on the host scheduler for as long as a drag lasts. Each
// start bumps the token, so a tick queued by an earlier session finds a
// mismatch and neither scrolls nor reschedules.
type autoScroller struct {
	e       *Engine
	running bool
	token   uint64
	ticks   int
}

func (s *autoScroller) start() {
	if s.running || s.e.sched == nil || s.e.opts.scrollInterval <= 0 {
		return
	}
	s.running = true
	s.token++
	s.schedule(s.token)
}

func (s *autoScroller) stop() {
	s.running = false
}

func (s *autoScroller) schedule(token uint64) {
	s.e.sched.Schedule(s.e.opts.scrollInterval, func() { s.tick(token) })
}

func (s *autoScroller) tick(token uint64) {
	if !s.running || token != s.token {
		return
	}
	s.ticks++
	s.e.scrollOnDragging()
	if s.running && token == s.token {
		s.schedule(token)
	}
}

// scrollOnDragging scrolls one step toward the edge band the pointer is in,
// unless the draggable range is already in view on that side, then re-runs
// swap detection since the rows moved under the pointer.
func (e *Engine) scrollOnDragging() {
	if e.state != Dragging {
		return
	}
	vp := e.layout.Viewport()
	if vp.H <= 0 {
		return
	}

	dir := 0
	switch {
	case e.lastY < vp.Y+e.opts.edgeBand && e.scrollDirs&scrollUp != 0:
		dir = -1
	case e.lastY >= vp.Bottom()-e.opts.edgeBand && e.scrollDirs&scrollDown != 0:
		dir = 1
	}

	if dir != 0 {
		first := e.layout.PositionAt(vp.X, vp.Y)
		last := e.layout.PositionAt(vp.X, vp.Bottom()-1)
		if dir < 0 && first != adapter.NoPosition && first <= e.rootRange.Start-1 {
			dir = 0
		}
		if dir > 0 && last != adapter.NoPosition && last >= e.rootRange.End+1 {
			dir = 0
		}
	}

	if dir != 0 {
		if moved := e.layout.ScrollBy(dir * e.opts.scrollStep); moved != 0 {
			e.scrollTotal += moved
			e.opts.logger.Debug("auto-scrolled", zap.Int("dy", moved))
			e.distanceUpdated()
		}
	}
	e.checkSwap()
}
