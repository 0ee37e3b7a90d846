package composed

import (
	"fmt"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/codec"
)

// ViewTypeAllocator hands out one dense view-type segment per pair of child
// segment and raw view-type segment. Segment 0 is never allocated so a
// composed view type is always distinguishable from an untouched one.
type ViewTypeAllocator struct {
	forward map[int32]int
	reverse map[int]int32
}

func NewViewTypeAllocator() *ViewTypeAllocator {
	return &ViewTypeAllocator{
		forward: make(map[int32]int),
		reverse: make(map[int]int32),
	}
}

func packSegments(childSegment int, raw int32) int32 {
	return int32(childSegment)<<16 | int32(codec.ViewTypeSegment(raw))
}

// Wrap returns raw re-tagged with the segment allocated for (childSegment,
// segment of raw).
func (a *ViewTypeAllocator) Wrap(childSegment int, raw int32) (int32, error) {
	packed := packSegments(childSegment, raw)
	seg, ok := a.forward[packed]
	if !ok {
		seg = len(a.forward) + 1
		if seg > codec.MaxSegment {
			return 0, fmt.Errorf("allocate view type segment for child %d: %w", childSegment, adapter.ErrIllegalState)
		}
		a.forward[packed] = seg
		a.reverse[seg] = packed
	}
	return codec.ComposeViewTypeSegment(seg, raw)
}

// Unwrap reverses Wrap, returning the child segment and the raw view type the
// child reported.
func (a *ViewTypeAllocator) Unwrap(viewType int32) (int, int32, error) {
	packed, ok := a.reverse[codec.ViewTypeSegment(viewType)]
	if !ok {
		return 0, 0, fmt.Errorf("unwrap view type %#x: %w", uint32(viewType), adapter.ErrIllegalState)
	}
	raw, err := codec.ComposeViewTypeSegment(int(packed&0xffff), viewType)
	if err != nil {
		return 0, 0, err
	}
	return int(packed >> 16), raw, nil
}

// Allocated returns the number of segments handed out.
func (a *ViewTypeAllocator) Allocated() int { return len(a.forward) }
