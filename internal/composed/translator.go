package composed

import "sort"

// SegmentedPosition addresses an item as (child segment, offset in child).
type SegmentedPosition struct {
	Segment int
	Offset  int
}

// NoSegmentedPosition is returned for positions outside the composition.
var NoSegmentedPosition = SegmentedPosition{Segment: -1, Offset: -1}

const noCachedCount = -1

// segments is what a Translator needs to know about the children.
type segments interface {
	SegmentCount() int
	SegmentItemCount(segment int) int
}

// Translator maps flat positions to segmented positions and back. Child item
// counts and cumulative offsets are cached; offsets are valid for segments up
// to lastCached.
type Translator struct {
	src        segments
	lastCached int
	counts     []int
	offsets    []int
	total      int
}

func NewTranslator(src segments) *Translator {
	t := &Translator{src: src}
	t.InvalidateAll()
	return t
}

func (t *Translator) grow() {
	n := t.src.SegmentCount()
	for len(t.counts) < n {
		t.counts = append(t.counts, noCachedCount)
	}
	for len(t.offsets) < n+1 {
		t.offsets = append(t.offsets, 0)
	}
}

// TotalItemCount returns the number of items across all segments.
func (t *Translator) TotalItemCount() int {
	if t.total == noCachedCount {
		t.total = t.countTotal()
	}
	return t.total
}

func (t *Translator) countTotal() int {
	n := t.src.SegmentCount()
	if n == 0 {
		return 0
	}
	return t.SegmentOffset(n-1) + t.SegmentItemCount(n-1)
}

// FlatPosition returns the flat position of offset within segment.
func (t *Translator) FlatPosition(segment, offset int) int {
	return t.SegmentOffset(segment) + offset
}

// SegmentedPosition resolves flat to the segment that contains it. Empty
// segments never own a position.
func (t *Translator) SegmentedPosition(flat int) SegmentedPosition {
	if flat < 0 {
		return NoSegmentedPosition
	}
	t.grow()

	start := sort.SearchInts(t.offsets[:t.lastCached], flat)
	if start >= t.lastCached || t.offsets[start] != flat {
		start = max(0, start-1)
	}

	n := t.src.SegmentCount()
	offset := t.offsets[start]
	for s := start; s < n; s++ {
		count := t.SegmentItemCount(s)
		if offset+count > flat {
			return SegmentedPosition{Segment: s, Offset: flat - offset}
		}
		offset += count
	}
	return NoSegmentedPosition
}

// SegmentOffset returns the flat position of the first item of segment.
func (t *Translator) SegmentOffset(segment int) int {
	t.grow()
	if segment <= t.lastCached {
		return t.offsets[segment]
	}
	offset := t.offsets[t.lastCached]
	for i := t.lastCached; i < segment; i++ {
		offset += t.SegmentItemCount(i)
	}
	return offset
}

// SegmentItemCount returns the cached item count of segment, asking the child
// on a miss.
func (t *Translator) SegmentItemCount(segment int) int {
	t.grow()
	count := t.counts[segment]
	if count == noCachedCount {
		count = t.src.SegmentItemCount(segment)
		t.counts[segment] = count
	}
	if segment == t.lastCached {
		t.offsets[segment+1] = t.offsets[segment] + count
		t.lastCached = segment + 1
	}
	return count
}

// InvalidateSegment drops the cached count of segment and every offset after
// it.
func (t *Translator) InvalidateSegment(segment int) {
	t.grow()
	t.total = noCachedCount
	t.lastCached = min(t.lastCached, segment)
	if segment >= 0 && segment < len(t.counts) {
		t.counts[segment] = noCachedCount
	}
}

// InvalidateAll drops every cached value.
func (t *Translator) InvalidateAll() {
	t.total = noCachedCount
	t.lastCached = 0
	t.counts = t.counts[:0]
	if len(t.offsets) == 0 {
		t.offsets = append(t.offsets, 0)
	}
	t.grow()
}
