package draggable

import (
	"fmt"

	"github.com/jask/stitchlist/internal/adapter"
)

// Range is an inclusive span of positions a dragged item may occupy.
type Range struct {
	Start int
	End   int
}

// NewRange validates start <= end.
func NewRange(start, end int) (Range, error) {
	if start > end {
		return Range{}, fmt.Errorf("draggable range %d > %d: %w", start, end, adapter.ErrIllegalState)
	}
	return Range{Start: start, End: end}, nil
}

// WholeRange spans a list of count items.
func WholeRange(count int) Range {
	return Range{Start: 0, End: max(0, count-1)}
}

// Contains reports whether position lies in r.
func (r Range) Contains(position int) bool {
	return position >= r.Start && position <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}
