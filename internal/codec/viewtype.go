package codec

import (
	"fmt"
	"math"
)

const (
	vtOffsetSegment = 24
	vtOffsetWrapped = 0

	vtWidthSegment = 7
	vtWidthWrapped = 24
)

const (
	vtMaskExpandable int32 = math.MinInt32
	vtMaskSegment    int32 = (1<<vtWidthSegment - 1) << vtOffsetSegment
	vtMaskWrapped    int32 = (1<<vtWidthWrapped - 1) << vtOffsetWrapped
)

// Bounds of the wrapped view-type field.
const (
	MinWrappedViewType int32 = -(1 << (vtWidthWrapped - 1))
	MaxWrappedViewType int32 = 1<<(vtWidthWrapped-1) - 1
)

// ViewTypeSegment returns the segment field of a composed view type.
func ViewTypeSegment(viewType int32) int {
	return int(uint32(viewType&vtMaskSegment) >> vtOffsetSegment)
}

// WrappedViewType returns the sign-extended 24-bit payload of viewType.
func WrappedViewType(viewType int32) int32 {
	return (viewType << (32 - vtWidthWrapped - vtOffsetWrapped)) >> (32 - vtWidthWrapped)
}

// IsExpandableViewType reports whether the expandable flag is set.
func IsExpandableViewType(viewType int32) bool {
	return viewType&vtMaskExpandable != 0
}

// ComposeViewTypeSegment stores segment in the segment field of wrapped,
// keeping the expandable flag and the 24-bit payload.
func ComposeViewTypeSegment(segment int, wrapped int32) (int32, error) {
	if segment < MinSegment || segment > MaxSegment {
		return 0, fmt.Errorf("view type segment %d: %w", segment, ErrOutOfRange)
	}
	return int32(segment)<<vtOffsetSegment | wrapped&(vtMaskExpandable|vtMaskWrapped), nil
}

// MarkExpandable sets the expandable flag on viewType.
func MarkExpandable(viewType int32) int32 {
	return viewType | vtMaskExpandable
}
