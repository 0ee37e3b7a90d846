package codec

import (
	"fmt"
	"math"
)

// NoID marks an item without a stable id.
const NoID int64 = -1

const (
	idOffsetSegment = 56
	idOffsetGroup   = 28
	idOffsetChild   = 0

	idWidthSegment = 7
	idWidthGroup   = 28
	idWidthChild   = 28
)

const (
	idMaskReserved int64 = math.MinInt64
	idMaskSegment  int64 = (1<<idWidthSegment - 1) << idOffsetSegment
	idMaskGroup    int64 = (1<<idWidthGroup - 1) << idOffsetGroup
	idMaskChild    int64 = (1<<idWidthChild - 1) << idOffsetChild
)

// Bounds of the packed id fields.
const (
	MinSegment = 0
	MaxSegment = 1<<idWidthSegment - 1

	MinGroupID int64 = -(1 << (idWidthGroup - 1))
	MaxGroupID int64 = 1<<(idWidthGroup-1) - 1
	MinChildID int64 = -(1 << (idWidthChild - 1))
	MaxChildID int64 = 1<<(idWidthChild-1) - 1

	MinWrappedID int64 = -(1 << (idWidthGroup + idWidthChild - 1))
	MaxWrappedID int64 = 1<<(idWidthGroup+idWidthChild-1) - 1
)

// ComposeChildID packs a group id and a child id into one item id.
// A child id of -1 produces the all-ones child field and therefore reads
// back as a group; callers that need both kinds must avoid it.
func ComposeChildID(groupID, childID int64) (int64, error) {
	if groupID < MinGroupID || groupID > MaxGroupID {
		return NoID, fmt.Errorf("group id %d: %w", groupID, ErrOutOfRange)
	}
	if childID < MinChildID || childID > MaxChildID {
		return NoID, fmt.Errorf("child id %d: %w", childID, ErrOutOfRange)
	}
	return (groupID<<idOffsetGroup)&idMaskGroup | (childID<<idOffsetChild)&idMaskChild, nil
}

// ComposeGroupID packs a group id with the all-ones child sentinel.
func ComposeGroupID(groupID int64) (int64, error) {
	if groupID < MinGroupID || groupID > MaxGroupID {
		return NoID, fmt.Errorf("group id %d: %w", groupID, ErrOutOfRange)
	}
	return (groupID<<idOffsetGroup)&idMaskGroup | idMaskChild, nil
}

// IsGroup reports whether id carries the group sentinel in its child field.
func IsGroup(id int64) bool {
	return id != NoID && id&idMaskChild == idMaskChild
}

// IDSegment returns the segment field of a composed id.
func IDSegment(id int64) int {
	return int(uint64(id&idMaskSegment) >> idOffsetSegment)
}

// GroupID returns the sign-extended group field, or NoID for NoID.
func GroupID(id int64) int64 {
	if id == NoID {
		return NoID
	}
	return (id << (64 - idWidthGroup - idOffsetGroup)) >> (64 - idWidthGroup)
}

// ChildID returns the sign-extended child field. Group ids and NoID yield NoID.
func ChildID(id int64) int64 {
	if id == NoID || IsGroup(id) {
		return NoID
	}
	return (id << (64 - idWidthChild - idOffsetChild)) >> (64 - idWidthChild)
}

// WrappedID strips the segment field, returning the sign-extended payload.
func WrappedID(id int64) int64 {
	if id == NoID {
		return NoID
	}
	const width = idWidthGroup + idWidthChild
	return (id << (64 - width - idOffsetChild)) >> (64 - width)
}

// ComposeIDSegment stores segment in the segment field of wrapped. Every other
// bit of wrapped, including the reserved sign flag, is kept as is.
func ComposeIDSegment(segment int, wrapped int64) (int64, error) {
	if segment < MinSegment || segment > MaxSegment {
		return NoID, fmt.Errorf("id segment %d: %w", segment, ErrOutOfRange)
	}
	return int64(segment)<<idOffsetSegment | wrapped&(idMaskReserved|idMaskGroup|idMaskChild), nil
}
