package draggable

import (
	"fmt"
	"strings"
)

// MoveMode selects how the other items make room for the dragged one.
type MoveMode int

const (
	// Shift slides every item between the start and the drop slot by one.
	Shift MoveMode = iota
	// Swap exchanges the dragged item with the one at the drop slot.
	Swap
)

func (m MoveMode) String() string {
	switch m {
	case Shift:
		return "shift"
	case Swap:
		return "swap"
	default:
		return fmt.Sprintf("MoveMode(%d)", int(m))
	}
}

// ParseMoveMode accepts "shift" or "swap", case-insensitively.
func ParseMoveMode(s string) (MoveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shift", "":
		return Shift, nil
	case "swap":
		return Swap, nil
	default:
		return Shift, fmt.Errorf("unknown move mode %q", s)
	}
}

// ConvertToOriginalPosition maps a position shown while the item from initial
// is displayed at current back to the position of the backing item. Negative
// initial or current means no drag.
func ConvertToOriginalPosition(position, initial, current int, mode MoveMode) int {
	if initial < 0 || current < 0 {
		return position
	}
	if mode == Swap {
		switch position {
		case current:
			return initial
		case initial:
			return current
		default:
			return position
		}
	}

	if initial == current ||
		(position < initial && position < current) ||
		(position > initial && position > current) {
		return position
	}
	if position == current {
		return initial
	}
	if current < initial {
		return position - 1
	}
	return position + 1
}

// ConvertToVisualPosition is the inverse of ConvertToOriginalPosition: it
// returns where the backing item at position is shown.
func ConvertToVisualPosition(position, initial, current int, mode MoveMode) int {
	if initial < 0 || current < 0 {
		return position
	}
	if mode == Swap {
		return ConvertToOriginalPosition(position, initial, current, Swap)
	}

	if initial == current ||
		(position < initial && position < current) ||
		(position > initial && position > current) {
		return position
	}
	if position == initial {
		return current
	}
	if current < initial {
		return position + 1
	}
	return position - 1
}
