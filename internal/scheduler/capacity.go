package scheduler

import "strings"

// Mode is the seating density policy.
type Mode string

const (
	Dense  Mode = "dense"
	Sparse Mode = "sparse"
)

// ParseMode accepts "dense" or "sparse" in any case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Dense, Sparse:
		return m, nil
	default:
		return "", &InvalidModeError{Mode: s}
	}
}

// ComputeMaxCapacity returns the usable seats of a room.
//
// Dense packing keeps every seat but the margin and can reach zero. Sparse
// packing uses every other seat minus the margin and never drops below one.
func ComputeMaxCapacity(roomSize int, mode Mode, margin int) (int, error) {
	switch mode {
	case Dense:
		return max(0, roomSize-margin), nil
	case Sparse:
		return max(1, roomSize/2-margin), nil
	default:
		return 0, &InvalidModeError{Mode: string(mode)}
	}
}
