package ranking

import "slices"

// Recorder keeps the append-only finish order. Insertion order is the
// tiebreak; within a resolved sprint cohort the assigned manual order
// is appended as a contiguous block.
type Recorder struct {
	order []string
	seen  map[string]struct{}
}

func NewRecorder() *Recorder {
	return &Recorder{
		order: make([]string, 0),
		seen:  make(map[string]struct{}),
	}
}

// Append adds a finisher, ignoring duplicates. It returns true when
// the finish order now covers every survivor, i.e. the race is done.
func (r *Recorder) Append(playerID string, survivorCount int) bool {
	if _, ok := r.seen[playerID]; !ok {
		r.order = append(r.order, playerID)
		r.seen[playerID] = struct{}{}
	}
	return len(r.order) >= survivorCount
}

// AppendBlock adds a resolved sprint cohort in its assigned order.
func (r *Recorder) AppendBlock(playerIDs []string, survivorCount int) bool {
	done := len(r.order) >= survivorCount
	for _, id := range playerIDs {
		done = r.Append(id, survivorCount)
	}
	return done
}

// Order returns the finish order, 1-based position = index + 1.
func (r *Recorder) Order() []string {
	return slices.Clone(r.order)
}

// Position returns the 1-based rank of a finisher, 0 if not finished.
func (r *Recorder) Position(playerID string) int {
	if idx := slices.Index(r.order, playerID); idx != -1 {
		return idx + 1
	}
	return 0
}

func (r *Recorder) Contains(playerID string) bool {
	_, ok := r.seen[playerID]
	return ok
}

func (r *Recorder) Len() int { return len(r.order) }
