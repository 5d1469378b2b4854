package sprint

import (
	"errors"
	"fmt"
	"slices"
)

// WindowSeconds is the duration of the sprint window once the first
// player reaches the last level.
const WindowSeconds = 600

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWindowOpen
	PhaseResolving
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWindowOpen:
		return "window_open"
	case PhaseResolving:
		return "resolving"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	ErrWindowNotOpen        = errors.New("sprint window not open")
	ErrNotResolving         = errors.New("sprint resolution not in progress")
	ErrNotInCohort          = errors.New("player not part of the resolution cohort")
	ErrPositionTaken        = errors.New("position already assigned")
	ErrInvalidPosition      = errors.New("position out of range")
	ErrIncompleteResolution = errors.New("not every cohort member has an assigned order")
)

// Coordinator runs the synchronized finish ("Pif Paf") at the last level.
// Arrival order among players inside the window is resolved as a single
// event instead of first-come-first-served.
type Coordinator struct {
	phase       Phase
	countdown   int
	triggeredBy string
	// players at the last level in arrival order
	waiting []string
	// fixed at the moment resolution begins
	cohort   []string
	assigned map[string]int // playerID -> 1-based finish position
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		phase:     PhaseIdle,
		countdown: WindowSeconds,
		assigned:  make(map[string]int),
	}
}

func (c *Coordinator) Phase() Phase        { return c.phase }
func (c *Coordinator) Countdown() int      { return c.countdown }
func (c *Coordinator) TriggeredBy() string { return c.triggeredBy }

func (c *Coordinator) WindowOpen() bool { return c.phase == PhaseWindowOpen }

// Frozen reports whether a player waiting at the last level must not
// count down their own level timer.
func (c *Coordinator) Frozen() bool {
	return c.phase == PhaseWindowOpen || c.phase == PhaseResolving
}

// Open starts the sprint window. Only valid from idle; the first
// arrival at the last level triggers it.
func (c *Coordinator) Open(triggeredBy string) {
	if c.phase != PhaseIdle {
		return
	}
	c.phase = PhaseWindowOpen
	c.countdown = WindowSeconds
	c.triggeredBy = triggeredBy
	c.waiting = append(c.waiting, triggeredBy)
}

// Join registers a player arriving at the last level while the window
// is open. Arrivals during resolution are deferred: they are not added
// to the in-progress cohort.
func (c *Coordinator) Join(playerID string) {
	if c.phase != PhaseWindowOpen {
		return
	}
	if !slices.Contains(c.waiting, playerID) {
		c.waiting = append(c.waiting, playerID)
	}
}

// Leave removes a player that reverted away from the last level.
// During resolution the player is also dropped from the cohort.
func (c *Coordinator) Leave(playerID string) {
	c.waiting = slices.DeleteFunc(c.waiting, func(id string) bool { return id == playerID })
	if c.phase == PhaseResolving {
		c.cohort = slices.DeleteFunc(c.cohort, func(id string) bool { return id == playerID })
		delete(c.assigned, playerID)
	}
}

// Tick decrements the window countdown. It returns true exactly once,
// when the countdown reaches 0 and resolution must proceed with
// whoever is waiting at that moment.
func (c *Coordinator) Tick() bool {
	if c.phase != PhaseWindowOpen {
		return false
	}
	c.countdown--
	return c.countdown <= 0
}

// BeginResolution freezes the current waiting set as the resolution
// cohort. Valid from an open window (manual force-resolve or timeout).
func (c *Coordinator) BeginResolution() error {
	if c.phase != PhaseWindowOpen {
		return ErrWindowNotOpen
	}
	c.phase = PhaseResolving
	c.cohort = slices.Clone(c.waiting)
	c.assigned = make(map[string]int)
	return nil
}

// Cohort returns the resolution cohort in arrival order.
func (c *Coordinator) Cohort() []string {
	return slices.Clone(c.cohort)
}

// Assigned returns the manually assigned position for a cohort member
// (0 when unassigned).
func (c *Coordinator) Assigned(playerID string) int {
	return c.assigned[playerID]
}

// Assign sets the finish position for a cohort member. Re-assigning a
// player moves them; a position held by another player is rejected.
func (c *Coordinator) Assign(playerID string, pos int) error {
	if c.phase != PhaseResolving {
		return ErrNotResolving
	}
	if !slices.Contains(c.cohort, playerID) {
		return fmt.Errorf("%w: %s", ErrNotInCohort, playerID)
	}
	if pos < 1 || pos > len(c.cohort) {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	for id, p := range c.assigned {
		if p == pos && id != playerID {
			return fmt.Errorf("%w: %d", ErrPositionTaken, pos)
		}
	}
	c.assigned[playerID] = pos
	return nil
}

// Remove clears a previously assigned position. Assignments stay
// reversible until the full cohort is ordered and confirmed.
func (c *Coordinator) Remove(playerID string) error {
	if c.phase != PhaseResolving {
		return ErrNotResolving
	}
	if !slices.Contains(c.cohort, playerID) {
		return fmt.Errorf("%w: %s", ErrNotInCohort, playerID)
	}
	delete(c.assigned, playerID)
	return nil
}

// Resolved reports whether every cohort member has an assigned order.
func (c *Coordinator) Resolved() bool {
	return c.phase == PhaseResolving && len(c.assigned) == len(c.cohort)
}

// Complete finishes the resolution and returns the cohort ordered by
// the assigned positions. Rejected while any member is unassigned.
func (c *Coordinator) Complete() ([]string, error) {
	if c.phase != PhaseResolving {
		return nil, ErrNotResolving
	}
	if len(c.assigned) != len(c.cohort) {
		return nil, ErrIncompleteResolution
	}
	ordered := slices.Clone(c.cohort)
	slices.SortFunc(ordered, func(a, b string) int {
		return c.assigned[a] - c.assigned[b]
	})
	c.phase = PhaseCompleted
	c.waiting = nil
	return ordered, nil
}

// AutoResolve completes the sprint with the waiting players in arrival
// order. Used when the window times out with no manual resolution.
func (c *Coordinator) AutoResolve() []string {
	if c.phase == PhaseWindowOpen {
		//nolint:errcheck // phase checked above
		c.BeginResolution()
	}
	if c.phase != PhaseResolving {
		return nil
	}
	ordered := slices.Clone(c.cohort)
	c.phase = PhaseCompleted
	c.waiting = nil
	return ordered
}

// Cancel aborts the sprint before completion, discarding any partial
// ordering and resetting the countdown.
func (c *Coordinator) Cancel() {
	if c.phase == PhaseCompleted {
		return
	}
	c.phase = PhaseIdle
	c.countdown = WindowSeconds
	c.triggeredBy = ""
	c.waiting = nil
	c.cohort = nil
	c.assigned = make(map[string]int)
}

func (c *Coordinator) Completed() bool { return c.phase == PhaseCompleted }
