package processing

import (
	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/pkg/processing/sprint"
)

// Advance is called when a player signals completion of their current
// drinking interval.
//
//nolint:cyclop // the branch structure mirrors the game rules
func (e *Engine) Advance(playerID string) error {
	st := e.state
	p, ok := st.Players[playerID]
	if !ok {
		// upstream contract violation, the roster defines the ids
		e.l.Warn("advance for unknown player", log.String("player", playerID))
		return ErrUnknownPlayer
	}
	switch p.Status {
	case model.StatusFinished, model.StatusDNF, model.StatusDisqualified:
		return ErrInvalidAction
	case model.StatusActive, model.StatusAwaitingSprint:
	}

	lastLevel := st.Stage.LevelCount()
	if p.Level == lastLevel {
		// arriving from the waiting zone
		switch {
		case st.SprintCompleted:
			// sprint already resolved, no second synchronized finish
			e.finishPlayer(p)
			return nil
		case e.coordinator.Frozen():
			// must wait for the synchronized finish
			return ErrInvalidAction
		default:
			e.finishPlayer(p)
			return nil
		}
	}

	nextLevel := p.Level + 1
	p.Level = nextLevel
	p.RemainingSeconds = st.Stage.Duration(nextLevel)
	p.Advances++

	if nextLevel == lastLevel {
		p.Punctured = false
		e.arriveAtLastLevel(p)
		return nil
	}

	if nextLevel == p.PunctureLevel {
		// double portion for this level; timing rules are unchanged
		p.Punctured = true
		e.notifyEvent(model.Notification{
			Type:     model.NotifyPuncture,
			PlayerID: p.ID,
			Level:    nextLevel,
		})
		return nil
	}

	p.Punctured = false
	if st.Stage.IsRestCheckpoint(nextLevel) {
		st.RestCheckpointCounts[nextLevel]++
		if st.RestCheckpointCounts[nextLevel] == 3 {
			e.notifyEvent(model.Notification{
				Type:     model.NotifyGroupRest,
				PlayerID: p.ID,
				Level:    nextLevel,
			})
		}
	}
	return nil
}

// arriveAtLastLevel handles a player entering the finish line level.
func (e *Engine) arriveAtLastLevel(p *model.PlayerRaceState) {
	st := e.state
	switch {
	case st.SprintCompleted:
		// level is raced normally, the next advance finishes immediately
	case e.coordinator.Phase() == sprint.PhaseIdle:
		e.coordinator.Open(p.ID)
		p.Status = model.StatusAwaitingSprint
		// players parked at the last level by an earlier cancelled
		// window rejoin the new one
		for _, other := range st.PlayersInOrder() {
			if other.ID != p.ID && other.Level == st.Stage.LevelCount() &&
				other.Status == model.StatusActive {
				e.coordinator.Join(other.ID)
				other.Status = model.StatusAwaitingSprint
			}
		}
		e.notifyEvent(model.Notification{
			Type:     model.NotifySprintOpened,
			PlayerID: p.ID,
			Level:    st.Stage.LevelCount(),
		})
	case e.coordinator.WindowOpen():
		e.coordinator.Join(p.ID)
		p.Status = model.StatusAwaitingSprint
	default:
		// resolution in progress: deferred, not added to the cohort
		p.Status = model.StatusAwaitingSprint
	}
	e.syncSprint()
}

// Revert applies a penalty: a finished player is disqualified, anyone
// else drops one level and restarts its full interval.
func (e *Engine) Revert(playerID string) error {
	st := e.state
	p, ok := st.Players[playerID]
	if !ok {
		e.l.Warn("revert for unknown player", log.String("player", playerID))
		return ErrUnknownPlayer
	}
	if p.Status == model.StatusFinished {
		p.Status = model.StatusDisqualified
		p.RemainingSeconds = 0
		e.l.Info("player disqualified", log.String("player", p.ID))
		return nil
	}
	if p.Status == model.StatusDNF || p.Status == model.StatusDisqualified {
		return ErrInvalidAction
	}
	if p.Level <= 1 {
		return ErrInvalidAction
	}

	lastLevel := st.Stage.LevelCount()
	// the triggering player's penalty voids the sprint they started
	voidsSprint := p.ID == e.coordinator.TriggeredBy() &&
		p.Level == lastLevel &&
		e.coordinator.WindowOpen() && e.coordinator.Countdown() > 0
	if p.Level == lastLevel {
		e.coordinator.Leave(p.ID)
	}

	p.Level--
	p.RemainingSeconds = st.Stage.Duration(p.Level)
	p.Punctured = false
	if p.Status == model.StatusAwaitingSprint {
		p.Status = model.StatusActive
	}

	if voidsSprint {
		e.cancelSprint()
	}
	e.syncSprint()
	return nil
}

// Revive brings a DNF player back at their current level with the
// full interval.
func (e *Engine) Revive(playerID string) error {
	p, ok := e.state.Players[playerID]
	if !ok {
		e.l.Warn("revive for unknown player", log.String("player", playerID))
		return ErrUnknownPlayer
	}
	if p.Status != model.StatusDNF {
		return ErrInvalidAction
	}
	p.Status = model.StatusActive
	p.RemainingSeconds = e.state.Stage.Duration(p.Level)
	return nil
}

// OpenResolution force-resolves the sprint window: the waiting players
// become the resolution cohort.
func (e *Engine) OpenResolution() error {
	if err := e.coordinator.BeginResolution(); err != nil {
		return err
	}
	e.notifyEvent(model.Notification{Type: model.NotifySprintResolutionReady})
	e.syncSprint()
	return nil
}

// AssignOrder sets the manual finish position of a cohort member.
func (e *Engine) AssignOrder(playerID string, pos int) error {
	if _, ok := e.state.Players[playerID]; !ok {
		return ErrUnknownPlayer
	}
	return e.coordinator.Assign(playerID, pos)
}

// RemoveFromOrder clears a cohort member's assigned position.
func (e *Engine) RemoveFromOrder(playerID string) error {
	if _, ok := e.state.Players[playerID]; !ok {
		return ErrUnknownPlayer
	}
	return e.coordinator.Remove(playerID)
}

// ConfirmResolution finishes the whole cohort in the assigned order.
// Rejected until every cohort member has a position.
func (e *Engine) ConfirmResolution() error {
	ordered, err := e.coordinator.Complete()
	if err != nil {
		return err
	}
	e.finishCohort(ordered)
	return nil
}

// CancelResolution aborts the sprint; waiting players resume their
// last-level timers.
func (e *Engine) CancelResolution() error {
	e.cancelSprint()
	e.syncSprint()
	return nil
}

func (e *Engine) cancelSprint() {
	e.coordinator.Cancel()
	for _, p := range e.state.Players {
		if p.Status == model.StatusAwaitingSprint {
			p.Status = model.StatusActive
		}
	}
}
