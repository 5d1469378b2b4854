package processing

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/letapeapp/race-engine-go/pkg/model"
)

// View derives the presentation model from the current state. It is
// pure: called after each completed tick or action, never during one.
func (e *Engine) View() *model.RaceView {
	st := e.state
	standings := e.computeStandings()
	rankByID := make(map[string]int, len(standings))
	for _, entry := range standings {
		rankByID[entry.PlayerID] = entry.Pos
	}

	players := make([]model.PlayerView, 0, len(st.PlayerOrder))
	for _, p := range st.PlayersInOrder() {
		pv := model.PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			PhotoRef:  p.PhotoRef,
			Number:    p.Number,
			Level:     p.Level,
			Remaining: model.FormatClock(p.RemainingSeconds),
			Status:    p.Status.String(),
			Punctured: p.Punctured,
		}
		if rank, ok := rankByID[p.ID]; ok {
			pv.Rank = fmt.Sprintf("%d/%d", rank, len(standings))
		}
		if p.Advances > 0 {
			raced := st.GlobalElapsedSeconds
			if p.FinishedAtSeconds >= 0 {
				raced = p.FinishedAtSeconds
			}
			pv.AvgSecondsPerLevel = float64(raced) / float64(p.Advances)
		}
		if p.FinishedAtSeconds >= 0 {
			pv.FinishedAt = model.FormatElapsed(p.FinishedAtSeconds)
		}
		players = append(players, pv)
	}

	finishOrder := make([]model.FinishEntry, 0, len(st.FinishOrder))
	for i, id := range st.FinishOrder {
		finishOrder = append(finishOrder, model.FinishEntry{
			Pos:      i + 1,
			PlayerID: id,
			Name:     st.Players[id].Name,
		})
	}

	return &model.RaceView{
		Key:             st.Key,
		StageID:         st.Stage.ID,
		StageTitle:      st.Stage.Title,
		Elapsed:         model.FormatElapsed(st.GlobalElapsedSeconds),
		ElapsedSeconds:  st.GlobalElapsedSeconds,
		SprintActive:    st.SprintActive,
		SprintCountdown: st.SprintCountdown,
		SprintCompleted: st.SprintCompleted,
		Players:         players,
		Standings:       standings,
		FinishOrder:     finishOrder,
		Completed:       len(st.FinishOrder) > 0 && len(st.FinishOrder) >= st.SurvivorCount(),
	}
}

// computeStandings ranks the eligible players: higher level first, at
// equal level more remaining time ranks higher. Finished players keep
// their finish order among themselves.
func (e *Engine) computeStandings() []model.StandingEntry {
	st := e.state
	eligible := lo.Filter(st.PlayersInOrder(),
		func(p *model.PlayerRaceState, _ int) bool {
			return p.Status.Eligible()
		})
	slices.SortStableFunc(eligible, func(a, b *model.PlayerRaceState) int {
		if a.Status == model.StatusFinished && b.Status == model.StatusFinished {
			return e.recorder.Position(a.ID) - e.recorder.Position(b.ID)
		}
		if a.Status == model.StatusFinished {
			return -1
		}
		if b.Status == model.StatusFinished {
			return 1
		}
		if a.Level != b.Level {
			return b.Level - a.Level
		}
		return b.RemainingSeconds - a.RemainingSeconds
	})
	return lo.Map(eligible, func(p *model.PlayerRaceState, idx int) model.StandingEntry {
		return model.StandingEntry{
			Pos:              idx + 1,
			PlayerID:         p.ID,
			Name:             p.Name,
			Level:            p.Level,
			RemainingSeconds: p.RemainingSeconds,
		}
	})
}
