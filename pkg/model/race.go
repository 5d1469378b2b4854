package model

// aggregate race state, owned exclusively by the engine
type RaceState struct {
	Key   string        `json:"key"`
	Stage *StageProfile `json:"stage"`
	// insertion order = starting order
	PlayerOrder          []string                    `json:"playerOrder"`
	Players              map[string]*PlayerRaceState `json:"players"`
	GlobalElapsedSeconds int                         `json:"globalElapsedSeconds"`
	SprintActive         bool                        `json:"sprintActive"`
	SprintCountdown      int                         `json:"sprintCountdown"`
	SprintTriggeredBy    string                      `json:"sprintTriggeredBy,omitempty"`
	SprintCompleted      bool                        `json:"sprintCompleted"`
	// per level count of players that reached it
	RestCheckpointCounts map[int]int `json:"restCheckpointCounts"`
	// append-only, defines the final ranking
	FinishOrder []string `json:"finishOrder"`
}

// PlayersInOrder returns the players in starting order.
func (r *RaceState) PlayersInOrder() []*PlayerRaceState {
	ret := make([]*PlayerRaceState, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		ret = append(ret, r.Players[id])
	}
	return ret
}

// SurvivorCount counts players that are neither DNF nor disqualified.
func (r *RaceState) SurvivorCount() int {
	count := 0
	for _, p := range r.Players {
		if p.Status.Eligible() {
			count++
		}
	}
	return count
}
