package model

// derived per-player view, recomputed after every tick or action
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PhotoRef  string `json:"photoRef,omitempty"`
	Number    int    `json:"number"`
	Level     int    `json:"level"`
	Remaining string `json:"remaining"`
	Status    string `json:"status"`
	Punctured bool   `json:"punctured"`
	// live rank as "pos/total", empty for DNF and disqualified players
	Rank string `json:"rank,omitempty"`
	// average seconds per completed level
	AvgSecondsPerLevel float64 `json:"avgSecondsPerLevel"`
	// finish time on the global clock, empty while racing
	FinishedAt string `json:"finishedAt,omitempty"`
}

type StandingEntry struct {
	Pos              int    `json:"pos"`
	PlayerID         string `json:"playerId"`
	Name             string `json:"name"`
	Level            int    `json:"level"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

type FinishEntry struct {
	Pos      int    `json:"pos"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// full derived view of a race
type RaceView struct {
	Key             string          `json:"key"`
	StageID         string          `json:"stageId"`
	StageTitle      string          `json:"stageTitle"`
	Elapsed         string          `json:"elapsed"`
	ElapsedSeconds  int             `json:"elapsedSeconds"`
	SprintActive    bool            `json:"sprintActive"`
	SprintCountdown int             `json:"sprintCountdown"`
	SprintCompleted bool            `json:"sprintCompleted"`
	Players         []PlayerView    `json:"players"`
	Standings       []StandingEntry `json:"standings"`
	FinishOrder     []FinishEntry   `json:"finishOrder"`
	Completed       bool            `json:"completed"`
}
