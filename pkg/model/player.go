package model

import "time"

type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusAwaitingSprint
	StatusFinished
	StatusDNF
	StatusDisqualified
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusAwaitingSprint:
		return "awaiting_sprint"
	case StatusFinished:
		return "finished"
	case StatusDNF:
		return "dnf"
	case StatusDisqualified:
		return "disqualified"
	default:
		return "unknown"
	}
}

// Eligible reports whether the player still counts for standings
// and the survivor count.
func (s PlayerStatus) Eligible() bool {
	return s != StatusDNF && s != StatusDisqualified
}

// roster entry handed over by the player screen
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoRef string `json:"photoRef,omitempty"`
}

// per-player mutable progression record
type PlayerRaceState struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoRef string `json:"photoRef,omitempty"`
	// starting order, 1-based (avatar fallback number)
	Number           int          `json:"number"`
	Level            int          `json:"level"`
	RemainingSeconds int          `json:"remainingSeconds"`
	Status           PlayerStatus `json:"status"`
	Punctured        bool         `json:"punctured"`
	// level at which the puncture fires, 0 when the stage is too short
	PunctureLevel int       `json:"punctureLevel"`
	StartedAt     time.Time `json:"startedAt"`
	// number of successful advances, drives the average pace display
	Advances int `json:"advances"`
	// global elapsed seconds at finish, -1 while racing
	FinishedAtSeconds int `json:"finishedAtSeconds"`
}

func (p *PlayerRaceState) Clone() *PlayerRaceState {
	c := *p
	return &c
}
