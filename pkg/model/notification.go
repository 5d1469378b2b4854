package model

type NotificationType string

// fire-once game events, consumed by presentation as transient pop-ups
const (
	NotifyGroupRest             NotificationType = "group_rest"
	NotifyPuncture              NotificationType = "puncture"
	NotifySprintOpened          NotificationType = "sprint_opened"
	NotifySprintResolutionReady NotificationType = "sprint_resolution_ready"
	NotifyRaceCompleted         NotificationType = "race_completed"
)

type Notification struct {
	Type     NotificationType `json:"type"`
	RaceKey  string           `json:"raceKey,omitempty"`
	PlayerID string           `json:"playerId,omitempty"`
	Level    int              `json:"level,omitempty"`
	// populated for race_completed
	FinishOrder []string `json:"finishOrder,omitempty"`
}
