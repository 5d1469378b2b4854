package basedata

import (
	"fmt"

	"github.com/letapeapp/race-engine-go/pkg/model"
)

// SampleStage is a flat five level stage with one rest checkpoint.
// Short uniform durations keep scripted test races readable.
func SampleStage() *model.StageProfile {
	return &model.StageProfile{
		ID:         "test_stage",
		Title:      "Test Stage",
		Color:      "#888888",
		Difficulty: "flat",
		ProfileTag: "flat",
		Levels: []model.StageLevel{
			{Duration: 60, Height: 10},
			{Duration: 60, Height: 20},
			{Duration: 60, Rest: true, Height: 30},
			{Duration: 60, Height: 20},
			{Duration: 60, Height: 10},
		},
	}
}

// LongStage has enough levels for the puncture band to be non-empty.
func LongStage() *model.StageProfile {
	levels := make([]model.StageLevel, 0, 10)
	for i := 0; i < 10; i++ {
		levels = append(levels, model.StageLevel{Duration: 60, Height: 10 * (i + 1)})
	}
	levels[4].Rest = true
	return &model.StageProfile{
		ID:         "test_long",
		Title:      "Test Long Stage",
		Color:      "#444444",
		Difficulty: "mountain",
		ProfileTag: "summit",
		Levels:     levels,
	}
}

func SampleRoster(size int) []model.Participant {
	roster := make([]model.Participant, 0, size)
	for i := 0; i < size; i++ {
		roster = append(roster, model.Participant{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Player %d", i+1),
		})
	}
	return roster
}
