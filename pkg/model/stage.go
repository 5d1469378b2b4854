package model

import (
	"errors"
	"fmt"
)

// one segment of a stage. Duration is the drinking interval in seconds,
// Rest marks a group rest checkpoint, Height is the elevation for the
// profile chart (display only).
type StageLevel struct {
	Duration int  `json:"duration"`
	Rest     bool `json:"rest,omitempty"`
	Height   int  `json:"height,omitempty"`
}

// immutable stage configuration, loaded once at race start
type StageProfile struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Color       string       `json:"color,omitempty"`
	Difficulty  string       `json:"difficulty,omitempty"`
	Description string       `json:"description,omitempty"`
	ProfileTag  string       `json:"profileTag,omitempty"`
	Levels      []StageLevel `json:"levels"`
}

var ErrInvalidStage = errors.New("invalid stage profile")

func (s *StageProfile) LevelCount() int {
	return len(s.Levels)
}

// Duration returns the drinking interval in seconds for the 1-based level.
func (s *StageProfile) Duration(level int) int {
	return s.Levels[level-1].Duration
}

func (s *StageProfile) IsRestCheckpoint(level int) bool {
	return s.Levels[level-1].Rest
}

func (s *StageProfile) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidStage)
	}
	if len(s.Levels) == 0 {
		return fmt.Errorf("%w: %s has no levels", ErrInvalidStage, s.ID)
	}
	for i, l := range s.Levels {
		if l.Duration <= 0 {
			return fmt.Errorf("%w: %s level %d has duration %d",
				ErrInvalidStage, s.ID, i+1, l.Duration)
		}
	}
	return nil
}
