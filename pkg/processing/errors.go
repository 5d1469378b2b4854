package processing

import "errors"

var (
	// a race must not start without a resolvable stage
	ErrStageMissing = errors.New("stage profile missing")
	ErrEmptyRoster  = errors.New("race needs at least one player")
	// action referenced a player id not part of the race
	ErrUnknownPlayer = errors.New("unknown player")
	// action invoked against a player in an incompatible status
	ErrInvalidAction = errors.New("invalid action for player status")
)
