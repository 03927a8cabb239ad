package core

import "errors"

var (
	ErrInvalidReflector = errors.New("invalid reflector")
	ErrInvalidFeed      = errors.New("invalid feed")
	ErrInvalidSweep     = errors.New("invalid sweep")
	ErrInvalidScenario  = errors.New("invalid scenario")
)
