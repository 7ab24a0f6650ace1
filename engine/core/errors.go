package core

import (
	"errors"
)

var (
	ErrInvalidChunkCount = errors.New("chunk count per axis must be positive")
	ErrInvalidResolution = errors.New("chunk resolution must be at least 2 points per axis")
	ErrInvalidBounds     = errors.New("total bounds size must be positive")
	ErrArenaOverflow     = errors.New("triangle arena capacity exceeded, buffer sizing invariant broken")
	ErrUnknown           = errors.New("unknown")
)
