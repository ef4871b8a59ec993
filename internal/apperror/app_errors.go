package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrIllegalAction = errors.New("illegal action")

	ErrNoPriorState      = errors.New("no prior state")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrUnknownArchetype  = errors.New("unknown archetype")
	ErrUnknownScene      = errors.New("unknown scene")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
)
