package apperror

import "errors"

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidMark   = errors.New("invalid mark")
	ErrInvalidBoard  = errors.New("invalid board")
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrGameNotFound  = errors.New("game not found")
)
