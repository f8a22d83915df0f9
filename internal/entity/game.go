package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// Game is a session between a human and the engine.
type Game struct {
	ID            string  `json:"id"`
	Board         Board   `json:"board"`
	HumanMark     Mark    `json:"human_mark"`
	BotMark       Mark    `json:"bot_mark"`
	Status        string  `json:"status"`
	Winner        Mark    `json:"winner"`
	Outcome       Outcome `json:"outcome"`
	LastBotAction *Action `json:"last_bot_action,omitempty"`
}

// NewGame creates an ongoing game on the empty board with the human playing humanMark.
func NewGame(id string, humanMark Mark) (*Game, error) {
	if humanMark != X && humanMark != O {
		return nil, fmt.Errorf("%w: human must play X or O, got %q", apperror.ErrInvalidMark, humanMark.String())
	}

	return &Game{
		ID:        id,
		HumanMark: humanMark,
		BotMark:   humanMark.Opponent(),
		Status:    StatusOngoing,
		Outcome:   InProgress,
	}, nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// SetOutcome records the derived outcome and the matching status and winner.
func (that *Game) SetOutcome(outcome Outcome) {
	that.Outcome = outcome

	switch outcome {
	case XWins:
		that.Winner = X
		that.Status = StatusFinished
	case OWins:
		that.Winner = O
		that.Status = StatusFinished
	case Draw:
		that.Winner = Empty
		that.Status = StatusFinished
	default:
		that.Winner = Empty
		that.Status = StatusOngoing
	}
}
