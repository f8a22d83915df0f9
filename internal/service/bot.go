package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrNotBotTurn       = errors.New("it's not the bot's turn")
)

type BotService interface {
	MakeTurn(game *entity.Game) (entity.Action, error)
}

// botService plays the minimax-optimal move for the game's bot mark.
type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

func (that *botService) MakeTurn(game *entity.Game) (entity.Action, error) {
	if tictactoe.PlayerToMove(game.Board) != game.BotMark {
		return entity.Action{}, ErrNotBotTurn
	}

	action, ok := tictactoe.BestAction(game.Board)
	if !ok {
		return entity.Action{}, ErrNoAvailableMoves
	}

	next, err := tictactoe.Result(game.Board, action)
	if err != nil {
		return entity.Action{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	game.Board = next
	game.LastBotAction = &action
	game.SetOutcome(tictactoe.OutcomeOf(next))

	return action, nil
}
