package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (entity.Action, error)
}

// GameManager runs games between a human and the minimax bot.
type GameManager struct {
	logger *slog.Logger

	gameRepo   gameRepo
	botService botService

	newID func() string
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, botService botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		botService: botService,

		newID: uuid.NewString,
	}
}

// NewGame starts a game with the human playing humanMark. When the bot holds X it opens.
func (that *GameManager) NewGame(ctx context.Context, humanMark entity.Mark) (*entity.Game, error) {
	game, err := entity.NewGame(that.newID(), humanMark)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log := that.logger.With("method", "NewGame", "gameID", game.ID)

	if game.BotMark == entity.X {
		action, err := that.botService.MakeTurn(game)
		if err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}

		log.Debug("bot opened the game", "action", action.String())
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	log.Info("game created", "humanMark", humanMark.String())

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// MakeTurn applies the human's action and, if the game goes on, the bot's reply.
// On a rejected action the stored game is returned unchanged along with the error.
func (that *GameManager) MakeTurn(ctx context.Context, id string, action entity.Action) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", id)

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if game.IsFinished() {
		return game, apperror.ErrGameFinished
	}

	if tictactoe.PlayerToMove(game.Board) != game.HumanMark {
		return game, apperror.ErrNotYourTurn
	}

	next, err := tictactoe.Result(game.Board, action)
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	game.Board = next
	game.LastBotAction = nil
	game.SetOutcome(tictactoe.OutcomeOf(next))

	if game.IsOngoing() {
		botAction, err := that.botService.MakeTurn(game)
		if err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}

		log.Debug("bot answered", "action", action.String(), "reply", botAction.String())
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "outcome", game.Outcome.String())
	}

	return game, nil
}

// Hint searches board without touching any stored game.
func (that *GameManager) Hint(board entity.Board) (tictactoe.SearchResult, error) {
	if err := tictactoe.Validate(board); err != nil {
		return tictactoe.SearchResult{}, err
	}

	return tictactoe.Search(board), nil
}

// Analyze scores every legal action of board.
func (that *GameManager) Analyze(ctx context.Context, board entity.Board) ([]tictactoe.ActionScore, error) {
	if err := tictactoe.Validate(board); err != nil {
		return nil, err
	}

	scores, err := tictactoe.Analyze(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze board: %w", err)
	}

	return scores, nil
}
