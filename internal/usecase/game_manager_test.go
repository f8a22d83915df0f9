package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-engine/mocks/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

var (
	errRedisDown = errors.New("redis down")
	errBotBroken = errors.New("bot broken")
)

func newManager(t *testing.T, repo gameRepo, bot botService) *GameManager {
	t.Helper()

	manager := NewGameManager(suite.NewLogger(), repo, bot)
	manager.newID = func() string { return "game-1" }

	return manager
}

func ongoingGame(t *testing.T, humanMark entity.Mark, board entity.Board) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("game-1", humanMark)
	require.NoError(t, err)
	game.Board = board

	return game
}

func TestGameManager_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Human plays X and the board stays empty", func(t *testing.T) {
		// Given: a repository that accepts the new game
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: the human starts a game as X
		game, err := manager.NewGame(ctx, entity.X)

		// Then: the game is ongoing and the bot has not moved
		require.NoError(t, err)
		assert.Equal(t, "game-1", game.ID)
		assert.Equal(t, entity.X, game.HumanMark)
		assert.Equal(t, entity.O, game.BotMark)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.True(t, game.IsOngoing())
	})

	t.Run("Bot opens when the human plays O", func(t *testing.T) {
		// Given: the real bot and a repository that accepts the game
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(t, mockGameRepo, service.NewBotService())

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: the human starts a game as O
		game, err := manager.NewGame(ctx, entity.O)

		// Then: X is already on the board
		require.NoError(t, err)
		assert.Equal(t, 1, game.Board.Count(entity.X))
		require.NotNil(t, game.LastBotAction)
		assert.Equal(t, entity.Action{Row: 0, Col: 0}, *game.LastBotAction)
	})

	t.Run("Rejects an empty mark", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		_, err := manager.NewGame(ctx, entity.Empty)

		require.ErrorIs(t, err, apperror.ErrInvalidMark)
	})

	t.Run("Returns error if the bot fails to open", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		mockBot.EXPECT().
			MakeTurn(mock.AnythingOfType("*entity.Game")).
			Return(entity.Action{}, errBotBroken).
			Once()

		_, err := manager.NewGame(ctx, entity.O)

		require.ErrorIs(t, err, errBotBroken)
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.Anything).
			Return(errRedisDown).
			Once()

		_, err := manager.NewGame(ctx, entity.X)

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Bot answers the human move", func(t *testing.T) {
		// Given: a stored game with the human as X on an empty board
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(t, mockGameRepo, service.NewBotService())

		stored := ongoingGame(t, entity.X, entity.Board{})
		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()
		mockGameRepo.EXPECT().CreateOrUpdate(mock.Anything, stored).Return(nil).Once()

		// When: the human plays the centre
		game, err := manager.MakeTurn(ctx, "game-1", entity.Action{Row: 1, Col: 1})

		// Then: both marks are on the board and it is the human's turn again
		require.NoError(t, err)
		assert.Equal(t, entity.X, game.Board[1][1])
		assert.Equal(t, 1, game.Board.Count(entity.O))
		require.NotNil(t, game.LastBotAction)
		assert.True(t, game.IsOngoing())
	})

	t.Run("Bot blocks a threat", func(t *testing.T) {
		// Given: the human as X about to threaten the bottom row
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(t, mockGameRepo, service.NewBotService())

		stored := ongoingGame(t, entity.X, entity.Board{
			{entity.Empty, entity.Empty, entity.Empty},
			{entity.Empty, entity.O, entity.Empty},
			{entity.X, entity.Empty, entity.Empty},
		})
		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()
		mockGameRepo.EXPECT().CreateOrUpdate(mock.Anything, stored).Return(nil).Once()

		// When: the human plays next to their mark
		game, err := manager.MakeTurn(ctx, "game-1", entity.Action{Row: 2, Col: 1})

		// Then: the bot blocks the row
		require.NoError(t, err)
		assert.Equal(t, &entity.Action{Row: 2, Col: 2}, game.LastBotAction)
		assert.Equal(t, entity.O, game.Board[2][2])
	})

	t.Run("Winning move finishes the game without a bot reply", func(t *testing.T) {
		// Given: the human as X with two in the top row
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		stored := ongoingGame(t, entity.X, entity.Board{
			{entity.X, entity.X, entity.Empty},
			{entity.O, entity.O, entity.Empty},
			{entity.Empty, entity.Empty, entity.Empty},
		})
		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()
		mockGameRepo.EXPECT().CreateOrUpdate(mock.Anything, stored).Return(nil).Once()

		// When: the human completes the row
		game, err := manager.MakeTurn(ctx, "game-1", entity.Action{Row: 0, Col: 2})

		// Then: the game is finished with X as winner
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, entity.X, game.Winner)
		assert.Equal(t, entity.XWins, game.Outcome)
		assert.Nil(t, game.LastBotAction)
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: a game whose centre is taken
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		board := entity.Board{
			{entity.Empty, entity.Empty, entity.Empty},
			{entity.Empty, entity.X, entity.Empty},
			{entity.Empty, entity.Empty, entity.O},
		}
		stored := ongoingGame(t, entity.X, board)
		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()

		// When: the human plays the centre again
		game, err := manager.MakeTurn(ctx, "game-1", entity.Action{Row: 1, Col: 1})

		// Then: ErrInvalidAction is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrInvalidAction)
		assert.Equal(t, board, game.Board)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a game where the human plays O and X has not moved
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		stored := ongoingGame(t, entity.O, entity.Board{})
		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()

		// When: the human tries to move
		_, err := manager.MakeTurn(ctx, "game-1", entity.Action{Row: 0, Col: 0})

		// Then: ErrNotYourTurn is returned
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		stored := ongoingGame(t, entity.X, entity.Board{
			{entity.X, entity.X, entity.X},
			{entity.O, entity.O, entity.Empty},
			{entity.Empty, entity.Empty, entity.Empty},
		})
		stored.SetOutcome(entity.XWins)
		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()

		_, err := manager.MakeTurn(ctx, "game-1", entity.Action{Row: 2, Col: 2})

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Error on unknown game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		mockBot := mockedUseCase.NewMockbotService(t)
		manager := newManager(t, mockGameRepo, mockBot)

		mockGameRepo.EXPECT().
			GetByID(mock.Anything, "missing").
			Return((*entity.Game)(nil), apperror.ErrGameNotFound).
			Once()

		_, err := manager.MakeTurn(ctx, "missing", entity.Action{})

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Returns error if the update fails", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := newManager(t, mockGameRepo, service.NewBotService())

		stored := ongoingGame(t, entity.X, entity.Board{})
		mockGameRepo.EXPECT().GetByID(mock.Anything, "game-1").Return(stored, nil).Once()
		mockGameRepo.EXPECT().CreateOrUpdate(mock.Anything, stored).Return(errRedisDown).Once()

		_, err := manager.MakeTurn(ctx, "game-1", entity.Action{Row: 0, Col: 0})

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_DeleteGame(t *testing.T) {
	mockGameRepo := mockedUseCase.NewMockgameRepo(t)
	mockBot := mockedUseCase.NewMockbotService(t)
	manager := newManager(t, mockGameRepo, mockBot)

	mockGameRepo.EXPECT().DeleteByID(mock.Anything, "game-1").Return(nil).Once()
	mockGameRepo.EXPECT().DeleteByID(mock.Anything, "game-2").Return(apperror.ErrGameNotFound).Once()

	require.NoError(t, manager.DeleteGame(context.Background(), "game-1"))
	require.ErrorIs(t, manager.DeleteGame(context.Background(), "game-2"), apperror.ErrGameNotFound)
}

func TestGameManager_Hint(t *testing.T) {
	mockGameRepo := mockedUseCase.NewMockgameRepo(t)
	mockBot := mockedUseCase.NewMockbotService(t)
	manager := newManager(t, mockGameRepo, mockBot)

	t.Run("Finds the winning cell", func(t *testing.T) {
		res, err := manager.Hint(entity.Board{
			{entity.O, entity.Empty, entity.Empty},
			{entity.Empty, entity.O, entity.Empty},
			{entity.X, entity.X, entity.Empty},
		})

		require.NoError(t, err)
		require.NotNil(t, res.Action)
		assert.Equal(t, entity.Action{Row: 2, Col: 2}, *res.Action)
		assert.Equal(t, 1, res.Score)
	})

	t.Run("Rejects an unreachable board", func(t *testing.T) {
		_, err := manager.Hint(entity.Board{{entity.O, entity.O, entity.Empty}})

		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}

func TestGameManager_Analyze(t *testing.T) {
	mockGameRepo := mockedUseCase.NewMockgameRepo(t)
	mockBot := mockedUseCase.NewMockbotService(t)
	manager := newManager(t, mockGameRepo, mockBot)

	scores, err := manager.Analyze(context.Background(), entity.Board{
		{entity.X, entity.X, entity.Empty},
		{entity.O, entity.O, entity.Empty},
		{entity.X, entity.Empty, entity.Empty},
	})
	require.NoError(t, err)
	require.Len(t, scores, 4)
	assert.Equal(t, entity.Action{Row: 1, Col: 2}, scores[1].Action)
	assert.Equal(t, -1, scores[1].Score)

	_, err = manager.Analyze(context.Background(), entity.Board{{entity.X, entity.X, entity.Empty}})
	require.ErrorIs(t, err, apperror.ErrInvalidBoard)
}
