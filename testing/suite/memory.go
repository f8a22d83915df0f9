package suite

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// MemoryGameRepo keeps games in a map, for tests that don't need Redis.
type MemoryGameRepo struct {
	mu    sync.Mutex
	games map[string]entity.Game
}

func NewMemoryGameRepo() *MemoryGameRepo {
	return &MemoryGameRepo{games: make(map[string]entity.Game)}
}

func (that *MemoryGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}

func (that *MemoryGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return &entity.Game{}, apperror.ErrGameNotFound
	}

	return &game, nil
}

func (that *MemoryGameRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}
	delete(that.games, id)

	return nil
}
