package websocket

import (
	"context"
	"errors"
	"fmt"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errActionRequired = errors.New("action is required")
	errBoardRequired  = errors.New("board is required")
)

func (that *Server) handleNewGame(ctx context.Context, payload *Payload) (*ResponsePayload, error) {
	game, err := that.gameUseCase.NewGame(ctx, payload.Mark)
	if err != nil {
		return nil, fmt.Errorf("failed to create a new game: %w", err)
	}

	return &ResponsePayload{Game: game}, nil
}

func (that *Server) handleGetGame(ctx context.Context, payload *Payload) (*ResponsePayload, error) {
	if payload.GameID == "" {
		return nil, errGameIDRequired
	}

	game, err := that.gameUseCase.GetGame(ctx, payload.GameID)
	if err != nil {
		return nil, err
	}

	return &ResponsePayload{Game: game}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, payload *Payload) (*ResponsePayload, error) {
	if payload.GameID == "" {
		return nil, errGameIDRequired
	}

	if payload.Action == nil {
		return nil, errActionRequired
	}

	game, err := that.gameUseCase.MakeTurn(ctx, payload.GameID, *payload.Action)
	if err != nil {
		return nil, err
	}

	return &ResponsePayload{Game: game}, nil
}

func (that *Server) handleBestAction(_ context.Context, payload *Payload) (*ResponsePayload, error) {
	if payload.Board == nil {
		return nil, errBoardRequired
	}

	res, err := that.gameUseCase.Hint(*payload.Board)
	if err != nil {
		return nil, err
	}

	return &ResponsePayload{Search: &res}, nil
}
