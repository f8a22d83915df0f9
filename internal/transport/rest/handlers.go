package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/pkg/handlers"
)

var errBoardRequired = fmt.Errorf("%w: board is required", apperror.ErrInvalidBoard)

type newGameRequest struct {
	Mark entity.Mark `json:"mark"`
}

type boardRequest struct {
	Board *entity.Board `json:"board"`
}

type analyzeResponse struct {
	Scores []tictactoe.ActionScore `json:"scores"`
}

// GameResponse is a game with the fields a client needs to render its next move.
type GameResponse struct {
	*entity.Game
	Turn         entity.Mark     `json:"turn"`
	LegalActions []entity.Action `json:"legal_actions"`
}

func NewGameResponse(game *entity.Game) GameResponse {
	resp := GameResponse{Game: game, LegalActions: []entity.Action{}}
	if game.IsOngoing() {
		resp.Turn = tictactoe.PlayerToMove(game.Board)
		resp.LegalActions = tictactoe.LegalActions(game.Board)
	}

	return resp
}

func (that *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	game, err := that.gameUseCase.NewGame(r.Context(), req.Mark)
	if err != nil {
		that.writeError(w, "handleNewGame", err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, NewGameResponse(game))
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "handleGetGame", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, NewGameResponse(game))
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "handleDeleteGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleMakeTurn(w http.ResponseWriter, r *http.Request) {
	var action entity.Action
	if !decodeBody(w, r, &action) {
		return
	}

	game, err := that.gameUseCase.MakeTurn(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		that.writeError(w, "handleMakeTurn", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, NewGameResponse(game))
}

func (that *Server) handleBestAction(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Board == nil {
		handlers.WriteError(w, http.StatusBadRequest, errBoardRequired.Error())
		return
	}

	res, err := that.gameUseCase.Hint(*req.Board)
	if err != nil {
		that.writeError(w, "handleBestAction", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, res)
}

func (that *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Board == nil {
		handlers.WriteError(w, http.StatusBadRequest, errBoardRequired.Error())
		return
	}

	scores, err := that.gameUseCase.Analyze(r.Context(), *req.Board)
	if err != nil {
		that.writeError(w, "handleAnalyze", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, analyzeResponse{Scores: scores})
}

// decodeBody reads a JSON body into v. Domain errors raised while decoding, such as a
// board of the wrong size, are reported as they are; anything else is an invalid payload.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	if StatusFromError(err) == http.StatusBadRequest {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}

	handlers.WriteError(w, http.StatusBadRequest, "invalid payload")

	return false
}

func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		handlers.WriteError(w, status, http.StatusText(status))
		return
	}

	handlers.WriteError(w, status, err.Error())
}

// StatusFromError maps application errors to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidAction),
		errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrInvalidBoard):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
