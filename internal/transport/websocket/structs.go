package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	actionNewGame    = "game:new"
	actionGetGame    = "game:get"
	actionGameTurn   = "game:turn"
	actionBestAction = "engine:best"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the request body of every action; each action reads the fields it needs.
type Payload struct {
	GameID string         `json:"game_id,omitempty"`
	Mark   entity.Mark    `json:"mark,omitempty"`
	Action *entity.Action `json:"action,omitempty"`
	Board  *entity.Board  `json:"board,omitempty"`
}

type ResponsePayload struct {
	Game   *entity.Game            `json:"game,omitempty"`
	Search *tictactoe.SearchResult `json:"search,omitempty"`
}

// Response echoes the request action. Error is set instead of Payload when it failed.
type Response struct {
	Action  string           `json:"action"`
	Payload *ResponsePayload `json:"payload,omitempty"`
	Error   string           `json:"error,omitempty"`
}
