package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second
	maxMessageSize  = 4096
)

type gameUseCase interface {
	NewGame(ctx context.Context, humanMark entity.Mark) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, action entity.Action) (*entity.Game, error)

	Hint(board entity.Board) (tictactoe.SearchResult, error)
}

type handlerFunc func(ctx context.Context, payload *Payload) (*ResponsePayload, error)

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionGetGame] = server.handleGetGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionBestAction] = server.handleBestAction

	return server
}

// Handler serves WebSocket upgrades on /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConn(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConn - upgrades the connection and processes messages until the client leaves.
func (that *Server) serveConn(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConn", "remote", r.RemoteAddr)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// unblock ReadJSON when the server shuts down
	go func() {
		<-connCtx.Done()
		_ = conn.Close()
	}()

	log.Info("WebSocket connection established")

	for {
		var message Message
		if err = conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		response := that.dispatch(connCtx, &message)

		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err = conn.WriteJSON(response); err != nil {
			log.Error("failed to send response", "error", err)
			return
		}
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) Response {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return Response{Action: message.Action, Error: "unknown action"}
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return Response{Action: message.Action, Error: "invalid payload"}
		}
	}

	resp, err := handler(ctx, &payload)
	if err != nil {
		log.Debug("action failed", "error", err)
		return Response{Action: message.Action, Error: err.Error()}
	}

	return Response{Action: message.Action, Payload: resp}
}
