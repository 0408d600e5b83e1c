package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
	"github.com/gridduel/tictactoe-rooms-backend/internal/usecase"
)

type handlerFunc func(ctx context.Context, client *Client, payload json.RawMessage) error

type Server struct {
	logger *slog.Logger
	game   usecase.GameUseCase

	upgrader websocket.Upgrader

	connectionsMu sync.RWMutex
	connections   map[string]*Client

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, game usecase.GameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		connections: make(map[string]*Client),
		handlers:    make(map[string]handlerFunc),
	}

	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionWatchRoom] = server.handleWatchRoom
	server.handlers[ActionMakeMove] = server.handleMakeMove
	server.handlers[ActionRestartGame] = server.handleRestartGame
	server.handlers[ActionLeaveRoom] = server.handleLeaveRoom

	return server
}

// Start - starts the WebSocket server and blocks until it stops.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  0, // connections are long-lived
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewClient(conn)
	that.registerClient(client)

	log.Info("connection established", "connectionID", client.ID)

	that.readLoop(ctx, client)

	that.handleDisconnect(ctx, client)
}

// readLoop - processes inbound commands until the connection drops.
func (that *Server) readLoop(ctx context.Context, client *Client) {
	log := that.logger.With("method", "readLoop", "connectionID", client.ID)

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			that.sendError(client, message.Action, "unknown action: "+message.Action)
			continue
		}

		if err = handler(ctx, client, message.Payload); err != nil {
			log.Error("failed to process message", "action", message.Action, "error", err)
		}
	}
}

// handleDisconnect - treats a transport drop as an implicit leave. LeaveRoom
// notifies the remaining occupants itself.
func (that *Server) handleDisconnect(ctx context.Context, client *Client) {
	log := that.logger.With("method", "handleDisconnect", "connectionID", client.ID)

	that.unregisterClient(client)

	room, _, err := that.game.LeaveRoom(ctx, client.ID)

	switch {
	case errors.Is(err, apperror.ErrNotInRoom), errors.Is(err, apperror.ErrRoomNotFound):
		return
	case err != nil:
		log.Error("failed to leave room on disconnect", "error", err)
		return
	}

	log.Info("player disconnected", "roomCode", room.Code)
}

func (that *Server) registerClient(client *Client) {
	that.connectionsMu.Lock()
	defer that.connectionsMu.Unlock()
	that.connections[client.ID] = client
}

func (that *Server) unregisterClient(client *Client) {
	that.connectionsMu.Lock()
	defer that.connectionsMu.Unlock()
	delete(that.connections, client.ID)
}

func (that *Server) clientByID(id string) (*Client, bool) {
	that.connectionsMu.RLock()
	defer that.connectionsMu.RUnlock()
	client, ok := that.connections[id]
	return client, ok
}
