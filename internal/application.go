package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridduel/tictactoe-rooms-backend/internal/config"
	"github.com/gridduel/tictactoe-rooms-backend/internal/repository"
	"github.com/gridduel/tictactoe-rooms-backend/internal/repository/storage"
	"github.com/gridduel/tictactoe-rooms-backend/internal/service"
	"github.com/gridduel/tictactoe-rooms-backend/internal/transport/rest"
	"github.com/gridduel/tictactoe-rooms-backend/internal/transport/websocket"
	"github.com/gridduel/tictactoe-rooms-backend/internal/usecase"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	roomRepo := repository.NewRoomRepository(redisStorage.Connection)
	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)

	roomService := service.NewRoomService(roomRepo, conf.Room.CodeLength)
	sessionService := service.NewSessionService(sessionRepo)
	gamePlayService := service.NewGamePlayService(logger, roomService, sessionService, conf.Room.EmptyGracePeriod)

	gameUseCase := usecase.NewGameUseCase(gamePlayService)

	wsServer := websocket.New(logger, gameUseCase)
	gamePlayService.SetBroadcaster(wsServer)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, conf.AvatarsDir); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
