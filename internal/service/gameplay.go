package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
	"github.com/gridduel/tictactoe-rooms-backend/internal/entity"
	"github.com/gridduel/tictactoe-rooms-backend/internal/repository"
)

// Broadcaster delivers state-transition events to everyone bound to a room.
// It is called while the room lock is held, so events for one room always go
// out in the exact order their commands were accepted.
type Broadcaster interface {
	PlayerJoined(room *entity.Room)
	GameStarted(room *entity.Room)
	MoveMade(room *entity.Room)
	GameOver(room *entity.Room)
	GameRestarted(room *entity.Room)
	PlayerLeft(room *entity.Room, player *entity.Player)
	RoomClosed(room *entity.Room)
}

// GamePlayService arbitrates every room command. Commands for the same room
// are serialized on a per-room lock, so a command always runs
// validate -> mutate -> persist -> emit to completion before the next one starts.
type GamePlayService interface {
	CreateRoom(ctx context.Context, connectionID, name, avatar string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, connectionID, name, avatar string) (*entity.Room, *entity.Player, error)
	WatchRoom(ctx context.Context, code, connectionID string) (*entity.Room, error)

	MakeTurn(ctx context.Context, connectionID string, row, col int) (*entity.Room, error)
	RestartGame(ctx context.Context, connectionID string) (*entity.Room, error)

	LeaveRoom(ctx context.Context, connectionID string) (*entity.Room, *entity.Player, error)

	// SetBroadcaster wires the event sink after construction; the transport
	// that implements it also depends on this service.
	SetBroadcaster(broadcaster Broadcaster)
}

type gamePlayService struct {
	logger *slog.Logger

	roomService    RoomService
	sessionService SessionService
	broadcaster    Broadcaster

	emptyGracePeriod time.Duration

	roomLocks sync.Map // room code -> *sync.Mutex

	graceMu     sync.Mutex
	graceTimers map[string]*time.Timer
}

func NewGamePlayService(logger *slog.Logger, roomService RoomService, sessionService SessionService, emptyGracePeriod time.Duration) GamePlayService {
	return &gamePlayService{
		logger:           logger.With("component", "gameplay"),
		roomService:      roomService,
		sessionService:   sessionService,
		broadcaster:      noopBroadcaster{},
		emptyGracePeriod: emptyGracePeriod,
		graceTimers:      make(map[string]*time.Timer),
	}
}

func (that *gamePlayService) SetBroadcaster(broadcaster Broadcaster) {
	that.broadcaster = broadcaster
}

func (that *gamePlayService) CreateRoom(ctx context.Context, connectionID, name, avatar string) (*entity.Room, *entity.Player, error) {
	room, err := that.roomService.CreateRoom(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create room: %w", err)
	}

	unlock := that.lockRoom(room.Code)
	defer unlock()

	host := &entity.Player{ID: connectionID, Name: name, Avatar: avatar}
	if err = room.Join(host); err != nil {
		return nil, nil, fmt.Errorf("failed to seat host: %w", err)
	}

	if err = that.roomService.UpdateRoom(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to update room: %w", err)
	}

	if err = that.bindSession(ctx, connectionID, room.Code, host.Mark, false); err != nil {
		return nil, nil, err
	}

	that.logger.Info("room created", "roomCode", room.Code, "hostID", connectionID)

	return room, host, nil
}

func (that *gamePlayService) JoinRoom(ctx context.Context, code, connectionID, name, avatar string) (*entity.Room, *entity.Player, error) {
	unlock := that.lockRoom(code)
	defer unlock()

	room, err := that.roomService.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	player := &entity.Player{ID: connectionID, Name: name, Avatar: avatar}
	if err = room.Join(player); err != nil {
		return nil, nil, err
	}

	if err = that.roomService.UpdateRoom(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to update room: %w", err)
	}

	if err = that.bindSession(ctx, connectionID, room.Code, player.Mark, false); err != nil {
		return nil, nil, err
	}

	that.cancelDestroy(code)

	that.broadcaster.PlayerJoined(room)
	if room.IsPlaying() {
		that.broadcaster.GameStarted(room)
	}

	that.logger.Info("player joined room", "roomCode", room.Code, "playerID", connectionID, "mark", player.Mark)

	return room, player, nil
}

func (that *gamePlayService) WatchRoom(ctx context.Context, code, connectionID string) (*entity.Room, error) {
	unlock := that.lockRoom(code)
	defer unlock()

	room, err := that.roomService.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	room.AddSpectator(connectionID)

	if err = that.roomService.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	if err = that.bindSession(ctx, connectionID, room.Code, "", true); err != nil {
		return nil, err
	}

	return room, nil
}

func (that *gamePlayService) MakeTurn(ctx context.Context, connectionID string, row, col int) (*entity.Room, error) {
	session, err := that.sessionService.Resolve(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if session.Spectator {
		return nil, apperror.ErrSpectatorsCannotPlay
	}

	unlock := that.lockRoom(session.RoomCode)
	defer unlock()

	room, err := that.roomService.GetRoomByCode(ctx, session.RoomCode)
	if err != nil {
		return nil, err
	}

	if err = room.MakeTurn(session.Mark, row, col); err != nil {
		return nil, err
	}

	if err = that.roomService.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	// a terminal move emits game_over instead of move_made, never both
	if room.IsFinished() {
		that.broadcaster.GameOver(room)
	} else {
		that.broadcaster.MoveMade(room)
	}

	return room, nil
}

func (that *gamePlayService) RestartGame(ctx context.Context, connectionID string) (*entity.Room, error) {
	session, err := that.sessionService.Resolve(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if session.Spectator {
		return nil, apperror.ErrSpectatorsCannotPlay
	}

	unlock := that.lockRoom(session.RoomCode)
	defer unlock()

	room, err := that.roomService.GetRoomByCode(ctx, session.RoomCode)
	if err != nil {
		return nil, err
	}

	if err = room.Restart(); err != nil {
		return nil, err
	}

	if err = that.roomService.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcaster.GameRestarted(room)

	that.logger.Info("game restarted", "roomCode", room.Code, "requestedBy", connectionID)

	return room, nil
}

// LeaveRoom - unbinds the connection and frees its seat. The returned player
// is nil when the connection was a spectator. An empty room is destroyed only
// after the grace period, so a brief full disconnect does not lose the code.
func (that *gamePlayService) LeaveRoom(ctx context.Context, connectionID string) (*entity.Room, *entity.Player, error) {
	session, err := that.sessionService.Resolve(ctx, connectionID)
	if err != nil {
		return nil, nil, err
	}

	if err = that.sessionService.Unbind(ctx, connectionID); err != nil {
		return nil, nil, err
	}

	unlock := that.lockRoom(session.RoomCode)
	defer unlock()

	room, err := that.roomService.GetRoomByCode(ctx, session.RoomCode)
	if err != nil {
		return nil, nil, err
	}

	if session.Spectator {
		room.RemoveSpectator(connectionID)
		if err = that.roomService.UpdateRoom(ctx, room); err != nil {
			return nil, nil, fmt.Errorf("failed to update room: %w", err)
		}
		return room, nil, nil
	}

	removed := room.RemovePlayer(session.Mark)

	if err = that.roomService.UpdateRoom(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to update room: %w", err)
	}

	if removed != nil {
		that.broadcaster.PlayerLeft(room, removed)
	}

	if room.IsEmpty() {
		that.scheduleDestroy(room.Code)
	}

	that.logger.Info("player left room", "roomCode", room.Code, "playerID", connectionID)

	return room, removed, nil
}

func (that *gamePlayService) bindSession(ctx context.Context, connectionID, code, mark string, spectator bool) error {
	session := &repository.Session{
		ConnectionID: connectionID,
		RoomCode:     code,
		Mark:         mark,
		Spectator:    spectator,
	}

	if err := that.sessionService.Bind(ctx, session); err != nil {
		return fmt.Errorf("failed to bind session: %w", err)
	}

	return nil
}

// lockRoom - serializes command processing for one room.
func (that *gamePlayService) lockRoom(code string) func() {
	lock, _ := that.roomLocks.LoadOrStore(code, &sync.Mutex{})
	mu, _ := lock.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// scheduleDestroy - arms the empty-room timer. The caller holds the room lock.
func (that *gamePlayService) scheduleDestroy(code string) {
	that.graceMu.Lock()
	defer that.graceMu.Unlock()

	if _, ok := that.graceTimers[code]; ok {
		return
	}

	that.graceTimers[code] = time.AfterFunc(that.emptyGracePeriod, func() {
		that.destroyIfStillEmpty(code)
	})
}

func (that *gamePlayService) cancelDestroy(code string) {
	that.graceMu.Lock()
	defer that.graceMu.Unlock()

	if timer, ok := that.graceTimers[code]; ok {
		timer.Stop()
		delete(that.graceTimers, code)
	}
}

func (that *gamePlayService) destroyIfStillEmpty(code string) {
	log := that.logger.With("method", "destroyIfStillEmpty", "roomCode", code)

	// timer callback outlives the request that armed it
	ctx := context.Background()

	unlock := that.lockRoom(code)
	defer unlock()

	that.graceMu.Lock()
	delete(that.graceTimers, code)
	that.graceMu.Unlock()

	room, err := that.roomService.GetRoomByCode(ctx, code)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return
	}

	if err != nil {
		log.Error("failed to load room for destruction", "error", err)
		return
	}

	if !room.IsEmpty() {
		return
	}

	if err = that.roomService.DeleteRoom(ctx, code); err != nil {
		log.Error("failed to destroy room", "error", err)
		return
	}

	if len(room.Spectators) > 0 {
		that.broadcaster.RoomClosed(room)
	}

	that.roomLocks.Delete(code)

	log.Info("empty room destroyed")
}

// noopBroadcaster keeps the service usable before a transport is attached.
type noopBroadcaster struct{}

func (noopBroadcaster) PlayerJoined(_ *entity.Room)                {}
func (noopBroadcaster) GameStarted(_ *entity.Room)                 {}
func (noopBroadcaster) MoveMade(_ *entity.Room)                    {}
func (noopBroadcaster) GameOver(_ *entity.Room)                    {}
func (noopBroadcaster) GameRestarted(_ *entity.Room)               {}
func (noopBroadcaster) PlayerLeft(_ *entity.Room, _ *entity.Player) {}
func (noopBroadcaster) RoomClosed(_ *entity.Room)                  {}
