package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
	"github.com/gridduel/tictactoe-rooms-backend/internal/entity"
)

// codeAlphabet leaves out 0/O and 1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const maxCodeAttempts = 10

var ErrCodeSpaceExhausted = errors.New("could not generate a free room code")

type RoomService interface {
	CreateRoom(ctx context.Context) (*entity.Room, error)
	GetRoomByCode(ctx context.Context, code string) (*entity.Room, error)
	UpdateRoom(ctx context.Context, room *entity.Room) error
	DeleteRoom(ctx context.Context, code string) error
}

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
	DeleteByCode(ctx context.Context, code string) error
}

type roomService struct {
	roomRepo   roomRepo
	codeLength int
}

func NewRoomService(roomRepo roomRepo, codeLength int) RoomService {
	return &roomService{
		roomRepo:   roomRepo,
		codeLength: codeLength,
	}
}

// CreateRoom - registers a new waiting room under a code no other room holds.
func (that *roomService) CreateRoom(ctx context.Context) (*entity.Room, error) {
	code, err := that.generateFreeCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate room code: %w", err)
	}

	room := entity.NewRoom(code)
	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

func (that *roomService) GetRoomByCode(ctx context.Context, code string) (*entity.Room, error) {
	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve room from storage: %w", err)
	}

	return room, nil
}

func (that *roomService) UpdateRoom(ctx context.Context, room *entity.Room) error {
	if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

func (that *roomService) DeleteRoom(ctx context.Context, code string) error {
	if err := that.roomRepo.DeleteByCode(ctx, code); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// generateFreeCode - draws random codes until one is not taken yet.
func (that *roomService) generateFreeCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateRoomCode(that.codeLength)
		if err != nil {
			return "", err
		}

		_, err = that.roomRepo.GetByCode(ctx, code)
		if errors.Is(err, apperror.ErrRoomNotFound) {
			return code, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
	}

	return "", ErrCodeSpaceExhausted
}

// GenerateRoomCode - produces a short shareable room code.
func GenerateRoomCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		code[i] = codeAlphabet[n.Int64()]
	}

	return string(code), nil
}
