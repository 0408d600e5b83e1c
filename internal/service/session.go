package service

import (
	"context"
	"fmt"

	"github.com/gridduel/tictactoe-rooms-backend/internal/repository"
)

type SessionService interface {
	Bind(ctx context.Context, session *repository.Session) error
	Resolve(ctx context.Context, connectionID string) (*repository.Session, error)
	Unbind(ctx context.Context, connectionID string) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *repository.Session) error
	GetByConnectionID(ctx context.Context, connectionID string) (*repository.Session, error)
	DeleteByConnectionID(ctx context.Context, connectionID string) error
}

type sessionService struct {
	sessionRepo sessionRepo
}

func NewSessionService(sessionRepo sessionRepo) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
	}
}

func (that *sessionService) Bind(ctx context.Context, session *repository.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to bind session: %w", err)
	}

	return nil
}

func (that *sessionService) Resolve(ctx context.Context, connectionID string) (*repository.Session, error) {
	session, err := that.sessionRepo.GetByConnectionID(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return session, nil
}

func (that *sessionService) Unbind(ctx context.Context, connectionID string) error {
	if err := that.sessionRepo.DeleteByConnectionID(ctx, connectionID); err != nil {
		return fmt.Errorf("failed to unbind session: %w", err)
	}

	return nil
}
