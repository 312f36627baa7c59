// File: internal/usecase/session_type_uc.go
package usecase

import (
	"context"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
)

// Compile-time check
var _ SessionTypeUseCase = (*sessionTypeUC)(nil)

type SessionTypeUseCase interface {
	Create(ctx context.Context, name, description string, unitPrice int64, durationMinutes int, ledgerItemRef *string) (*model.SessionType, error)
	List(ctx context.Context) ([]*model.SessionType, error)
	Get(ctx context.Context, id string) (*model.SessionType, error)
}

type sessionTypeUC struct {
	sessionTypes repository.SessionTypeRepository
}

func NewSessionTypeUseCase(sessionTypes repository.SessionTypeRepository) *sessionTypeUC {
	return &sessionTypeUC{sessionTypes: sessionTypes}
}

func (u *sessionTypeUC) Create(ctx context.Context, name, description string, unitPrice int64, durationMinutes int, ledgerItemRef *string) (*model.SessionType, error) {
	st, err := model.NewSessionType("", name, description, unitPrice, durationMinutes, ledgerItemRef)
	if err != nil {
		return nil, err
	}
	if err := u.sessionTypes.Save(ctx, nil, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (u *sessionTypeUC) List(ctx context.Context) ([]*model.SessionType, error) {
	return u.sessionTypes.ListAll(ctx, nil)
}

func (u *sessionTypeUC) Get(ctx context.Context, id string) (*model.SessionType, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.sessionTypes.FindByID(ctx, nil, id)
}
