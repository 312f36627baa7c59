package repository

import (
	"context"

	"tutoring-checkin/internal/domain/model"
)

type SessionTypeRepository interface {
	Save(ctx context.Context, tx Tx, st *model.SessionType) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SessionType, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.SessionType, error)
}
