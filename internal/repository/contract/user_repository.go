package contract

import (
	"context"

	"job-board-be/internal/entity"
	"job-board-be/internal/repository/specification"
)

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}
