package unitofwork

import (
	"context"

	"job-board-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	NotificationRepository() contract.NotificationRepository
}
