package contract

import (
	"context"

	"job-board-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository persists in-app notification records. Notifications
// are write-mostly; reads serve the UI inbox only.
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}
