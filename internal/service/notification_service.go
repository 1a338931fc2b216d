package service

import (
	"context"
	"encoding/json"

	"job-board-be/internal/dto"
	"job-board-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// INotificationService serves the user-facing inbox.
type INotificationService interface {
	GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationRepository()

	notifs, _, err := repo.FindByUserID(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := repo.CountUnread(ctx, userId)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		var meta map[string]interface{}
		if len(n.Metadata) > 0 {
			_ = json.Unmarshal(n.Metadata, &meta)
		}
		items = append(items, dto.NotificationResponse{
			Id:        n.ID,
			Event:     n.TypeCode,
			Title:     n.Title,
			Body:      n.Message,
			Metadata:  meta,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllAsRead(ctx, userId)
}
