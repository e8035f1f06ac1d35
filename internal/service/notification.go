package service

import (
	"context"
	"errors"

	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService creates and serves notifications. Its Notify
// method is the side-effect boundary the exchange engine calls through.
type NotificationService struct {
	notifications *repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Notify stores a notification for userID. Errors propagate to the
// caller, which decides whether they are fatal; the exchange engine
// deliberately swallows them.
func (s *NotificationService) Notify(ctx context.Context, userID int64, title, message, notificationType string, relatedID int64) error {
	n := &model.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		RelatedID: relatedID,
	}
	return s.notifications.Create(ctx, n)
}

// List returns notifications for user, newest first.
func (s *NotificationService) List(ctx context.Context, user *model.User, skip, limit int) ([]model.NotificationResponse, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	notifications, err := s.notifications.ListByUser(ctx, user.ID, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]model.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = notifications[i].ToResponse()
	}
	return responses, nil
}

// UnreadCount returns the number of unread notifications for user.
func (s *NotificationService) UnreadCount(ctx context.Context, user *model.User) (int64, error) {
	return s.notifications.UnreadCount(ctx, user.ID)
}

// MarkRead flips the read flag on one of user's notifications. A
// notification that does not exist or belongs to someone else reports
// not found; whether the id exists for another user is not revealed.
func (s *NotificationService) MarkRead(ctx context.Context, user *model.User, notificationID int64) error {
	err := s.notifications.MarkRead(ctx, notificationID, user.ID)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
