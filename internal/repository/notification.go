package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skillswap/skillswap-go/internal/model"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository handles notification persistence operations.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new unread notification and sets the generated ID
// and creation time on the struct.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	n.CreatedAt = time.Now().UTC().Truncate(time.Second)
	n.IsRead = false

	query := `INSERT INTO notifications (user_id, title, message, type, related_id, is_read, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	var relatedID any
	if n.RelatedID != 0 {
		relatedID = n.RelatedID
	}

	result, err := r.db.ExecContext(ctx, query,
		n.UserID, n.Title, n.Message, n.Type, relatedID, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	n.ID = id
	return nil
}

// ListByUser returns notifications for userID, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]model.Notification, error) {
	query := `SELECT id, user_id, title, message, type, related_id, is_read, created_at
	          FROM notifications
	          WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var relatedID sql.NullInt64
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &relatedID, &n.IsRead, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		n.RelatedID = relatedID.Int64
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// UnreadCount returns the number of unread notifications for userID.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`, userID,
	).Scan(&count)
	return count, err
}

// MarkRead flips the read flag on a notification owned by userID. The
// owner check is part of the statement so a recipient cannot mark
// another user's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Already-read rows also match zero affected on MySQL only when
		// the value is unchanged; confirm ownership before not-found.
		var exists int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM notifications WHERE id = ? AND user_id = ?`, id, userID,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
