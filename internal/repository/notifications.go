package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/model"
)

type NotificationRepository interface {
	Append(n *model.Notification) error

	// ListSince returns a recipient's notifications newer than since,
	// newest-first. A zero since returns the unread backlog plus
	// everything from the last day.
	ListSince(recipient model.UserID, since time.Time) ([]model.Notification, error)

	MarkRead(recipient model.UserID, ids []model.NotificationID) error
}

type DBNotificationRepository struct {
	db db.DB
}

func NewDBNotificationRepository(db db.DB) *DBNotificationRepository {
	return &DBNotificationRepository{db: db}
}

func (r *DBNotificationRepository) Append(n *model.Notification) error {
	if n.ID == "" {
		n.ID = model.NotificationID(uuid.New().String())
	}
	if n.CreatedDate.IsZero() {
		n.CreatedDate = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO notifications (id, recipient_id, kind, recipe_id, actor_id, body, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Recipient, n.Kind, n.RecipeID, n.Actor, n.Body, n.Read, n.CreatedDate,
	)
	if err != nil {
		return fmt.Errorf("error saving notification: %w", err)
	}

	repoLogger.Debug().Str("notification_id", string(n.ID)).Str("recipient", string(n.Recipient)).Msg("Notification appended")
	return nil
}

func (r *DBNotificationRepository) ListSince(recipient model.UserID, since time.Time) ([]model.Notification, error) {
	if since.IsZero() {
		since = time.Now().UTC().Add(-24 * time.Hour)
	}

	rows, err := r.db.Query(
		`SELECT id, recipient_id, kind, recipe_id, actor_id, body, read, created_at FROM notifications
		WHERE recipient_id = ? AND (read = ? OR created_at > ?)
		ORDER BY created_at DESC`,
		recipient, false, since,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(&n.ID, &n.Recipient, &n.Kind, &n.RecipeID, &n.Actor, &n.Body, &n.Read, &n.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *DBNotificationRepository) MarkRead(recipient model.UserID, ids []model.NotificationID) error {
	for _, id := range ids {
		_, err := r.db.Exec(
			`UPDATE notifications SET read = ? WHERE id = ? AND recipient_id = ?`,
			true, id, recipient,
		)
		if err != nil {
			return fmt.Errorf("error marking notification read: %w", err)
		}
	}
	return nil
}
