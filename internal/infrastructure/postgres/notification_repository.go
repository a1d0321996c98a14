package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, user_id, product_id, type, title, message, is_read, created_at`

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una alerta nueva.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	productID := (*string)(nil)
	if n.ProductID != "" {
		productID = &n.ProductID
	}
	query := `
		INSERT INTO notifications (id, user_id, product_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.UserID, productID, string(n.Type), n.Title, n.Message, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ExistsRecent indica si hay una alerta del tipo para (usuario, producto) con
// created_at posterior a since. Es el probe de deduplicación del barrido.
func (r *NotificationRepo) ExistsRecent(ctx context.Context, userID, productID string, t entity.NotificationType, since time.Time) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM notifications
		WHERE user_id = $1 AND product_id = $2 AND type = $3 AND created_at >= $4)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, userID, productID, string(t), since).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists recent notification: %w", err)
	}
	return exists, nil
}

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	var kind string
	var productID *string
	err := row.Scan(&n.ID, &n.UserID, &productID, &kind, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.Type = entity.NotificationType(kind)
	if productID != nil {
		n.ProductID = *productID
	}
	return &n, nil
}

func (r *NotificationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// ListByUser todas las alertas de un usuario, más reciente primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListUnreadByUser alertas no leídas de un usuario, más reciente primero.
func (r *NotificationRepo) ListUnreadByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND is_read = false ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// CountUnreadByUser número de alertas no leídas.
func (r *NotificationRepo) CountUnreadByUser(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	var count int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// GetByIDAndUser devuelve la alerta solo si pertenece al usuario; nil si no.
func (r *NotificationRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1 AND user_id = $2`
	n, err := scanNotification(r.q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

// MarkRead marca una alerta como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// MarkAllRead marca todas las alertas del usuario como leídas.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`
	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
