package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia de alertas.
// ExistsRecent es el probe de deduplicación del barrido: un check leer-y-crear que
// tolera carreras (una alerta duplicada bajo carrera es aceptable, no fatal).
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ExistsRecent(ctx context.Context, userID, productID string, t entity.NotificationType, since time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	ListUnreadByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	CountUnreadByUser(ctx context.Context, userID string) (int64, error)
	// GetByIDAndUser devuelve nil si la notificación no existe o pertenece a otro usuario.
	GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}
