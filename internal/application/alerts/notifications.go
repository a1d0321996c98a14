package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// NotificationUseCase gestiona el ciclo de vida de las alertas: creación (desde el
// barrido u otros eventos de negocio) y lectura/marcado por parte del usuario.
// No existe borrado: una alerta termina su vida marcada como leída.
type NotificationUseCase struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(notifRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifRepo: notifRepo}
}

// CreateLowStock crea la alerta de stock bajo para un (usuario, producto) con el
// título y mensaje legibles que incluyen nombre y cantidad actual.
func (uc *NotificationUseCase) CreateLowStock(ctx context.Context, userID string, product *entity.Product) (*entity.Notification, error) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: product.ID,
		Type:      entity.NotificationTypeLowStock,
		Title:     "¡Stock bajo!",
		Message:   fmt.Sprintf("El producto '%s' tiene stock bajo. Cantidad actual: %d", product.Name, product.CurrentStock),
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := uc.notifRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// HasRecent indica si ya existe una alerta del mismo tipo para el par
// (usuario, producto) dentro de la ventana de deduplicación.
func (uc *NotificationUseCase) HasRecent(ctx context.Context, userID, productID string, t entity.NotificationType, window time.Duration) (bool, error) {
	since := time.Now().Add(-window)
	return uc.notifRepo.ExistsRecent(ctx, userID, productID, t, since)
}

// ListByUser todas las alertas del usuario, más reciente primero.
func (uc *NotificationUseCase) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return uc.notifRepo.ListByUser(ctx, userID)
}

// ListUnread alertas no leídas del usuario.
func (uc *NotificationUseCase) ListUnread(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return uc.notifRepo.ListUnreadByUser(ctx, userID)
}

// UnreadCount número de alertas no leídas del usuario.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.notifRepo.CountUnreadByUser(ctx, userID)
}

// MarkRead marca una alerta como leída. Solo el dueño puede hacerlo.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := uc.notifRepo.GetByIDAndUser(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	return uc.notifRepo.MarkRead(ctx, n.ID)
}

// MarkAllRead marca todas las alertas del usuario como leídas.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.notifRepo.MarkAllRead(ctx, userID)
}
