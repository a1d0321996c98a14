package dto

import (
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// NotificationDTO representación HTTP de una alerta.
type NotificationDTO struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationFromEntity convierte la entidad a DTO.
func NotificationFromEntity(n *entity.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		ProductID: n.ProductID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationsFromEntities convierte la lista completa.
func NotificationsFromEntities(ns []*entity.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationFromEntity(n))
	}
	return out
}
