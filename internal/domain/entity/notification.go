package entity

import "time"

// NotificationType tipo de alerta.
type NotificationType string

const (
	NotificationTypeLowStock NotificationType = "LOW_STOCK"
)

// Notification es una alerta dirigida a un usuario, opcionalmente asociada a un
// producto. Creada por el barrido de stock bajo u otros eventos de negocio; después
// de creada solo cambia el flag IsRead (no hay borrado).
type Notification struct {
	ID        string
	UserID    string
	ProductID string // vacío = sin producto asociado
	Type      NotificationType
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
