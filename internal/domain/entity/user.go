package entity

import "time"

// User representa un usuario de la plataforma (pertenece a una empresa).
// La autenticación vive fuera de este servicio; aquí solo se consulta para
// el fan-out de notificaciones y para registrar el actor de cada movimiento.
type User struct {
	ID        string
	CompanyID string
	Username  string
	Email     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
}
