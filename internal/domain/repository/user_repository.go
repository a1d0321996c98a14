package repository

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// UserRepository define el puerto de consulta de usuarios (colaborador externo:
// la gestión de usuarios vive en otro servicio; aquí solo se lee).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// ListByCompany devuelve los usuarios activos de una empresa (fan-out de alertas).
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
}
