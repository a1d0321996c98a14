package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no existen Update ni Delete.
type MovementRepository interface {
	Append(ctx context.Context, m *entity.Movement) error
	// ListByProduct devuelve el historial de un producto, más reciente primero.
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error)
	// ListRecent devuelve los últimos movimientos globales (feed del dashboard).
	ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]*entity.Movement, error)
	ListByType(ctx context.Context, t entity.MovementType) ([]*entity.Movement, error)
	// ListByCompany devuelve los movimientos de todos los productos de una empresa.
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Movement, error)
	// SumOutboundSince suma las cantidades OUT de un producto desde el instante dado
	// (insumo del estimador de demanda).
	SumOutboundSince(ctx context.Context, productID string, since time.Time) (int64, error)
}
