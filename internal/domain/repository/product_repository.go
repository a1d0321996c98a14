package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de catálogo y actualización del
// contador de stock. GetByIDForUpdate y UpdateStock solo tienen sentido dentro de
// una transacción (ver TxRunner): el lock de fila serializa los escritores
// concurrentes del mismo producto.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStock escribe el contador desnormalizado. Único caller legítimo:
	// el caso de uso de registro de movimientos, dentro de su transacción.
	UpdateStock(ctx context.Context, id string, newStock int64, at time.Time) error
	ListActive(ctx context.Context) ([]*entity.Product, error)
	// ListLowStock devuelve los productos activos con stock bajo su nivel mínimo configurado.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	// InventoryValue devuelve sum(purchase_price * current_stock) sobre productos activos.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}
