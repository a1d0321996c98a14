package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza la atomicidad contador-de-stock + registro del libro:
// ambos se hacen visibles juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// MovementRecordedEvent payload publicado al bus tras cada movimiento confirmado.
type MovementRecordedEvent struct {
	MovementID  string    `json:"movement_id"`
	ProductID   string    `json:"product_id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// EventPublisher publica eventos de inventario al bus. Puede ser nil (deshabilitado);
// los fallos de publicación se loguean y nunca revierten el movimiento ya confirmado.
type EventPublisher interface {
	PublishMovementRecorded(ctx context.Context, evt MovementRecordedEvent) error
}

// ReadCache cachea proyecciones de lectura calientes (feed reciente, valor de
// inventario). Miss o error = degradar a la consulta en BD. Puede ser nil.
type ReadCache interface {
	GetInventoryValue(ctx context.Context) (decimal.Decimal, bool)
	SetInventoryValue(ctx context.Context, v decimal.Decimal)
	GetRecentMovements(ctx context.Context, limit int) ([]*entity.Movement, bool)
	SetRecentMovements(ctx context.Context, limit int, ms []*entity.Movement)
	// InvalidateMovements borra las proyecciones cacheadas tras un movimiento nuevo.
	InvalidateMovements(ctx context.Context)
}
