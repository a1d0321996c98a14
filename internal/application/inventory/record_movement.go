package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
	"github.com/tu-usuario/almacen-pro/internal/domain/stock"
	"github.com/tu-usuario/almacen-pro/pkg/logger"
)

// recordTimeout limita la operación completa (lock de fila + insert + commit).
// Si vence, el resultado es desconocido: el caller debe releer el stock, no
// reintentar a ciegas (la operación no es idempotente).
const recordTimeout = 10 * time.Second

// RecordMovementUseCase registra movimientos de inventario (IN, OUT, ADJUSTMENT,
// SCRAP) de forma transaccional, con bloqueo de fila sobre el producto
// (SELECT FOR UPDATE) para serializar escritores concurrentes del mismo producto.
// Es el ÚNICO camino que muta el contador CurrentStock: cualquier otro endpoint de
// ajuste debe pasar por aquí para que todo cambio de stock tenga su registro.
type RecordMovementUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher // nil = sin bus de eventos
	cache     ReadCache      // nil = sin cache
	log       *logger.Logger
}

// NewRecordMovementUseCase construye el caso de uso. publisher y cache pueden ser nil.
func NewRecordMovementUseCase(txRunner TxRunner, publisher EventPublisher, cache ReadCache, log *logger.Logger) *RecordMovementUseCase {
	return &RecordMovementUseCase{txRunner: txRunner, publisher: publisher, cache: cache, log: log}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	ProductID string
	Type      string
	Quantity  int64
	Reason    string
	Notes     string
	UserID    string
}

// RecordMovement valida la entrada, abre la transacción, bloquea la fila del
// producto, calcula el nuevo stock según el tipo y persiste contador + registro
// en un solo paso atómico. Devuelve el movimiento con ambos snapshots.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	kind, err := entity.ParseMovementType(input.Type)
	if err != nil {
		return nil, err
	}
	if input.ProductID == "" || input.UserID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	var created *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto: dos RecordMovement concurrentes sobre el
		// mismo producto quedan serializados y ningún stockBefore se lee dos veces.
		product, err := productRepo.GetByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		before := product.CurrentStock
		after, err := stock.Apply(kind, product.ID, before, input.Quantity)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := productRepo.UpdateStock(ctx, product.ID, after, now); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			UserID:      input.UserID,
			Type:        kind,
			Quantity:    input.Quantity,
			Reason:      input.Reason,
			Notes:       input.Notes,
			StockBefore: before,
			StockAfter:  after,
			RecordedAt:  now,
			CreatedAt:   now,
		}
		if err := movRepo.Append(ctx, mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(created)
	return created, nil
}

// afterCommit publica el evento e invalida el cache. Solo efectos best-effort:
// el movimiento ya está confirmado y un fallo aquí no lo revierte.
func (uc *RecordMovementUseCase) afterCommit(m *entity.Movement) {
	if uc.cache != nil {
		uc.cache.InvalidateMovements(context.Background())
	}
	if uc.publisher == nil {
		return
	}
	evt := MovementRecordedEvent{
		MovementID:  m.ID,
		ProductID:   m.ProductID,
		UserID:      m.UserID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		RecordedAt:  m.RecordedAt,
	}
	if err := uc.publisher.PublishMovementRecorded(context.Background(), evt); err != nil {
		uc.log.Warn().Err(err).
			Str("movement_id", m.ID).
			Str("product_id", m.ProductID).
			Msg("no se pudo publicar el evento de movimiento")
	}
}
