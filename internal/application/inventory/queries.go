package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// QueryUseCase expone las lecturas del libro de movimientos y las proyecciones
// derivadas (feed reciente, valor de inventario, stock bajo). Todas son lecturas
// sin lock, eventualmente consistentes con el último movimiento confirmado.
type QueryUseCase struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	cache       ReadCache // nil = sin cache
}

// NewQueryUseCase construye el caso de uso de consultas. cache puede ser nil.
func NewQueryUseCase(movRepo repository.MovementRepository, productRepo repository.ProductRepository, cache ReadCache) *QueryUseCase {
	return &QueryUseCase{movRepo: movRepo, productRepo: productRepo, cache: cache}
}

// MovementHistory historial de un producto, más reciente primero.
func (uc *QueryUseCase) MovementHistory(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByProduct(ctx, productID, limit, offset)
}

// RecentMovements últimos movimientos globales (dashboard). Pasa por cache.
// El límite se acota igual que la paginación: default 50, tope 200 (también acota
// el espacio de claves del cache, una por límite).
func (uc *QueryUseCase) RecentMovements(ctx context.Context, limit int) ([]*entity.Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if uc.cache != nil {
		if ms, ok := uc.cache.GetRecentMovements(ctx, limit); ok {
			return ms, nil
		}
	}
	ms, err := uc.movRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.SetRecentMovements(ctx, limit, ms)
	}
	return ms, nil
}

// MovementsBetween movimientos en un rango de tiempo.
func (uc *QueryUseCase) MovementsBetween(ctx context.Context, start, end time.Time) ([]*entity.Movement, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListBetween(ctx, start, end)
}

// MovementsByType movimientos filtrados por tipo.
func (uc *QueryUseCase) MovementsByType(ctx context.Context, rawType string) ([]*entity.Movement, error) {
	kind, err := entity.ParseMovementType(rawType)
	if err != nil {
		return nil, err
	}
	return uc.movRepo.ListByType(ctx, kind)
}

// CompanyMovements movimientos de todos los productos de una empresa.
func (uc *QueryUseCase) CompanyMovements(ctx context.Context, companyID string, limit, offset int) ([]*entity.Movement, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByCompany(ctx, companyID, limit, offset)
}

// InventoryValue valor total del inventario: sum(purchase_price * current_stock)
// sobre productos activos. Pasa por cache.
func (uc *QueryUseCase) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	if uc.cache != nil {
		if v, ok := uc.cache.GetInventoryValue(ctx); ok {
			return v, nil
		}
	}
	v, err := uc.productRepo.InventoryValue(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if uc.cache != nil {
		uc.cache.SetInventoryValue(ctx, v)
	}
	return v, nil
}

// LowStockProducts productos activos bajo su nivel mínimo configurado.
func (uc *QueryUseCase) LowStockProducts(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListLowStock(ctx)
}
