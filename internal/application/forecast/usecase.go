package forecast

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

const (
	// windowDays ventana fija de demanda histórica para las proyecciones.
	windowDays = 30
	// farFutureDays sentinel para "sin demanda: no se agota en el horizonte".
	farFutureDays = 999
	// criticalHorizonDays un producto es crítico si se agota dentro de esta ventana.
	criticalHorizonDays = 7
	// defaultLeadTimeDays lead time asumido cuando el caller no especifica uno.
	defaultLeadTimeDays = 7
)

// UseCase deriva de la historia del libro una tasa de demanda y, a partir de ella,
// la fecha estimada de agotamiento y el punto de reorden recomendado. Todos los
// valores son calculados al vuelo, nunca persistidos.
type UseCase struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso de proyecciones.
func NewUseCase(movRepo repository.MovementRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{movRepo: movRepo, productRepo: productRepo}
}

// MovingAverage demanda diaria promedio: suma de cantidades OUT en los últimos
// windowDays días dividida por windowDays. Los días sin ventas cuentan como cero y
// diluyen el promedio hacia abajo; NO es "promedio de los días con ventas".
// Devuelve 0 si no hay salidas en la ventana. Escala 2, redondeo half-up.
func (uc *UseCase) MovingAverage(ctx context.Context, productID string, window int) (decimal.Decimal, error) {
	if window <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	since := time.Now().AddDate(0, 0, -window)
	total, err := uc.movRepo.SumOutboundSince(ctx, productID, since)
	if err != nil {
		return decimal.Zero, err
	}
	if total == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(total).
		Div(decimal.NewFromInt(int64(window))).
		Round(2), nil
}

// PredictStockout proyecta cuándo se agota el stock de un producto con la demanda
// de los últimos 30 días. Sin demanda devuelve el sentinel 999 y sin fecha, nunca
// una división por cero. El conteo de días usa floor: pesimista, no sobreestima
// los días que quedan.
func (uc *UseCase) PredictStockout(ctx context.Context, productID string) (*dto.StockForecastDTO, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.forecastFor(ctx, product)
}

func (uc *UseCase) forecastFor(ctx context.Context, product *entity.Product) (*dto.StockForecastDTO, error) {
	avg, err := uc.MovingAverage(ctx, product.ID, windowDays)
	if err != nil {
		return nil, err
	}

	out := &dto.StockForecastDTO{
		ProductID:          product.ID,
		ProductName:        product.Name,
		CurrentStock:       product.CurrentStock,
		AverageDailyDemand: avg,
		DaysUntilStockout:  farFutureDays,
	}
	if avg.GreaterThan(decimal.Zero) {
		days := int(decimal.NewFromInt(product.CurrentStock).Div(avg).Floor().IntPart())
		out.DaysUntilStockout = days
		out.EstimatedStockoutDate = time.Now().AddDate(0, 0, days).Format("2006-01-02")
	}
	return out, nil
}

// ReorderPoint recomienda el punto de reorden para un lead time dado:
// ceil(demanda diaria * lead time) + stock de seguridad. El ceiling nunca
// subestima el disparador; el stock de seguridad es el min_stock_level
// configurado del producto, o 0 si no tiene.
func (uc *UseCase) ReorderPoint(ctx context.Context, productID string, leadTimeDays int) (*dto.ReorderPointDTO, error) {
	if leadTimeDays <= 0 {
		leadTimeDays = defaultLeadTimeDays
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.reorderFor(ctx, product, leadTimeDays)
}

func (uc *UseCase) reorderFor(ctx context.Context, product *entity.Product, leadTimeDays int) (*dto.ReorderPointDTO, error) {
	avg, err := uc.MovingAverage(ctx, product.ID, windowDays)
	if err != nil {
		return nil, err
	}

	var safetyStock int64
	if product.MinStockLevel != nil {
		safetyStock = *product.MinStockLevel
	}
	reorderPoint := avg.Mul(decimal.NewFromInt(int64(leadTimeDays))).Ceil().IntPart() + safetyStock

	return &dto.ReorderPointDTO{
		ProductID:    product.ID,
		ProductName:  product.Name,
		LeadTimeDays: leadTimeDays,
		SafetyStock:  safetyStock,
		ReorderPoint: reorderPoint,
	}, nil
}

// CriticalForecasts proyecta todos los productos activos y devuelve los que se
// agotan dentro de los próximos 7 días.
func (uc *UseCase) CriticalForecasts(ctx context.Context) ([]dto.StockForecastDTO, error) {
	products, err := uc.productRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	critical := make([]dto.StockForecastDTO, 0)
	for _, p := range products {
		f, err := uc.forecastFor(ctx, p)
		if err != nil {
			return nil, err
		}
		if f.DaysUntilStockout <= criticalHorizonDays {
			critical = append(critical, *f)
		}
	}
	return critical, nil
}

// ReorderRecommendations genera una recomendación por producto activo con el
// lead time por defecto.
func (uc *UseCase) ReorderRecommendations(ctx context.Context) ([]dto.ReorderPointDTO, error) {
	products, err := uc.productRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	recs := make([]dto.ReorderPointDTO, 0, len(products))
	for _, p := range products {
		r, err := uc.reorderFor(ctx, p, defaultLeadTimeDays)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *r)
	}
	return recs, nil
}
