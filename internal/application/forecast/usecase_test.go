package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/forecast"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeMovRepo solo implementa lo que el estimador consume: la suma de salidas.
type fakeMovRepo struct {
	outboundByProduct map[string]int64
}

func (f *fakeMovRepo) Append(_ context.Context, _ *entity.Movement) error { return nil }
func (f *fakeMovRepo) ListByProduct(_ context.Context, _ string, _, _ int) ([]*entity.Movement, error) {
	return nil, nil
}
func (f *fakeMovRepo) ListRecent(_ context.Context, _ int) ([]*entity.Movement, error) {
	return nil, nil
}
func (f *fakeMovRepo) ListBetween(_ context.Context, _, _ time.Time) ([]*entity.Movement, error) {
	return nil, nil
}
func (f *fakeMovRepo) ListByType(_ context.Context, _ entity.MovementType) ([]*entity.Movement, error) {
	return nil, nil
}
func (f *fakeMovRepo) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.Movement, error) {
	return nil, nil
}
func (f *fakeMovRepo) SumOutboundSince(_ context.Context, productID string, _ time.Time) (int64, error) {
	return f.outboundByProduct[productID], nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) UpdateStock(_ context.Context, _ string, _ int64, _ time.Time) error {
	return nil
}
func (f *fakeProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}
func (f *fakeProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) InventoryValue(_ context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newUseCase(products map[string]*entity.Product, outbound map[string]int64) *forecast.UseCase {
	return forecast.NewUseCase(
		&fakeMovRepo{outboundByProduct: outbound},
		&fakeProductRepo{products: products},
	)
}

func int64ptr(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Tests MovingAverage
// ──────────────────────────────────────────────────────────────────────────────

func TestMovingAverage_SinSalidas_RetornaCero(t *testing.T) {
	uc := newUseCase(nil, map[string]int64{})

	avg, err := uc.MovingAverage(context.Background(), "p1", 30)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())
}

func TestMovingAverage_DivideEntreVentanaCompleta(t *testing.T) {
	// 60 unidades en 30 días = 2.00/día, aunque las ventas ocurran en un solo día:
	// los días sin ventas diluyen el promedio.
	uc := newUseCase(nil, map[string]int64{"p1": 60})

	avg, err := uc.MovingAverage(context.Background(), "p1", 30)
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.RequireFromString("2")), "esperaba 2.00, obtuve %s", avg)
}

func TestMovingAverage_RedondeaADosDecimales(t *testing.T) {
	// 100/30 = 3.333... → 3.33
	uc := newUseCase(nil, map[string]int64{"p1": 100})

	avg, err := uc.MovingAverage(context.Background(), "p1", 30)
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.RequireFromString("3.33")), "esperaba 3.33, obtuve %s", avg)
}

func TestMovingAverage_VentanaNoPositiva_Rechazada(t *testing.T) {
	uc := newUseCase(nil, map[string]int64{})

	_, err := uc.MovingAverage(context.Background(), "p1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PredictStockout
// ──────────────────────────────────────────────────────────────────────────────

func TestPredictStockout_SinDemanda_RetornaSentinel(t *testing.T) {
	products := map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Tuerca M8", CurrentStock: 500, IsActive: true},
	}
	uc := newUseCase(products, map[string]int64{})

	f, err := uc.PredictStockout(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 999, f.DaysUntilStockout, "sin demanda el horizonte es el sentinel, nunca división por cero")
	assert.Empty(t, f.EstimatedStockoutDate)
	assert.True(t, f.AverageDailyDemand.IsZero())
}

func TestPredictStockout_ConDemanda_FloorYFecha(t *testing.T) {
	// 100 OUT en 30 días = 3.33/día; 10 / 3.33 = 3.003 → floor 3 días.
	products := map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Tuerca M8", CurrentStock: 10, IsActive: true},
	}
	uc := newUseCase(products, map[string]int64{"p1": 100})

	f, err := uc.PredictStockout(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, f.DaysUntilStockout)
	assert.Equal(t, time.Now().AddDate(0, 0, 3).Format("2006-01-02"), f.EstimatedStockoutDate)
}

func TestPredictStockout_ProductoInexistente_RetornaNotFound(t *testing.T) {
	uc := newUseCase(map[string]*entity.Product{}, map[string]int64{})

	_, err := uc.PredictStockout(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ReorderPoint
// ──────────────────────────────────────────────────────────────────────────────

func TestReorderPoint_CeilMasStockSeguridad(t *testing.T) {
	// 75 OUT en 30 días = 2.5/día; 2.5 * 7 = 17.5 → ceil 18; + seguridad 5 = 23.
	products := map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Arandela", CurrentStock: 40, MinStockLevel: int64ptr(5), IsActive: true},
	}
	uc := newUseCase(products, map[string]int64{"p1": 75})

	r, err := uc.ReorderPoint(context.Background(), "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(23), r.ReorderPoint)
	assert.Equal(t, int64(5), r.SafetyStock)
	assert.Equal(t, 7, r.LeadTimeDays)
}

func TestReorderPoint_SinNivelMinimo_SeguridadCero(t *testing.T) {
	products := map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Arandela", CurrentStock: 40, IsActive: true},
	}
	uc := newUseCase(products, map[string]int64{"p1": 60})

	r, err := uc.ReorderPoint(context.Background(), "p1", 10)
	require.NoError(t, err)
	// 2.00/día * 10 = 20, sin seguridad.
	assert.Equal(t, int64(20), r.ReorderPoint)
	assert.Equal(t, int64(0), r.SafetyStock)
}

func TestReorderPoint_LeadTimeNoPositivo_UsaDefault(t *testing.T) {
	products := map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Arandela", CurrentStock: 40, IsActive: true},
	}
	uc := newUseCase(products, map[string]int64{"p1": 30})

	r, err := uc.ReorderPoint(context.Background(), "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, r.LeadTimeDays, "lead time no positivo debe caer al default")
	// 1.00/día * 7 = 7.
	assert.Equal(t, int64(7), r.ReorderPoint)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CriticalForecasts
// ──────────────────────────────────────────────────────────────────────────────

func TestCriticalForecasts_FiltraHorizonteDeSieteDias(t *testing.T) {
	products := map[string]*entity.Product{
		// 300/30 = 10/día; 20 / 10 = 2 días → crítico.
		"critico": {ID: "critico", Name: "Crítico", CurrentStock: 20, IsActive: true},
		// 30/30 = 1/día; 400 días → holgado.
		"holgado": {ID: "holgado", Name: "Holgado", CurrentStock: 400, IsActive: true},
		// Sin demanda → sentinel 999, nunca crítico.
		"dormido": {ID: "dormido", Name: "Dormido", CurrentStock: 3, IsActive: true},
	}
	uc := newUseCase(products, map[string]int64{"critico": 300, "holgado": 30})

	critical, err := uc.CriticalForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, "critico", critical[0].ProductID)
	assert.Equal(t, 2, critical[0].DaysUntilStockout)
}
