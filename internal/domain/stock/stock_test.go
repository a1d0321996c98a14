package stock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/stock"
)

func TestApply_Entrada(t *testing.T) {
	after, err := stock.Apply(entity.MovementTypeIN, "p1", 10, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(35), after)
}

func TestApply_Salida(t *testing.T) {
	after, err := stock.Apply(entity.MovementTypeOUT, "p1", 100, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(70), after)
}

func TestApply_SalidaExacta_DejaCero(t *testing.T) {
	after, err := stock.Apply(entity.MovementTypeOUT, "p1", 30, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after)
}

func TestApply_SalidaInsuficiente_FallaConCantidades(t *testing.T) {
	_, err := stock.Apply(entity.MovementTypeOUT, "p1", 5, 9999)
	require.Error(t, err)

	// El error tipado expone las cantidades para el mensaje al cliente.
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "p1", insufficient.ProductID)
	assert.Equal(t, int64(9999), insufficient.Requested)
	assert.Equal(t, int64(5), insufficient.Available)

	// Y sigue siendo comparable contra el sentinel.
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestApply_Merma_DescuentaComoSalida(t *testing.T) {
	after, err := stock.Apply(entity.MovementTypeSCRAP, "p1", 10, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), after)

	_, err = stock.Apply(entity.MovementTypeSCRAP, "p1", 3, 4)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock),
		"la merma también exige stock disponible")
}

func TestApply_Ajuste_FijaValorAbsoluto(t *testing.T) {
	// ADJUSTMENT no es un delta: fija el contador al valor dado.
	after, err := stock.Apply(entity.MovementTypeADJUSTMENT, "p1", 500, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), after)
}

func TestApply_CantidadNoPositiva_Rechazada(t *testing.T) {
	for _, q := range []int64{0, -1, -100} {
		_, err := stock.Apply(entity.MovementTypeIN, "p1", 10, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestApply_TipoDesconocido_Rechazado(t *testing.T) {
	_, err := stock.Apply(entity.MovementType("TRANSFER"), "p1", 10, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType)
}

// El contador final de una secuencia debe ser el fold de los movimientos sobre
// el stock inicial, en orden.
func TestApply_SecuenciaReconstruyeContador(t *testing.T) {
	steps := []struct {
		kind entity.MovementType
		qty  int64
	}{
		{entity.MovementTypeIN, 100},
		{entity.MovementTypeOUT, 30},
		{entity.MovementTypeIN, 10},
		{entity.MovementTypeSCRAP, 5},
		{entity.MovementTypeADJUSTMENT, 60},
		{entity.MovementTypeOUT, 15},
	}

	current := int64(0)
	for _, s := range steps {
		next, err := stock.Apply(s.kind, "p1", current, s.qty)
		require.NoError(t, err)
		current = next
	}
	assert.Equal(t, int64(45), current)
}
