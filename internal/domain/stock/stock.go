// Package stock contiene la aritmética pura del contador de stock (servicio de dominio).
package stock

import (
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// Apply calcula el stock resultante de aplicar un movimiento sobre stockBefore.
//
//	IN:         stockBefore + quantity
//	OUT/SCRAP:  stockBefore - quantity, exige stockBefore >= quantity
//	ADJUSTMENT: quantity (fija el valor absoluto, no es un delta)
//
// quantity debe ser > 0. El switch es exhaustivo sobre el enum cerrado; cualquier
// otro valor es un error de programación y falla de inmediato.
func Apply(t entity.MovementType, productID string, stockBefore, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	switch t {
	case entity.MovementTypeIN:
		return stockBefore + quantity, nil
	case entity.MovementTypeOUT, entity.MovementTypeSCRAP:
		if stockBefore < quantity {
			return 0, &domain.InsufficientStockError{
				ProductID: productID,
				Requested: quantity,
				Available: stockBefore,
			}
		}
		return stockBefore - quantity, nil
	case entity.MovementTypeADJUSTMENT:
		return quantity, nil
	}
	return 0, domain.ErrInvalidMovementType
}
