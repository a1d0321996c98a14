package entity

import (
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain"
)

// MovementType clasifica un cambio de stock. Conjunto cerrado: solo se construye
// vía ParseMovementType, de modo que un tipo desconocido es irrepresentable aguas abajo.
type MovementType string

const (
	MovementTypeIN         MovementType = "IN"         // entrada (recepción)
	MovementTypeOUT        MovementType = "OUT"        // salida (venta/despacho)
	MovementTypeADJUSTMENT MovementType = "ADJUSTMENT" // ajuste absoluto: fija el stock en la cantidad
	MovementTypeSCRAP      MovementType = "SCRAP"      // baja por daño o pérdida
)

// ParseMovementType valida y convierte un string al enum cerrado.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(s) {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeSCRAP:
		return MovementType(s), nil
	}
	return "", domain.ErrInvalidMovementType
}

// Movement es un registro del libro de movimientos. Inmutable una vez creado:
// las correcciones se hacen con movimientos nuevos, nunca editando o borrando.
// StockBefore/StockAfter son snapshots del contador en el momento del commit.
type Movement struct {
	ID          string
	ProductID   string
	UserID      string
	Type        MovementType
	Quantity    int64 // siempre positivo; el signo lo da el tipo
	Reason      string
	Notes       string
	StockBefore int64
	StockAfter  int64
	RecordedAt  time.Time
	CreatedAt   time.Time
}
