package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una empresa.
// CurrentStock es un contador desnormalizado: la fuente de verdad es el libro de
// movimientos, pero se guarda junto al producto para lecturas O(1). Solo el caso de
// uso de registro de movimientos lo escribe, en la misma transacción del movimiento.
type Product struct {
	ID                string
	CompanyID         string
	SKU               string
	Name              string
	Unit              string
	CurrentStock      int64 // nunca negativo
	MinStockLevel     *int64
	OptimalStockLevel *int64
	MaxStockLevel     *int64
	ReorderPoint      *int64
	ReorderQuantity   *int64
	PurchasePrice     decimal.Decimal
	SellingPrice      decimal.Decimal
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LowStockThreshold devuelve el nivel mínimo configurado, o fallback si no existe.
func (p *Product) LowStockThreshold(fallback int64) int64 {
	if p.MinStockLevel != nil {
		return *p.MinStockLevel
	}
	return fallback
}

// IsLowStock indica si el stock actual está por debajo del nivel mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.MinStockLevel != nil && p.CurrentStock < *p.MinStockLevel
}
