package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// RecordMovementRequest body para POST /api/inventory/movements.
type RecordMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // IN | OUT | ADJUSTMENT | SCRAP
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// MovementDTO representación HTTP de un registro del libro de movimientos.
type MovementDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// MovementFromEntity convierte la entidad a DTO.
func MovementFromEntity(m *entity.Movement) MovementDTO {
	return MovementDTO{
		ID:          m.ID,
		ProductID:   m.ProductID,
		UserID:      m.UserID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		Notes:       m.Notes,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		RecordedAt:  m.RecordedAt,
	}
}

// MovementsFromEntities convierte la lista completa.
func MovementsFromEntities(ms []*entity.Movement) []MovementDTO {
	out := make([]MovementDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, MovementFromEntity(m))
	}
	return out
}

// ProductStockDTO vista reducida de producto para el listado de stock bajo.
type ProductStockDTO struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	CurrentStock  int64  `json:"current_stock"`
	MinStockLevel *int64 `json:"min_stock_level,omitempty"`
}

// ProductStockFromEntity convierte la entidad a DTO.
func ProductStockFromEntity(p *entity.Product) ProductStockDTO {
	return ProductStockDTO{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		SKU:           p.SKU,
		Name:          p.Name,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
	}
}

// InventoryValueDTO respuesta de GET /api/inventory/value.
type InventoryValueDTO struct {
	TotalValue decimal.Decimal `json:"total_value"`
}
