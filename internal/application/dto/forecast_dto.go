package dto

import "github.com/shopspring/decimal"

// StockForecastDTO proyección de agotamiento de stock de un producto.
// DaysUntilStockout=999 es el sentinel "sin demanda, no se agota en el horizonte";
// en ese caso EstimatedStockoutDate viene vacío.
type StockForecastDTO struct {
	ProductID             string          `json:"product_id"`
	ProductName           string          `json:"product_name,omitempty"`
	CurrentStock          int64           `json:"current_stock"`
	AverageDailyDemand    decimal.Decimal `json:"average_daily_demand"`
	DaysUntilStockout     int             `json:"days_until_stockout"`
	EstimatedStockoutDate string          `json:"estimated_stockout_date,omitempty"` // YYYY-MM-DD
}

// ReorderPointDTO recomendación de punto de reorden.
type ReorderPointDTO struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	LeadTimeDays int    `json:"lead_time_days"`
	SafetyStock  int64  `json:"safety_stock"`
	ReorderPoint int64  `json:"reorder_point"`
}
