package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientStockResponse cuerpo de error para stock insuficiente: incluye las
// cantidades para que el cliente pueda mostrar un mensaje preciso.
type InsufficientStockResponse struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	ProductID         string `json:"product_id"`
	RequestedQuantity int64  `json:"requested_quantity"`
	AvailableQuantity int64  `json:"available_quantity"`
}
