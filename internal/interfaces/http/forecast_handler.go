package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/forecast"
	"github.com/tu-usuario/almacen-pro/internal/domain"
)

// ForecastHandler maneja las proyecciones de agotamiento y reorden (protegido).
type ForecastHandler struct {
	uc *forecast.UseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *forecast.UseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// GetStockForecast godoc
// @Summary      Proyección de agotamiento de un producto
// @Description  Demanda diaria promedio de los últimos 30 días y fecha estimada
//
//	de agotamiento. Sin demanda devuelve days_until_stockout = 999.
//
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockForecastDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forecast/stockout/{productId} [get]
func (h *ForecastHandler) GetStockForecast(c *fiber.Ctx) error {
	f, err := h.uc.PredictStockout(c.Context(), c.Params("productId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(f)
}

// GetCriticalForecasts godoc
// @Summary      Productos que se agotan en los próximos 7 días
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockForecastDTO
// @Router       /api/forecast/critical [get]
func (h *ForecastHandler) GetCriticalForecasts(c *fiber.Ctx) error {
	forecasts, err := h.uc.CriticalForecasts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(forecasts)
}

// GetReorderPoint godoc
// @Summary      Punto de reorden recomendado para un producto
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Param        productId       path   string  true   "ID del producto"
// @Param        lead_time_days  query  int     false  "Lead time del proveedor en días (default 7)"
// @Success      200  {object}  dto.ReorderPointDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forecast/reorder-point/{productId} [get]
func (h *ForecastHandler) GetReorderPoint(c *fiber.Ctx) error {
	leadTime := c.QueryInt("lead_time_days", 0)
	r, err := h.uc.ReorderPoint(c.Context(), c.Params("productId"), leadTime)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(r)
}

// GetReorderRecommendations godoc
// @Summary      Recomendaciones de reorden para todos los productos activos
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReorderPointDTO
// @Router       /api/forecast/reorder-recommendations [get]
func (h *ForecastHandler) GetReorderRecommendations(c *fiber.Ctx) error {
	recs, err := h.uc.ReorderRecommendations(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(recs)
}
