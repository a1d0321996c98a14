package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type InventoryHandler struct {
	record  *inventory.RecordMovementUseCase
	queries *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(record *inventory.RecordMovementUseCase, queries *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{record: record, queries: queries}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Registra IN, OUT, ADJUSTMENT o SCRAP de forma atómica y devuelve
//
//	el movimiento con los snapshots de stock antes y después.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, type, quantity, reason, notes"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.record.RecordMovement(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Notes:     in.Notes,
		UserID:    userID,
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
				Code:              "INSUFFICIENT_STOCK",
				Message:           "stock insuficiente para la salida",
				ProductID:         insufficient.ProductID,
				RequestedQuantity: insufficient.Requested,
				AvailableQuantity: insufficient.Available,
			})
		}
		if errors.Is(err, domain.ErrInvalidMovementType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TYPE", Message: "tipo de movimiento desconocido"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// GetMovementHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Máximo de filas (default 50, tope 200)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/product/{productId} [get]
func (h *InventoryHandler) GetMovementHistory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.queries.MovementHistory(c.Context(), c.Params("productId"), page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MovementsFromEntities(movements))
}

// GetRecentMovements godoc
// @Summary      Últimos movimientos globales (dashboard)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas (default 50)"
// @Success      200  {array}  dto.MovementDTO
// @Router       /api/inventory/movements/recent [get]
func (h *InventoryHandler) GetRecentMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	movements, err := h.queries.RecentMovements(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MovementsFromEntities(movements))
}

// GetMovementsBetween godoc
// @Summary      Movimientos en un rango de fechas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Inicio (RFC3339)"
// @Param        end    query  string  true  "Fin (RFC3339)"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/range [get]
func (h *InventoryHandler) GetMovementsBetween(c *fiber.Ctx) error {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "start debe ser RFC3339"})
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "end debe ser RFC3339"})
	}
	movements, err := h.queries.MovementsBetween(c.Context(), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end no puede ser anterior a start"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MovementsFromEntities(movements))
}

// GetMovementsByType godoc
// @Summary      Movimientos filtrados por tipo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "IN | OUT | ADJUSTMENT | SCRAP"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/type/{type} [get]
func (h *InventoryHandler) GetMovementsByType(c *fiber.Ctx) error {
	movements, err := h.queries.MovementsByType(c.Context(), c.Params("type"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMovementType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TYPE", Message: "tipo de movimiento desconocido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MovementsFromEntities(movements))
}

// GetCompanyMovements godoc
// @Summary      Movimientos de todos los productos de la empresa del token
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de filas (default 50, tope 200)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.MovementDTO
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) GetCompanyMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.queries.CompanyMovements(c.Context(), companyID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MovementsFromEntities(movements))
}

// GetInventoryValue godoc
// @Summary      Valor total del inventario activo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryValueDTO
// @Router       /api/inventory/value [get]
func (h *InventoryHandler) GetInventoryValue(c *fiber.Ctx) error {
	value, err := h.queries.InventoryValue(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.InventoryValueDTO{TotalValue: value})
}

// GetLowStockProducts godoc
// @Summary      Productos activos bajo su nivel mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductStockDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStockProducts(c *fiber.Ctx) error {
	products, err := h.queries.LowStockProducts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ProductStockDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductStockFromEntity(p))
	}
	return c.JSON(out)
}
