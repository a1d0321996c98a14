package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/alerts"
	"github.com/tu-usuario/almacen-pro/internal/application/forecast"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecordMovement *inventory.RecordMovementUseCase
	InventoryQuery *inventory.QueryUseCase
	ForecastUC     *forecast.UseCase
	NotificationUC *alerts.NotificationUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Health (público)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Libro de movimientos e inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RecordMovement, deps.InventoryQuery)
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/movements", inventoryHandler.GetCompanyMovements)
	invGroup.Get("/movements/recent", inventoryHandler.GetRecentMovements)
	invGroup.Get("/movements/range", inventoryHandler.GetMovementsBetween)
	invGroup.Get("/movements/type/:type", inventoryHandler.GetMovementsByType)
	invGroup.Get("/movements/product/:productId", inventoryHandler.GetMovementHistory)
	invGroup.Get("/value", RequireRole("admin", "manager"), inventoryHandler.GetInventoryValue)
	invGroup.Get("/low-stock", inventoryHandler.GetLowStockProducts)

	// Proyecciones (protegido)
	forecastGroup := protected.Group("/forecast")
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	forecastGroup.Get("/stockout/:productId", forecastHandler.GetStockForecast)
	forecastGroup.Get("/critical", forecastHandler.GetCriticalForecasts)
	forecastGroup.Get("/reorder-point/:productId", forecastHandler.GetReorderPoint)
	forecastGroup.Get("/reorder-recommendations", forecastHandler.GetReorderRecommendations)

	// Bandeja de alertas (protegido)
	notifGroup := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifGroup.Get("/", notificationHandler.List)
	notifGroup.Get("/unread", notificationHandler.ListUnread)
	notifGroup.Get("/unread-count", notificationHandler.UnreadCount)
	notifGroup.Put("/read-all", notificationHandler.MarkAllRead)
	notifGroup.Put("/:id/read", notificationHandler.MarkRead)
}
