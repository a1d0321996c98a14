package alerts

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
	"github.com/tu-usuario/almacen-pro/pkg/logger"
)

// SentinelConfig parámetros del barrido periódico.
type SentinelConfig struct {
	Interval         time.Duration // periodo del ticker
	DedupWindow      time.Duration // ventana de supresión por (usuario, producto, tipo)
	DefaultThreshold int64         // umbral cuando el producto no tiene min_stock_level
}

// AlertPublisher publica las alertas de stock bajo al bus. Puede ser nil.
type AlertPublisher interface {
	PublishLowStockAlert(ctx context.Context, evt LowStockAlertEvent) error
}

// LowStockAlertEvent payload publicado al bus por cada alerta creada.
type LowStockAlertEvent struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	CurrentStock   int64  `json:"current_stock"`
	Threshold      int64  `json:"threshold"`
}

// LowStockSentinel recorre periódicamente el catálogo buscando productos bajo su
// umbral y crea alertas deduplicadas por (usuario, producto). Un solo barrido en
// vuelo a la vez: si el ticker dispara con un barrido corriendo, el tick se salta.
// Un fallo con un par (usuario, producto) se aísla y loguea; el barrido continúa.
type LowStockSentinel struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	notifUC     *NotificationUseCase
	publisher   AlertPublisher // nil = sin bus de eventos
	cfg         SentinelConfig
	log         *logger.Logger
	running     atomic.Bool
}

// NewLowStockSentinel construye el sentinel. publisher puede ser nil.
func NewLowStockSentinel(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifUC *NotificationUseCase,
	publisher AlertPublisher,
	cfg SentinelConfig,
	log *logger.Logger,
) *LowStockSentinel {
	return &LowStockSentinel{
		productRepo: productRepo,
		userRepo:    userRepo,
		notifUC:     notifUC,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
	}
}

// Start lanza el loop del ticker en una goroutine. Se detiene al cancelar ctx.
func (s *LowStockSentinel) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		s.log.Info().
			Dur("interval", s.cfg.Interval).
			Dur("dedup_window", s.cfg.DedupWindow).
			Int64("default_threshold", s.cfg.DefaultThreshold).
			Msg("sentinel de stock bajo iniciado")
		for {
			select {
			case <-ctx.Done():
				s.log.Info().Msg("sentinel de stock bajo detenido")
				return
			case <-ticker.C:
				s.RunSweep(ctx)
			}
		}
	}()
}

// RunSweep ejecuta un barrido completo. Devuelve el número de alertas creadas.
// Reentrante-seguro: si ya hay un barrido en vuelo, retorna de inmediato.
func (s *LowStockSentinel) RunSweep(ctx context.Context) int {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn().Msg("barrido anterior aún en curso, tick saltado")
		return 0
	}
	defer s.running.Store(false)

	start := time.Now()
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido abortado: no se pudo listar productos")
		return 0
	}

	created := 0
	for _, p := range products {
		threshold := p.LowStockThreshold(s.cfg.DefaultThreshold)
		if p.CurrentStock >= threshold {
			continue
		}
		created += s.notifyProduct(ctx, p, threshold)
	}

	s.log.Info().
		Int("products_checked", len(products)).
		Int("alerts_created", created).
		Dur("elapsed", time.Since(start)).
		Msg("barrido de stock bajo completado")
	return created
}

// notifyProduct hace el fan-out a los usuarios de la empresa dueña del producto.
// Una empresa sin usuarios produce cero alertas (no es un error).
func (s *LowStockSentinel) notifyProduct(ctx context.Context, p *entity.Product, threshold int64) int {
	users, err := s.userRepo.ListByCompany(ctx, p.CompanyID)
	if err != nil {
		s.log.Error().Err(err).
			Str("product_id", p.ID).
			Str("company_id", p.CompanyID).
			Msg("no se pudo resolver usuarios de la empresa")
		return 0
	}

	created := 0
	for _, u := range users {
		exists, err := s.notifUC.HasRecent(ctx, u.ID, p.ID, entity.NotificationTypeLowStock, s.cfg.DedupWindow)
		if err != nil {
			s.log.Error().Err(err).
				Str("user_id", u.ID).
				Str("product_id", p.ID).
				Msg("fallo el check de deduplicación, par saltado")
			continue
		}
		if exists {
			continue
		}

		n, err := s.notifUC.CreateLowStock(ctx, u.ID, p)
		if err != nil {
			// Aislar el fallo: los demás pares del barrido siguen.
			s.log.Error().Err(err).
				Str("user_id", u.ID).
				Str("product_id", p.ID).
				Msg("no se pudo crear la alerta")
			continue
		}
		created++

		if s.publisher != nil {
			evt := LowStockAlertEvent{
				NotificationID: n.ID,
				UserID:         u.ID,
				ProductID:      p.ID,
				ProductName:    p.Name,
				CurrentStock:   p.CurrentStock,
				Threshold:      threshold,
			}
			if err := s.publisher.PublishLowStockAlert(ctx, evt); err != nil {
				s.log.Warn().Err(err).
					Str("notification_id", n.ID).
					Msg("no se pudo publicar el evento de alerta")
			}
		}
	}
	return created
}
