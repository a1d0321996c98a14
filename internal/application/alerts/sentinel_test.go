package alerts_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/alerts"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products []*entity.Product
	listErr  error
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return f.GetByID(ctx, id)
}
func (f *fakeProductRepo) UpdateStock(_ context.Context, _ string, _ int64, _ time.Time) error {
	return nil
}
func (f *fakeProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}
func (f *fakeProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) InventoryValue(_ context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeUserRepo struct {
	usersByCompany map[string][]*entity.User
	listErr        error
	entered        chan struct{} // se cierra al entrar al fan-out (nil = sin gate)
	resume         chan struct{} // bloquea el fan-out hasta que el test lo cierra
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	if f.entered != nil {
		close(f.entered)
		f.entered = nil
		<-f.resume
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.usersByCompany[companyID], nil
}

// fakeNotifRepo guarda las alertas en memoria; ExistsRecent replica el probe de
// deduplicación real comparando CreatedAt contra since.
type fakeNotifRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	createErrFor  string // userID que falla en Create (aislamiento de fallos)
}

func (f *fakeNotifRepo) Create(_ context.Context, n *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErrFor != "" && n.UserID == f.createErrFor {
		return errors.New("insert fallido")
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotifRepo) ExistsRecent(_ context.Context, userID, productID string, t entity.NotificationType, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.UserID == userID && n.ProductID == productID && n.Type == t && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotifRepo) ListByUser(_ context.Context, userID string) ([]*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}
func (f *fakeNotifRepo) ListUnreadByUser(_ context.Context, _ string) ([]*entity.Notification, error) {
	return nil, nil
}
func (f *fakeNotifRepo) CountUnreadByUser(_ context.Context, _ string) (int64, error) { return 0, nil }
func (f *fakeNotifRepo) GetByIDAndUser(_ context.Context, id, userID string) (*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}
	return nil, nil
}
func (f *fakeNotifRepo) MarkRead(_ context.Context, _ string) error    { return nil }
func (f *fakeNotifRepo) MarkAllRead(_ context.Context, _ string) error { return nil }

type fakeAlertPublisher struct {
	mu     sync.Mutex
	events []alerts.LowStockAlertEvent
}

func (f *fakeAlertPublisher) PublishLowStockAlert(_ context.Context, evt alerts.LowStockAlertEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func int64ptr(v int64) *int64 { return &v }

func defaultConfig() alerts.SentinelConfig {
	return alerts.SentinelConfig{
		Interval:         time.Minute,
		DedupWindow:      30 * time.Minute,
		DefaultThreshold: 10,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RunSweep
// ──────────────────────────────────────────────────────────────────────────────

func TestRunSweep_CreaAlertasBajoUmbral(t *testing.T) {
	productRepo := &fakeProductRepo{products: []*entity.Product{
		{ID: "bajo", CompanyID: "c1", Name: "Bajo", CurrentStock: 3, MinStockLevel: int64ptr(5), IsActive: true},
		{ID: "sano", CompanyID: "c1", Name: "Sano", CurrentStock: 50, MinStockLevel: int64ptr(5), IsActive: true},
		// Sin min_stock_level: aplica el umbral por defecto 10.
		{ID: "sin-umbral", CompanyID: "c1", Name: "Sin umbral", CurrentStock: 7, IsActive: true},
	}}
	userRepo := &fakeUserRepo{usersByCompany: map[string][]*entity.User{
		"c1": {{ID: "u1", CompanyID: "c1"}, {ID: "u2", CompanyID: "c1"}},
	}}
	notifRepo := &fakeNotifRepo{}
	publisher := &fakeAlertPublisher{}

	s := alerts.NewLowStockSentinel(productRepo, userRepo,
		alerts.NewNotificationUseCase(notifRepo), publisher, defaultConfig(), logger.Nop())

	created := s.RunSweep(context.Background())

	// 2 productos bajo umbral × 2 usuarios = 4 alertas, y un evento por alerta.
	assert.Equal(t, 4, created)
	assert.Len(t, notifRepo.notifications, 4)
	assert.Len(t, publisher.events, 4)

	n := notifRepo.notifications[0]
	assert.Equal(t, entity.NotificationTypeLowStock, n.Type)
	assert.Contains(t, n.Message, "Bajo")
	assert.Contains(t, n.Message, "3")
}

func TestRunSweep_EnElUmbralExacto_NoAlerta(t *testing.T) {
	// La condición es stock < umbral, estrictamente.
	productRepo := &fakeProductRepo{products: []*entity.Product{
		{ID: "p1", CompanyID: "c1", Name: "Justo", CurrentStock: 5, MinStockLevel: int64ptr(5), IsActive: true},
	}}
	userRepo := &fakeUserRepo{usersByCompany: map[string][]*entity.User{
		"c1": {{ID: "u1", CompanyID: "c1"}},
	}}
	notifRepo := &fakeNotifRepo{}

	s := alerts.NewLowStockSentinel(productRepo, userRepo,
		alerts.NewNotificationUseCase(notifRepo), nil, defaultConfig(), logger.Nop())

	assert.Equal(t, 0, s.RunSweep(context.Background()))
	assert.Empty(t, notifRepo.notifications)
}

func TestRunSweep_DeduplicaDentroDeLaVentana(t *testing.T) {
	productRepo := &fakeProductRepo{products: []*entity.Product{
		{ID: "p1", CompanyID: "c1", Name: "Bajo", CurrentStock: 1, MinStockLevel: int64ptr(5), IsActive: true},
	}}
	userRepo := &fakeUserRepo{usersByCompany: map[string][]*entity.User{
		"c1": {{ID: "u1", CompanyID: "c1"}},
	}}
	notifRepo := &fakeNotifRepo{}

	s := alerts.NewLowStockSentinel(productRepo, userRepo,
		alerts.NewNotificationUseCase(notifRepo), nil, defaultConfig(), logger.Nop())
	ctx := context.Background()

	// Primer barrido: crea. Segundo barrido inmediato: suprimido por la ventana.
	assert.Equal(t, 1, s.RunSweep(ctx))
	assert.Equal(t, 0, s.RunSweep(ctx))
	require.Len(t, notifRepo.notifications, 1)

	// Al envejecer la alerta más allá de la ventana, el siguiente barrido vuelve a crear.
	notifRepo.mu.Lock()
	notifRepo.notifications[0].CreatedAt = time.Now().Add(-31 * time.Minute)
	notifRepo.mu.Unlock()

	assert.Equal(t, 1, s.RunSweep(ctx))
	assert.Len(t, notifRepo.notifications, 2)
}

func TestRunSweep_FalloDeUnPar_NoAbortaBarrido(t *testing.T) {
	productRepo := &fakeProductRepo{products: []*entity.Product{
		{ID: "p1", CompanyID: "c1", Name: "Bajo", CurrentStock: 1, MinStockLevel: int64ptr(5), IsActive: true},
	}}
	userRepo := &fakeUserRepo{usersByCompany: map[string][]*entity.User{
		"c1": {{ID: "u-roto", CompanyID: "c1"}, {ID: "u-ok", CompanyID: "c1"}},
	}}
	notifRepo := &fakeNotifRepo{createErrFor: "u-roto"}

	s := alerts.NewLowStockSentinel(productRepo, userRepo,
		alerts.NewNotificationUseCase(notifRepo), nil, defaultConfig(), logger.Nop())

	// El insert de u-roto falla; u-ok recibe su alerta igual.
	assert.Equal(t, 1, s.RunSweep(context.Background()))
	require.Len(t, notifRepo.notifications, 1)
	assert.Equal(t, "u-ok", notifRepo.notifications[0].UserID)
}

func TestRunSweep_ConBarridoEnVuelo_SeSalta(t *testing.T) {
	productRepo := &fakeProductRepo{products: []*entity.Product{
		{ID: "p1", CompanyID: "c1", Name: "Bajo", CurrentStock: 1, MinStockLevel: int64ptr(5), IsActive: true},
	}}
	entered := make(chan struct{})
	resume := make(chan struct{})
	userRepo := &fakeUserRepo{
		usersByCompany: map[string][]*entity.User{"c1": {{ID: "u1", CompanyID: "c1"}}},
		entered:        entered,
		resume:         resume,
	}
	notifRepo := &fakeNotifRepo{}

	s := alerts.NewLowStockSentinel(productRepo, userRepo,
		alerts.NewNotificationUseCase(notifRepo), nil, defaultConfig(), logger.Nop())
	ctx := context.Background()

	// Primer barrido queda bloqueado dentro del fan-out.
	first := make(chan int, 1)
	go func() { first <- s.RunSweep(ctx) }()
	<-entered

	// Segundo barrido con el primero en vuelo: retorna de inmediato, sin crear nada.
	assert.Equal(t, 0, s.RunSweep(ctx), "un barrido en vuelo debe saltarse el siguiente")
	notifRepo.mu.Lock()
	assert.Empty(t, notifRepo.notifications)
	notifRepo.mu.Unlock()

	// Al liberar el primero, completa su trabajo normalmente.
	close(resume)
	assert.Equal(t, 1, <-first)
	assert.Len(t, notifRepo.notifications, 1)

	// Con el flag liberado, el siguiente barrido vuelve a correr (deduplicado, no saltado).
	assert.Equal(t, 0, s.RunSweep(ctx))
}

func TestRunSweep_ErrorListandoProductos_RetornaCero(t *testing.T) {
	productRepo := &fakeProductRepo{listErr: errors.New("db caída")}
	notifRepo := &fakeNotifRepo{}

	s := alerts.NewLowStockSentinel(productRepo, &fakeUserRepo{},
		alerts.NewNotificationUseCase(notifRepo), nil, defaultConfig(), logger.Nop())

	assert.Equal(t, 0, s.RunSweep(context.Background()))
	assert.Empty(t, notifRepo.notifications)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests NotificationUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkRead_SoloElDueno(t *testing.T) {
	notifRepo := &fakeNotifRepo{notifications: []*entity.Notification{
		{ID: "n1", UserID: "u1", Type: entity.NotificationTypeLowStock, CreatedAt: time.Now()},
	}}
	uc := alerts.NewNotificationUseCase(notifRepo)
	ctx := context.Background()

	assert.Error(t, uc.MarkRead(ctx, "n1", "otro-usuario"),
		"marcar la alerta de otro usuario debe fallar")
	assert.NoError(t, uc.MarkRead(ctx, "n1", "u1"))
}
