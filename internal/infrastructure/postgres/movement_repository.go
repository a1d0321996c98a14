package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, user_id, type, quantity, reason, notes,
		stock_before, stock_after, recorded_at, created_at`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con
// pool o tx). Append-only: la tabla no recibe UPDATE ni DELETE desde la aplicación.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append persiste un movimiento nuevo con sus snapshots de stock.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, product_id, user_id, type, quantity, reason, notes, stock_before, stock_after, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.UserID, string(m.Type), m.Quantity, m.Reason, m.Notes,
		m.StockBefore, m.StockAfter, m.RecordedAt, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.UserID, &kind, &m.Quantity, &m.Reason, &m.Notes,
		&m.StockBefore, &m.StockAfter, &m.RecordedAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(kind)
	return &m, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByProduct historial de un producto, más reciente primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE product_id = $1 ORDER BY recorded_at DESC, created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, productID, limit, offset)
}

// ListRecent últimos movimientos globales (feed del dashboard).
func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		ORDER BY recorded_at DESC, created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListBetween movimientos en un rango de tiempo, más reciente primero.
func (r *MovementRepo) ListBetween(ctx context.Context, start, end time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE recorded_at >= $1 AND recorded_at <= $2 ORDER BY recorded_at DESC`
	return r.list(ctx, query, start, end)
}

// ListByType movimientos de un tipo, más reciente primero.
func (r *MovementRepo) ListByType(ctx context.Context, t entity.MovementType) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE type = $1 ORDER BY recorded_at DESC`
	return r.list(ctx, query, string(t))
}

// ListByCompany movimientos de todos los productos de una empresa, vía join con products.
func (r *MovementRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT m.id, m.product_id, m.user_id, m.type, m.quantity, m.reason, m.notes,
			m.stock_before, m.stock_after, m.recorded_at, m.created_at
		FROM inventory_movements m
		JOIN products p ON p.id = m.product_id
		WHERE p.company_id = $1
		ORDER BY m.recorded_at DESC, m.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, companyID, limit, offset)
}

// SumOutboundSince suma las cantidades OUT de un producto desde el instante dado.
func (r *MovementRepo) SumOutboundSince(ctx context.Context, productID string, since time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory_movements
		WHERE product_id = $1 AND type = $2 AND recorded_at >= $3`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID, string(entity.MovementTypeOUT), since).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum outbound: %w", err)
	}
	return total, nil
}
