package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlink/backend/internal/model"
)

// LookupRepository serves the bilingual reference tables. Each table gets its
// own typed method; there is deliberately no fetch-by-table-name entry point.
type LookupRepository struct {
	pool *pgxpool.Pool
}

func NewLookupRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool}
}

// GetSubjects gets all active subjects
func (r *LookupRepository) GetSubjects(ctx context.Context) ([]*model.LookupItem, error) {
	return r.queryItems(ctx, "subjects")
}

// GetGradeLevels gets all active grade levels
func (r *LookupRepository) GetGradeLevels(ctx context.Context) ([]*model.LookupItem, error) {
	return r.queryItems(ctx, "grade_levels")
}

// GetCities gets all active cities
func (r *LookupRepository) GetCities(ctx context.Context) ([]*model.LookupItem, error) {
	return r.queryItems(ctx, "cities")
}

// queryItems runs the shared lookup query against one of the three reference
// tables. The table name is a compile-time constant from the callers above,
// never caller input.
func (r *LookupRepository) queryItems(ctx context.Context, table string) ([]*model.LookupItem, error) {
	query := fmt.Sprintf(`
		SELECT id, name_en, name_ar, is_active
		FROM %s
		WHERE is_active = TRUE
		ORDER BY id
	`, table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	defer rows.Close()

	var items []*model.LookupItem
	for rows.Next() {
		var item model.LookupItem
		err := rows.Scan(&item.ID, &item.Name.En, &item.Name.Ar, &item.IsActive)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return items, nil
}
