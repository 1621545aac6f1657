package repository

import (
	"context"
	"fmt"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Суммы и количества непустых оценок по пяти измерениям в порядке entity.RatingDimensions
const ratingTotalsSelect = `
	COALESCE(SUM(r.overall_rating), 0), COUNT(r.overall_rating),
	COALESCE(SUM(r.taste_rating), 0),   COUNT(r.taste_rating),
	COALESCE(SUM(r.portion_rating), 0), COUNT(r.portion_rating),
	COALESCE(SUM(r.value_rating), 0),   COUNT(r.value_rating),
	COALESCE(SUM(r.service_rating), 0), COUNT(r.service_rating)`

// Путь отзыв -> блюдо -> окно, по которому считается любой уровень иерархии
const reviewHierarchyJoin = `
	FROM reviews r
	JOIN items i ON i.id = r.item_id
	JOIN sub_locations sl ON sl.id = i.sub_location_id`

type aggregationRepository struct {
	db *pgxpool.Pool
}

// NewAggregationRepository создает репозиторий агрегатов по отзывам
func NewAggregationRepository(db *pgxpool.Pool) AggregationRepository {
	return &aggregationRepository{db: db}
}

// scopeColumn - колонка, по которой отзывы относятся к узлу нужного уровня
func scopeColumn(scope entity.Scope) (string, error) {
	switch scope {
	case entity.ScopeItem:
		return "r.item_id", nil
	case entity.ScopeSubLocation:
		return "i.sub_location_id", nil
	case entity.ScopeSite:
		return "sl.site_id", nil
	}
	return "", fmt.Errorf("unknown aggregation scope %q", scope)
}

// Totals считает суммы по всем отзывам узла и его потомков
func (r *aggregationRepository) Totals(ctx context.Context, scope entity.Scope, id uuid.UUID) (*entity.RatingTotals, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews").ObserveDuration()

	column, err := scopeColumn(scope)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + ratingTotalsSelect + reviewHierarchyJoin + ` WHERE ` + column + ` = $1`

	var totals entity.RatingTotals
	if err := r.db.QueryRow(ctx, query, id).Scan(ratingTotalsDest(&totals)...); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to aggregate %s ratings: %w", scope, err)
	}

	return &totals, nil
}

// TotalsByNode - то же для набора узлов одним запросом; узлы без отзывов в карту не попадают
func (r *aggregationRepository) TotalsByNode(ctx context.Context, scope entity.Scope, ids []uuid.UUID) (map[uuid.UUID]entity.RatingTotals, error) {
	totals := make(map[uuid.UUID]entity.RatingTotals, len(ids))
	if len(ids) == 0 {
		return totals, nil
	}

	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews").ObserveDuration()

	column, err := scopeColumn(scope)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + column + `, ` + ratingTotalsSelect + reviewHierarchyJoin +
		` WHERE ` + column + ` = ANY($1::uuid[]) GROUP BY ` + column

	rows, err := r.db.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to aggregate %s ratings: %w", scope, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			nodeID   uuid.UUID
			nodeSums entity.RatingTotals
		)
		dest := append([]any{&nodeID}, ratingTotalsDest(&nodeSums)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s ratings: %w", scope, err)
		}
		totals[nodeID] = nodeSums
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s ratings: %w", scope, err)
	}

	return totals, nil
}

// Distribution возвращает число отзывов блюда по каждому значению общей оценки
func (r *aggregationRepository) Distribution(ctx context.Context, itemID uuid.UUID) (map[int]int64, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews").ObserveDuration()

	query := `
		SELECT overall_rating, COUNT(*)
		FROM reviews
		WHERE item_id = $1 AND overall_rating IS NOT NULL
		GROUP BY overall_rating
	`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to load rating distribution: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64, entity.MaxRating)
	for rows.Next() {
		var (
			star  int
			count int64
		)
		if err := rows.Scan(&star, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating distribution: %w", err)
		}
		counts[star] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating distribution: %w", err)
	}

	return counts, nil
}

// CatalogCounts собирает счётчики сущностей и сумму общих оценок одним запросом
func (r *aggregationRepository) CatalogCounts(ctx context.Context) (*entity.CatalogCounts, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews").ObserveDuration()

	query := `
		SELECT
			(SELECT COUNT(*) FROM sites),
			(SELECT COUNT(*) FROM sub_locations),
			(SELECT COUNT(*) FROM items),
			(SELECT COUNT(*) FROM reviews),
			(SELECT COUNT(*) FROM likes),
			(SELECT COUNT(*) FROM replies),
			(SELECT COALESCE(SUM(overall_rating), 0) FROM reviews),
			(SELECT COUNT(overall_rating) FROM reviews)
	`

	var counts entity.CatalogCounts
	err := r.db.QueryRow(ctx, query).Scan(
		&counts.Sites, &counts.SubLocations, &counts.Items,
		&counts.Reviews, &counts.Likes, &counts.Replies,
		&counts.Overall.Sum, &counts.Overall.Count,
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to count catalog: %w", err)
	}

	return &counts, nil
}

// PopularItems - блюда с наибольшим числом отзывов; при равенстве по имени
func (r *aggregationRepository) PopularItems(ctx context.Context, limit int) ([]entity.PopularItemRow, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews").ObserveDuration()

	query := `
		SELECT i.id, i.name, sl.name, s.name,
		       COUNT(r.id), COALESCE(SUM(r.overall_rating), 0), COUNT(r.overall_rating)
		FROM items i
		JOIN sub_locations sl ON sl.id = i.sub_location_id
		JOIN sites s ON s.id = sl.site_id
		JOIN reviews r ON r.item_id = i.id
		GROUP BY i.id, i.name, sl.name, s.name
		ORDER BY COUNT(r.id) DESC, i.name ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to load popular items: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.PopularItemRow, error) {
		var item entity.PopularItemRow
		err := row.Scan(
			&item.ItemID, &item.ItemName, &item.SubLocationName, &item.SiteName,
			&item.ReviewCount, &item.Overall.Sum, &item.Overall.Count,
		)
		return item, err
	})
}

func ratingTotalsDest(t *entity.RatingTotals) []any {
	return []any{
		&t.Overall.Sum, &t.Overall.Count,
		&t.Taste.Sum, &t.Taste.Count,
		&t.Portion.Sum, &t.Portion.Count,
		&t.Value.Sum, &t.Value.Count,
		&t.Service.Sum, &t.Service.Count,
	}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
