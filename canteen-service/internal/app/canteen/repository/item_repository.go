package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = `id, sub_location_id, name, price, category, description, images, is_available, created_at, updated_at`

type itemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository создает репозиторий блюд (pgx)
func NewItemRepository(db *pgxpool.Pool) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "items").ObserveDuration()

	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.SubLocationID, item.Name, item.Price, item.Category, item.Description,
		entity.EncodeImages(item.Images), item.IsAvailable, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrItemAlreadyExists
		case isForeignKeyViolation(err):
			return ErrSubLocationNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "items").ObserveDuration()

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by id: %w", err)
	}

	return item, nil
}

// List возвращает страницу блюд по фильтру (новые первыми) и общее количество
func (r *itemRepository) List(ctx context.Context, filter entity.ItemFilter, page entity.PageRequest) ([]entity.Item, int64, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "items").ObserveDuration()

	where, args := buildItemFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM items` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM items%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		itemColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())

	items, err := r.queryItems(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListBySubLocation возвращает все блюда окна по алфавиту
func (r *itemRepository) ListBySubLocation(ctx context.Context, subLocationID uuid.UUID) ([]entity.Item, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "items").ObserveDuration()

	query := `SELECT ` + itemColumns + ` FROM items WHERE sub_location_id = $1 ORDER BY name ASC`

	return r.queryItems(ctx, query, subLocationID)
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "items").ObserveDuration()

	query := `
		UPDATE items
		SET name = $1, price = $2, category = $3, description = $4, images = $5,
		    is_available = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(ctx, query,
		item.Name, item.Price, item.Category, item.Description,
		entity.EncodeImages(item.Images), item.IsAvailable, item.UpdatedAt, item.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrItemAlreadyExists
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete удаляет блюдо и всё, что висит на его отзывах: лайки, ответы, сами отзывы
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "items").ObserveDuration()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		cascade := []string{
			`DELETE FROM likes WHERE review_id IN (SELECT id FROM reviews WHERE item_id = $1)`,
			`DELETE FROM replies WHERE review_id IN (SELECT id FROM reviews WHERE item_id = $1)`,
			`DELETE FROM reviews WHERE item_id = $1`,
		}
		for _, query := range cascade {
			if _, err := tx.Exec(ctx, query, id); err != nil {
				metrics.RecordDbError(serviceName, metrics.DbOpDelete)
				return fmt.Errorf("failed to delete item dependents: %w", err)
			}
		}

		result, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
		if err != nil {
			// между каскадом и удалением блюда успел появиться отзыв
			if isForeignKeyViolation(err) {
				return ErrItemHasDependents
			}
			metrics.RecordDbError(serviceName, metrics.DbOpDelete)
			return fmt.Errorf("failed to delete item: %w", err)
		}

		if result.RowsAffected() == 0 {
			return ErrItemNotFound
		}
		return nil
	})
}

func (r *itemRepository) queryItems(ctx context.Context, query string, args ...any) ([]entity.Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]entity.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// buildItemFilter собирает WHERE с позиционными параметрами
func buildItemFilter(filter entity.ItemFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.SubLocationID != nil {
		args = append(args, *filter.SubLocationID)
		conditions = append(conditions, fmt.Sprintf("sub_location_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.AvailableOnly {
		conditions = append(conditions, "is_available = TRUE")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		item   entity.Item
		images string
	)
	if err := row.Scan(
		&item.ID, &item.SubLocationID, &item.Name, &item.Price, &item.Category, &item.Description,
		&images, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.Images = entity.DecodeImages(images)
	return &item, nil
}
