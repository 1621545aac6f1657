package repository

import (
	"context"
	"errors"
	"fmt"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subLocationColumns = `id, site_id, name, description, business_hours, images, created_at, updated_at`

type subLocationRepository struct {
	db *pgxpool.Pool
}

// NewSubLocationRepository создает репозиторий окон раздачи (pgx)
func NewSubLocationRepository(db *pgxpool.Pool) SubLocationRepository {
	return &subLocationRepository{db: db}
}

// Create вставляет окно; имя уникально в пределах столовой (UNIQUE (site_id, name))
func (r *subLocationRepository) Create(ctx context.Context, subLocation *entity.SubLocation) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "sub_locations").ObserveDuration()

	query := `
		INSERT INTO sub_locations (` + subLocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		subLocation.ID, subLocation.SiteID, subLocation.Name, subLocation.Description,
		subLocation.BusinessHours, entity.EncodeImages(subLocation.Images),
		subLocation.CreatedAt, subLocation.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrSubLocationExists
		case isForeignKeyViolation(err):
			return ErrSiteNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create sub-location: %w", err)
	}

	return nil
}

func (r *subLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SubLocation, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "sub_locations").ObserveDuration()

	query := `SELECT ` + subLocationColumns + ` FROM sub_locations WHERE id = $1`

	var (
		subLocation entity.SubLocation
		images      string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subLocation.ID, &subLocation.SiteID, &subLocation.Name, &subLocation.Description,
		&subLocation.BusinessHours, &images, &subLocation.CreatedAt, &subLocation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubLocationNotFound
		}
		return nil, fmt.Errorf("failed to get sub-location by id: %w", err)
	}
	subLocation.Images = entity.DecodeImages(images)

	return &subLocation, nil
}

// ListBySite возвращает окна столовой по алфавиту вместе с количеством блюд
func (r *subLocationRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]entity.SubLocationListing, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "sub_locations").ObserveDuration()

	query := `
		SELECT sl.id, sl.site_id, sl.name, sl.description, sl.business_hours, sl.images,
		       sl.created_at, sl.updated_at,
		       (SELECT COUNT(*) FROM items i WHERE i.sub_location_id = sl.id)
		FROM sub_locations sl
		WHERE sl.site_id = $1
		ORDER BY sl.name ASC
	`

	rows, err := r.db.Query(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-locations: %w", err)
	}
	defer rows.Close()

	subLocations := make([]entity.SubLocationListing, 0)
	for rows.Next() {
		var (
			listing entity.SubLocationListing
			images  string
		)
		if err := rows.Scan(
			&listing.ID, &listing.SiteID, &listing.Name, &listing.Description,
			&listing.BusinessHours, &images, &listing.CreatedAt, &listing.UpdatedAt,
			&listing.ItemCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sub-location: %w", err)
		}
		listing.Images = entity.DecodeImages(images)
		subLocations = append(subLocations, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sub-locations: %w", err)
	}

	return subLocations, nil
}

func (r *subLocationRepository) Update(ctx context.Context, subLocation *entity.SubLocation) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "sub_locations").ObserveDuration()

	query := `
		UPDATE sub_locations
		SET name = $1, description = $2, business_hours = $3, images = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		subLocation.Name, subLocation.Description, subLocation.BusinessHours,
		entity.EncodeImages(subLocation.Images), subLocation.UpdatedAt, subLocation.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSubLocationExists
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update sub-location: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubLocationNotFound
	}

	return nil
}

// Delete удаляет окно, только если в нём нет блюд
func (r *subLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "sub_locations").ObserveDuration()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var itemCount int
		checkQuery := `SELECT COUNT(*) FROM items WHERE sub_location_id = $1`
		if err := tx.QueryRow(ctx, checkQuery, id).Scan(&itemCount); err != nil {
			return fmt.Errorf("failed to check items of sub-location: %w", err)
		}
		if itemCount > 0 {
			return ErrSubLocationHasItems
		}

		result, err := tx.Exec(ctx, `DELETE FROM sub_locations WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrSubLocationHasItems
			}
			metrics.RecordDbError(serviceName, metrics.DbOpDelete)
			return fmt.Errorf("failed to delete sub-location: %w", err)
		}

		if result.RowsAffected() == 0 {
			return ErrSubLocationNotFound
		}
		return nil
	})
}
