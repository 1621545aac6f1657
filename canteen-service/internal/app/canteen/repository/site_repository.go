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

const siteColumns = `id, name, location, business_hours, contact, description, images, created_at, updated_at`

type siteRepository struct {
	db *pgxpool.Pool
}

// NewSiteRepository создает репозиторий столовых (pgx)
func NewSiteRepository(db *pgxpool.Pool) SiteRepository {
	return &siteRepository{db: db}
}

// Create вставляет столовую, уникальность имени проверяет UNIQUE constraint
func (r *siteRepository) Create(ctx context.Context, site *entity.Site) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "sites").ObserveDuration()

	query := `
		INSERT INTO sites (` + siteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		site.ID, site.Name, site.Location, site.BusinessHours, site.Contact,
		site.Description, entity.EncodeImages(site.Images), site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSiteAlreadyExists
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create site: %w", err)
	}

	return nil
}

func (r *siteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Site, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "sites").ObserveDuration()

	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1`

	site, err := scanSite(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site by id: %w", err)
	}

	return site, nil
}

// List возвращает все столовые по алфавиту с количеством окон
func (r *siteRepository) List(ctx context.Context) ([]entity.SiteListing, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "sites").ObserveDuration()

	query := `
		SELECT s.id, s.name, s.location, s.business_hours, s.contact, s.description,
		       s.images, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM sub_locations sl WHERE sl.site_id = s.id)
		FROM sites s
		ORDER BY s.name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	sites := make([]entity.SiteListing, 0)
	for rows.Next() {
		var (
			listing entity.SiteListing
			images  string
		)
		if err := rows.Scan(
			&listing.ID, &listing.Name, &listing.Location, &listing.BusinessHours, &listing.Contact,
			&listing.Description, &images, &listing.CreatedAt, &listing.UpdatedAt,
			&listing.SubLocationCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		listing.Images = entity.DecodeImages(images)
		sites = append(sites, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sites: %w", err)
	}

	return sites, nil
}

func (r *siteRepository) Update(ctx context.Context, site *entity.Site) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "sites").ObserveDuration()

	query := `
		UPDATE sites
		SET name = $1, location = $2, business_hours = $3, contact = $4,
		    description = $5, images = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(ctx, query,
		site.Name, site.Location, site.BusinessHours, site.Contact,
		site.Description, entity.EncodeImages(site.Images), site.UpdatedAt, site.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSiteAlreadyExists
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update site: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSiteNotFound
	}

	return nil
}

// Delete удаляет столовую, только если у неё нет окон.
// Каскада нет: дочерние узлы удаляются явно
func (r *siteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "sites").ObserveDuration()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var subLocationCount int
		checkQuery := `SELECT COUNT(*) FROM sub_locations WHERE site_id = $1`
		if err := tx.QueryRow(ctx, checkQuery, id).Scan(&subLocationCount); err != nil {
			return fmt.Errorf("failed to check sub-locations of site: %w", err)
		}
		if subLocationCount > 0 {
			return ErrSiteHasSubLocations
		}

		result, err := tx.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
		if err != nil {
			// Окно могли добавить параллельно - сработает внешний ключ
			if isForeignKeyViolation(err) {
				return ErrSiteHasSubLocations
			}
			metrics.RecordDbError(serviceName, metrics.DbOpDelete)
			return fmt.Errorf("failed to delete site: %w", err)
		}

		if result.RowsAffected() == 0 {
			return ErrSiteNotFound
		}
		return nil
	})
}

func scanSite(row pgx.Row) (*entity.Site, error) {
	var (
		site   entity.Site
		images string
	)
	if err := row.Scan(
		&site.ID, &site.Name, &site.Location, &site.BusinessHours, &site.Contact,
		&site.Description, &images, &site.CreatedAt, &site.UpdatedAt,
	); err != nil {
		return nil, err
	}
	site.Images = entity.DecodeImages(images)
	return &site, nil
}
