package repository

import (
	"context"
	"errors"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Ошибки репозиториев для обработки в service layer
var (
	ErrSiteNotFound        = errors.New("site not found")
	ErrSiteAlreadyExists   = errors.New("site with this name already exists")
	ErrSiteHasSubLocations = errors.New("cannot delete site with existing sub-locations")
	ErrSubLocationNotFound = errors.New("sub-location not found")
	ErrSubLocationExists   = errors.New("sub-location with this name already exists in the site")
	ErrSubLocationHasItems = errors.New("cannot delete sub-location with existing items")
	ErrItemNotFound        = errors.New("item not found")
	ErrItemAlreadyExists   = errors.New("item with this name already exists in the sub-location")
	ErrItemHasDependents   = errors.New("item still has dependent rows after cascade")
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review for this item by this author already exists")
	ErrReviewHasDependents = errors.New("review still has dependent rows after cascade")
	ErrReplyNotFound       = errors.New("reply not found")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const serviceName = "canteen-service"

type SiteRepository interface {
	Create(ctx context.Context, site *entity.Site) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Site, error)
	List(ctx context.Context) ([]entity.SiteListing, error)
	Update(ctx context.Context, site *entity.Site) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubLocationRepository interface {
	Create(ctx context.Context, subLocation *entity.SubLocation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SubLocation, error)
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]entity.SubLocationListing, error)
	Update(ctx context.Context, subLocation *entity.SubLocation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	List(ctx context.Context, filter entity.ItemFilter, page entity.PageRequest) ([]entity.Item, int64, error)
	ListBySubLocation(ctx context.Context, subLocationID uuid.UUID) ([]entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// Delete удаляет блюдо вместе с отзывами, их лайками и ответами в одной транзакции
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	// Delete удаляет отзыв вместе с лайками и ответами в одной транзакции
	Delete(ctx context.Context, id uuid.UUID) error
	ListByItem(ctx context.Context, itemID uuid.UUID, viewerID string, page entity.PageRequest) ([]entity.ReviewView, int64, error)
	ListByAuthor(ctx context.Context, authorID string, page entity.PageRequest) ([]entity.ReviewView, int64, error)
}

type LikeRepository interface {
	// Toggle ставит лайк или снимает существующий и возвращает новое число лайков
	Toggle(ctx context.Context, like *entity.Like) (entity.LikeAction, int64, error)
}

type ReplyRepository interface {
	Create(ctx context.Context, reply *entity.Reply) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reply, error)
	Update(ctx context.Context, reply *entity.Reply) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByReview(ctx context.Context, reviewID uuid.UUID, page entity.PageRequest) ([]entity.Reply, int64, error)
}

// AggregationRepository возвращает сырые суммы и количества оценок.
// Ничего не кешируется: каждый вызов - новый запрос к reviews
type AggregationRepository interface {
	Totals(ctx context.Context, scope entity.Scope, id uuid.UUID) (*entity.RatingTotals, error)
	TotalsByNode(ctx context.Context, scope entity.Scope, ids []uuid.UUID) (map[uuid.UUID]entity.RatingTotals, error)
	Distribution(ctx context.Context, itemID uuid.UUID) (map[int]int64, error)
	CatalogCounts(ctx context.Context) (*entity.CatalogCounts, error)
	PopularItems(ctx context.Context, limit int) ([]entity.PopularItemRow, error)
}

// isUniqueViolation распознаёт нарушение UNIQUE как от pgx, так и переведённое gorm
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
