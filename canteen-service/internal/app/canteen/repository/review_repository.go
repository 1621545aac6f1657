package repository

import (
	"context"
	"errors"
	"fmt"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Колонки отзыва, которые меняет обновление; id, item_id, author_id неизменны
var reviewMutableColumns = []string{
	"overall_rating", "taste_rating", "portion_rating", "value_rating", "service_rating",
	"content", "images", "updated_at",
}

// reviewViewSelect дополняет отзыв счётчиками и флагом лайка зрителя
const reviewViewSelect = `reviews.*,
	(SELECT COUNT(*) FROM likes l WHERE l.review_id = reviews.id) AS like_count,
	(SELECT COUNT(*) FROM replies rp WHERE rp.review_id = reviews.id) AS reply_count,
	EXISTS (SELECT 1 FROM likes l WHERE l.review_id = reviews.id AND l.author_id = ?) AS liked`

type reviewRepository struct {
	db *gorm.DB // GORM поверх общего пула pgx
}

// NewReviewRepository создает репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create вставляет отзыв. Повтор пары (автор, блюдо) отсекает UNIQUE constraint,
// удаленное параллельно блюдо - внешний ключ
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "reviews").ObserveDuration()

	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrReviewAlreadyExists
		case isForeignKeyViolation(err):
			return ErrItemNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews").ObserveDuration()

	var review entity.Review
	result := r.db.WithContext(ctx).First(&review, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", result.Error)
	}

	return &review, nil
}

// Update перезаписывает изменяемые колонки, включая обнулённые
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "reviews").ObserveDuration()

	result := r.db.WithContext(ctx).Model(review).
		Select(reviewMutableColumns).
		Updates(review)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update review: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// Delete удаляет лайки, ответы и сам отзыв одной транзакцией
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "reviews").ObserveDuration()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&entity.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete review likes: %w", err)
		}
		if err := tx.Where("review_id = ?", id).Delete(&entity.Reply{}).Error; err != nil {
			return fmt.Errorf("failed to delete review replies: %w", err)
		}

		result := tx.Delete(&entity.Review{}, "id = ?", id)
		if result.Error != nil {
			// параллельно вставленный лайк или ответ
			if isForeignKeyViolation(result.Error) {
				return ErrReviewHasDependents
			}
			return fmt.Errorf("failed to delete review: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return nil
	})

	if err != nil && !errors.Is(err, ErrReviewNotFound) && !errors.Is(err, ErrReviewHasDependents) {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
	}
	return err
}

// ListByItem - отзывы блюда, новые первыми. viewerID может быть пустым
func (r *reviewRepository) ListByItem(ctx context.Context, itemID uuid.UUID, viewerID string, page entity.PageRequest) ([]entity.ReviewView, int64, error) {
	return r.listViews(ctx, "reviews.item_id = ?", itemID, viewerID, page)
}

// ListByAuthor - отзывы автора, новые первыми
func (r *reviewRepository) ListByAuthor(ctx context.Context, authorID string, page entity.PageRequest) ([]entity.ReviewView, int64, error) {
	return r.listViews(ctx, "reviews.author_id = ?", authorID, authorID, page)
}

func (r *reviewRepository) listViews(ctx context.Context, condition string, value interface{}, viewerID string, page entity.PageRequest) ([]entity.ReviewView, int64, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews").ObserveDuration()

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Review{}).Where(condition, value).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	views := make([]entity.ReviewView, 0)
	if total == 0 {
		return views, 0, nil
	}

	result := r.db.WithContext(ctx).Model(&entity.Review{}).
		Select(reviewViewSelect, viewerID).
		Where(condition, value).
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&views)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, 0, fmt.Errorf("failed to list reviews: %w", result.Error)
	}

	return views, total, nil
}
