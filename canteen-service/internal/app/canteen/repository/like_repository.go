package repository

import (
	"context"
	"errors"
	"fmt"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/pkg/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository создает репозиторий лайков
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle переключает лайк в одной транзакции. Вставка с ON CONFLICT DO NOTHING:
// если строка уже была, вставлено 0 строк и лайк снимается.
// Количество всегда пересчитывается по строкам таблицы
func (r *likeRepository) Toggle(ctx context.Context, like *entity.Like) (entity.LikeAction, int64, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "likes").ObserveDuration()

	var (
		action    entity.LikeAction
		likeCount int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).Create(like)
		if result.Error != nil {
			if isForeignKeyViolation(result.Error) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("failed to insert like: %w", result.Error)
		}

		if result.RowsAffected == 1 {
			action = entity.LikeActionLiked
		} else {
			err := tx.Where("review_id = ? AND author_id = ?", like.ReviewID, like.AuthorID).
				Delete(&entity.Like{}).Error
			if err != nil {
				return fmt.Errorf("failed to delete like: %w", err)
			}
			action = entity.LikeActionUnliked
		}

		if err := tx.Model(&entity.Like{}).Where("review_id = ?", like.ReviewID).Count(&likeCount).Error; err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrReviewNotFound) {
			metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		}
		return "", 0, err
	}

	return action, likeCount, nil
}
