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

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository создает репозиторий ответов на отзывы
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *entity.Reply) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "replies").ObserveDuration()

	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		if isForeignKeyViolation(err) {
			return ErrReviewNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create reply: %w", err)
	}

	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reply, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "replies").ObserveDuration()

	var reply entity.Reply
	result := r.db.WithContext(ctx).First(&reply, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReplyNotFound
		}
		return nil, fmt.Errorf("failed to get reply: %w", result.Error)
	}

	return &reply, nil
}

func (r *replyRepository) Update(ctx context.Context, reply *entity.Reply) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "replies").ObserveDuration()

	result := r.db.WithContext(ctx).Model(reply).Updates(map[string]interface{}{
		"content":    reply.Content,
		"updated_at": reply.UpdatedAt,
	})

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update reply: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrReplyNotFound
	}

	return nil
}

func (r *replyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "replies").ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Reply{}, "id = ?", id)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete reply: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrReplyNotFound
	}

	return nil
}

// ListByReview - ветка ответов в хронологическом порядке (старые первыми)
func (r *replyRepository) ListByReview(ctx context.Context, reviewID uuid.UUID, page entity.PageRequest) ([]entity.Reply, int64, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "replies").ObserveDuration()

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Reply{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count replies: %w", err)
	}

	replies := make([]entity.Reply, 0)
	if total == 0 {
		return replies, 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC, id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&replies)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, 0, fmt.Errorf("failed to list replies: %w", result.Error)
	}

	return replies, total, nil
}
