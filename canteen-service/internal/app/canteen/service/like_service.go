package service

import (
	"context"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/repository"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
)

// LikeService переключает лайк пользователя на отзыве
type LikeService struct {
	likeRepo   repository.LikeRepository
	reviewRepo repository.ReviewRepository
}

func NewLikeService(likeRepo repository.LikeRepository, reviewRepo repository.ReviewRepository) *LikeService {
	return &LikeService{
		likeRepo:   likeRepo,
		reviewRepo: reviewRepo,
	}
}

// ToggleLike - не "поставить" и не "снять", а переключить: повторный вызов возвращает исходное состояние.
// Число лайков всегда пересчитывается по строкам в той же транзакции
func (s *LikeService) ToggleLike(ctx context.Context, authorID string, reviewID uuid.UUID) (*entity.LikeToggleResult, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return nil, translate("get review", err)
	}

	like := &entity.Like{
		ID:        newID(),
		ReviewID:  reviewID,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}

	action, count, err := s.likeRepo.Toggle(ctx, like)
	if err != nil {
		return nil, translate("toggle like", err)
	}

	metrics.LikesToggled.WithLabelValues(string(action)).Inc()
	return &entity.LikeToggleResult{Action: action, LikeCount: count}, nil
}
