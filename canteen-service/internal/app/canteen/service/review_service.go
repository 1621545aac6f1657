package service

import (
	"context"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/infrastructure"
	"canteenscore/canteen-service/internal/app/canteen/repository"
	"canteenscore/pkg/logger"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
)

// ReviewService - журнал отзывов: один отзыв на пару (автор, блюдо)
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	itemRepo      repository.ItemRepository
	kafkaProducer infrastructure.MessagePublisher // события REVIEW_* в review_events
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	itemRepo repository.ItemRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		itemRepo:      itemRepo,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview сохраняет отзыв. Повторный отзыв того же автора отклоняет UNIQUE (author_id, item_id)
func (s *ReviewService) CreateReview(ctx context.Context, authorID string, itemID uuid.UUID, payload entity.ReviewPayload) (*entity.Review, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, translate("get item", err)
	}

	input, err := normalizeReviewPayload(payload, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &entity.Review{
		ID:        newID(),
		ItemID:    itemID,
		AuthorID:  authorID,
		Images:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyReviewInput(review, input)

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, translate("create review", err)
	}

	metrics.ReviewsCreated.Inc()
	if review.OverallRating != nil {
		metrics.ReviewsRating.Observe(float64(*review.OverallRating))
	}
	s.publishReviewEvent(ctx, entity.EventReviewCreated, review)

	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get review", err)
	}
	return review, nil
}

// UpdateReview применяет только присланные поля. Порядок проверок: существование, автор, значения
func (s *ReviewService) UpdateReview(ctx context.Context, id uuid.UUID, authorID string, payload entity.ReviewPayload) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get review", err)
	}

	if review.AuthorID != authorID {
		return nil, ErrNotReviewAuthor
	}

	input, err := normalizeReviewPayload(payload, false)
	if err != nil {
		return nil, err
	}

	applyReviewInput(review, input)
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, translate("update review", err)
	}

	s.publishReviewEvent(ctx, entity.EventReviewUpdated, review)
	return review, nil
}

// DeleteReview удаляет отзыв вместе с его лайками и ответами
func (s *ReviewService) DeleteReview(ctx context.Context, id uuid.UUID, authorID string) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return translate("get review", err)
	}

	if review.AuthorID != authorID {
		return ErrNotReviewAuthor
	}

	return s.removeReview(ctx, review)
}

// ModerateDelete - удаление отзыва администратором без проверки авторства
func (s *ReviewService) ModerateDelete(ctx context.Context, id uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return translate("get review", err)
	}

	if err := s.removeReview(ctx, review); err != nil {
		return err
	}

	logger.Info().
		Str("review_id", id.String()).
		Str("author_id", review.AuthorID).
		Msg("Review removed by moderator")
	return nil
}

func (s *ReviewService) removeReview(ctx context.Context, review *entity.Review) error {
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return translate("delete review", err)
	}

	metrics.ReviewsDeleted.Inc()
	s.publishReviewEvent(ctx, entity.EventReviewDeleted, review)
	return nil
}

// ListItemReviews - отзывы блюда, новые сверху. viewerID может быть пустым (аноним)
func (s *ReviewService) ListItemReviews(ctx context.Context, itemID uuid.UUID, viewerID string, page entity.PageRequest) ([]entity.ReviewView, entity.Pagination, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, entity.Pagination{}, translate("get item", err)
	}

	reviews, total, err := s.reviewRepo.ListByItem(ctx, itemID, viewerID, page)
	if err != nil {
		return nil, entity.Pagination{}, translate("list reviews", err)
	}

	return reviews, entity.NewPagination(page, total), nil
}

// ListAuthorReviews - отзывы пользователя, новые сверху
func (s *ReviewService) ListAuthorReviews(ctx context.Context, authorID string, page entity.PageRequest) ([]entity.ReviewView, entity.Pagination, error) {
	reviews, total, err := s.reviewRepo.ListByAuthor(ctx, authorID, page)
	if err != nil {
		return nil, entity.Pagination{}, translate("list reviews", err)
	}

	return reviews, entity.NewPagination(page, total), nil
}

func applyReviewInput(review *entity.Review, input *reviewInput) {
	for d, value := range input.Ratings {
		review.SetRating(d, value)
	}
	if input.Content != nil {
		review.Content = *input.Content
	}
	if input.ImagesSet {
		review.Images = input.Images
	}
}

// publishReviewEvent - в событии только факты отзыва, агрегаты не пересылаются
func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType string, review *entity.Review) {
	event := entity.ReviewEvent{
		EventType:     eventType,
		ReviewID:      review.ID,
		ItemID:        review.ItemID,
		AuthorID:      review.AuthorID,
		OverallRating: review.OverallRating,
		Timestamp:     time.Now().UTC(),
	}
	publishEvent(ctx, s.kafkaProducer, review.ItemID.String(), eventType, event)
}
