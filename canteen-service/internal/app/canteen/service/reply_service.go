package service

import (
	"context"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/repository"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
)

// ReplyService - ветка ответов на отзыв, старые сверху
type ReplyService struct {
	replyRepo  repository.ReplyRepository
	reviewRepo repository.ReviewRepository
}

func NewReplyService(replyRepo repository.ReplyRepository, reviewRepo repository.ReviewRepository) *ReplyService {
	return &ReplyService{
		replyRepo:  replyRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *ReplyService) AddReply(ctx context.Context, authorID string, reviewID uuid.UUID, req *entity.CreateReplyRequest) (*entity.Reply, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return nil, translate("get review", err)
	}

	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reply := &entity.Reply{
		ID:        newID(),
		ReviewID:  reviewID,
		AuthorID:  authorID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, translate("create reply", err)
	}

	metrics.RepliesCreated.Inc()
	return reply, nil
}

func (s *ReplyService) UpdateReply(ctx context.Context, id uuid.UUID, authorID string, req *entity.UpdateReplyRequest) (*entity.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get reply", err)
	}

	if reply.AuthorID != authorID {
		return nil, ErrNotReplyAuthor
	}

	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	reply.Content = req.Content
	reply.UpdatedAt = time.Now().UTC()

	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, translate("update reply", err)
	}

	return reply, nil
}

func (s *ReplyService) DeleteReply(ctx context.Context, id uuid.UUID, authorID string) error {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return translate("get reply", err)
	}

	if reply.AuthorID != authorID {
		return ErrNotReplyAuthor
	}

	if err := s.replyRepo.Delete(ctx, id); err != nil {
		return translate("delete reply", err)
	}

	return nil
}

// ListReplies - ответы в хронологическом порядке
func (s *ReplyService) ListReplies(ctx context.Context, reviewID uuid.UUID, page entity.PageRequest) ([]entity.Reply, entity.Pagination, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return nil, entity.Pagination{}, translate("get review", err)
	}

	replies, total, err := s.replyRepo.ListByReview(ctx, reviewID, page)
	if err != nil {
		return nil, entity.Pagination{}, translate("list replies", err)
	}

	return replies, entity.NewPagination(page, total), nil
}
