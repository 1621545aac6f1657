package handler

import (
	"context"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ==================== Catalog ====================

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateSite(ctx context.Context, req *entity.CreateSiteRequest) (*entity.Site, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Site), args.Error(1)
}

func (m *MockCatalogService) UpdateSite(ctx context.Context, id uuid.UUID, req *entity.UpdateSiteRequest) (*entity.Site, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Site), args.Error(1)
}

func (m *MockCatalogService) DeleteSite(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListSites(ctx context.Context) ([]entity.SiteView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SiteView), args.Error(1)
}

func (m *MockCatalogService) GetSite(ctx context.Context, id uuid.UUID) (*entity.SiteDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SiteDetail), args.Error(1)
}

func (m *MockCatalogService) CreateSubLocation(ctx context.Context, siteID uuid.UUID, req *entity.CreateSubLocationRequest) (*entity.SubLocation, error) {
	args := m.Called(ctx, siteID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubLocation), args.Error(1)
}

func (m *MockCatalogService) UpdateSubLocation(ctx context.Context, id uuid.UUID, req *entity.UpdateSubLocationRequest) (*entity.SubLocation, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubLocation), args.Error(1)
}

func (m *MockCatalogService) DeleteSubLocation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) GetSubLocation(ctx context.Context, id uuid.UUID) (*entity.SubLocationDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubLocationDetail), args.Error(1)
}

func (m *MockCatalogService) CreateItem(ctx context.Context, subLocationID uuid.UUID, req *entity.CreateItemRequest) (*entity.Item, error) {
	args := m.Called(ctx, subLocationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockCatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req *entity.UpdateItemRequest) (*entity.Item, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockCatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListItems(ctx context.Context, filter entity.ItemFilter, page entity.PageRequest) ([]entity.ItemView, entity.Pagination, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.Pagination), args.Error(2)
	}
	return args.Get(0).([]entity.ItemView), args.Get(1).(entity.Pagination), args.Error(2)
}

func (m *MockCatalogService) GetItem(ctx context.Context, id uuid.UUID) (*entity.ItemDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ItemDetail), args.Error(1)
}

// ==================== Reviews ====================

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, authorID string, itemID uuid.UUID, payload entity.ReviewPayload) (*entity.Review, error) {
	args := m.Called(ctx, authorID, itemID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, id uuid.UUID, authorID string, payload entity.ReviewPayload) (*entity.Review, error) {
	args := m.Called(ctx, id, authorID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, id uuid.UUID, authorID string) error {
	args := m.Called(ctx, id, authorID)
	return args.Error(0)
}

func (m *MockReviewService) ModerateDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewService) ListItemReviews(ctx context.Context, itemID uuid.UUID, viewerID string, page entity.PageRequest) ([]entity.ReviewView, entity.Pagination, error) {
	args := m.Called(ctx, itemID, viewerID, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.Pagination), args.Error(2)
	}
	return args.Get(0).([]entity.ReviewView), args.Get(1).(entity.Pagination), args.Error(2)
}

func (m *MockReviewService) ListAuthorReviews(ctx context.Context, authorID string, page entity.PageRequest) ([]entity.ReviewView, entity.Pagination, error) {
	args := m.Called(ctx, authorID, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.Pagination), args.Error(2)
	}
	return args.Get(0).([]entity.ReviewView), args.Get(1).(entity.Pagination), args.Error(2)
}

// ==================== Likes / Replies ====================

type MockLikeService struct {
	mock.Mock
}

func (m *MockLikeService) ToggleLike(ctx context.Context, authorID string, reviewID uuid.UUID) (*entity.LikeToggleResult, error) {
	args := m.Called(ctx, authorID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeToggleResult), args.Error(1)
}

type MockReplyService struct {
	mock.Mock
}

func (m *MockReplyService) AddReply(ctx context.Context, authorID string, reviewID uuid.UUID, req *entity.CreateReplyRequest) (*entity.Reply, error) {
	args := m.Called(ctx, authorID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reply), args.Error(1)
}

func (m *MockReplyService) UpdateReply(ctx context.Context, id uuid.UUID, authorID string, req *entity.UpdateReplyRequest) (*entity.Reply, error) {
	args := m.Called(ctx, id, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reply), args.Error(1)
}

func (m *MockReplyService) DeleteReply(ctx context.Context, id uuid.UUID, authorID string) error {
	args := m.Called(ctx, id, authorID)
	return args.Error(0)
}

func (m *MockReplyService) ListReplies(ctx context.Context, reviewID uuid.UUID, page entity.PageRequest) ([]entity.Reply, entity.Pagination, error) {
	args := m.Called(ctx, reviewID, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.Pagination), args.Error(2)
	}
	return args.Get(0).([]entity.Reply), args.Get(1).(entity.Pagination), args.Error(2)
}

// ==================== Stats / Classification ====================

type MockAggregationEngine struct {
	mock.Mock
}

func (m *MockAggregationEngine) ItemStats(ctx context.Context, itemID uuid.UUID) (*entity.ItemStats, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ItemStats), args.Error(1)
}

func (m *MockAggregationEngine) SubLocationRating(ctx context.Context, id uuid.UUID) (*entity.RatingSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

func (m *MockAggregationEngine) SiteRating(ctx context.Context, id uuid.UUID) (*entity.RatingSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

func (m *MockAggregationEngine) Distribution(ctx context.Context, itemID uuid.UUID) (entity.RatingDistribution, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RatingDistribution), args.Error(1)
}

func (m *MockAggregationEngine) Overview(ctx context.Context) (*entity.StatsOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StatsOverview), args.Error(1)
}

func (m *MockAggregationEngine) PopularItems(ctx context.Context, limit int) ([]entity.PopularItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PopularItem), args.Error(1)
}

type MockClassificationService struct {
	mock.Mock
}

func (m *MockClassificationService) Classify(ctx context.Context, image []byte, filename string) (*entity.ClassificationResponse, error) {
	args := m.Called(ctx, image, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClassificationResponse), args.Error(1)
}
