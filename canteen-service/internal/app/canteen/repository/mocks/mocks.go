package mocks

import (
	"context"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSiteRepository мок для SiteRepository
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) Create(ctx context.Context, site *entity.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Site), args.Error(1)
}

func (m *MockSiteRepository) List(ctx context.Context) ([]entity.SiteListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SiteListing), args.Error(1)
}

func (m *MockSiteRepository) Update(ctx context.Context, site *entity.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSubLocationRepository мок для SubLocationRepository
type MockSubLocationRepository struct {
	mock.Mock
}

func (m *MockSubLocationRepository) Create(ctx context.Context, subLocation *entity.SubLocation) error {
	args := m.Called(ctx, subLocation)
	return args.Error(0)
}

func (m *MockSubLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SubLocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubLocation), args.Error(1)
}

func (m *MockSubLocationRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]entity.SubLocationListing, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SubLocationListing), args.Error(1)
}

func (m *MockSubLocationRepository) Update(ctx context.Context, subLocation *entity.SubLocation) error {
	args := m.Called(ctx, subLocation)
	return args.Error(0)
}

func (m *MockSubLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockItemRepository мок для ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *entity.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context, filter entity.ItemFilter, page entity.PageRequest) ([]entity.Item, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) ListBySubLocation(ctx context.Context, subLocationID uuid.UUID) ([]entity.Item, error) {
	args := m.Called(ctx, subLocationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *entity.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByItem(ctx context.Context, itemID uuid.UUID, viewerID string, page entity.PageRequest) ([]entity.ReviewView, int64, error) {
	args := m.Called(ctx, itemID, viewerID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.ReviewView), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) ListByAuthor(ctx context.Context, authorID string, page entity.PageRequest) ([]entity.ReviewView, int64, error) {
	args := m.Called(ctx, authorID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.ReviewView), args.Get(1).(int64), args.Error(2)
}

// MockLikeRepository мок для LikeRepository
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Toggle(ctx context.Context, like *entity.Like) (entity.LikeAction, int64, error) {
	args := m.Called(ctx, like)
	return args.Get(0).(entity.LikeAction), args.Get(1).(int64), args.Error(2)
}

// MockReplyRepository мок для ReplyRepository
type MockReplyRepository struct {
	mock.Mock
}

func (m *MockReplyRepository) Create(ctx context.Context, reply *entity.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReplyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reply), args.Error(1)
}

func (m *MockReplyRepository) Update(ctx context.Context, reply *entity.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReplyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReplyRepository) ListByReview(ctx context.Context, reviewID uuid.UUID, page entity.PageRequest) ([]entity.Reply, int64, error) {
	args := m.Called(ctx, reviewID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Reply), args.Get(1).(int64), args.Error(2)
}

// MockAggregationRepository мок для AggregationRepository
type MockAggregationRepository struct {
	mock.Mock
}

func (m *MockAggregationRepository) Totals(ctx context.Context, scope entity.Scope, id uuid.UUID) (*entity.RatingTotals, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingTotals), args.Error(1)
}

func (m *MockAggregationRepository) TotalsByNode(ctx context.Context, scope entity.Scope, ids []uuid.UUID) (map[uuid.UUID]entity.RatingTotals, error) {
	args := m.Called(ctx, scope, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]entity.RatingTotals), args.Error(1)
}

func (m *MockAggregationRepository) Distribution(ctx context.Context, itemID uuid.UUID) (map[int]int64, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int64), args.Error(1)
}

func (m *MockAggregationRepository) CatalogCounts(ctx context.Context) (*entity.CatalogCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CatalogCounts), args.Error(1)
}

func (m *MockAggregationRepository) PopularItems(ctx context.Context, limit int) ([]entity.PopularItemRow, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PopularItemRow), args.Error(1)
}

// MockMessagePublisher мок для MessagePublisher (Kafka)
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockClassifierClient мок для ClassifierClient
type MockClassifierClient struct {
	mock.Mock
}

func (m *MockClassifierClient) Predict(ctx context.Context, image []byte, filename string) (*entity.Prediction, error) {
	args := m.Called(ctx, image, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prediction), args.Error(1)
}

// MockPredictionCache мок для PredictionCache (Redis)
type MockPredictionCache struct {
	mock.Mock
}

func (m *MockPredictionCache) Get(ctx context.Context, image []byte) (*entity.Prediction, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prediction), args.Error(1)
}

func (m *MockPredictionCache) Set(ctx context.Context, image []byte, prediction *entity.Prediction) error {
	args := m.Called(ctx, image, prediction)
	return args.Error(0)
}
