package service

import (
	"context"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/google/uuid"
)

type CatalogServiceInterface interface {
	CreateSite(ctx context.Context, req *entity.CreateSiteRequest) (*entity.Site, error)
	UpdateSite(ctx context.Context, id uuid.UUID, req *entity.UpdateSiteRequest) (*entity.Site, error)
	DeleteSite(ctx context.Context, id uuid.UUID) error
	ListSites(ctx context.Context) ([]entity.SiteView, error)
	GetSite(ctx context.Context, id uuid.UUID) (*entity.SiteDetail, error)

	CreateSubLocation(ctx context.Context, siteID uuid.UUID, req *entity.CreateSubLocationRequest) (*entity.SubLocation, error)
	UpdateSubLocation(ctx context.Context, id uuid.UUID, req *entity.UpdateSubLocationRequest) (*entity.SubLocation, error)
	DeleteSubLocation(ctx context.Context, id uuid.UUID) error
	GetSubLocation(ctx context.Context, id uuid.UUID) (*entity.SubLocationDetail, error)

	CreateItem(ctx context.Context, subLocationID uuid.UUID, req *entity.CreateItemRequest) (*entity.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req *entity.UpdateItemRequest) (*entity.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, filter entity.ItemFilter, page entity.PageRequest) ([]entity.ItemView, entity.Pagination, error)
	GetItem(ctx context.Context, id uuid.UUID) (*entity.ItemDetail, error)
}

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, authorID string, itemID uuid.UUID, payload entity.ReviewPayload) (*entity.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	UpdateReview(ctx context.Context, id uuid.UUID, authorID string, payload entity.ReviewPayload) (*entity.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID, authorID string) error
	ModerateDelete(ctx context.Context, id uuid.UUID) error
	ListItemReviews(ctx context.Context, itemID uuid.UUID, viewerID string, page entity.PageRequest) ([]entity.ReviewView, entity.Pagination, error)
	ListAuthorReviews(ctx context.Context, authorID string, page entity.PageRequest) ([]entity.ReviewView, entity.Pagination, error)
}

type LikeServiceInterface interface {
	ToggleLike(ctx context.Context, authorID string, reviewID uuid.UUID) (*entity.LikeToggleResult, error)
}

type ReplyServiceInterface interface {
	AddReply(ctx context.Context, authorID string, reviewID uuid.UUID, req *entity.CreateReplyRequest) (*entity.Reply, error)
	UpdateReply(ctx context.Context, id uuid.UUID, authorID string, req *entity.UpdateReplyRequest) (*entity.Reply, error)
	DeleteReply(ctx context.Context, id uuid.UUID, authorID string) error
	ListReplies(ctx context.Context, reviewID uuid.UUID, page entity.PageRequest) ([]entity.Reply, entity.Pagination, error)
}

type AggregationEngineInterface interface {
	ItemStats(ctx context.Context, itemID uuid.UUID) (*entity.ItemStats, error)
	SubLocationRating(ctx context.Context, id uuid.UUID) (*entity.RatingSummary, error)
	SiteRating(ctx context.Context, id uuid.UUID) (*entity.RatingSummary, error)
	Distribution(ctx context.Context, itemID uuid.UUID) (entity.RatingDistribution, error)
	Overview(ctx context.Context) (*entity.StatsOverview, error)
	PopularItems(ctx context.Context, limit int) ([]entity.PopularItem, error)
}

type ClassificationServiceInterface interface {
	Classify(ctx context.Context, image []byte, filename string) (*entity.ClassificationResponse, error)
}

var (
	_ CatalogServiceInterface        = (*CatalogService)(nil)
	_ ReviewServiceInterface         = (*ReviewService)(nil)
	_ LikeServiceInterface           = (*LikeService)(nil)
	_ ReplyServiceInterface          = (*ReplyService)(nil)
	_ AggregationEngineInterface     = (*AggregationEngine)(nil)
	_ ClassificationServiceInterface = (*ClassificationService)(nil)
)
