package service

import (
	"context"
	"strconv"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/repository"

	"github.com/google/uuid"
)

// AggregationEngine считает рейтинги на чтении из текущих строк reviews.
// Ни средние, ни счётчики нигде не хранятся и не кешируются
type AggregationEngine struct {
	siteRepo        repository.SiteRepository
	subLocationRepo repository.SubLocationRepository
	itemRepo        repository.ItemRepository
	aggregationRepo repository.AggregationRepository
}

func NewAggregationEngine(
	siteRepo repository.SiteRepository,
	subLocationRepo repository.SubLocationRepository,
	itemRepo repository.ItemRepository,
	aggregationRepo repository.AggregationRepository,
) *AggregationEngine {
	return &AggregationEngine{
		siteRepo:        siteRepo,
		subLocationRepo: subLocationRepo,
		itemRepo:        itemRepo,
		aggregationRepo: aggregationRepo,
	}
}

// roundedMean - среднее до десятых. Округляется точное двоичное значение,
// ровная половина уходит к чётной цифре: 4.25 -> 4.2, 4.35 -> 4.3
func roundedMean(t entity.DimensionTotal) float64 {
	if t.Count <= 0 {
		return 0.0
	}
	mean := float64(t.Sum) / float64(t.Count)
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(mean, 'f', 1, 64), 64)
	if err != nil {
		return mean
	}
	return rounded
}

func summarize(t entity.RatingTotals) entity.RatingSummary {
	return entity.RatingSummary{
		AverageRating: roundedMean(t.Overall),
		ReviewCount:   t.Overall.Count,
		Dimensions: entity.DimensionAverages{
			Taste:   roundedMean(t.Taste),
			Portion: roundedMean(t.Portion),
			Value:   roundedMean(t.Value),
			Service: roundedMean(t.Service),
		},
	}
}

// ItemStats - сводка и гистограмма по блюду
func (e *AggregationEngine) ItemStats(ctx context.Context, itemID uuid.UUID) (*entity.ItemStats, error) {
	if _, err := e.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, translate("get item", err)
	}
	return e.itemStats(ctx, itemID)
}

// SubLocationRating - рейтинг окна по всем его блюдам
func (e *AggregationEngine) SubLocationRating(ctx context.Context, id uuid.UUID) (*entity.RatingSummary, error) {
	if _, err := e.subLocationRepo.GetByID(ctx, id); err != nil {
		return nil, translate("get sub-location", err)
	}
	return e.summary(ctx, entity.ScopeSubLocation, id)
}

// SiteRating - рейтинг столовой по всем блюдам всех её окон
func (e *AggregationEngine) SiteRating(ctx context.Context, id uuid.UUID) (*entity.RatingSummary, error) {
	if _, err := e.siteRepo.GetByID(ctx, id); err != nil {
		return nil, translate("get site", err)
	}
	return e.summary(ctx, entity.ScopeSite, id)
}

// Distribution - гистограмма общей оценки только по самому блюду
func (e *AggregationEngine) Distribution(ctx context.Context, itemID uuid.UUID) (entity.RatingDistribution, error) {
	if _, err := e.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, translate("get item", err)
	}
	return e.distribution(ctx, itemID)
}

// Summaries считает рейтинги пачкой для списков. Узел без отзывов получает нулевую сводку
func (e *AggregationEngine) Summaries(ctx context.Context, scope entity.Scope, ids []uuid.UUID) (map[uuid.UUID]entity.RatingSummary, error) {
	result := make(map[uuid.UUID]entity.RatingSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	totals, err := e.aggregationRepo.TotalsByNode(ctx, scope, ids)
	if err != nil {
		return nil, unexpected("aggregate ratings", err)
	}

	for _, id := range ids {
		result[id] = summarize(totals[id])
	}
	return result, nil
}

// Overview - общие цифры по всему каталогу
func (e *AggregationEngine) Overview(ctx context.Context) (*entity.StatsOverview, error) {
	counts, err := e.aggregationRepo.CatalogCounts(ctx)
	if err != nil {
		return nil, unexpected("count catalog", err)
	}

	return &entity.StatsOverview{
		SiteCount:        counts.Sites,
		SubLocationCount: counts.SubLocations,
		ItemCount:        counts.Items,
		ReviewCount:      counts.Reviews,
		LikeCount:        counts.Likes,
		ReplyCount:       counts.Replies,
		AverageRating:    roundedMean(counts.Overall),
	}, nil
}

// PopularItems - блюда с наибольшим числом отзывов. limit < 1 даёт 10, больше 50 не отдаём
func (e *AggregationEngine) PopularItems(ctx context.Context, limit int) ([]entity.PopularItem, error) {
	if limit < 1 {
		limit = entity.DefaultPopularTop
	}
	if limit > entity.MaxPerPage {
		limit = entity.MaxPerPage
	}

	rows, err := e.aggregationRepo.PopularItems(ctx, limit)
	if err != nil {
		return nil, unexpected("get popular items", err)
	}

	items := make([]entity.PopularItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, entity.PopularItem{
			ItemID:          row.ItemID,
			ItemName:        row.ItemName,
			SubLocationName: row.SubLocationName,
			SiteName:        row.SiteName,
			ReviewCount:     row.ReviewCount,
			AverageRating:   roundedMean(row.Overall),
		})
	}
	return items, nil
}

func (e *AggregationEngine) itemStats(ctx context.Context, itemID uuid.UUID) (*entity.ItemStats, error) {
	summary, err := e.summary(ctx, entity.ScopeItem, itemID)
	if err != nil {
		return nil, err
	}
	dist, err := e.distribution(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &entity.ItemStats{Summary: *summary, Distribution: dist}, nil
}

func (e *AggregationEngine) summary(ctx context.Context, scope entity.Scope, id uuid.UUID) (*entity.RatingSummary, error) {
	totals, err := e.aggregationRepo.Totals(ctx, scope, id)
	if err != nil {
		return nil, unexpected("aggregate ratings", err)
	}
	summary := summarize(*totals)
	return &summary, nil
}

func (e *AggregationEngine) distribution(ctx context.Context, itemID uuid.UUID) (entity.RatingDistribution, error) {
	counts, err := e.aggregationRepo.Distribution(ctx, itemID)
	if err != nil {
		return nil, unexpected("get rating distribution", err)
	}
	return entity.NewRatingDistribution(counts), nil
}
