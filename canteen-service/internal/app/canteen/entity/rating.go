package entity

import (
	"github.com/google/uuid"
)

// RatingDimension - одно из пяти измерений оценки
type RatingDimension string

const (
	DimensionOverall RatingDimension = "overall"
	DimensionTaste   RatingDimension = "taste"
	DimensionPortion RatingDimension = "portion"
	DimensionValue   RatingDimension = "value"
	DimensionService RatingDimension = "service"
)

// RatingDimensions в порядке вывода
var RatingDimensions = []RatingDimension{
	DimensionOverall,
	DimensionTaste,
	DimensionPortion,
	DimensionValue,
	DimensionService,
}

const (
	MinRating = 1
	MaxRating = 5
)

// CompactKey - ключ в запросе вида overallRating
func (d RatingDimension) CompactKey() string {
	return string(d) + "Rating"
}

// VerboseKey - ключ в запросе вида overall_rating, он же имя колонки
func (d RatingDimension) VerboseKey() string {
	return string(d) + "_rating"
}

// Scope - уровень иерархии, по которому считается агрегат
type Scope string

const (
	ScopeItem        Scope = "item"
	ScopeSubLocation Scope = "sub_location"
	ScopeSite        Scope = "site"
)

// DimensionTotal - сумма и количество непустых оценок по измерению
type DimensionTotal struct {
	Sum   int64
	Count int64
}

// RatingTotals - сырые суммы из БД, из которых выводятся средние
type RatingTotals struct {
	Overall DimensionTotal
	Taste   DimensionTotal
	Portion DimensionTotal
	Value   DimensionTotal
	Service DimensionTotal
}

// DimensionAverages - средние по дополнительным измерениям
type DimensionAverages struct {
	Taste   float64 `json:"taste"`
	Portion float64 `json:"portion"`
	Value   float64 `json:"value"`
	Service float64 `json:"service"`
}

// RatingSummary - агрегат по узлу иерархии
type RatingSummary struct {
	AverageRating float64           `json:"average_rating"`
	ReviewCount   int64             `json:"review_count"`
	Dimensions    DimensionAverages `json:"dimensions"`
}

// RatingDistribution - гистограмма общей оценки, ключи 1..5 присутствуют всегда
type RatingDistribution map[int]int64

// NewRatingDistribution заполняет все ключи нулями и переносит известные значения
func NewRatingDistribution(counts map[int]int64) RatingDistribution {
	dist := make(RatingDistribution, MaxRating)
	for star := MinRating; star <= MaxRating; star++ {
		dist[star] = counts[star]
	}
	return dist
}

// ItemStats - полная статистика по блюду
type ItemStats struct {
	Summary      RatingSummary      `json:"summary"`
	Distribution RatingDistribution `json:"distribution"`
}

// StatsOverview - общие цифры по каталогу
type StatsOverview struct {
	SiteCount        int64   `json:"site_count"`
	SubLocationCount int64   `json:"sub_location_count"`
	ItemCount        int64   `json:"item_count"`
	ReviewCount      int64   `json:"review_count"`
	LikeCount        int64   `json:"like_count"`
	ReplyCount       int64   `json:"reply_count"`
	AverageRating    float64 `json:"average_rating"`
}

// CatalogCounts - сырые счётчики для StatsOverview
type CatalogCounts struct {
	Sites        int64
	SubLocations int64
	Items        int64
	Reviews      int64
	Likes        int64
	Replies      int64
	Overall      DimensionTotal
}

// PopularItemRow - строка выборки популярных блюд
type PopularItemRow struct {
	ItemID          uuid.UUID
	ItemName        string
	SubLocationName string
	SiteName        string
	ReviewCount     int64
	Overall         DimensionTotal
}

// PopularItem - блюдо в рейтинге по числу отзывов
type PopularItem struct {
	ItemID          uuid.UUID `json:"item_id"`
	ItemName        string    `json:"item_name"`
	SubLocationName string    `json:"sub_location_name"`
	SiteName        string    `json:"site_name"`
	ReviewCount     int64     `json:"review_count"`
	AverageRating   float64   `json:"average_rating"`
}
