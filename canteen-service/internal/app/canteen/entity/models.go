package entity

import (
	"time"

	"github.com/google/uuid"
)

// Site - столовая (верхний уровень каталога)
type Site struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"` // уникально среди всех столовых
	Location      string    `json:"location" db:"location"`
	BusinessHours string    `json:"business_hours" db:"business_hours"`
	Contact       string    `json:"contact" db:"contact"`
	Description   string    `json:"description" db:"description"`
	Images        []string  `json:"images" db:"images"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// SubLocation - окно раздачи внутри столовой
type SubLocation struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SiteID        uuid.UUID `json:"site_id" db:"site_id"`
	Name          string    `json:"name" db:"name"` // уникально в пределах столовой
	Description   string    `json:"description" db:"description"`
	BusinessHours string    `json:"business_hours" db:"business_hours"`
	Images        []string  `json:"images" db:"images"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Item - блюдо, на которое пишут отзывы
type Item struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SubLocationID uuid.UUID `json:"sub_location_id" db:"sub_location_id"`
	Name          string    `json:"name" db:"name"` // уникально в пределах окна
	Price         float64   `json:"price" db:"price"`
	Category      string    `json:"category" db:"category"`
	Description   string    `json:"description" db:"description"`
	Images        []string  `json:"images" db:"images"`
	IsAvailable   bool      `json:"is_available" db:"is_available"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Review - отзыв автора о блюде, не больше одного на пару (автор, блюдо).
// Оценки nullable: отзыв может быть без части измерений
type Review struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ItemID        uuid.UUID `json:"item_id" gorm:"type:uuid;not null"`
	AuthorID      string    `json:"author_id" gorm:"not null"`
	OverallRating *int      `json:"overall_rating"`
	TasteRating   *int      `json:"taste_rating"`
	PortionRating *int      `json:"portion_rating"`
	ValueRating   *int      `json:"value_rating"`
	ServiceRating *int      `json:"service_rating"`
	Content       string    `json:"content"`
	Images        []string  `json:"images" gorm:"type:text;serializer:imagelist"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// Rating возвращает оценку по измерению (nil если не выставлена)
func (r *Review) Rating(d RatingDimension) *int {
	switch d {
	case DimensionOverall:
		return r.OverallRating
	case DimensionTaste:
		return r.TasteRating
	case DimensionPortion:
		return r.PortionRating
	case DimensionValue:
		return r.ValueRating
	case DimensionService:
		return r.ServiceRating
	}
	return nil
}

// SetRating выставляет оценку по измерению
func (r *Review) SetRating(d RatingDimension, value int) {
	switch d {
	case DimensionOverall:
		r.OverallRating = &value
	case DimensionTaste:
		r.TasteRating = &value
	case DimensionPortion:
		r.PortionRating = &value
	case DimensionValue:
		r.ValueRating = &value
	case DimensionService:
		r.ServiceRating = &value
	}
}

// Like - отметка "нравится"; отсутствие строки означает отсутствие лайка
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReviewID  uuid.UUID `json:"review_id" gorm:"type:uuid;not null"`
	AuthorID  string    `json:"author_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

// Reply - ответ в ветке обсуждения отзыва
type Reply struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReviewID  uuid.UUID `json:"review_id" gorm:"type:uuid;not null"`
	AuthorID  string    `json:"author_id" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reply) TableName() string {
	return "replies"
}

// ReviewView - отзыв для выдачи в списках
type ReviewView struct {
	Review
	LikeCount  int64 `json:"like_count"`
	ReplyCount int64 `json:"reply_count"`
	Liked      bool  `json:"liked"` // лайк текущего пользователя
}

// LikeAction - результат переключения лайка
type LikeAction string

const (
	LikeActionLiked   LikeAction = "liked"
	LikeActionUnliked LikeAction = "unliked"
)

type LikeToggleResult struct {
	Action    LikeAction `json:"action"`
	LikeCount int64      `json:"likeCount"`
}

// ReviewEvent - событие об отзыве для Kafka (топик review_events)
type ReviewEvent struct {
	EventType     string    `json:"event_type"` // REVIEW_CREATED, REVIEW_UPDATED, REVIEW_DELETED
	ReviewID      uuid.UUID `json:"review_id"`
	ItemID        uuid.UUID `json:"item_id"`
	AuthorID      string    `json:"author_id"`
	OverallRating *int      `json:"overall_rating,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ItemEvent - событие каталога для Kafka (топик catalog_events)
type ItemEvent struct {
	EventType     string    `json:"event_type"` // ITEM_CREATED, ITEM_UPDATED, ITEM_DELETED
	ItemID        uuid.UUID `json:"item_id"`
	SubLocationID uuid.UUID `json:"sub_location_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	IsAvailable   bool      `json:"is_available"`
	Timestamp     time.Time `json:"timestamp"`
}

const (
	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
	EventReviewDeleted = "REVIEW_DELETED"
	EventItemCreated   = "ITEM_CREATED"
	EventItemUpdated   = "ITEM_UPDATED"
	EventItemDeleted   = "ITEM_DELETED"
)

// Prediction - ответ сервиса распознавания блюд
type Prediction struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"` // 0..1
}
