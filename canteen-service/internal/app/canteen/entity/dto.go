package entity

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// === CATALOG ===

type CreateSiteRequest struct {
	Name          string     `json:"name" validate:"required,max=100"`
	Location      string     `json:"location" validate:"required,max=200"`
	BusinessHours string     `json:"business_hours" validate:"max=100"`
	Contact       string     `json:"contact" validate:"max=50"`
	Description   string     `json:"description" validate:"max=2000"`
	Images        ImageInput `json:"images"`
}

// Normalize обрезает пробелы до валидации
func (r *CreateSiteRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
	r.BusinessHours = strings.TrimSpace(r.BusinessHours)
	r.Contact = strings.TrimSpace(r.Contact)
	r.Description = strings.TrimSpace(r.Description)
}

// UpdateSiteRequest - частичное обновление, nil означает "не менять"
type UpdateSiteRequest struct {
	Name          *string    `json:"name" validate:"omitnil,min=1,max=100"`
	Location      *string    `json:"location" validate:"omitnil,min=1,max=200"`
	BusinessHours *string    `json:"business_hours" validate:"omitnil,max=100"`
	Contact       *string    `json:"contact" validate:"omitnil,max=50"`
	Description   *string    `json:"description" validate:"omitnil,max=2000"`
	Images        ImageInput `json:"images"`
}

func (r *UpdateSiteRequest) Normalize() {
	trimPtr(r.Name, r.Location, r.BusinessHours, r.Contact, r.Description)
}

type CreateSubLocationRequest struct {
	Name          string     `json:"name" validate:"required,max=100"`
	Description   string     `json:"description" validate:"max=2000"`
	BusinessHours string     `json:"business_hours" validate:"max=100"`
	Images        ImageInput `json:"images"`
}

func (r *CreateSubLocationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.BusinessHours = strings.TrimSpace(r.BusinessHours)
}

type UpdateSubLocationRequest struct {
	Name          *string    `json:"name" validate:"omitnil,min=1,max=100"`
	Description   *string    `json:"description" validate:"omitnil,max=2000"`
	BusinessHours *string    `json:"business_hours" validate:"omitnil,max=100"`
	Images        ImageInput `json:"images"`
}

func (r *UpdateSubLocationRequest) Normalize() {
	trimPtr(r.Name, r.Description, r.BusinessHours)
}

type CreateItemRequest struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Price       *float64   `json:"price" validate:"required,gte=0,lte=99999999"`
	Category    string     `json:"category" validate:"max=50"`
	Description string     `json:"description" validate:"max=2000"`
	Images      ImageInput `json:"images"`
	IsAvailable *bool      `json:"is_available"` // по умолчанию true
}

func (r *CreateItemRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Description = strings.TrimSpace(r.Description)
}

type UpdateItemRequest struct {
	Name        *string    `json:"name" validate:"omitnil,min=1,max=100"`
	Price       *float64   `json:"price" validate:"omitnil,gte=0,lte=99999999"`
	Category    *string    `json:"category" validate:"omitnil,max=50"`
	Description *string    `json:"description" validate:"omitnil,max=2000"`
	Images      ImageInput `json:"images"`
	IsAvailable *bool      `json:"is_available"`
}

func (r *UpdateItemRequest) Normalize() {
	trimPtr(r.Name, r.Category, r.Description)
}

func trimPtr(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}

// ItemFilter - фильтры списка блюд
type ItemFilter struct {
	SubLocationID *uuid.UUID
	Category      string
	Search        string // подстрока в названии, без учёта регистра
	AvailableOnly bool
}

// === REVIEWS ===

// ReviewPayload - тело запроса создания/обновления отзыва как есть.
// Синонимы ключей оценок сводятся к одному полю отдельным шагом нормализации
type ReviewPayload map[string]json.RawMessage

type CreateReplyRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

func (r *CreateReplyRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type UpdateReplyRequest = CreateReplyRequest

// === VIEWS ===

type SiteListing struct {
	Site
	SubLocationCount int64 `json:"sub_location_count"`
}

type SiteView struct {
	SiteListing
	Rating RatingSummary `json:"rating"`
}

type SiteDetail struct {
	Site
	Rating       RatingSummary     `json:"rating"`
	SubLocations []SubLocationView `json:"sub_locations"`
}

type SubLocationListing struct {
	SubLocation
	ItemCount int64 `json:"item_count"`
}

type SubLocationView struct {
	SubLocationListing
	Rating RatingSummary `json:"rating"`
}

type SubLocationDetail struct {
	SubLocation
	SiteName string        `json:"site_name"`
	Rating   RatingSummary `json:"rating"`
	Items    []ItemView    `json:"items"`
}

type ItemView struct {
	Item
	Rating RatingSummary `json:"rating"`
}

type ItemDetail struct {
	Item
	Stats ItemStats `json:"stats"`
}

// === RESPONSES ===

type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type SiteListResponse struct {
	Sites []SiteView `json:"sites"`
	Total int        `json:"total"`
}

type ItemListResponse struct {
	Items      []ItemView `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type ReviewListResponse struct {
	Reviews    []ReviewView `json:"reviews"`
	Pagination Pagination   `json:"pagination"`
}

type ReplyListResponse struct {
	Replies    []Reply    `json:"replies"`
	Pagination Pagination `json:"pagination"`
}

type PopularItemsResponse struct {
	Items []PopularItem `json:"items"`
	Total int           `json:"total"`
}

// ClassificationResponse - confidence в процентах
type ClassificationResponse struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}
