package handler

import (
	"net/http"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler обрабатывает HTTP запросы каталога столовых
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
}

func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// === SITES ===

// ListSites обрабатывает GET /api/sites
func (h *CatalogHandler) ListSites(c *gin.Context) {
	sites, err := h.catalogService.ListSites(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SiteListResponse{Sites: sites, Total: len(sites)})
}

// GetSite обрабатывает GET /api/sites/:id
func (h *CatalogHandler) GetSite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	site, err := h.catalogService.GetSite(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, site)
}

// CreateSite обрабатывает POST /api/admin/sites
func (h *CatalogHandler) CreateSite(c *gin.Context) {
	var req entity.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	site, err := h.catalogService.CreateSite(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, site)
}

// UpdateSite обрабатывает PUT /api/admin/sites/:id
func (h *CatalogHandler) UpdateSite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req entity.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	site, err := h.catalogService.UpdateSite(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, site)
}

// DeleteSite обрабатывает DELETE /api/admin/sites/:id
func (h *CatalogHandler) DeleteSite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSite(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Site deleted successfully"})
}

// === SUB-LOCATIONS ===

// GetSubLocation обрабатывает GET /api/sub-locations/:id
func (h *CatalogHandler) GetSubLocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	subLocation, err := h.catalogService.GetSubLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subLocation)
}

// CreateSubLocation обрабатывает POST /api/admin/sites/:id/sub-locations
func (h *CatalogHandler) CreateSubLocation(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req entity.CreateSubLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	subLocation, err := h.catalogService.CreateSubLocation(c.Request.Context(), siteID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subLocation)
}

// UpdateSubLocation обрабатывает PUT /api/admin/sub-locations/:id
func (h *CatalogHandler) UpdateSubLocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req entity.UpdateSubLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	subLocation, err := h.catalogService.UpdateSubLocation(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subLocation)
}

// DeleteSubLocation обрабатывает DELETE /api/admin/sub-locations/:id
func (h *CatalogHandler) DeleteSubLocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSubLocation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Sub-location deleted successfully"})
}

// === ITEMS ===

// ListItems обрабатывает GET /api/items?sub_location_id=&category=&search=&page=&per_page=
// Публичный список показывает только доступные блюда
func (h *CatalogHandler) ListItems(c *gin.Context) {
	filter := entity.ItemFilter{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		AvailableOnly: true,
	}
	if raw := c.Query("sub_location_id"); raw != "" {
		subLocationID, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(c, "Invalid sub_location_id")
			return
		}
		filter.SubLocationID = &subLocationID
	}

	page := pageFromQuery(c, entity.PerPageItems)

	items, pagination, err := h.catalogService.ListItems(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ItemListResponse{Items: items, Pagination: pagination})
}

// GetItem обрабатывает GET /api/items/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateItem обрабатывает POST /api/admin/sub-locations/:id/items
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	subLocationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req entity.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), subLocationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItem обрабатывает PUT /api/admin/items/:id
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req entity.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem обрабатывает DELETE /api/admin/items/:id
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Item deleted successfully"})
}
