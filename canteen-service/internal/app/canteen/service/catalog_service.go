package service

import (
	"context"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/infrastructure"
	"canteenscore/canteen-service/internal/app/canteen/repository"
	"canteenscore/pkg/metrics"

	"github.com/google/uuid"
)

// CatalogService управляет иерархией столовая -> окно -> блюдо.
// Уникальность имён и запрет удаления непустых узлов обеспечивает БД
type CatalogService struct {
	siteRepo        repository.SiteRepository
	subLocationRepo repository.SubLocationRepository
	itemRepo        repository.ItemRepository
	engine          *AggregationEngine
	kafkaProducer   infrastructure.MessagePublisher // события ITEM_* в catalog_events
}

func NewCatalogService(
	siteRepo repository.SiteRepository,
	subLocationRepo repository.SubLocationRepository,
	itemRepo repository.ItemRepository,
	engine *AggregationEngine,
	kafkaProducer infrastructure.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		siteRepo:        siteRepo,
		subLocationRepo: subLocationRepo,
		itemRepo:        itemRepo,
		engine:          engine,
		kafkaProducer:   kafkaProducer,
	}
}

// === SITES ===

func (s *CatalogService) CreateSite(ctx context.Context, req *entity.CreateSiteRequest) (*entity.Site, error) {
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	site := &entity.Site{
		ID:            newID(),
		Name:          req.Name,
		Location:      req.Location,
		BusinessHours: req.BusinessHours,
		Contact:       req.Contact,
		Description:   req.Description,
		Images:        req.Images.List(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.siteRepo.Create(ctx, site); err != nil {
		return nil, translate("create site", err)
	}

	metrics.CatalogMutations.WithLabelValues("site", "create").Inc()
	return site, nil
}

// UpdateSite меняет только присланные поля
func (s *CatalogService) UpdateSite(ctx context.Context, id uuid.UUID, req *entity.UpdateSiteRequest) (*entity.Site, error) {
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get site", err)
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Location != nil {
		site.Location = *req.Location
	}
	if req.BusinessHours != nil {
		site.BusinessHours = *req.BusinessHours
	}
	if req.Contact != nil {
		site.Contact = *req.Contact
	}
	if req.Description != nil {
		site.Description = *req.Description
	}
	if req.Images.Set {
		site.Images = req.Images.List()
	}
	site.UpdatedAt = time.Now().UTC()

	if err := s.siteRepo.Update(ctx, site); err != nil {
		return nil, translate("update site", err)
	}

	metrics.CatalogMutations.WithLabelValues("site", "update").Inc()
	return site, nil
}

// DeleteSite не каскадирует: столовая с окнами не удаляется
func (s *CatalogService) DeleteSite(ctx context.Context, id uuid.UUID) error {
	if err := s.siteRepo.Delete(ctx, id); err != nil {
		return translate("delete site", err)
	}

	metrics.CatalogMutations.WithLabelValues("site", "delete").Inc()
	return nil
}

// ListSites - все столовые с числом окон и рейтингом
func (s *CatalogService) ListSites(ctx context.Context) ([]entity.SiteView, error) {
	listings, err := s.siteRepo.List(ctx)
	if err != nil {
		return nil, translate("list sites", err)
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	ratings, err := s.engine.Summaries(ctx, entity.ScopeSite, ids)
	if err != nil {
		return nil, err
	}

	views := make([]entity.SiteView, 0, len(listings))
	for _, l := range listings {
		views = append(views, entity.SiteView{SiteListing: l, Rating: ratings[l.ID]})
	}
	return views, nil
}

// GetSite - столовая с окнами и рейтингами
func (s *CatalogService) GetSite(ctx context.Context, id uuid.UUID) (*entity.SiteDetail, error) {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get site", err)
	}

	rating, err := s.engine.summary(ctx, entity.ScopeSite, id)
	if err != nil {
		return nil, err
	}

	listings, err := s.subLocationRepo.ListBySite(ctx, id)
	if err != nil {
		return nil, translate("list sub-locations", err)
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	ratings, err := s.engine.Summaries(ctx, entity.ScopeSubLocation, ids)
	if err != nil {
		return nil, err
	}

	subLocations := make([]entity.SubLocationView, 0, len(listings))
	for _, l := range listings {
		subLocations = append(subLocations, entity.SubLocationView{SubLocationListing: l, Rating: ratings[l.ID]})
	}

	return &entity.SiteDetail{
		Site:         *site,
		Rating:       *rating,
		SubLocations: subLocations,
	}, nil
}

// === SUB-LOCATIONS ===

func (s *CatalogService) CreateSubLocation(ctx context.Context, siteID uuid.UUID, req *entity.CreateSubLocationRequest) (*entity.SubLocation, error) {
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.siteRepo.GetByID(ctx, siteID); err != nil {
		return nil, translate("get site", err)
	}

	now := time.Now().UTC()
	subLocation := &entity.SubLocation{
		ID:            newID(),
		SiteID:        siteID,
		Name:          req.Name,
		Description:   req.Description,
		BusinessHours: req.BusinessHours,
		Images:        req.Images.List(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Столовую могли удалить после проверки - FK вернёт ErrSiteNotFound
	if err := s.subLocationRepo.Create(ctx, subLocation); err != nil {
		return nil, translate("create sub-location", err)
	}

	metrics.CatalogMutations.WithLabelValues("sub_location", "create").Inc()
	return subLocation, nil
}

func (s *CatalogService) UpdateSubLocation(ctx context.Context, id uuid.UUID, req *entity.UpdateSubLocationRequest) (*entity.SubLocation, error) {
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	subLocation, err := s.subLocationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get sub-location", err)
	}

	if req.Name != nil {
		subLocation.Name = *req.Name
	}
	if req.Description != nil {
		subLocation.Description = *req.Description
	}
	if req.BusinessHours != nil {
		subLocation.BusinessHours = *req.BusinessHours
	}
	if req.Images.Set {
		subLocation.Images = req.Images.List()
	}
	subLocation.UpdatedAt = time.Now().UTC()

	if err := s.subLocationRepo.Update(ctx, subLocation); err != nil {
		return nil, translate("update sub-location", err)
	}

	metrics.CatalogMutations.WithLabelValues("sub_location", "update").Inc()
	return subLocation, nil
}

// DeleteSubLocation не каскадирует: окно с блюдами не удаляется
func (s *CatalogService) DeleteSubLocation(ctx context.Context, id uuid.UUID) error {
	if err := s.subLocationRepo.Delete(ctx, id); err != nil {
		return translate("delete sub-location", err)
	}

	metrics.CatalogMutations.WithLabelValues("sub_location", "delete").Inc()
	return nil
}

// GetSubLocation - окно с блюдами и их рейтингами
func (s *CatalogService) GetSubLocation(ctx context.Context, id uuid.UUID) (*entity.SubLocationDetail, error) {
	subLocation, err := s.subLocationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get sub-location", err)
	}

	site, err := s.siteRepo.GetByID(ctx, subLocation.SiteID)
	if err != nil {
		return nil, translate("get site", err)
	}

	rating, err := s.engine.summary(ctx, entity.ScopeSubLocation, id)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListBySubLocation(ctx, id)
	if err != nil {
		return nil, translate("list items", err)
	}
	views, err := s.itemViews(ctx, items)
	if err != nil {
		return nil, err
	}

	return &entity.SubLocationDetail{
		SubLocation: *subLocation,
		SiteName:    site.Name,
		Rating:      *rating,
		Items:       views,
	}, nil
}

// === ITEMS ===

func (s *CatalogService) CreateItem(ctx context.Context, subLocationID uuid.UUID, req *entity.CreateItemRequest) (*entity.Item, error) {
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.subLocationRepo.GetByID(ctx, subLocationID); err != nil {
		return nil, translate("get sub-location", err)
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:            newID(),
		SubLocationID: subLocationID,
		Name:          req.Name,
		Price:         *req.Price,
		Category:      req.Category,
		Description:   req.Description,
		Images:        req.Images.List(),
		IsAvailable:   isAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, translate("create item", err)
	}

	metrics.CatalogMutations.WithLabelValues("item", "create").Inc()
	s.publishItemEvent(ctx, entity.EventItemCreated, item)
	return item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req *entity.UpdateItemRequest) (*entity.Item, error) {
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get item", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Images.Set {
		item.Images = req.Images.List()
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, translate("update item", err)
	}

	metrics.CatalogMutations.WithLabelValues("item", "update").Inc()
	s.publishItemEvent(ctx, entity.EventItemUpdated, item)
	return item, nil
}

// DeleteItem удаляет блюдо с отзывами, лайками и ответами одной транзакцией
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return translate("get item", err)
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return translate("delete item", err)
	}

	metrics.CatalogMutations.WithLabelValues("item", "delete").Inc()
	s.publishItemEvent(ctx, entity.EventItemDeleted, item)
	return nil
}

// ListItems - страница блюд с рейтингами, новые сверху
func (s *CatalogService) ListItems(ctx context.Context, filter entity.ItemFilter, page entity.PageRequest) ([]entity.ItemView, entity.Pagination, error) {
	items, total, err := s.itemRepo.List(ctx, filter, page)
	if err != nil {
		return nil, entity.Pagination{}, translate("list items", err)
	}

	views, err := s.itemViews(ctx, items)
	if err != nil {
		return nil, entity.Pagination{}, err
	}

	return views, entity.NewPagination(page, total), nil
}

// GetItem - блюдо с полной статистикой
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*entity.ItemDetail, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get item", err)
	}

	stats, err := s.engine.itemStats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entity.ItemDetail{Item: *item, Stats: *stats}, nil
}

func (s *CatalogService) itemViews(ctx context.Context, items []entity.Item) ([]entity.ItemView, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	ratings, err := s.engine.Summaries(ctx, entity.ScopeItem, ids)
	if err != nil {
		return nil, err
	}

	views := make([]entity.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, entity.ItemView{Item: item, Rating: ratings[item.ID]})
	}
	return views, nil
}

// publishItemEvent - ключ сообщения ItemID, события одного блюда попадают в одну партицию
func (s *CatalogService) publishItemEvent(ctx context.Context, eventType string, item *entity.Item) {
	event := entity.ItemEvent{
		EventType:     eventType,
		ItemID:        item.ID,
		SubLocationID: item.SubLocationID,
		Name:          item.Name,
		Price:         item.Price,
		IsAvailable:   item.IsAvailable,
		Timestamp:     time.Now().UTC(),
	}
	publishEvent(ctx, s.kafkaProducer, item.ID.String(), eventType, event)
}
