package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/repository"
	"canteenscore/canteen-service/internal/app/canteen/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reviewMocks struct {
	reviewRepo    *mocks.MockReviewRepository
	itemRepo      *mocks.MockItemRepository
	kafkaProducer *mocks.MockMessagePublisher
}

func newTestReviewService() (*ReviewService, *reviewMocks) {
	m := &reviewMocks{
		reviewRepo:    new(mocks.MockReviewRepository),
		itemRepo:      new(mocks.MockItemRepository),
		kafkaProducer: new(mocks.MockMessagePublisher),
	}
	return NewReviewService(m.reviewRepo, m.itemRepo, m.kafkaProducer), m
}

func payload(t *testing.T, body string) entity.ReviewPayload {
	t.Helper()
	var p entity.ReviewPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func intPtr(v int) *int {
	return &v
}

const fullRatings = `"overallRating":5,"tasteRating":4,"portionRating":3,"valueRating":2,"serviceRating":1`

func TestReviewService_CreateReview_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()

	m.itemRepo.On("GetByID", ctx, itemID).Return(&entity.Item{ID: itemID}, nil)
	m.reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.kafkaProducer.On("PublishMessage", mock.Anything, itemID.String(), mock.MatchedBy(func(data []byte) bool {
		var event entity.ReviewEvent
		return json.Unmarshal(data, &event) == nil &&
			event.EventType == entity.EventReviewCreated &&
			event.OverallRating != nil && *event.OverallRating == 5
	})).Return(nil)

	// Act
	review, err := svc.CreateReview(ctx, "user-1", itemID, payload(t, `{`+fullRatings+`,"content":"  Вкусно  ","images":"a.jpg"}`))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, itemID, review.ItemID)
	assert.Equal(t, "user-1", review.AuthorID)
	assert.Equal(t, intPtr(5), review.OverallRating)
	assert.Equal(t, intPtr(4), review.TasteRating)
	assert.Equal(t, intPtr(3), review.PortionRating)
	assert.Equal(t, intPtr(2), review.ValueRating)
	assert.Equal(t, intPtr(1), review.ServiceRating)
	assert.Equal(t, "Вкусно", review.Content)
	assert.Equal(t, []string{"a.jpg"}, review.Images)
	m.reviewRepo.AssertExpectations(t)
	m.kafkaProducer.AssertExpectations(t)
}

func TestReviewService_CreateReview_VerboseKeys(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()

	m.itemRepo.On("GetByID", ctx, itemID).Return(&entity.Item{ID: itemID}, nil)
	m.reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	body := `{"overall_rating":4,"taste_rating":4,"portion_rating":4,"value_rating":4,"service_rating":4}`

	// Act
	review, err := svc.CreateReview(ctx, "user-1", itemID, payload(t, body))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, intPtr(4), review.OverallRating)
	assert.Equal(t, []string{}, review.Images)
	assert.Empty(t, review.Content)
}

func TestReviewService_CreateReview_ItemNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()

	m.itemRepo.On("GetByID", ctx, itemID).Return(nil, repository.ErrItemNotFound)

	// Act
	review, err := svc.CreateReview(ctx, "user-1", itemID, payload(t, `{`+fullRatings+`}`))

	// Assert
	assert.Nil(t, review)
	assert.ErrorIs(t, err, ErrItemNotFound)
	m.reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_CreateReview_SecondReviewConflict(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()

	m.itemRepo.On("GetByID", ctx, itemID).Return(&entity.Item{ID: itemID}, nil)
	m.reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(repository.ErrReviewAlreadyExists)

	// Act
	review, err := svc.CreateReview(ctx, "user-1", itemID, payload(t, `{`+fullRatings+`}`))

	// Assert
	assert.Nil(t, review)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.ErrorIs(t, err, ErrConflict)
	m.kafkaProducer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_CreateReview_ItemDeletedConcurrently(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()

	m.itemRepo.On("GetByID", ctx, itemID).Return(&entity.Item{ID: itemID}, nil)
	m.reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(repository.ErrItemNotFound)

	// Act
	_, err := svc.CreateReview(ctx, "user-1", itemID, payload(t, `{`+fullRatings+`}`))

	// Assert
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestReviewService_CreateReview_ValidationBeforeWrite(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing dimension", `{"overallRating":5,"tasteRating":4,"portionRating":3,"valueRating":2}`, "service_rating"},
		{"out of range high", `{"overallRating":6,"tasteRating":4,"portionRating":3,"valueRating":2,"serviceRating":1}`, "overallRating"},
		{"out of range low", `{"overallRating":0,"tasteRating":4,"portionRating":3,"valueRating":2,"serviceRating":1}`, "overallRating"},
		{"not numeric", `{"overallRating":"5","tasteRating":4,"portionRating":3,"valueRating":2,"serviceRating":1}`, "overallRating"},
		{"fractional", `{"overallRating":4.5,"tasteRating":4,"portionRating":3,"valueRating":2,"serviceRating":1}`, "overallRating"},
		{"null", `{"overallRating":null,"tasteRating":4,"portionRating":3,"valueRating":2,"serviceRating":1}`, "overallRating"},
		{"conflicting aliases", `{"overallRating":5,"overall_rating":3,"tasteRating":4,"portionRating":3,"valueRating":2,"serviceRating":1}`, "overall_rating"},
		{"bad images", `{` + fullRatings + `,"images":{"a":1}}`, "images"},
		{"content not string", `{` + fullRatings + `,"content":5}`, "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			svc, m := newTestReviewService()
			itemID := uuid.New()
			m.itemRepo.On("GetByID", ctx, itemID).Return(&entity.Item{ID: itemID}, nil)

			// Act
			review, err := svc.CreateReview(ctx, "user-1", itemID, payload(t, tt.body))

			// Assert
			assert.Nil(t, review)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			m.reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestReviewService_CreateReview_SameValueUnderBothKeys(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()

	m.itemRepo.On("GetByID", ctx, itemID).Return(&entity.Item{ID: itemID}, nil)
	m.reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	review, err := svc.CreateReview(ctx, "user-1", itemID, payload(t, `{`+fullRatings+`,"overall_rating":5.0}`))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, intPtr(5), review.OverallRating)
}

func TestReviewService_UpdateReview_PatchesSuppliedDimensions(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()
	existing := &entity.Review{
		ID: id, ItemID: uuid.New(), AuthorID: "user-1",
		OverallRating: intPtr(3), TasteRating: intPtr(3), PortionRating: intPtr(3),
		ValueRating: intPtr(3), ServiceRating: intPtr(3),
		Content: "было", Images: []string{"a.jpg"},
	}

	m.reviewRepo.On("GetByID", ctx, id).Return(existing, nil)
	m.reviewRepo.On("Update", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	review, err := svc.UpdateReview(ctx, id, "user-1", payload(t, `{"taste_rating":5}`))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, intPtr(3), review.OverallRating)
	assert.Equal(t, intPtr(5), review.TasteRating)
	assert.Equal(t, "было", review.Content)
	assert.Equal(t, []string{"a.jpg"}, review.Images)
}

func TestReviewService_UpdateReview_ClearsImages(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "user-1", Images: []string{"a.jpg"}}, nil)
	m.reviewRepo.On("Update", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	m.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	review, err := svc.UpdateReview(ctx, id, "user-1", payload(t, `{"images":""}`))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{}, review.Images)
}

func TestReviewService_UpdateReview_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(nil, repository.ErrReviewNotFound)

	// Act
	_, err := svc.UpdateReview(ctx, id, "user-1", payload(t, `{"overallRating":9}`))

	// Assert
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_UpdateReview_ForbiddenBeforeValidation(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "owner"}, nil)

	// Act
	_, err := svc.UpdateReview(ctx, id, "stranger", payload(t, `{"overallRating":9}`))

	// Assert
	assert.ErrorIs(t, err, ErrNotReviewAuthor)
	assert.ErrorIs(t, err, ErrForbidden)
	m.reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReviewService_UpdateReview_InvalidRating(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "user-1"}, nil)

	// Act
	_, err := svc.UpdateReview(ctx, id, "user-1", payload(t, `{"valueRating":7}`))

	// Assert
	assert.ErrorIs(t, err, ErrValidation)
	m.reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReviewService_DeleteReview_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "user-1"}, nil)
	m.reviewRepo.On("Delete", ctx, id).Return(nil)
	m.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.MatchedBy(func(data []byte) bool {
		var event entity.ReviewEvent
		return json.Unmarshal(data, &event) == nil && event.EventType == entity.EventReviewDeleted
	})).Return(nil)

	// Act
	err := svc.DeleteReview(ctx, id, "user-1")

	// Assert
	require.NoError(t, err)
	m.reviewRepo.AssertExpectations(t)
	m.kafkaProducer.AssertExpectations(t)
}

func TestReviewService_DeleteReview_Forbidden(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "owner"}, nil)

	// Act
	err := svc.DeleteReview(ctx, id, "stranger")

	// Assert
	assert.ErrorIs(t, err, ErrForbidden)
	m.reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReviewService_DeleteReview_StorageFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "user-1"}, nil)
	m.reviewRepo.On("Delete", ctx, id).Return(errors.New("tx aborted"))

	// Act
	err := svc.DeleteReview(ctx, id, "user-1")

	// Assert
	assert.ErrorIs(t, err, ErrUnexpected)
	m.kafkaProducer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_DeleteReview_DependentsAppeared(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "user-1"}, nil)
	m.reviewRepo.On("Delete", ctx, id).Return(repository.ErrReviewHasDependents)

	// Act
	err := svc.DeleteReview(ctx, id, "user-1")

	// Assert
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrUnexpected)
	m.kafkaProducer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_ModerateDelete_IgnoresAuthorship(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(&entity.Review{ID: id, AuthorID: "someone-else"}, nil)
	m.reviewRepo.On("Delete", ctx, id).Return(nil)
	m.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.MatchedBy(func(data []byte) bool {
		var event entity.ReviewEvent
		return json.Unmarshal(data, &event) == nil &&
			event.EventType == entity.EventReviewDeleted &&
			event.AuthorID == "someone-else"
	})).Return(nil)

	// Act
	err := svc.ModerateDelete(ctx, id)

	// Assert
	require.NoError(t, err)
	m.reviewRepo.AssertExpectations(t)
	m.kafkaProducer.AssertExpectations(t)
}

func TestReviewService_ModerateDelete_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	id := uuid.New()

	m.reviewRepo.On("GetByID", ctx, id).Return(nil, repository.ErrReviewNotFound)

	// Act
	err := svc.ModerateDelete(ctx, id)

	// Assert
	assert.ErrorIs(t, err, ErrReviewNotFound)
	m.reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReviewService_ListItemReviews(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()
	page := entity.NewPageRequest(1, 0, entity.PerPageReviews)
	views := []entity.ReviewView{{Review: entity.Review{ID: uuid.New()}, LikeCount: 2, Liked: true}}

	m.itemRepo.On("GetByID", ctx, itemID).Return(&entity.Item{ID: itemID}, nil)
	m.reviewRepo.On("ListByItem", ctx, itemID, "viewer", page).Return(views, int64(1), nil)

	// Act
	reviews, pagination, err := svc.ListItemReviews(ctx, itemID, "viewer", page)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, views, reviews)
	assert.Equal(t, 10, pagination.PerPage)
	assert.Equal(t, int64(1), pagination.Pages)
}

func TestReviewService_ListItemReviews_ItemNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	itemID := uuid.New()

	m.itemRepo.On("GetByID", ctx, itemID).Return(nil, repository.ErrItemNotFound)

	// Act
	_, _, err := svc.ListItemReviews(ctx, itemID, "", entity.NewPageRequest(1, 10, 10))

	// Assert
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestReviewService_ListAuthorReviews(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newTestReviewService()
	page := entity.NewPageRequest(1, 10, entity.PerPageReviews)

	m.reviewRepo.On("ListByAuthor", ctx, "user-1", page).Return([]entity.ReviewView{}, int64(0), nil)

	// Act
	reviews, pagination, err := svc.ListAuthorReviews(ctx, "user-1", page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Equal(t, int64(0), pagination.Total)
	assert.False(t, pagination.HasNext)
}
