package handler

import (
	"net/http"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/service"

	"github.com/gin-gonic/gin"
)

// ReviewHandler обрабатывает запросы отзывов, лайков и ответов
type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	likeService   service.LikeServiceInterface
	replyService  service.ReplyServiceInterface
}

func NewReviewHandler(
	reviewService service.ReviewServiceInterface,
	likeService service.LikeServiceInterface,
	replyService service.ReplyServiceInterface,
) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		likeService:   likeService,
		replyService:  replyService,
	}
}

// === REVIEWS ===

// CreateReview обрабатывает POST /api/items/:id/reviews.
// Тело читается как есть: синонимы ключей оценок разбирает сервис
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var payload entity.ReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, itemID, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetReview обрабатывает GET /api/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// UpdateReview обрабатывает PUT /api/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var payload entity.ReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), id, userID, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview обрабатывает DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Review deleted successfully"})
}

// ModerateDeleteReview обрабатывает DELETE /api/admin/reviews/:id
func (h *ReviewHandler) ModerateDeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.ModerateDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Review deleted successfully"})
}

// ListItemReviews обрабатывает GET /api/items/:id/reviews.
// Для авторизованного пользователя заполняется liked
func (h *ReviewHandler) ListItemReviews(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page := pageFromQuery(c, entity.PerPageReviews)

	reviews, pagination, err := h.reviewService.ListItemReviews(c.Request.Context(), itemID, currentUserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{Reviews: reviews, Pagination: pagination})
}

// ListMyReviews обрабатывает GET /api/me/reviews
func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	page := pageFromQuery(c, entity.PerPageReviews)

	reviews, pagination, err := h.reviewService.ListAuthorReviews(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{Reviews: reviews, Pagination: pagination})
}

// === LIKES ===

// ToggleLike обрабатывает POST /api/reviews/:id/like
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.likeService.ToggleLike(c.Request.Context(), userID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// === REPLIES ===

// ListReplies обрабатывает GET /api/reviews/:id/replies
func (h *ReviewHandler) ListReplies(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page := pageFromQuery(c, entity.PerPageReplies)

	replies, pagination, err := h.replyService.ListReplies(c.Request.Context(), reviewID, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReplyListResponse{Replies: replies, Pagination: pagination})
}

// AddReply обрабатывает POST /api/reviews/:id/replies
func (h *ReviewHandler) AddReply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req entity.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	reply, err := h.replyService.AddReply(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// UpdateReply обрабатывает PUT /api/replies/:id
func (h *ReviewHandler) UpdateReply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req entity.UpdateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	reply, err := h.replyService.UpdateReply(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// DeleteReply обрабатывает DELETE /api/replies/:id
func (h *ReviewHandler) DeleteReply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.replyService.DeleteReply(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Reply deleted successfully"})
}
