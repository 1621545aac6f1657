package handler

import (
	"errors"
	"net/http"
	"strconv"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/service"
	"canteenscore/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError выбирает HTTP статус по виду ошибки сервиса.
// Внутренние причины наружу не уходят, только в лог
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "validation error",
			Field:   validationErr.Field,
			Message: validationErr.Message,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrClassifierUnavailable):
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: service.ErrClassifierUnavailable.Error()})
	default:
		_ = c.Error(err)
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "internal server error"})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: message})
}

// pathID разбирает UUID из параметра пути, при ошибке сам отвечает 400
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondBadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID - пользователь из токена; пустая строка для анонима
func currentUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	userIDStr, _ := userID.(string)
	return userIDStr
}

// requireUserID для маршрутов за Authenticate
func requireUserID(c *gin.Context) (string, bool) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// pageFromQuery читает page и per_page (или perPage). Мусор в параметрах даёт значения по умолчанию
func pageFromQuery(c *gin.Context, defaultPerPage int) entity.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))

	perPageRaw := c.Query("per_page")
	if perPageRaw == "" {
		perPageRaw = c.Query("perPage")
	}
	perPage, _ := strconv.Atoi(perPageRaw)

	return entity.NewPageRequest(page, perPage, defaultPerPage)
}
