package handler

import (
	"fmt"
	"io"
	"net/http"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/service"

	"github.com/gin-gonic/gin"
)

// multipartOverhead - запас на заголовки частей и границы multipart
const multipartOverhead = 64 << 10

// ClassifyHandler проксирует фото блюда в сервис распознавания
type ClassifyHandler struct {
	classificationService service.ClassificationServiceInterface
	maxImageBytes         int64 // 0 - без ограничения
}

func NewClassifyHandler(classificationService service.ClassificationServiceInterface, maxImageBytes int64) *ClassifyHandler {
	return &ClassifyHandler{
		classificationService: classificationService,
		maxImageBytes:         maxImageBytes,
	}
}

// ClassifyItem обрабатывает POST /api/classify-item (multipart, поле image)
func (h *ClassifyHandler) ClassifyItem(c *gin.Context) {
	if h.maxImageBytes > 0 {
		bodyLimit := h.maxImageBytes + multipartOverhead
		if c.Request.ContentLength > bodyLimit {
			c.JSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{
				Error:   "request too large",
				Field:   "image",
				Message: fmt.Sprintf("must be at most %d bytes", h.maxImageBytes),
			})
			return
		}
		// тело без Content-Length обрезается при чтении
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "validation error",
			Field:   "image",
			Message: "is required",
		})
		return
	}

	if h.maxImageBytes > 0 && fileHeader.Size > h.maxImageBytes {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "validation error",
			Field:   "image",
			Message: fmt.Sprintf("must be at most %d bytes", h.maxImageBytes),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "Failed to read image")
		return
	}
	defer file.Close()

	var reader io.Reader = file
	if h.maxImageBytes > 0 {
		// на байт больше лимита, чтобы сервис увидел превышение
		reader = io.LimitReader(file, h.maxImageBytes+1)
	}
	image, err := io.ReadAll(reader)
	if err != nil {
		respondBadRequest(c, "Failed to read image")
		return
	}

	result, err := h.classificationService.Classify(c.Request.Context(), image, fileHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
