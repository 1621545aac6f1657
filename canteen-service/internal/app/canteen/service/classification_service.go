package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/infrastructure"
	"canteenscore/pkg/logger"
	"canteenscore/pkg/metrics"
)

var allowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// ClassificationService угадывает блюдо по фото через внешний сервис.
// Необязательное обогащение: отказ классификатора не затрагивает каталог и отзывы
type ClassificationService struct {
	client        infrastructure.ClassifierClient
	cache         infrastructure.PredictionCache // может быть nil, если Redis недоступен
	maxImageBytes int64
}

func NewClassificationService(
	client infrastructure.ClassifierClient,
	cache infrastructure.PredictionCache,
	maxImageBytes int64,
) *ClassificationService {
	return &ClassificationService{
		client:        client,
		cache:         cache,
		maxImageBytes: maxImageBytes,
	}
}

// Classify возвращает название и уверенность в процентах с двумя знаками
func (s *ClassificationService) Classify(ctx context.Context, image []byte, filename string) (*entity.ClassificationResponse, error) {
	if len(image) == 0 {
		return nil, newValidationError("image", "is required")
	}
	if s.maxImageBytes > 0 && int64(len(image)) > s.maxImageBytes {
		return nil, newValidationError("image", fmt.Sprintf("must be at most %d bytes", s.maxImageBytes))
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !allowedImageExtensions[ext] {
		return nil, newValidationError("image", "unsupported file type, allowed: png, jpg, jpeg, gif")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, image)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read prediction cache")
		}
		if cached != nil {
			metrics.ClassifierRequests.WithLabelValues("cached").Inc()
			return toClassificationResponse(cached), nil
		}
	}

	prediction, err := s.client.Predict(ctx, image, filename)
	if err != nil {
		metrics.ClassifierRequests.WithLabelValues("failed").Inc()
		logger.Warn().Err(err).Str("filename", filename).Msg("classifier request failed")
		return nil, fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, image, prediction); err != nil {
			logger.Warn().Err(err).Msg("failed to cache prediction")
		}
	}

	metrics.ClassifierRequests.WithLabelValues("success").Inc()
	return toClassificationResponse(prediction), nil
}

func toClassificationResponse(p *entity.Prediction) *entity.ClassificationResponse {
	return &entity.ClassificationResponse{
		Name:       p.Name,
		Confidence: math.Round(p.Confidence*10000) / 100,
	}
}
