package infrastructure

import (
	"context"

	"canteenscore/canteen-service/internal/app/canteen/entity"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ClassifierClient - внешний сервис, угадывающий блюдо по фото
type ClassifierClient interface {
	Predict(ctx context.Context, image []byte, filename string) (*entity.Prediction, error)
}

// PredictionCache хранит ответы классификатора по хешу содержимого картинки.
// Get возвращает nil, nil при промахе
type PredictionCache interface {
	Get(ctx context.Context, image []byte) (*entity.Prediction, error)
	Set(ctx context.Context, image []byte, prediction *entity.Prediction) error
}
