package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/infrastructure"
	"canteenscore/pkg/logger"

	"github.com/google/uuid"
)

const eventPublishTimeout = 5 * time.Second

// newID выдаёт UUIDv7: идентификаторы растут вместе со временем создания
func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// publishEvent отправляет событие в Kafka после коммита.
// Ошибка только логируется: запись в БД уже состоялась и откатывать её нельзя
func publishEvent(ctx context.Context, publisher infrastructure.MessagePublisher, key string, eventType string, event interface{}) {
	if publisher == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to marshal event")
		return
	}

	// Отмена запроса клиентом не должна обрывать отправку уже закоммиченного события
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().
			Err(fmt.Errorf("failed to publish to kafka: %w", err)).
			Str("event_type", eventType).
			Str("key", key).
			Msg("event dropped")
	}
}
