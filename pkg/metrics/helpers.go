package metrics

import (
	"time"
)

type RedisOperation string

const (
	RedisOpGet RedisOperation = "get"
	RedisOpSet RedisOperation = "set"
	RedisOpDel RedisOperation = "del"
)

type RedisTimer struct {
	service   string
	operation RedisOperation
	start     time.Time
}

func NewRedisTimer(service string, op RedisOperation) *RedisTimer {
	return &RedisTimer{
		service:   service,
		operation: op,
		start:     time.Now(),
	}
}

func (rt *RedisTimer) ObserveDuration() {
	RedisOperationDuration.WithLabelValues(rt.service, string(rt.operation)).Observe(time.Since(rt.start).Seconds())
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

// RecordKafkaDelivery учитывает итог доставки пачки сообщений.
// Длительность считается от постановки самого раннего сообщения в очередь
func RecordKafkaDelivery(service, topic string, messages int, enqueuedAt time.Time, err error) {
	if err != nil {
		KafkaErrors.WithLabelValues(service, topic, "produce").Add(float64(messages))
		return
	}
	KafkaMessagesProduced.WithLabelValues(service, topic).Add(float64(messages))
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(time.Since(enqueuedAt).Seconds())
}

// RecordKafkaDrop - сообщение не принято в очередь отправки
func RecordKafkaDrop(service, topic string) {
	KafkaErrors.WithLabelValues(service, topic, "enqueue").Inc()
}

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
)

// DbTimer замеряет длительность запроса: defer metrics.NewDbTimer(...).ObserveDuration()
type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(time.Since(dt.start).Seconds())
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

// SetPoolConnections выставляет gauge соединений пула
func SetPoolConnections(service string, idle, inUse, total int32) {
	DbConnectionsOpen.WithLabelValues(service, "idle").Set(float64(idle))
	DbConnectionsOpen.WithLabelValues(service, "in_use").Set(float64(inUse))
	DbConnectionsOpen.WithLabelValues(service, "total").Set(float64(total))
}
