package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"canteenscore/pkg/logger"
	"canteenscore/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const (
	serviceName = "canteen-service"

	defaultQueueSize = 1024
	// ограничивает поиск метаданных топика, когда брокер недоступен
	writeTimeout = 10 * time.Second
	// после него оставшиеся в очереди сообщения отбрасываются
	drainTimeout = 5 * time.Second
)

var (
	ErrPublishQueueFull = errors.New("kafka publish queue is full")
	ErrProducerClosed   = errors.New("kafka producer is closed")
)

// messageWriter - часть kafka.Writer, которой пользуется продюсер
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer пишет события в один топик; ключ сообщения - id сущности,
// поэтому события одного отзыва или блюда попадают в одну партицию.
// PublishMessage только ставит сообщение в очередь и не ждёт брокер
type KafkaProducer struct {
	writer messageWriter
	topic  string

	queue  chan kafka.Message
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	p := &KafkaProducer{topic: topic}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion:   p.complete,
	}
	p.start(defaultQueueSize)
	return p
}

func newProducerWithWriter(writer messageWriter, topic string, queueSize int) *KafkaProducer {
	p := &KafkaProducer{writer: writer, topic: topic}
	p.start(queueSize)
	return p
}

func (p *KafkaProducer) start(queueSize int) {
	p.queue = make(chan kafka.Message, queueSize)
	p.done = make(chan struct{})
	p.ctx, p.cancel = context.WithCancel(context.Background())
	go p.run()
}

// PublishMessage ставит сообщение в очередь. Переполненная очередь - ошибка, без ожидания
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrProducerClosed
	}

	select {
	case p.queue <- message:
		return nil
	default:
		metrics.RecordKafkaDrop(serviceName, p.topic)
		return ErrPublishQueueFull
	}
}

func (p *KafkaProducer) run() {
	defer close(p.done)

	for message := range p.queue {
		if err := p.ctx.Err(); err != nil {
			p.complete([]kafka.Message{message}, err)
			continue
		}

		ctx, cancel := context.WithTimeout(p.ctx, writeTimeout)
		err := p.writer.WriteMessages(ctx, message)
		cancel()

		// в асинхронном режиме сюда доходят только ошибки постановки в пачку
		if err != nil {
			p.complete([]kafka.Message{message}, err)
		}
	}
}

// complete вызывается kafka.Writer после ответа брокера на пачку
func (p *KafkaProducer) complete(messages []kafka.Message, err error) {
	if len(messages) == 0 {
		return
	}

	earliest := messages[0].Time
	for _, m := range messages[1:] {
		if m.Time.Before(earliest) {
			earliest = m.Time
		}
	}
	metrics.RecordKafkaDelivery(serviceName, p.topic, len(messages), earliest, err)

	if err != nil {
		logger.Warn().
			Err(err).
			Str("topic", p.topic).
			Int("messages", len(messages)).
			Msg("kafka delivery failed")
	}
}

// Close ждёт отправки очереди не дольше drainTimeout и закрывает writer
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(drainTimeout):
		logger.Warn().Str("topic", p.topic).Int("pending", len(p.queue)).Msg("kafka queue not drained, dropping")
		p.cancel()
		<-p.done
	}
	p.cancel()
	return p.writer.Close()
}
