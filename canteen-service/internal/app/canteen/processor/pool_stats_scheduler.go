package processor

import (
	"sync"

	"canteenscore/pkg/logger"
	"canteenscore/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

const serviceName = "canteen-service"

// PoolStats - снимок соединений пула
type PoolStats struct {
	Idle  int32
	InUse int32
	Total int32
}

// PoolStatsSource отдаёт текущее состояние пула соединений
type PoolStatsSource interface {
	PoolStats() PoolStats
}

type pgxPoolSource struct {
	pool *pgxpool.Pool
}

// NewPgxPoolSource - источник статистики для pgxpool (его же использует gorm)
func NewPgxPoolSource(pool *pgxpool.Pool) PoolStatsSource {
	return &pgxPoolSource{pool: pool}
}

func (s *pgxPoolSource) PoolStats() PoolStats {
	stat := s.pool.Stat()
	return PoolStats{
		Idle:  stat.IdleConns(),
		InUse: stat.AcquiredConns(),
		Total: stat.TotalConns(),
	}
}

// PoolStatsScheduler по расписанию выгружает состояние пула в prometheus gauge
type PoolStatsScheduler struct {
	cron     *cron.Cron
	source   PoolStatsSource
	stopOnce sync.Once
}

func NewPoolStatsScheduler(source PoolStatsSource) *PoolStatsScheduler {
	c := cron.New(cron.WithLogger(cron.PrintfLogger(logger.Get())))

	return &PoolStatsScheduler{
		cron:   c,
		source: source,
	}
}

// Start регистрирует задачу и сразу снимает первый замер
func (s *PoolStatsScheduler) Start(schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting pool stats scheduler")

	if _, err := s.cron.AddFunc(schedule, s.Sample); err != nil {
		return err
	}

	s.cron.Start()
	s.Sample()

	return nil
}

// Sample снимает один замер
func (s *PoolStatsScheduler) Sample() {
	stats := s.source.PoolStats()
	metrics.SetPoolConnections(serviceName, stats.Idle, stats.InUse, stats.Total)
	logger.Debug().
		Int32("idle", stats.Idle).
		Int32("in_use", stats.InUse).
		Int32("total", stats.Total).
		Msg("pool stats sampled")
}

// Stop дожидается завершения запущенной задачи
func (s *PoolStatsScheduler) Stop() {
	s.stopOnce.Do(func() {
		logger.Info().Msg("Stopping pool stats scheduler...")
		ctx := s.cron.Stop()
		<-ctx.Done()
	})
}

func (s *PoolStatsScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
