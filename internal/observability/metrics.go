package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

const defaultScrapeInterval = 10 * time.Second

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	syncResults      *CounterVec
	rankingRefreshes *CounterVec
	gameCompletions  *CounterVec
	badgeUnlocks     *CounterVec

	realtimePublished *CounterVec
	realtimeDropped   *CounterVec

	dbPool    *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

// NewMetrics returns nil when disabled. Every method accepts a nil receiver.
func NewMetrics(enabled bool, log *logger.Logger) *Metrics {
	if !enabled {
		return nil
	}
	m := &Metrics{
		apiRequests: NewCounterVec("integrity_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"integrity_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight:       NewGauge("integrity_api_inflight_requests", "In-flight API requests, open event streams included."),
		syncResults:       NewCounterVec("integrity_progress_sync_total", "Background progress syncs by outcome.", []string{"state"}),
		rankingRefreshes:  NewCounterVec("integrity_ranking_refresh_total", "Ranking snapshot refreshes by outcome.", []string{"status"}),
		gameCompletions:   NewCounterVec("integrity_game_completions_total", "Recorded game completions by game.", []string{"game"}),
		badgeUnlocks:      NewCounterVec("integrity_badge_unlocks_total", "Badge unlocks by badge.", []string{"badge"}),
		realtimePublished: NewCounterVec("integrity_realtime_published_total", "Realtime messages published by event/status.", []string{"event", "status"}),
		realtimeDropped:   NewCounterVec("integrity_realtime_dropped_total", "Realtime messages dropped on full client buffers.", []string{"event"}),
		dbPool:            NewGaugeVec("integrity_db_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:           NewGauge("integrity_redis_up", "1 when the last Redis ping succeeded."),
		redisPing:         NewGauge("integrity_redis_ping_seconds", "Latency of the last Redis ping."),
	}
	if log != nil {
		log.Info("Observability metrics enabled")
	}
	return m
}

func (m *Metrics) collectors() []collector {
	return []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.syncResults, m.rankingRefreshes, m.gameCompletions, m.badgeUnlocks,
		m.realtimePublished, m.realtimeDropped,
		m.dbPool, m.redisUp, m.redisPing,
	}
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.collectors() {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

func (m *Metrics) ObserveSync(state string) {
	if m == nil {
		return
	}
	m.syncResults.Inc(state)
}

func (m *Metrics) ObserveRankingRefresh(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.rankingRefreshes.Inc(status)
}

func (m *Metrics) IncGameCompletion(game string) {
	if m == nil {
		return
	}
	m.gameCompletions.Inc(game)
}

func (m *Metrics) IncBadgeUnlock(badge string) {
	if m == nil {
		return
	}
	m.badgeUnlocks.Inc(badge)
}

func (m *Metrics) ObservePublish(event string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.realtimePublished.Inc(event, status)
}

func (m *Metrics) IncRealtimeDropped(event string) {
	if m == nil {
		return
	}
	m.realtimeDropped.Inc(event)
}

// StartDBCollector samples the connection pool until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = defaultScrapeInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbPool.Set(float64(stats.OpenConnections), "open_connections")
				m.dbPool.Set(float64(stats.InUse), "in_use")
				m.dbPool.Set(float64(stats.Idle), "idle")
				m.dbPool.Set(float64(stats.WaitCount), "wait_count")
				m.dbPool.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings the realtime Redis until ctx ends. No-op without an address.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr, password string, interval time.Duration) {
	if m == nil || addr == "" {
		return
	}
	if interval <= 0 {
		interval = defaultScrapeInterval
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer rdb.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
