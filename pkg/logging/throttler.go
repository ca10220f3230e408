package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Throttler rate-limits WARN logs per key. Consumers use it on log-and-drop
// paths (malformed payloads, unregistered types) where every occurrence is
// worth counting but not worth a log line.
type Throttler struct {
	log      *zap.Logger
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewThrottler creates a throttler allowing one WARN per key per interval.
// A zero interval defaults to 5 minutes.
func NewThrottler(log *zap.Logger, interval time.Duration) *Throttler {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &Throttler{
		log:      log,
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Warn logs at WARN once per interval per key and at DEBUG otherwise, so
// ongoing issues stay visible without flooding the log.
func (t *Throttler) Warn(key string, msg string, fields ...zap.Field) {
	if t.limiter(key).Allow() {
		t.log.Warn(msg, fields...)
		return
	}
	t.log.Debug(msg, fields...)
}

func (t *Throttler) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(t.interval), 1)
		t.limiters[key] = l
	}
	return l
}
