package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultInterval   = 10 * time.Second
	defaultBatchSize  = 25
	defaultMaxPending = 1000
	queueSize         = 256
	flushTimeout      = 3 * time.Second
)

type Evicter interface {
	Delete(ctx context.Context, codes ...string) error
}

// EvictionWorker retries cache evictions that failed on the request path.
// Codes are flushed in batches on every tick or once a batch fills up; a
// failed batch stays pending for the next tick.
type EvictionWorker struct {
	in         chan string
	logger     *zap.Logger
	cache      Evicter
	interval   time.Duration
	batchSize  int
	maxPending int
}

type Option func(*EvictionWorker)

func WithInterval(d time.Duration) Option {
	return func(w *EvictionWorker) {
		w.interval = d
	}
}

func WithBatchSize(n int) Option {
	return func(w *EvictionWorker) {
		w.batchSize = n
	}
}

// WithMaxPending caps how many codes are held across failed flushes; the
// oldest are dropped first.
func WithMaxPending(n int) Option {
	return func(w *EvictionWorker) {
		w.maxPending = n
	}
}

func NewEvictionWorker(logger *zap.Logger, cache Evicter, opts ...Option) *EvictionWorker {
	w := &EvictionWorker{
		in:         make(chan string, queueSize),
		logger:     logger,
		cache:      cache,
		interval:   defaultInterval,
		batchSize:  defaultBatchSize,
		maxPending: defaultMaxPending,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enqueue never blocks; it reports false when the queue is full.
func (w *EvictionWorker) Enqueue(code string) bool {
	select {
	case w.in <- code:
		return true
	default:
		return false
	}
}

// Run flushes until ctx is cancelled, then makes one last attempt with
// whatever is queued.
func (w *EvictionWorker) Run(ctx context.Context) {
	w.logger.Info("Eviction worker started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var pending []string
	// After a failed flush only the ticker retries.
	failing := false

	flush := func() {
		if len(pending) == 0 {
			return
		}
		codes := unique(pending)

		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()

		if err := w.cache.Delete(flushCtx, codes...); err != nil {
			w.logger.Warn("Cannot evict cache entries, will retry", zap.Int("count", len(codes)), zap.Error(err))
			pending = w.trim(codes)
			failing = true
			return
		}
		failing = false
		w.logger.Info("Evicted cache entries", zap.Int("count", len(codes)))
		pending = pending[:0]
	}

	for {
		select {
		case code := <-w.in:
			pending = append(pending, code)
			if !failing && len(pending) >= w.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
		drain:
			for {
				select {
				case code := <-w.in:
					pending = append(pending, code)
				default:
					break drain
				}
			}
			flush()
			w.logger.Info("Eviction worker stopped", zap.Int("unflushed", len(pending)))
			return
		}
	}
}

func (w *EvictionWorker) trim(codes []string) []string {
	if over := len(codes) - w.maxPending; over > 0 {
		w.logger.Error("Eviction backlog over capacity, dropping oldest", zap.Int("dropped", over))
		return codes[over:]
	}
	return codes
}

func unique(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
