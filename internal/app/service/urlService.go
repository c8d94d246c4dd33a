package service

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/metrics"
	"github.com/atinyakov/tinyurl/internal/storage"
)

const defaultMaxAttempts = 10

var (
	ErrNotFound           = errors.New("short url not found")
	ErrInvalidURL         = errors.New("invalid url")
	ErrCodeSpaceExhausted = errors.New("no free short code")
)

type URLService struct {
	repository  Storage
	cache       Cache
	generator   CodeSource
	logger      *zap.Logger
	evictions   EvictionQueue
	metrics     *metrics.Metrics
	now         func() time.Time
	maxAttempts int
}

type Option func(*URLService)

// WithEvictionQueue hands failed cache evictions to a background retrier.
func WithEvictionQueue(q EvictionQueue) Option {
	return func(s *URLService) {
		s.evictions = q
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *URLService) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *URLService) {
		s.now = now
	}
}

// WithMaxAttempts bounds how many candidate codes Create tries.
func WithMaxAttempts(n int) Option {
	return func(s *URLService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func NewURL(repo Storage, cache Cache, generator CodeSource, logger *zap.Logger, opts ...Option) *URLService {
	s := &URLService{
		repository:  repo,
		cache:       cache,
		generator:   generator,
		logger:      logger,
		now:         time.Now,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PingContext fails only when the store is unreachable; the cache is optional.
func (s *URLService) PingContext(ctx context.Context) error {
	if err := s.repository.PingContext(ctx); err != nil {
		return errors.Wrap(err, "store ping failed")
	}
	if err := s.cache.Ping(ctx); err != nil {
		s.logger.Warn("cache ping failed", zap.Error(err))
	}
	return nil
}

func (s *URLService) CreateURLRecord(ctx context.Context, longURL string) (*storage.URLRecord, error) {
	if !isValidURL(longURL) {
		return nil, ErrInvalidURL
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code, free, err := s.freeCode(ctx)
		if err != nil {
			return nil, err
		}
		if !free {
			s.logger.Debug("short code taken, regenerating", zap.String("code", code), zap.Int("attempt", attempt))
			continue
		}

		record := storage.URLRecord{
			ShortCode: code,
			LongURL:   longURL,
			Active:    true,
			CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		}

		err = s.repository.Create(ctx, record)
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.logger.Debug("short code raced, regenerating", zap.String("code", code), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			s.logger.Error("create record failed", zap.String("code", code), zap.Error(err))
			return nil, err
		}

		s.cacheSet(ctx, code, longURL)
		return &record, nil
	}

	s.logger.Error("short code space exhausted", zap.Int("attempts", s.maxAttempts))
	return nil, errors.Wrapf(ErrCodeSpaceExhausted, "after %d attempts", s.maxAttempts)
}

// freeCode draws one candidate and reports whether the store has no record for it.
func (s *URLService) freeCode(ctx context.Context) (string, bool, error) {
	code, err := s.generator.Generate()
	if err != nil {
		return "", false, err
	}

	_, err = s.repository.FindByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return code, true, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "check short code failed")
	}
	return code, false, nil
}

func (s *URLService) GetURLByCode(ctx context.Context, code string) (*storage.URLRecord, error) {
	record, err := s.repository.FindByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return record, err
}

func (s *URLService) ActivateURL(ctx context.Context, code string) (*storage.URLRecord, error) {
	record, err := s.setActive(ctx, code, true)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, code, record.LongURL)
	return record, nil
}

// DeactivateURL must leave no cache entry behind, or redirects would keep
// serving the inactive URL.
func (s *URLService) DeactivateURL(ctx context.Context, code string) (*storage.URLRecord, error) {
	record, err := s.setActive(ctx, code, false)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, code)
	return record, nil
}

func (s *URLService) setActive(ctx context.Context, code string, active bool) (*storage.URLRecord, error) {
	record, err := s.repository.UpdateActive(ctx, code, active)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("update active failed", zap.String("code", code), zap.Bool("active", active), zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (s *URLService) DeleteURL(ctx context.Context, code string) error {
	deleted, err := s.repository.Delete(ctx, code)
	if err != nil {
		s.logger.Error("delete record failed", zap.String("code", code), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.evict(ctx, code)
	return nil
}

// ResolveURL trusts a cache hit without re-checking the record.
func (s *URLService) ResolveURL(ctx context.Context, code string) (string, error) {
	longURL, ok, err := s.cache.Get(ctx, code)
	switch {
	case err != nil:
		s.metrics.CacheLookup(metrics.CacheError)
		s.logger.Warn("cache get failed", zap.String("code", code), zap.Error(err))
	case ok:
		s.metrics.CacheLookup(metrics.CacheHit)
		return longURL, nil
	default:
		s.metrics.CacheLookup(metrics.CacheMiss)
	}

	record, err := s.repository.FindByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		s.logger.Error("find record failed", zap.String("code", code), zap.Error(err))
		return "", err
	}
	if !record.Active {
		return "", ErrNotFound
	}

	s.cacheSet(ctx, code, record.LongURL)
	return record.LongURL, nil
}

// cacheSet writes the entry and then re-reads the record. A deactivate or
// delete that landed between the caller's store read and the Set has already
// run its eviction, so the entry written here is evicted again unless the
// record is still active.
func (s *URLService) cacheSet(ctx context.Context, code, longURL string) {
	if err := s.cache.Set(ctx, code, longURL); err != nil {
		s.logger.Warn("cache set failed", zap.String("code", code), zap.Error(err))
		return
	}

	record, err := s.repository.FindByCode(ctx, code)
	if err == nil && record.Active {
		return
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("cache recheck failed, evicting", zap.String("code", code), zap.Error(err))
	}
	s.evict(ctx, code)
}

func (s *URLService) evict(ctx context.Context, code string) {
	err := s.cache.Delete(ctx, code)
	if err == nil {
		return
	}

	s.logger.Warn("cache evict failed", zap.String("code", code), zap.Error(err))
	if s.evictions == nil {
		return
	}
	if !s.evictions.Enqueue(code) {
		s.logger.Error("eviction queue full, dropping", zap.String("code", code))
	}
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
