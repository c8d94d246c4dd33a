package service

import (
	"context"

	"github.com/atinyakov/tinyurl/internal/storage"
)

//go:generate mockgen -destination=../../mocks/mock_storage.go -package=mocks github.com/atinyakov/tinyurl/internal/app/service Storage
type Storage interface {
	Create(context.Context, storage.URLRecord) error
	FindByCode(context.Context, string) (*storage.URLRecord, error)
	UpdateActive(context.Context, string, bool) (*storage.URLRecord, error)
	Delete(context.Context, string) (bool, error)
	PingContext(context.Context) error
}

//go:generate mockgen -destination=../../mocks/mock_cache.go -package=mocks github.com/atinyakov/tinyurl/internal/app/service Cache
type Cache interface {
	Get(ctx context.Context, code string) (string, bool, error)
	Set(ctx context.Context, code, url string) error
	Delete(ctx context.Context, codes ...string) error
	Ping(ctx context.Context) error
}

// EvictionQueue accepts cache evictions that failed inline and retries them
// in the background. Enqueue must not block.
type EvictionQueue interface {
	Enqueue(code string) bool
}

//go:generate mockgen -destination=../../mocks/mock_url_service.go -package=mocks github.com/atinyakov/tinyurl/internal/app/service URLServiceIface
type URLServiceIface interface {
	CreateURLRecord(ctx context.Context, longURL string) (*storage.URLRecord, error)
	GetURLByCode(ctx context.Context, code string) (*storage.URLRecord, error)
	ActivateURL(ctx context.Context, code string) (*storage.URLRecord, error)
	DeactivateURL(ctx context.Context, code string) (*storage.URLRecord, error)
	DeleteURL(ctx context.Context, code string) error
	ResolveURL(ctx context.Context, code string) (string, error)
	PingContext(ctx context.Context) error
}

// CodeSource yields candidate short codes.
type CodeSource interface {
	Generate() (string, error)
}
