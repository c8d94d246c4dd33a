package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/tinyurl/internal/app/server"
	grpcserver "github.com/atinyakov/tinyurl/internal/app/server/grpc"
	"github.com/atinyakov/tinyurl/internal/app/service"
	"github.com/atinyakov/tinyurl/internal/cache"
	"github.com/atinyakov/tinyurl/internal/config"
	"github.com/atinyakov/tinyurl/internal/logger"
	"github.com/atinyakov/tinyurl/internal/metrics"
	"github.com/atinyakov/tinyurl/internal/repository"
	"github.com/atinyakov/tinyurl/internal/storage"
	"github.com/atinyakov/tinyurl/internal/worker"

	_ "net/http/pprof"
)

var buildVersion string
var buildDate string
var buildCommit string

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	pprofAddr       = "localhost:6060"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	options, err := config.Parse()
	if err != nil {
		return err
	}

	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		return err
	}
	defer log.Sync()
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	store, closeStore, err := openStore(connectCtx, options, zapLogger)
	if err != nil {
		return err
	}
	defer closeStore()

	urlCache, closeCache, err := openCache(connectCtx, options, zapLogger)
	if err != nil {
		return err
	}
	defer closeCache()

	m := metrics.New()
	evictions := worker.NewEvictionWorker(zapLogger, urlCache)
	svc := service.NewURL(store, urlCache, service.NewCodeGenerator(options.CodeLength), zapLogger,
		service.WithEvictionQueue(evictions),
		service.WithMetrics(m),
	)
	r := server.Init(options.ResultHostname, zapLogger, svc, m)

	g, gctx := errgroup.WithContext(ctx)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	g.Go(func() error {
		log.ReloadOnSignal(gctx, hup, func() string { return os.Getenv("LOG_LEVEL") })
		return nil
	})

	// The worker outlives the HTTP server so evictions queued by draining
	// requests still get flushed.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	g.Go(func() error {
		evictions.Run(workerCtx)
		return nil
	})

	srv := newHTTPServer(options, r)
	g.Go(func() error {
		var err error
		if options.EnableHTTPS {
			zapLogger.Info("Server is running with TLS", zap.String("addr", srv.Addr))
			err = srv.ListenAndServeTLS("", "")
		} else {
			zapLogger.Info("Server is running", zap.String("addr", srv.Addr))
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		defer stopWorker()

		zapLogger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if options.GRPCAddress != "" {
		gs := grpcserver.New(options.GRPCAddress, zapLogger, svc, 0)
		g.Go(gs.Start)
		g.Go(func() error {
			gs.Probe(gctx)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			gs.GracefulStop()
			return nil
		})
	}

	if options.EnablePprof {
		pprofSrv := &http.Server{Addr: pprofAddr, Handler: http.DefaultServeMux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			zapLogger.Info("Starting pprof server", zap.String("addr", pprofAddr))
			if err := pprofSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return pprofSrv.Close()
		})
	}

	err = g.Wait()
	zapLogger.Info("Server stopped", zap.Error(err))
	return err
}

func newHTTPServer(options *config.Options, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              options.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if !options.EnableHTTPS {
		return srv
	}

	manager := &autocert.Manager{
		Cache:      autocert.DirCache("cache-dir"),
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(hostOf(options.ResultHostname)),
	}
	srv.Addr = ":443"
	srv.TLSConfig = manager.TLSConfig()
	return srv
}

// openStore picks the record store by precedence: MongoDB, PostgreSQL,
// bbolt file, memory. The returned func releases it.
func openStore(ctx context.Context, options *config.Options, zapLogger *zap.Logger) (service.Storage, func(), error) {
	switch {
	case options.MongoURI != "":
		zapLogger.Info("using mongodb", zap.String("db", options.MongoDB))
		client, err := repository.ConnectMongo(ctx, options.MongoURI, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewMongoRepository(ctx, client, options.MongoDB, zapLogger)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case options.DatabaseDSN != "":
		zapLogger.Info("using postgres")
		db, err := repository.InitDB(ctx, options.DatabaseDSN, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		return repository.CreateURLRepository(db, zapLogger), func() { _ = db.Close() }, nil

	case options.FilePath != "":
		zapLogger.Info("using file", zap.String("filePath", options.FilePath))
		s, err := storage.NewBoltStorage(options.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		zapLogger.Info("using in memory storage")
		s, err := storage.CreateMemoryStorage()
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func openCache(ctx context.Context, options *config.Options, zapLogger *zap.Logger) (service.Cache, func(), error) {
	if options.RedisURL == "" {
		zapLogger.Info("using in memory cache", zap.Duration("ttl", options.CacheTTL))
		return cache.NewMemoryCache(options.CacheTTL), func() {}, nil
	}

	zapLogger.Info("using redis cache", zap.Duration("ttl", options.CacheTTL))
	c, err := cache.NewRedisCache(ctx, options.RedisURL, options.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return c, func() { _ = c.Close() }, nil
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Hostname()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
