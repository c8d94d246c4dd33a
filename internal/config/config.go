// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
// Flags supply the defaults; a set environment variable always wins.
package config

import (
	"flag"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `env:"SERVER_ADDRESS"`

	// ResultHostname is the base URL used for result links.
	ResultHostname string `env:"BASE_URL"`

	// MongoURI selects the MongoDB store when set.
	MongoURI string `env:"MONGO_URI"`

	// MongoDB is the database holding the urls collection.
	MongoDB string `env:"MONGO_DB"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `env:"DATABASE_DSN"`

	// FilePath is the path to the bbolt file for persistent data.
	FilePath string `env:"FILE_STORAGE_PATH"`

	// RedisURL selects the Redis cache when set, e.g. redis://localhost:6379/0.
	RedisURL string `env:"REDIS_URL"`

	// CacheTTL bounds cache entry lifetime; zero keeps entries until evicted.
	CacheTTL time.Duration `env:"CACHE_TTL"`

	// CodeLength is the number of characters in generated short codes.
	CodeLength int `env:"CODE_LENGTH"`

	// GRPCAddress enables the gRPC health server when set.
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// LogLevel is a zap level name.
	LogLevel string `env:"LOG_LEVEL"`

	// EnablePprof indicates whether to enable pprof for performance profiling.
	EnablePprof bool `env:"ENABLE_PPROF"`

	// EnableHTTPS indicates whether to enable https.
	EnableHTTPS bool `env:"ENABLE_HTTPS"`
}

// Parse reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args as command-line flags, then applies environment
// variable overrides and validates the result.
func ParseArgs(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("shortener", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.ResultHostname, "b", "http://localhost:8080", "result base url")
	fs.StringVar(&options.MongoURI, "m", "", "mongodb connection uri")
	fs.StringVar(&options.MongoDB, "n", "tiny_url", "mongodb database name")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.FilePath, "f", "", "path to storage file")
	fs.StringVar(&options.RedisURL, "r", "", "redis url")
	fs.DurationVar(&options.CacheTTL, "t", 0, "cache entry ttl, 0 disables expiry")
	fs.IntVar(&options.CodeLength, "l", 6, "short code length")
	fs.StringVar(&options.GRPCAddress, "g", "", "grpc health server address")
	fs.StringVar(&options.LogLevel, "v", "info", "log level")
	fs.BoolVar(&options.EnablePprof, "p", false, "enable pprof")
	fs.BoolVar(&options.EnableHTTPS, "s", false, "enable https")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parse flags failed")
	}

	if err := env.Parse(options); err != nil {
		return nil, errors.Wrap(err, "parse env failed")
	}

	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func (o *Options) validate() error {
	o.ResultHostname = strings.TrimRight(o.ResultHostname, "/")
	u, err := url.ParseRequestURI(o.ResultHostname)
	if err != nil || u.Host == "" {
		return errors.Errorf("base url %q must be an absolute url", o.ResultHostname)
	}

	if o.CodeLength < 1 {
		return errors.Errorf("code length must be at least 1, got %d", o.CodeLength)
	}
	if o.CacheTTL < 0 {
		return errors.Errorf("cache ttl must not be negative, got %s", o.CacheTTL)
	}
	return nil
}
