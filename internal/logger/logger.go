// Package logger builds the process-wide zap logger.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
)

type Logger struct {
	Log   *zap.Logger
	level zap.AtomicLevel
}

// New returns a no-op logger until Init is called.
func New() *Logger {
	return &Logger{
		Log:   zap.NewNop(),
		level: zap.NewAtomicLevel(),
	}
}

// Init switches to a JSON production logger at the given level name.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = zl
	l.level = lvl
	return nil
}

// SetLevel changes the level of an initialized logger in place.
func (l *Logger) SetLevel(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl.Level())
	return nil
}

// ReloadOnSignal re-applies the level returned by lookup every time sig
// fires, until ctx is done. An empty or unknown level keeps the current one.
func (l *Logger) ReloadOnSignal(ctx context.Context, sig <-chan os.Signal, lookup func() string) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			level := lookup()
			if level == "" {
				continue
			}
			if err := l.SetLevel(level); err != nil {
				l.Log.Warn("log level unchanged", zap.String("level", level), zap.Error(err))
				continue
			}
			l.Log.Info("log level changed", zap.String("level", level))
		}
	}
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *Logger) Sync() {
	_ = l.Log.Sync()
}
