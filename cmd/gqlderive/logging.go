package main

import (
	"context"

	"go.uber.org/zap"

	eventbus "github.com/hanpama/gqlderive/internal/eventbus"
	events "github.com/hanpama/gqlderive/internal/events"
	runid "github.com/hanpama/gqlderive/internal/runid"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// subscribeLogger logs compiler events. Passes are logged at debug level.
func subscribeLogger(logger *zap.Logger) (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.PassFinish) {
			rid, _ := runid.FromContext(ctx)
			fields := []zap.Field{
				zap.String("pass", e.Pass),
				zap.Duration("duration", e.Duration),
				zap.Int("definitions", e.Definitions),
				zap.Int("violations", e.Violations),
				zap.Int64("run", rid),
			}
			if e.Err != nil && e.Violations == 0 {
				logger.Error("pass failed", append(fields, zap.Error(e.Err))...)
				return
			}
			logger.Debug("pass finished", fields...)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
			rid, _ := runid.FromContext(ctx)
			fields := []zap.Field{
				zap.String("dir", e.Dir),
				zap.Strings("patterns", e.Patterns),
				zap.Duration("duration", e.Duration),
				zap.Int("definitions", e.Definitions),
				zap.Int("violations", e.Violations),
				zap.Int64("run", rid),
			}
			if e.Violations > 0 {
				logger.Info("compile reported violations", fields...)
				return
			}
			if e.Err != nil {
				logger.Error("compile failed", append(fields, zap.Error(e.Err))...)
				return
			}
			logger.Info("compile finished", fields...)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
