// Package worker supervises long-running components: each registered
// runnable gets a lifecycle-managed goroutine that optionally waits for
// process readiness before starting and can shut the application down when
// its run loop fails.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/health"
)

type runnable interface {
	Run(ctx context.Context) error
}

// Options controls how a registered worker is supervised.
type Options struct {
	// WaitReady delays Run until every health component is ready.
	WaitReady bool
	// ShutdownOnError stops the whole application when Run returns a
	// non-cancellation error.
	ShutdownOnError bool
}

// Option mutates Options.
type Option func(*Options)

// WithWaitReady makes the worker block on the readiness tracker before
// entering its run loop.
func WithWaitReady() Option {
	return func(o *Options) { o.WaitReady = true }
}

// WithShutdownOnError makes a failing run loop terminate the application.
func WithShutdownOnError() Option {
	return func(o *Options) { o.ShutdownOnError = true }
}

// Register wraps a runnable dependency in a supervised worker and tags it
// into the "workers" value group. Intended for use inside fx.Provide:
//
//	fx.Provide(worker.Register[*kafka.Consumer]("ticker-consumer", worker.WithWaitReady()))
func Register[T runnable](name string, opts ...Option) any {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	return fx.Annotate(
		func(lc fx.Lifecycle, shutdowner fx.Shutdowner, logger *zap.Logger, waiter health.Waiter, dep T) *Worker {
			w := newWorker(name, options, dep, shutdowner, logger, waiter)
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error { return w.start(ctx) },
				OnStop:  func(ctx context.Context) error { return w.stop(ctx) },
			})
			return w
		},
		fx.ResultTags(`group:"workers"`),
	)
}

// Worker runs a single runnable under supervision.
type Worker struct {
	name       string
	options    Options
	dep        runnable
	shutdowner fx.Shutdowner
	logger     *zap.Logger
	waiter     health.Waiter

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newWorker(name string, options Options, dep runnable, shutdowner fx.Shutdowner, logger *zap.Logger, waiter health.Waiter) *Worker {
	return &Worker{
		name:       name,
		options:    options,
		dep:        dep,
		shutdowner: shutdowner,
		logger:     logger.With(zap.String("worker", name)),
		waiter:     waiter,
		done:       make(chan struct{}),
	}
}

// Name returns the worker's registration name.
func (w *Worker) Name() string {
	return w.name
}

func (w *Worker) start(context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go w.run(runCtx)

	w.logger.Info("worker started")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	if w.options.WaitReady {
		if err := w.waiter.WaitReady(ctx); err != nil {
			w.logger.Warn("worker cancelled while waiting for readiness", zap.Error(err))
			return
		}
		w.logger.Info("readiness reached, entering run loop")
	}

	err := w.dep.Run(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		w.logger.Info("worker run loop finished")
		return
	}

	w.logger.Error("worker run loop failed", zap.Error(err))
	if w.options.ShutdownOnError {
		if shutdownErr := w.shutdowner.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
			w.logger.Error("failed to trigger shutdown", zap.Error(shutdownErr))
		}
	}
}

func (w *Worker) stop(ctx context.Context) error {
	w.once.Do(func() { w.cancel() })

	select {
	case <-w.done:
		w.logger.Info("worker stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker %s did not stop in time: %w", w.name, ctx.Err())
	}
}
