package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferrost/appkit/pkg/contracts"
	"github.com/ferrost/appkit/pkg/errors"
)

type runConfig struct {
	gracefulTimeout time.Duration
	signals         []os.Signal
	shutdown        <-chan struct{}
}

type RunOption func(*runConfig)

func WithGracefulTimeout(timeout time.Duration) RunOption {
	return func(cfg *runConfig) {
		cfg.gracefulTimeout = timeout
	}
}

func WithSignals(signals ...os.Signal) RunOption {
	return func(cfg *runConfig) {
		cfg.signals = signals
	}
}

// WithShutdownChannel adds a programmatic shutdown trigger next to the OS
// signals.
func WithShutdownChannel(ch <-chan struct{}) RunOption {
	return func(cfg *runConfig) {
		cfg.shutdown = ch
	}
}

// Run drives a context through its whole lifetime: refresh, start, wait for
// a shutdown trigger, then stop within the graceful timeout and close. It
// returns after the context is closed.
func Run(appCtx contracts.Context, opts ...RunOption) error {
	cfg := &runConfig{
		gracefulTimeout: 10 * time.Second,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	root := context.Background()
	if err := appCtx.Refresh(root); err != nil {
		return err
	}
	if err := appCtx.Start(root); err != nil {
		return errors.Join(err, appCtx.Close())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, cfg.signals...)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-cfg.shutdown:
	}

	err := stopWithTimeout(appCtx, cfg.gracefulTimeout)
	return errors.Join(err, appCtx.Close())
}

func stopWithTimeout(appCtx contracts.Context, timeout time.Duration) error {
	if timeout <= 0 {
		return appCtx.Stop(context.Background())
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- appCtx.Stop(stopCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-stopCtx.Done():
		return ErrStopTimeout.WithDetail("timeout", timeout.String())
	}
}
