package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ShutdownSignals are the signals that start a graceful shutdown.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// exit is replaced in tests.
var exit = os.Exit

// SetupSignalHandler returns a context canceled on the first SIGINT or
// SIGTERM. A second signal before stop is called exits the process with
// ExitFailure.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, ShutdownSignals...)
	done := make(chan struct{})

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigCh:
			exit(ExitFailure)
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
		cancel()
	}
	return ctx, stop
}

// ReloadSignal asks a running server to re-read its configuration.
var ReloadSignal os.Signal = syscall.SIGHUP

// NotifyReload calls reload on every ReloadSignal until ctx is done or the
// returned stop function is called.
func NotifyReload(ctx context.Context, reload func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, ReloadSignal)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-sigCh:
				reload()
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}
