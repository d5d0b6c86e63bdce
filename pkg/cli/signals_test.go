package cli

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandler_NotCanceledInitially(t *testing.T) {
	ctx, stop := SetupSignalHandler(context.Background())
	defer stop()

	select {
	case <-ctx.Done():
		t.Error("context should not be canceled initially")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestSetupSignalHandler_StopCancels(t *testing.T) {
	ctx, stop := SetupSignalHandler(context.Background())
	stop()
	stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("expected stop to cancel the context")
	}
}

func TestSetupSignalHandler_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, stop := SetupSignalHandler(parent)
	defer stop()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("expected parent cancellation to propagate")
	}
}

func TestSetupSignalHandler_Signals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping signal test in short mode")
	}

	exited := make(chan int, 1)
	exit = func(code int) { exited <- code }
	defer func() { exit = os.Exit }()

	ctx, stop := SetupSignalHandler(context.Background())
	defer stop()

	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Signal(syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected SIGTERM to cancel the context")
	}

	if err := p.Signal(syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}
	select {
	case code := <-exited:
		if code != ExitFailure {
			t.Errorf("expected exit code %d, got %d", ExitFailure, code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected second signal to force exit")
	}
}

func TestNotifyReload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping signal test in short mode")
	}

	reloads := make(chan struct{}, 2)
	stop := NotifyReload(context.Background(), func() { reloads <- struct{}{} })
	defer stop()

	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := p.Signal(syscall.SIGHUP); err != nil {
			t.Fatal(err)
		}
		select {
		case <-reloads:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected reload %d after SIGHUP", i+1)
		}
	}
}

func TestNotifyReload_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	called := make(chan struct{}, 1)
	stop := NotifyReload(ctx, func() { called <- struct{}{} })
	cancel()
	stop()
	stop()

	select {
	case <-called:
		t.Error("expected no reload without a signal")
	case <-time.After(20 * time.Millisecond):
	}
}
