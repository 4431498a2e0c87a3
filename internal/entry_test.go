package internal

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestRunReturnsAfterSignal(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.Dir = t.TempDir()
	cfg.App.HTTP.Port = 18371

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), WithConfig(cfg))
	}()

	// Let the server and watcher start before signalling.
	time.Sleep(300 * time.Millisecond)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("send SIGINT: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return within 5s of SIGINT")
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.Dir = t.TempDir()
	cfg.App.HTTP.Port = 18372

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, WithConfig(cfg))
	}()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return within 5s of context cancel")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("Run without config should fail")
	}
}
