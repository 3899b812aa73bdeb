package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan error, 1)
	go func() { done <- run(ctx, logger, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("directory did not stop")
	}
}

func TestRunRejectsBadAddress(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.Error(t, run(context.Background(), logger, "a:b:c"))
}

func TestEnvOr(t *testing.T) {
	t.Setenv("LOBBYD_ADDR", "")
	require.Equal(t, ":8080", envOr("LOBBYD_ADDR", ":8080"))
	t.Setenv("LOBBYD_ADDR", ":9999")
	require.Equal(t, ":9999", envOr("LOBBYD_ADDR", ":8080"))
}
