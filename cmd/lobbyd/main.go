package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/lobby3pc/directory"
)

const defaultPort = 8080

func main() {
	addr := flag.String("addr", envOr("LOBBYD_ADDR", ":8080"), "address the directory listens on")
	flag.Parse()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, logger, *addr); err != nil {
		logger.Error("directory stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, addr string) error {
	host, port, err := splitHostPort(addr, defaultPort)
	if err != nil {
		return errors.Wrapf(err, "invalid address %q", addr)
	}
	l, err := net.Listen("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           directory.NewServer(directory.WithServerLogger(logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	pterm.Info.Printfln("Lobby directory listening on %s", l.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
