package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/contact-site/backend/internal/config"
	"github.com/zhouzirui/contact-site/backend/internal/handler"
	"github.com/zhouzirui/contact-site/backend/internal/logger"
	"github.com/zhouzirui/contact-site/backend/internal/service/inquiry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(run).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	logger.RedirectStdlib(log)

	assets := os.DirFS(cfg.Static.Root)
	if _, err := fs.Stat(assets, cfg.Static.Index); err != nil {
		log.WithError(err).Warnf("default document %s not found under %s", cfg.Static.Index, cfg.Static.Root)
	}

	inquiries := inquiry.NewService(inquiry.WithLogger(log))
	router := handler.NewRouter(cfg, inquiries, assets, log)

	if cfg.Metrics.Enabled {
		log.Infof("Prometheus metrics exposed at %s", cfg.Metrics.Path)
	}

	err = startServer(ctx, cfg.Server, router, log)
	log.Infof("Server stopped after accepting %d inquiries", inquiries.Count())
	return err
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	log.Infof("Server running on port %s", serverCfg.Port)
	log.Infof("Visit http://localhost:%s to view the website", serverCfg.Port)

	return runServer(ctx, srv, ln)
}

func runServer(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
