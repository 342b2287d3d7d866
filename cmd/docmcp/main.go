// Command docmcp serves the in-memory document collection over MCP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/jonwraymond/docmcp/config"
	"github.com/jonwraymond/docmcp/logging"
	"github.com/jonwraymond/docmcp/operations"
	"github.com/jonwraymond/docmcp/registry"
	"github.com/jonwraymond/docmcp/search"
	"github.com/jonwraymond/docmcp/server"
	"github.com/jonwraymond/docmcp/store"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	transport := flag.String("transport", "", "streamable, stdio, jsonrpc, sse or stdio-jsonrpc")
	addr := flag.String("addr", "", "listen address for HTTP transports")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docmcp: %v\n", err)
		os.Exit(2)
	}
	applyFlags(&cfg, *transport, *addr, *logLevel)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "docmcp: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docmcp: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("docmcp stopped", zap.Error(err))
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, transport, addr, logLevel string) {
	if v := strings.ToLower(strings.TrimSpace(transport)); v != "" {
		cfg.Transport = v
	}
	if v := strings.TrimSpace(addr); v != "" {
		cfg.Addr = v
	}
	if v := strings.ToLower(strings.TrimSpace(logLevel)); v != "" {
		cfg.LogLevel = v
	}
}

// app is everything a transport needs to serve requests.
type app struct {
	cfg      config.Config
	store    *store.Store
	registry *registry.Registry
	server   *server.Server
	logger   *zap.Logger
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, func(), error) {
	st := store.NewSeeded()

	opts := []operations.Option{operations.WithLogger(logger)}

	cleanup := func() {}
	if cfg.Search {
		searcher := search.New(search.Config{})
		opts = append(opts, operations.WithSearcher(searcher))
		cleanup = func() { _ = searcher.Close() }
	}
	svc := operations.New(st, opts...)

	reg := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{Name: cfg.Name, Version: cfg.Version},
		Logger:     logger,
	})
	if err := svc.Register(reg); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("register tools: %w", err)
	}

	srv, err := server.New(cfg, svc, reg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &app{
		cfg:      cfg,
		store:    st,
		registry: reg,
		server:   srv,
		logger:   logger,
	}, cleanup, nil
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	a, cleanup, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.registry.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = a.registry.Stop() }()

	logger.Info("docmcp starting",
		zap.String("transport", cfg.Transport),
		zap.Int("documents", a.store.Len()),
		zap.Int("tools", a.registry.Stats().TotalTools),
	)

	if !cfg.IsHTTP() {
		var err error
		if cfg.Transport == config.TransportStdioJSONRPC {
			err = registry.ServeStream(ctx, a.registry, os.Stdin, os.Stdout)
		} else {
			err = a.server.RunStdio(ctx)
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: a.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("path", cfg.Path))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
