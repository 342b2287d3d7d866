// Package server puts the document registry and prompts on an MCP go-sdk
// server and exposes it over streamable HTTP or stdio.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/jonwraymond/docmcp/config"
	"github.com/jonwraymond/docmcp/operations"
	"github.com/jonwraymond/docmcp/registry"
)

// Server wraps an SDK server bound to one document service.
type Server struct {
	cfg    config.Config
	svc    *operations.Service
	mcp    *mcp.Server
	logger *zap.Logger
}

// New builds the SDK server. Everything in reg is mounted, so finish
// registration before calling New.
func New(cfg config.Config, svc *operations.Service, reg *registry.Registry, logger *zap.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("server: nil service")
	}
	if reg == nil {
		return nil, fmt.Errorf("server: nil registry")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
	}

	if err := reg.Mount(s.mcp); err != nil {
		return nil, fmt.Errorf("mount tools: %w", err)
	}
	s.addPrompts()

	return s, nil
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// HTTPHandler serves the streamable HTTP transport. Every request gets a
// fresh stateless session.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: s.cfg.JSONResponse,
	})
}

// RunStdio serves a single session over stdin/stdout until ctx is done or the
// client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("serving stdio", zap.String("name", s.cfg.Name))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
