package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ToolHandler runs one tool call. args is the decoded "arguments" object of
// the request and is never nil. A string result is sent as text; any other
// value is sent as JSON.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

type registeredTool struct {
	tool    model.Tool
	handler ToolHandler
}

// ToolOption configures tool registration.
type ToolOption func(*toolConfig)

type toolConfig struct {
	namespace   string
	tags        []string
	version     string
	annotations *mcp.ToolAnnotations
}

// WithNamespace prefixes the tool id with ns.
func WithNamespace(ns string) ToolOption {
	return func(c *toolConfig) {
		c.namespace = ns
	}
}

// WithTags sets search tags on the tool.
func WithTags(tags ...string) ToolOption {
	return func(c *toolConfig) {
		c.tags = tags
	}
}

// WithVersion sets the tool version.
func WithVersion(v string) ToolOption {
	return func(c *toolConfig) {
		c.version = v
	}
}

// WithAnnotations attaches MCP behavior hints such as read-only or destructive.
func WithAnnotations(ann *mcp.ToolAnnotations) ToolOption {
	return func(c *toolConfig) {
		c.annotations = ann
	}
}

// RegisterTool adds tool under its id. Ids must be unique.
func (r *Registry) RegisterTool(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler for %s", ErrInvalidRequest, tool.Name)
	}

	id := tool.ToolID()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, id)
	}
	r.tools[id] = registeredTool{tool: tool, handler: handler}
	return nil
}

// RegisterFunc builds a tool from its parts and registers it.
func (r *Registry) RegisterFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...ToolOption,
) error {
	var cfg toolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return r.RegisterTool(model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
			Annotations: cfg.annotations,
		},
		Namespace: cfg.namespace,
		Version:   cfg.version,
		Tags:      model.NormalizeTags(cfg.tags),
	}, handler)
}

// ListAll returns every registered tool ordered by id.
func (r *Registry) ListAll(ctx context.Context) ([]model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]model.Tool, 0, len(r.tools))
	for _, id := range sortedKeys(r.tools) {
		tools = append(tools, r.tools[id].tool)
	}
	return tools, nil
}

// ListNamespaces returns the distinct non-empty namespaces, sorted.
func (r *Registry) ListNamespaces(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, entry := range r.tools {
		if entry.tool.Namespace != "" {
			seen[entry.tool.Namespace] = struct{}{}
		}
	}
	r.mu.RUnlock()

	return sortedKeys(seen), nil
}

// GetTool returns the tool registered under id.
func (r *Registry) GetTool(ctx context.Context, id string) (model.Tool, error) {
	r.mu.RLock()
	entry, ok := r.tools[id]
	r.mu.RUnlock()

	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return entry.tool, nil
}

// Execute runs the tool registered under id.
func (r *Registry) Execute(ctx context.Context, id string, args map[string]any) (any, error) {
	r.mu.RLock()
	entry, ok := r.tools[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	if args == nil {
		args = map[string]any{}
	}

	r.calls.Add(1)
	start := time.Now()
	result, err := entry.handler(ctx, args)
	if err != nil {
		r.failures.Add(1)
		r.logger.Debug("tool call failed",
			zap.String("tool", id),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Debug("tool call", zap.String("tool", id), zap.Duration("duration", time.Since(start)))
	return result, nil
}
