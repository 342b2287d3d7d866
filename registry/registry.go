package registry

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
	// Logger receives call and transport diagnostics. Nil discards them.
	Logger *zap.Logger
}

// ServerInfo is reported to clients on initialize.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry is the dispatch table between document operations and the
// transports that expose them. It holds tools, static resources and resource
// templates.
type Registry struct {
	mu        sync.RWMutex
	info      ServerInfo
	logger    *zap.Logger
	tools     map[string]registeredTool
	resources map[string]registeredResource
	templates map[string]registeredTemplate
	started   bool

	calls    atomic.Uint64
	failures atomic.Uint64
	reads    atomic.Uint64
}

// New creates an empty Registry.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		info:      cfg.ServerInfo,
		logger:    logger,
		tools:     make(map[string]registeredTool),
		resources: make(map[string]registeredResource),
		templates: make(map[string]registeredTemplate),
	}
}

// Start marks the registry as serving.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true
	return nil
}

// Stop marks the registry as stopped. Stopping twice is a no-op.
func (r *Registry) Stop() error {
	r.mu.Lock()
	r.started = false
	r.mu.Unlock()
	return nil
}

// RegistryStats is a point-in-time view of the registry.
type RegistryStats struct {
	TotalTools     int
	Namespaces     int
	TotalResources int
	Calls          uint64
	Failures       uint64
	Reads          uint64
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	namespaces, _ := r.ListNamespaces(context.Background())

	r.mu.RLock()
	tools := len(r.tools)
	resources := len(r.resources) + len(r.templates)
	r.mu.RUnlock()

	return RegistryStats{
		TotalTools:     tools,
		Namespaces:     len(namespaces),
		TotalResources: resources,
		Calls:          r.calls.Load(),
		Failures:       r.failures.Load(),
		Reads:          r.reads.Load(),
	}
}

// HealthCheck returns nil if the registry is started and has tools to serve.
func (r *Registry) HealthCheck(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.started {
		return ErrNotStarted
	}
	if len(r.tools) == 0 {
		return ErrNoTools
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
