package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/docmcp/registry"
	"github.com/jonwraymond/docmcp/search"
	"github.com/jonwraymond/docmcp/store"
)

func newRegistry(t *testing.T, svc *Service) *registry.Registry {
	t.Helper()
	reg := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{Name: "test", Version: "1.0.0"},
	})
	require.NoError(t, svc.Register(reg))
	return reg
}

func TestRegister_Tools(t *testing.T) {
	reg := newRegistry(t, newService(t))

	tools, err := reg.ListAll(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{ToolEdit, ToolRead}, names)
}

func TestRegister_WithSearch(t *testing.T) {
	searcher := search.New(search.Config{})
	t.Cleanup(func() { _ = searcher.Close() })
	reg := newRegistry(t, newService(t, WithSearcher(searcher)))

	_, err := reg.GetTool(context.Background(), ToolSearch)
	require.NoError(t, err)
}

func TestRegister_Twice(t *testing.T) {
	svc := newService(t)
	reg := newRegistry(t, svc)

	require.ErrorIs(t, svc.Register(reg), registry.ErrDuplicateResource)
}

func TestReadTool(t *testing.T) {
	reg := newRegistry(t, newService(t))
	ctx := context.Background()

	result, err := reg.Execute(ctx, ToolRead, map[string]any{"doc_id": "report.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "The report details the state of a 20m condenser tower.", result)

	_, err = reg.Execute(ctx, ToolRead, map[string]any{"doc_id": "nonexistent.md"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEditTool(t *testing.T) {
	reg := newRegistry(t, newService(t))
	ctx := context.Background()

	result, err := reg.Execute(ctx, ToolEdit, map[string]any{
		"doc_id":  "plan.md",
		"old_str": "steps",
		"new_str": "phases",
	})
	require.NoError(t, err)
	assert.Equal(t, EditedMessage, result)

	result, err = reg.Execute(ctx, ToolRead, map[string]any{"doc_id": "plan.md"})
	require.NoError(t, err)
	assert.Equal(t, "The plan outlines the phases for the project's implementation.", result)
}

func TestTools_InvalidArguments(t *testing.T) {
	reg := newRegistry(t, newService(t))
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{name: "read missing doc_id", tool: ToolRead, args: map[string]any{}},
		{name: "read wrong type", tool: ToolRead, args: map[string]any{"doc_id": 42.0}},
		{name: "edit missing new_str", tool: ToolEdit, args: map[string]any{"doc_id": "plan.md", "old_str": "a"}},
		{name: "edit wrong type", tool: ToolEdit, args: map[string]any{"doc_id": "plan.md", "old_str": true, "new_str": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Execute(ctx, tt.tool, tt.args)
			require.ErrorIs(t, err, registry.ErrInvalidRequest)
		})
	}
}

func TestSearchTool(t *testing.T) {
	searcher := search.New(search.Config{})
	t.Cleanup(func() { _ = searcher.Close() })
	reg := newRegistry(t, newService(t, WithSearcher(searcher)))
	ctx := context.Background()

	result, err := reg.Execute(ctx, ToolSearch, map[string]any{"query": "testimony", "limit": 3.0})
	require.NoError(t, err)

	out, ok := result.(SearchResult)
	require.True(t, ok, "unexpected result type %T", result)
	require.Len(t, out.Hits, 1)
	assert.Equal(t, "deposition.md", out.Hits[0].DocID)

	result, err = reg.Execute(ctx, ToolSearch, map[string]any{"query": ""})
	require.NoError(t, err)
	assert.Len(t, result.(SearchResult).Hits, DefaultSearchLimit)
}
