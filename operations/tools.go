package operations

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docmcp/registry"
	"github.com/jonwraymond/docmcp/search"
)

// Tool names as seen by MCP clients.
const (
	ToolRead   = "read_doc_contents"
	ToolEdit   = "edit_document"
	ToolSearch = "search_documents"
)

// DefaultSearchLimit applies when search_documents is called without a limit.
const DefaultSearchLimit = 5

type readArgs struct {
	DocID string `mapstructure:"doc_id"`
}

type editArgs struct {
	DocID  string `mapstructure:"doc_id"`
	OldStr string `mapstructure:"old_str"`
	NewStr string `mapstructure:"new_str"`
}

type searchArgs struct {
	Query string `mapstructure:"query"`
	Limit int    `mapstructure:"limit"`
}

// SearchResult is the structured output of search_documents.
type SearchResult struct {
	Hits []search.Hit `json:"hits"`
}

// Register adds the document tools and resources to reg. search_documents
// is only registered when the service has a searcher.
func (s *Service) Register(reg *registry.Registry) error {
	if err := s.registerResources(reg); err != nil {
		return err
	}

	destructive := true

	if err := reg.RegisterFunc(
		ToolRead,
		"Read the contents of a document and return it as a string.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"doc_id": map[string]any{"type": "string", "description": "Id of the document to read"},
			},
			"required": []string{"doc_id"},
		},
		s.handleRead,
		registry.WithTags("documents", "read"),
		registry.WithAnnotations(&mcp.ToolAnnotations{Title: "Read document", ReadOnlyHint: true}),
	); err != nil {
		return err
	}

	if err := reg.RegisterFunc(
		ToolEdit,
		"Edit a document by replacing every occurrence of a string in the document's content with a new string.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"doc_id":  map[string]any{"type": "string", "description": "Id of the document that will be edited"},
				"old_str": map[string]any{"type": "string", "description": "The text to replace. Must match exactly, including whitespace"},
				"new_str": map[string]any{"type": "string", "description": "The new text to insert in place of the old text"},
			},
			"required": []string{"doc_id", "old_str", "new_str"},
		},
		s.handleEdit,
		registry.WithTags("documents", "edit"),
		registry.WithAnnotations(&mcp.ToolAnnotations{Title: "Edit document", DestructiveHint: &destructive}),
	); err != nil {
		return err
	}

	if s.searcher == nil {
		return nil
	}

	return reg.RegisterFunc(
		ToolSearch,
		"Search document contents and return the best matching document ids.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Words to search for"},
				"limit": map[string]any{"type": "integer", "description": "Maximum number of results", "minimum": 1},
			},
			"required": []string{"query"},
		},
		s.handleSearch,
		registry.WithTags("documents", "search"),
		registry.WithAnnotations(&mcp.ToolAnnotations{Title: "Search documents", ReadOnlyHint: true}),
	)
}

func (s *Service) handleRead(ctx context.Context, args map[string]any) (any, error) {
	var in readArgs
	if err := decodeArgs(args, &in, "doc_id"); err != nil {
		return nil, err
	}
	return s.Read(ctx, in.DocID)
}

func (s *Service) handleEdit(ctx context.Context, args map[string]any) (any, error) {
	var in editArgs
	if err := decodeArgs(args, &in, "doc_id", "old_str", "new_str"); err != nil {
		return nil, err
	}
	return s.Edit(ctx, in.DocID, in.OldStr, in.NewStr)
}

func (s *Service) handleSearch(ctx context.Context, args map[string]any) (any, error) {
	var in searchArgs
	if err := decodeArgs(args, &in, "query"); err != nil {
		return nil, err
	}
	if in.Limit <= 0 {
		in.Limit = DefaultSearchLimit
	}

	hits, err := s.Search(ctx, in.Query, in.Limit)
	if err != nil {
		return nil, err
	}
	return SearchResult{Hits: hits}, nil
}

// decodeArgs checks required keys, then decodes args into out.
func decodeArgs(args map[string]any, out any, required ...string) error {
	for _, key := range required {
		if _, ok := args[key]; !ok {
			return fmt.Errorf("%w: missing required argument %q", registry.ErrInvalidRequest, key)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("%w: %v", registry.ErrInvalidRequest, err)
	}
	return nil
}
