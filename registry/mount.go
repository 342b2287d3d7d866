package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Mount binds every registered tool, resource and resource template into an
// SDK server. Anything registered after Mount is not visible to server.
//
// Handler errors reach the client as tool results with IsError set. Only a
// missing tool is a protocol error. Resource misses become the SDK's
// resource-not-found error.
func (r *Registry) Mount(server *mcp.Server) error {
	if server == nil {
		return fmt.Errorf("%w: nil server", ErrInvalidRequest)
	}

	tools, err := r.ListAll(context.Background())
	if err != nil {
		return err
	}

	for _, tool := range tools {
		id := tool.ToolID()
		sdkTool := tool.Tool
		sdkTool.Name = id
		server.AddTool(&sdkTool, r.sdkHandler(id))
	}

	for _, res := range r.ListResources(context.Background()) {
		server.AddResource(&res, r.sdkResourceHandler())
	}
	for _, tmpl := range r.ListResourceTemplates(context.Background()) {
		server.AddResourceTemplate(&tmpl, r.sdkResourceHandler())
	}
	return nil
}

func (r *Registry) sdkResourceHandler() mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		content, err := r.ReadResource(ctx, uri)
		if err != nil {
			if errors.Is(err, ErrResourceNotFound) {
				return nil, mcp.ResourceNotFoundError(uri)
			}
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      content.URI,
				MIMEType: content.MIMEType,
				Text:     content.Text,
			}},
		}, nil
	}
}

func (r *Registry) sdkHandler(id string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(fmt.Errorf("%w: arguments: %v", ErrInvalidRequest, err)), nil
			}
		}

		result, err := r.Execute(ctx, id, args)
		if err != nil {
			if errors.Is(err, ErrToolNotFound) {
				return nil, err
			}
			return errorResult(err), nil
		}
		return toCallToolResult(result)
	}
}

// toCallToolResult converts a handler value into an MCP tool result.
// Strings become a single text block; other values are JSON encoded and,
// when they encode to an object, also set as structured content.
func toCallToolResult(v any) (*mcp.CallToolResult, error) {
	switch value := v.(type) {
	case nil:
		return &mcp.CallToolResult{Content: []mcp.Content{}}, nil
	case *mcp.CallToolResult:
		return value, nil
	case string:
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: value}},
		}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
	if len(data) > 0 && data[0] == '{' {
		result.StructuredContent = json.RawMessage(data)
	}
	return result, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
