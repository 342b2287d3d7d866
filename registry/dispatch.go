package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonwraymond/toolfoundation/model"
)

const jsonrpcVersion = "2.0"

// MCPRequest is one JSON-RPC request or notification.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is the reply to an MCPRequest.
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type methodHandler func(r *Registry, ctx context.Context, params json.RawMessage) (any, *MCPError)

var methods = map[string]methodHandler{
	"initialize":               (*Registry).initialize,
	"ping":                     (*Registry).ping,
	"tools/list":               (*Registry).toolsList,
	"tools/call":               (*Registry).toolsCall,
	"resources/list":           (*Registry).resourcesList,
	"resources/templates/list": (*Registry).resourceTemplatesList,
	"resources/read":           (*Registry).resourcesRead,
}

// HandleRequest answers one request. It covers the subset of MCP needed to
// list and call tools and to list and read resources without the SDK.
func (r *Registry) HandleRequest(ctx context.Context, req MCPRequest) MCPResponse {
	handle, ok := methods[req.Method]
	if !ok {
		return errorResponse(req.ID, &MCPError{
			Code:    ErrCodeMethodNotFound,
			Message: fmt.Sprintf("method %s not found", req.Method),
		})
	}

	result, rpcErr := handle(r, ctx, req.Params)
	if rpcErr != nil {
		return errorResponse(req.ID, rpcErr)
	}
	return MCPResponse{JSONRPC: jsonrpcVersion, ID: req.ID, Result: result}
}

func errorResponse(id any, rpcErr *MCPError) MCPResponse {
	return MCPResponse{JSONRPC: jsonrpcVersion, ID: id, Error: rpcErr}
}

func (r *Registry) initialize(ctx context.Context, _ json.RawMessage) (any, *MCPError) {
	capabilities := map[string]any{
		"tools": map[string]any{},
	}
	if stats := r.Stats(); stats.TotalResources > 0 {
		capabilities["resources"] = map[string]any{}
	}

	return map[string]any{
		"protocolVersion": model.MCPVersion,
		"capabilities":    capabilities,
		"serverInfo": map[string]any{
			"name":    r.info.Name,
			"version": r.info.Version,
		},
	}, nil
}

func (r *Registry) ping(context.Context, json.RawMessage) (any, *MCPError) {
	return map[string]any{}, nil
}

func (r *Registry) toolsList(ctx context.Context, _ json.RawMessage) (any, *MCPError) {
	tools, err := r.ListAll(ctx)
	if err != nil {
		return nil, &MCPError{Code: ErrCodeInternal, Message: err.Error()}
	}

	out := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		entry := map[string]any{
			"name":        tool.ToolID(),
			"description": tool.Description,
			"inputSchema": tool.InputSchema,
		}
		if tool.Annotations != nil {
			entry["annotations"] = tool.Annotations
		}
		out = append(out, entry)
	}
	return map[string]any{"tools": out}, nil
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// toolsCall reports a failing handler inside the result with isError set, the
// same way Mount does. Only an unknown tool or malformed params are
// protocol errors.
func (r *Registry) toolsCall(ctx context.Context, params json.RawMessage) (any, *MCPError) {
	var p toolsCallParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &MCPError{Code: ErrCodeInvalidParams, Message: err.Error()}
	}
	if p.Name == "" {
		return nil, &MCPError{Code: ErrCodeInvalidParams, Message: "missing tool name"}
	}

	result, err := r.Execute(ctx, p.Name, p.Arguments)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			return nil, &MCPError{Code: ErrCodeToolNotFound, Message: err.Error()}
		}
		return errorResult(err), nil
	}

	callResult, err := toCallToolResult(result)
	if err != nil {
		return nil, &MCPError{Code: ErrCodeInternal, Message: err.Error()}
	}
	return callResult, nil
}

func (r *Registry) resourcesList(ctx context.Context, _ json.RawMessage) (any, *MCPError) {
	return map[string]any{"resources": r.ListResources(ctx)}, nil
}

func (r *Registry) resourceTemplatesList(ctx context.Context, _ json.RawMessage) (any, *MCPError) {
	return map[string]any{"resourceTemplates": r.ListResourceTemplates(ctx)}, nil
}

type resourcesReadParams struct {
	URI string `json:"uri"`
}

func (r *Registry) resourcesRead(ctx context.Context, params json.RawMessage) (any, *MCPError) {
	var p resourcesReadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &MCPError{Code: ErrCodeInvalidParams, Message: err.Error()}
	}
	if p.URI == "" {
		return nil, &MCPError{Code: ErrCodeInvalidParams, Message: "missing uri"}
	}

	content, err := r.ReadResource(ctx, p.URI)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, &MCPError{
				Code:    ErrCodeResourceNotFound,
				Message: "Resource not found",
				Data:    map[string]string{"uri": p.URI},
			}
		}
		return nil, &MCPError{Code: ErrCodeInternal, Message: err.Error()}
	}
	return map[string]any{"contents": []ResourceContent{content}}, nil
}
