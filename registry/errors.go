package registry

import "errors"

var (
	ErrNotStarted        = errors.New("registry not started")
	ErrAlreadyStarted    = errors.New("registry already started")
	ErrNoTools           = errors.New("no tools registered")
	ErrToolNotFound      = errors.New("tool not found")
	ErrDuplicateTool     = errors.New("tool already registered")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrDuplicateResource = errors.New("resource already registered")
	ErrInvalidRequest    = errors.New("invalid request")
)

// JSON-RPC 2.0 error codes, plus the MCP server-defined range.
const (
	ErrCodeParseError       = -32700
	ErrCodeInvalidRequest   = -32600
	ErrCodeMethodNotFound   = -32601
	ErrCodeInvalidParams    = -32602
	ErrCodeInternal         = -32603
	ErrCodeToolNotFound     = -32001
	ErrCodeResourceNotFound = -32002
)
