package api

import (
	"encoding/json"

	"talib-mcp-server/internal/tool"
)

// CallRequest is the POST /call body.
type CallRequest struct {
	Name      string                     `json:"name"`
	Arguments map[string]json.RawMessage `json:"arguments"`
}

// CallResponse wraps a successful tool result.
type CallResponse struct {
	Name   string `json:"name"`
	Result any    `json:"result"`
}

// ToolsResponse is the GET /tools body.
type ToolsResponse struct {
	Tools []tool.Descriptor `json:"tools"`
}

// ErrorResponse is the structured error body. Message and Param are
// omitted when empty, so a bare rejection is {"error":"Unauthorized"}.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
}
