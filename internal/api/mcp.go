package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"talib-mcp-server/internal/tool"
)

type serverInfo struct {
	Name         string
	Version      string
	Instructions string
}

// newMCPHandler publishes every registry tool over MCP streamable HTTP.
// Input schemas are the registry's own, passed through verbatim.
func (s *Server) newMCPHandler() (http.Handler, error) {
	srv := server.NewMCPServer(s.info.Name, s.info.Version,
		server.WithToolCapabilities(false),
		server.WithInstructions(s.info.Instructions),
		server.WithRecovery(),
	)
	for _, d := range s.registry.List() {
		schema, err := json.Marshal(d.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("api: input schema for %s: %w", d.Name, err)
		}
		srv.AddTool(mcp.NewToolWithRawSchema(d.Name, d.Description, schema), s.mcpTool(d.Name))
	}
	return http.MaxBytesHandler(server.NewStreamableHTTPServer(srv), s.maxBody), nil
}

// mcpTool adapts one registry tool. Argument and computation failures are
// reported in-band with isError; internal failures become JSON-RPC errors.
func (s *Server) mcpTool(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := mcpArguments(req.Params.Arguments)
		if err != nil {
			return inBandError(ErrorResponse{Error: string(tool.KindInvalidInput), Message: err.Error()})
		}

		out, err := s.call(ctx, name, args)
		if err != nil {
			_, body := errorResponse(err)
			if tool.KindOf(err) == tool.KindInternal {
				return nil, errors.New(body.Message)
			}
			return inBandError(body)
		}

		text, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("encode result: %w", err)
		}
		return mcp.NewToolResultText(string(text)), nil
	}
}

// mcpArguments re-encodes the decoded arguments so they bind through the
// same path as POST /call.
func mcpArguments(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("arguments: %w", err)
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(b, &args); err != nil {
		return nil, errors.New("arguments must be a JSON object")
	}
	return args, nil
}

func inBandError(body ErrorResponse) (*mcp.CallToolResult, error) {
	text, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultError(string(text)), nil
}
