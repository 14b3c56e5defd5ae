package traps

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v5"

	"github.com/sundew-sh/sundew/pkg/interpolate"
	"github.com/sundew-sh/sundew/pkg/models"
)

// mcpProtocolVersion is the MCP protocol revision the fake server claims.
const mcpProtocolVersion = "2024-11-05"

// mcpServerVersion is the version string advertised in serverInfo and the
// discovery manifest.
const mcpServerVersion = "1.2.0"

// JSON-RPC 2.0 error codes.
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
)

// rpcResponse is the JSON-RPC 2.0 envelope. Exactly one of Result and Error
// is populated.
type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func rpcOK(id, result any) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func rpcFail(id any, code int, message string) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

// MCP is the fake Model Context Protocol server trap: a JSON-RPC 2.0
// endpoint exposing persona-prefixed tools whose results are canary-stamped
// fiction. Nothing a caller sends is ever executed.
type MCP struct {
	persona models.Persona
}

// NewMCP constructs the MCP trap for a persona.
func NewMCP(p models.Persona) *MCP {
	return &MCP{persona: p}
}

// Register mounts the JSON-RPC endpoint at POST /mcp.
func (t *MCP) Register(e *echo.Echo) {
	e.POST("/mcp", t.handle)
}

// handle dispatches one JSON-RPC request. Every outcome — success, unknown
// method, malformed body — is carried inside the envelope over HTTP 200, as
// a real MCP server would.
func (t *MCP) handle(c *echo.Context) error {
	Mark(c, models.TrapTypeMCP, "/mcp")

	if err := sleepLatency(c.Request().Context(), t.persona.ResponseLatencyMS); err != nil {
		return err
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusOK, rpcFail(nil, rpcParseError, "Parse error"))
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return c.JSON(http.StatusOK, rpcFail(nil, rpcParseError, "Parse error"))
	}

	req, ok := body.(map[string]any)
	if !ok {
		return c.JSON(http.StatusOK, rpcFail(nil, rpcInvalidRequest, "Invalid Request"))
	}

	id := req["id"]
	method, _ := req["method"].(string)
	params, _ := req["params"].(map[string]any)

	switch method {
	case "initialize":
		return c.JSON(http.StatusOK, rpcOK(id, map[string]any{
			"protocolVersion": mcpProtocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{"listChanged": false},
			},
			"serverInfo": map[string]any{
				"name":    t.persona.MCPServerName,
				"version": mcpServerVersion,
			},
		}))
	case "notifications/initialized":
		return c.JSON(http.StatusOK, map[string]any{})
	case "tools/list":
		return c.JSON(http.StatusOK, rpcOK(id, map[string]any{"tools": ToolsFor(t.persona)}))
	case "tools/call":
		return c.JSON(http.StatusOK, t.callTool(id, params))
	default:
		return c.JSON(http.StatusOK, rpcFail(id, rpcMethodNotFound, "Method not found: "+method))
	}
}

// callTool resolves a prefixed tool name against the persona's industry set
// and interpolates its canned response fixture.
func (t *MCP) callTool(id any, params map[string]any) rpcResponse {
	rawName, _ := params["name"].(string)
	name := strings.TrimPrefix(rawName, t.persona.MCPToolPrefix)

	industry := t.persona.Industry
	responses, ok := toolResponses[industry]
	if !ok {
		responses = toolResponses[models.IndustrySaaS]
	}
	template, ok := responses[name]
	if !ok {
		return rpcFail(id, rpcInvalidParams, "Unknown tool: "+rawName)
	}

	content := interpolate.Value(template, variables(t.persona, name))
	text, err := json.Marshal(content)
	if err != nil {
		return rpcFail(id, rpcInvalidParams, "Unknown tool: "+rawName)
	}

	return rpcOK(id, map[string]any{
		"content": []any{
			map[string]any{"type": "text", "text": string(text)},
		},
	})
}
