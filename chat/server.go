package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Caller is one connected tool server: its advertised tools and a way to
// invoke them. Results are always text, failure prose included.
type Caller interface {
	Name() string
	Tools() []mcp.Tool
	Call(ctx context.Context, tool string, args map[string]any) (string, error)
}

// ServerConn drives one tool server child process over stdio.
type ServerConn struct {
	name   string
	client *client.Client
	tools  []mcp.Tool
}

var _ Caller = (*ServerConn)(nil)

// Connect launches the server command, performs the protocol handshake, and
// lists its declared tools.
func Connect(ctx context.Context, command string, args ...string) (*ServerConn, error) {
	c, err := client.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("start tool server %s: %w", command, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "deckpilot-client",
		Version: "0.1.0",
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize tool server %s: %w", command, err)
	}

	listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("list tools on %s: %w", command, err)
	}

	return &ServerConn{
		name:   filepath.Base(command),
		client: c,
		tools:  listed.Tools,
	}, nil
}

func (s *ServerConn) Name() string {
	return s.name
}

func (s *ServerConn) Tools() []mcp.Tool {
	return s.tools
}

// Call invokes one tool and flattens the result into text. Per the server
// contract there are no structured errors to decode.
func (s *ServerConn) Call(ctx context.Context, tool string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	res, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("call tool %s: %w", tool, err)
	}

	parts := make([]string, 0, len(res.Content))
	for _, item := range res.Content {
		if tc, ok := item.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func (s *ServerConn) Close() error {
	return s.client.Close()
}
