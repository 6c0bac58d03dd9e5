package gmail_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailtrim/mailtrim/internal/cache"
	"github.com/mailtrim/mailtrim/internal/server"
)

// newToolTestContext builds a ServerContext against temporary directories so
// the tests never see a stored token or the user's real message cache. The
// OAuth client env vars are set so authorization URLs can be built.
func newToolTestContext(t *testing.T) *server.ServerContext {
	t.Helper()
	t.Setenv("MAILTRIM_GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("MAILTRIM_GOOGLE_CLIENT_SECRET", "test-client-secret")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	sc, err := server.NewServerContext(context.Background(), cache.NewStore(t.TempDir()))
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

// toolRequest builds a CallToolRequest carrying the given arguments.
func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText flattens the text content of a tool result for assertions.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("tool returned nil result")
	}
	var sb strings.Builder
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestRegisterGmailTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
	}{
		{name: "read-write mode", readOnly: false},
		{name: "read-only mode", readOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newToolTestContext(t)
			s := mcpserver.NewMCPServer("test", "0.0.0")

			if err := RegisterGmailTools(s, sc, tt.readOnly); err != nil {
				t.Errorf("RegisterGmailTools() error = %v", err)
			}
		})
	}
}

func TestHandleFindMessages_MissingQuery(t *testing.T) {
	ctx := context.Background()
	sc := newToolTestContext(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{name: "no query", args: map[string]interface{}{}},
		{name: "empty query", args: map[string]interface{}{"query": ""}},
		{name: "non-string query", args: map[string]interface{}{"query": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := toolRequest("gmail_find_messages", tt.args)

			result, err := handleFindMessages(ctx, request, sc)
			if err != nil {
				t.Errorf("handleFindMessages() unexpected error = %v", err)
			}
			if result == nil || !result.IsError {
				t.Error("expected an error result for missing query")
			}
		})
	}
}

func TestHandleFindMessages_NoToken(t *testing.T) {
	ctx := context.Background()
	sc := newToolTestContext(t)

	request := toolRequest("gmail_find_messages", map[string]interface{}{
		"query": "has:attachment",
	})

	result, err := handleFindMessages(ctx, request, sc)
	if err != nil {
		t.Errorf("handleFindMessages() unexpected error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected an error result when no token is stored")
	}

	// The error should walk the caller through authorization
	text := resultText(t, result)
	if !strings.Contains(text, "google_save_auth_code") {
		t.Errorf("expected authorization instructions mentioning google_save_auth_code, got:\n%s", text)
	}
	if !strings.Contains(text, "https://") {
		t.Errorf("expected an authorization URL in the instructions, got:\n%s", text)
	}
}

func TestHandleGetHeaders_MissingMessageIDs(t *testing.T) {
	ctx := context.Background()
	sc := newToolTestContext(t)

	request := toolRequest("gmail_get_headers", map[string]interface{}{})

	result, err := handleGetHeaders(ctx, request, sc)
	if err != nil {
		t.Errorf("handleGetHeaders() unexpected error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("expected an error result for missing messageIds")
	}
}
