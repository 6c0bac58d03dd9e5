package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailtrim/mailtrim/internal/gmail"
	"github.com/mailtrim/mailtrim/internal/google"
	"github.com/mailtrim/mailtrim/internal/rewrite"
	"github.com/mailtrim/mailtrim/internal/server"
	"github.com/mailtrim/mailtrim/internal/tools/batch"
	"github.com/mailtrim/mailtrim/internal/tools/common"
)

// getGmailClient returns the Gmail client for the account, creating and
// caching it on first use. When the account has no stored token the returned
// error carries the full authorization walkthrough for the caller.
func getGmailClient(ctx context.Context, account string, sc *server.ServerContext) (*gmail.Client, error) {
	client := sc.GmailClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !gmail.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			authURL, err := google.GetAuthURLForAccount(account)
			if err != nil {
				return nil, fmt.Errorf("no OAuth token stored for account %q and no OAuth client is configured: %w", account, err)
			}
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant read and modify access to Gmail
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}

		var err error
		client, err = gmail.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
		}
		sc.SetGmailClientForAccount(account, client)
	}
	return client, nil
}

// getFetcher returns the cache-first message fetcher for the account. The
// Gmail client is resolved first so a missing token surfaces as the
// authorization walkthrough rather than a nil fetcher.
func getFetcher(ctx context.Context, account string, sc *server.ServerContext) (*rewrite.Fetcher, error) {
	if _, err := getGmailClient(ctx, account, sc); err != nil {
		return nil, err
	}
	fetcher := sc.FetcherForAccount(account)
	if fetcher == nil {
		return nil, fmt.Errorf("failed to create message fetcher for account %s", account)
	}
	return fetcher, nil
}

// recordCacheFetch counts one cache-first message fetch as a hit or miss.
func recordCacheFetch(ctx context.Context, sc *server.ServerContext, fromCache bool) {
	m := sc.Metrics()
	if m == nil {
		return
	}
	result := "miss"
	if fromCache {
		result = "hit"
	}
	m.RecordCacheOperation(ctx, "get", result)
}

// RegisterGmailTools registers all Gmail-related tools with the MCP server
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register attachment tools (read from the mailbox, write only to the
	// local cache)
	if err := RegisterAttachmentTools(s, sc); err != nil {
		return fmt.Errorf("failed to register attachment tools: %w", err)
	}

	// Register message tools (trash and delete require !readOnly)
	if err := RegisterMessageTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register message tools: %w", err)
	}

	// Register rewrite tools (previews always work, mailbox changes require
	// !readOnly)
	if err := RegisterRewriteTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register rewrite tools: %w", err)
	}

	// Find messages tool
	findMessagesTool := mcp.NewTool("gmail_find_messages",
		mcp.WithDescription("Find Gmail messages matching a query. Returns message IDs with their common headers."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'has:attachment larger:5M', 'from:user@example.com')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of results to return (default: 25)"),
		),
	)

	s.AddTool(findMessagesTool, common.InstrumentedToolHandlerWithService(
		"gmail_find_messages", "gmail", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindMessages(ctx, request, sc)
		}))

	// Get headers tool
	getHeadersTool := mcp.NewTool("gmail_get_headers",
		mcp.WithDescription("Get the headers of one or more Gmail messages without downloading their bodies"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
	)

	s.AddTool(getHeadersTool, common.InstrumentedToolHandlerWithService(
		"gmail_get_headers", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetHeaders(ctx, request, sc)
		}))

	return nil
}

func handleFindMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := int64(25)
	if maxResultsVal, ok := args["maxResults"]; ok {
		if maxResultsFloat, ok := maxResultsVal.(float64); ok {
			maxResults = int64(maxResultsFloat)
		}
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msgs, err := client.FindMessages(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find messages: %v", err)), nil
	}

	if len(msgs) == 0 {
		return mcp.NewToolResultText("No messages match the query"), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Found %d message(s):\n\n", len(msgs))
	for i, m := range msgs {
		meta, err := client.GetMessageMetadata(m.Id, "From", "Subject", "Date")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get message %s: %v", m.Id, err)), nil
		}
		fmt.Fprintf(&result, "%d. Message ID: %s\n", i+1, m.Id)
		if from := gmail.HeaderValue(meta, "From"); from != "" {
			fmt.Fprintf(&result, "   From: %s\n", from)
		}
		if subject := gmail.HeaderValue(meta, "Subject"); subject != "" {
			fmt.Fprintf(&result, "   Subject: %s\n", subject)
		}
		if date := gmail.HeaderValue(meta, "Date"); date != "" {
			fmt.Fprintf(&result, "   Date: %s\n", date)
		}
		if meta.SizeEstimate > 0 {
			fmt.Fprintf(&result, "   Size: %s\n", formatSize(meta.SizeEstimate))
		}
		result.WriteString("\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

// headersOfInterest is the ordered set of headers reported by
// gmail_get_headers.
var headersOfInterest = []string{"From", "To", "Cc", "Subject", "Date", "Message-ID"}

func handleGetHeaders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := batch.ProcessBatch(messageIDs, func(messageID string) (string, error) {
		meta, err := client.GetMessageMetadata(messageID, headersOfInterest...)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, h := range headersOfInterest {
			if v := gmail.HeaderValue(meta, h); v != "" {
				fmt.Fprintf(&sb, "%s: %s\n", h, v)
			}
		}
		if sb.Len() == 0 {
			return "No headers of interest present", nil
		}
		return sb.String(), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}
