package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailtrim/mailtrim/internal/server"
	"github.com/mailtrim/mailtrim/internal/tools/common"
)

// RegisterAttachmentTools registers attachment-related tools with the MCP server
func RegisterAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List attachments tool
	listAttachmentsTool := mcp.NewTool("gmail_list_attachments",
		mcp.WithDescription("List all attachments of a Gmail message. The message is downloaded into the local cache on first access."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message"),
		),
	)

	s.AddTool(listAttachmentsTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_attachments", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListAttachments(ctx, request, sc)
		}))

	// Extract attachments tool
	extractAttachmentsTool := mcp.NewTool("gmail_extract_attachments",
		mcp.WithDescription("Write the attachments of a Gmail message to local files. The mailbox itself is not modified."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message"),
		),
		mcp.WithString("directory",
			mcp.Description("Destination directory (default: a per-message directory under the local cache)"),
		),
	)

	s.AddTool(extractAttachmentsTool, common.InstrumentedToolHandlerWithService(
		"gmail_extract_attachments", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExtractAttachments(ctx, request, sc)
		}))

	return nil
}

func handleListAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	fetcher, err := getFetcher(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, fromCache, err := fetcher.Fetch(messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch message: %v", err)), nil
	}
	recordCacheFetch(ctx, sc, fromCache)

	attachments, err := msg.ListAttachments()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list attachments: %v", err)), nil
	}

	if len(attachments) == 0 {
		return mcp.NewToolResultText("Message has no attachments"), nil
	}

	// Convert attachments to JSON for structured output
	type attachmentOutput struct {
		Filename  string `json:"filename"`
		Size      int64  `json:"size"`
		SizeHuman string `json:"sizeHuman"`
	}

	outputs := make([]attachmentOutput, len(attachments))
	for i, att := range attachments {
		outputs[i] = attachmentOutput{
			Filename:  att.Filename,
			Size:      att.Size,
			SizeHuman: formatSize(att.Size),
		}
	}

	jsonBytes, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format output: %v", err)), nil
	}

	source := "downloaded and cached"
	if fromCache {
		source = "served from local cache"
	}
	result := fmt.Sprintf("Found %d attachment(s) in message %s (%s):\n%s",
		len(attachments), messageID, source, string(jsonBytes))
	return mcp.NewToolResultText(result), nil
}

func handleExtractAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	fetcher, err := getFetcher(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, fromCache, err := fetcher.Fetch(messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch message: %v", err)), nil
	}
	recordCacheFetch(ctx, sc, fromCache)

	destDir, _ := args["directory"].(string)
	if destDir == "" {
		identity, err := fetcher.Identity()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve mailbox identity: %v", err)), nil
		}
		destDir, err = fetcher.Store().EnsureExtractionDir(identity, messageID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create extraction directory: %v", err)), nil
		}
	}

	written, err := msg.ExtractAttachments(destDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to extract attachments: %v", err)), nil
	}

	if len(written) == 0 {
		return mcp.NewToolResultText("Message has no named attachments to extract"), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Extracted %d attachment(s) to %s:\n", len(written), destDir)
	for _, path := range written {
		fmt.Fprintf(&result, "  %s\n", filepath.Base(path))
	}
	return mcp.NewToolResultText(result.String()), nil
}

// formatSize formats a byte size into human-readable format
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
