package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailtrim/mailtrim/internal/rewrite"
	"github.com/mailtrim/mailtrim/internal/server"
	"github.com/mailtrim/mailtrim/internal/tools/batch"
	"github.com/mailtrim/mailtrim/internal/tools/common"
)

// RegisterRewriteTools registers the attachment removal tool with the MCP
// server. The tool is always available because its default mode only
// previews; actually rewriting the mailbox requires makeChanges and a server
// that is not read-only.
func RegisterRewriteTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	removeAttachmentsTool := mcp.NewTool("gmail_remove_attachments",
		mcp.WithDescription("Remove the attachments from one or more Gmail messages. Each original is cached locally, then replaced in the mailbox by a copy without attachments, keeping its place in the timeline. Without makeChanges this only previews what would be removed."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
		mcp.WithBoolean("makeChanges",
			mcp.Description("Actually rewrite the mailbox (default: false, preview only)"),
		),
	)

	s.AddTool(removeAttachmentsTool, common.InstrumentedToolHandler(
		"gmail_remove_attachments", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemoveAttachments(ctx, request, sc, readOnly)
		}))

	return nil
}

func handleRemoveAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, readOnly bool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	makeChanges := false
	if makeChangesVal, ok := args["makeChanges"].(bool); ok {
		makeChanges = makeChangesVal
	}

	if makeChanges && readOnly {
		return mcp.NewToolResultError("Server is running in read-only mode; mailbox changes are not allowed. Restart the server with --yolo to enable them, or omit makeChanges to preview."), nil
	}

	if _, err := getGmailClient(ctx, account, sc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rewriter := sc.RewriterForAccount(account, makeChanges)
	if rewriter == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create rewriter for account %s", account)), nil
	}

	results := batch.ProcessBatch(messageIDs, func(messageID string) (string, error) {
		res, err := rewriter.RemoveAttachments(messageID)
		if err != nil {
			if m := sc.Metrics(); m != nil {
				m.RecordMessageRewrite(ctx, "error")
			}
			return "", err
		}
		if m := sc.Metrics(); m != nil {
			m.RecordMessageRewrite(ctx, string(res.Outcome))
		}
		return formatRewriteResult(res), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// formatRewriteResult renders one rewrite result as a human-readable block:
// the identifying headers, the outcome, and the affected attachments.
func formatRewriteResult(res *rewrite.Result) string {
	var sb strings.Builder
	sb.WriteString(res.Summary)

	switch res.Outcome {
	case rewrite.OutcomeNoAttachments:
		sb.WriteString("No attachments, message left untouched")
	case rewrite.OutcomeSkipped:
		fmt.Fprintf(&sb, "Preview only, %d attachment(s) would be removed:", len(res.Attachments))
	case rewrite.OutcomeStripped:
		fmt.Fprintf(&sb, "Removed %d attachment(s), replacement message ID %s:",
			len(res.Attachments), res.NewMessageID)
	}

	for _, att := range res.Attachments {
		fmt.Fprintf(&sb, "\n  %s (%s)", att.Filename, formatSize(att.Size))
	}
	return sb.String()
}
