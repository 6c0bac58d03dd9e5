package gmail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailtrim/mailtrim/internal/server"
	"github.com/mailtrim/mailtrim/internal/tools/batch"
	"github.com/mailtrim/mailtrim/internal/tools/common"
)

// RegisterMessageTools registers message-level tools with the MCP server.
// Fetching only writes to the local cache and is always available; trash and
// delete modify the mailbox and are only registered when readOnly is false.
func RegisterMessageTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Fetch messages tool
	fetchMessagesTool := mcp.NewTool("gmail_fetch_messages",
		mcp.WithDescription("Download one or more Gmail messages into the local cache in raw RFC-822 form. Messages already in the cache are not downloaded again."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
	)

	s.AddTool(fetchMessagesTool, common.InstrumentedToolHandlerWithService(
		"gmail_fetch_messages", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFetchMessages(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Trash messages tool
	trashMessagesTool := mcp.NewTool("gmail_trash_messages",
		mcp.WithDescription("Move one or more Gmail messages to the trash. Trashed messages can be restored from the mailbox trash."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to trash"),
		),
	)

	s.AddTool(trashMessagesTool, common.InstrumentedToolHandlerWithService(
		"gmail_trash_messages", "gmail", "trash", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTrashMessages(ctx, request, sc)
		}))

	// Delete message tool
	deleteMessageTool := mcp.NewTool("gmail_delete_message",
		mcp.WithDescription("Permanently delete a Gmail message, bypassing the trash. This cannot be undone; prefer gmail_trash_messages unless permanent removal is intended."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message to delete permanently"),
		),
	)

	s.AddTool(deleteMessageTool, common.InstrumentedToolHandlerWithService(
		"gmail_delete_message", "gmail", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteMessage(ctx, request, sc)
		}))

	return nil
}

func handleFetchMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fetcher, err := getFetcher(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	identity, err := fetcher.Identity()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve mailbox identity: %v", err)), nil
	}

	results := batch.ProcessBatch(messageIDs, func(messageID string) (string, error) {
		_, fromCache, err := fetcher.Fetch(messageID)
		if err != nil {
			return "", err
		}
		recordCacheFetch(ctx, sc, fromCache)
		path := fetcher.Store().MessagePath(identity, messageID)
		if fromCache {
			return fmt.Sprintf("Already cached at %s", path), nil
		}
		return fmt.Sprintf("Fetched to %s", path), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleTrashMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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
		if err := client.TrashMessage(messageID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Message %s moved to trash", messageID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleDeleteMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.DeleteMessage(messageID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete message: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Message %s permanently deleted", messageID)), nil
}
