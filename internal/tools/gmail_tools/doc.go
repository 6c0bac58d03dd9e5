// Package gmail_tools provides MCP (Model Context Protocol) tools for working
// with Gmail messages and their attachments.
//
// This package exposes mailbox functionality through MCP tools that can be
// called by AI agents or other MCP clients. It provides capabilities for:
//
// Search and Inspection:
//   - gmail_find_messages: Find messages matching a Gmail search query
//   - gmail_get_headers: Get the headers of messages without their bodies
//
// Local Cache:
//   - gmail_fetch_messages: Download messages into the local cache in raw
//     RFC-822 form
//   - gmail_list_attachments: List the attachments of a message
//   - gmail_extract_attachments: Write the attachments of a message to local
//     files
//
// Mailbox Rewriting:
//   - gmail_remove_attachments: Replace messages with copies that carry no
//     attachments, preserving their place in the timeline. Previews by
//     default; makeChanges performs the rewrite.
//   - gmail_trash_messages: Move messages to the trash
//   - gmail_delete_message: Permanently delete a message
//
// Tools that modify the mailbox are only registered when the server runs with
// write access. Every message is cached locally before any destructive
// operation, so the original bytes always survive a rewrite.
//
// All tools require an authenticated Gmail client which is provided through
// the server context. The client handles OAuth2 authentication and token
// management.
//
// Example usage:
//
//	// Find large messages with attachments
//	gmail_find_messages(query: "has:attachment larger:5M")
//
//	// List attachments in a message
//	gmail_list_attachments(messageId: "msg123")
//
//	// Preview an attachment removal
//	gmail_remove_attachments(messageIds: "msg123")
//
//	// Actually rewrite the message
//	gmail_remove_attachments(messageIds: "msg123", makeChanges: true)
package gmail_tools
