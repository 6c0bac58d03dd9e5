// Package cmd implements the command-line interface for mailtrim.
//
// This package provides the following commands:
//   - auth: Authorize Gmail access and store per-account OAuth tokens
//   - find: Find message IDs matching a Gmail search query
//   - fetch: Download messages into the local cache
//   - list-attachments: List the attachments of messages
//   - extract-attachments: Write message attachments to local files
//   - remove-attachments: Rewrite messages without their attachments
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Commands that change the mailbox are gated: remove-attachments is a dry
// run unless --make-changes is given, and the MCP server registers write
// tools only with --yolo.
package cmd
