// Package resources provides MCP resources describing the server's local
// state: the accounts that have completed the OAuth flow and the contents
// of the message cache. Both are read from disk and need no mailbox access.
package resources
