// Package rewrite orchestrates the attachment-removal workflow.
//
// The Fetcher retrieves raw messages cache-first: every message is
// downloaded from the mailbox gateway at most once and then served from the
// local store. Because a message is cached before anything destructive
// happens to it, the cache doubles as the recovery copy.
//
// The Rewriter drives one message through the workflow:
//
//	fetch -> transform -> confirmation gate -> trash original -> insert copy
//
// Everything up to the gate is read-only against the mailbox and safe to
// retry. The trash and insert steps are not atomic together; if the insert
// fails, the original sits in the mailbox trash and in the local cache.
//
// Messages without attachments are never rewritten, with or without
// confirmation, so running the workflow twice over the same ids does not
// churn already-stripped messages.
package rewrite
