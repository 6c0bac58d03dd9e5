// Package cache stores fetched raw messages on disk.
//
// Messages are laid out per mailbox identity:
//
//	<root>/<sanitized identity>/<message id>.eml
//	<root>/<sanitized identity>/<message id>/   (extracted attachments)
//
// The store is write-once: an entry, once written, is never replaced. A
// message fetched before a destructive rewrite therefore stays available in
// its original form even after the mailbox copy is gone.
package cache
