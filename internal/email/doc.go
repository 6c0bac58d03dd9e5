// Package email parses and rewrites raw RFC-822 messages.
//
// A Message holds the raw bytes of a fetched mailbox message together with
// its service-assigned ID. All operations parse the raw form on demand:
//
//   - HeaderSummary identifies a message by its common headers
//   - ListAttachments reports attachment parts with sizes, labeling parts
//     without a filename as "Unnamed attachment"
//   - ExtractAttachments writes named attachments to a directory with
//     sanitized, collision-free filenames
//   - StripAttachments rebuilds the message without attachments, keeping the
//     original headers and the best available text body
//
// Attachment classification follows Content-Disposition, widened to inline
// parts that carry a filename so embedded images are treated the same way
// as regular attachments.
//
// Because every operation re-reads Message.Raw, traversals are restartable
// and a Message can be inspected any number of times.
package email
