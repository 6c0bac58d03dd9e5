package rewrite

import (
	"fmt"

	"github.com/mailtrim/mailtrim/internal/email"
	"github.com/mailtrim/mailtrim/internal/logging"
)

// Outcome classifies what happened to one message during a rewrite.
type Outcome string

const (
	// OutcomeStripped means the original was trashed and a stripped copy
	// inserted in its place.
	OutcomeStripped Outcome = "stripped"
	// OutcomeSkipped means attachments were found but no changes were made
	// because confirmation was withheld.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoAttachments means the message has nothing to strip, so it was
	// left exactly as it is.
	OutcomeNoAttachments Outcome = "no-attachments"
)

// Result describes the rewrite of a single message.
type Result struct {
	MessageID string
	Outcome   Outcome
	// NewMessageID is the ID of the inserted replacement, set only for
	// OutcomeStripped.
	NewMessageID string
	// Attachments lists what was (or would be) removed.
	Attachments []email.AttachmentRecord
	// Summary identifies the message by its common headers.
	Summary string
	// FromCache reports whether the local cache served the message.
	FromCache bool
}

// Rewriter removes attachments from mailbox messages. Each message goes
// through fetch, transform and a confirmation gate before any remote
// mutation; only with makeChanges set does the rewriter trash the original
// and insert the stripped copy.
type Rewriter struct {
	gateway     Gateway
	fetcher     *Fetcher
	makeChanges bool
	logger      logging.Logger
}

// NewRewriter creates a Rewriter. With makeChanges false every rewrite is a
// dry run. A nil logger falls back to the default logger.
func NewRewriter(gateway Gateway, fetcher *Fetcher, makeChanges bool, logger logging.Logger) *Rewriter {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Rewriter{
		gateway:     gateway,
		fetcher:     fetcher,
		makeChanges: makeChanges,
		logger:      logger,
	}
}

// RemoveAttachments rewrites one message. The sequence is strict: the
// message is fetched (and thereby cached), transformed locally, and only
// then, gated on confirmation, trashed and replaced. Any error before the
// trash step leaves the mailbox untouched and is safe to retry.
//
// If the insert fails after the trash succeeded, the original is still
// recoverable from the mailbox trash and from the local cache; the returned
// error says so.
func (r *Rewriter) RemoveAttachments(id string) (*Result, error) {
	msg, fromCache, err := r.fetcher.Fetch(id)
	if err != nil {
		return nil, err
	}

	summary, err := msg.HeaderSummary()
	if err != nil {
		return nil, err
	}
	attachments, err := msg.ListAttachments()
	if err != nil {
		return nil, err
	}

	result := &Result{
		MessageID:   id,
		Attachments: attachments,
		Summary:     summary,
		FromCache:   fromCache,
	}

	if len(attachments) == 0 {
		r.logger.Info("message has no attachments, leaving it untouched",
			logging.KeyMessageID, id)
		result.Outcome = OutcomeNoAttachments
		return result, nil
	}

	stripped, err := msg.StripAttachments()
	if err != nil {
		return nil, err
	}

	if !r.makeChanges {
		r.logger.Info("dry run, no changes made",
			logging.KeyMessageID, id, "attachments", len(attachments))
		result.Outcome = OutcomeSkipped
		return result, nil
	}

	if err := r.gateway.TrashMessage(id); err != nil {
		return nil, fmt.Errorf("failed to trash message %s, mailbox unchanged: %w", id, err)
	}
	inserted, err := r.gateway.InsertMessage(stripped.Raw)
	if err != nil {
		return nil, fmt.Errorf("message %s was moved to trash but the stripped copy could not be inserted; recover it from the trash or the local cache: %w", id, err)
	}

	r.logger.Info("attachments removed",
		logging.KeyMessageID, id,
		"new_message_id", inserted.Id,
		"attachments", len(attachments))
	result.Outcome = OutcomeStripped
	result.NewMessageID = inserted.Id
	return result, nil
}
