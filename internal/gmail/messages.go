package gmail

import (
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// MaxMessageSize defines the maximum raw message size in bytes (50MB)
	MaxMessageSize = 50 * 1024 * 1024
)

// GetMessage retrieves a full Gmail message
func (c *Client) GetMessage(messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// GetMessageMetadata retrieves a message in metadata format, limited to the
// given headers. With no headers, all metadata headers are returned.
func (c *Client) GetMessageMetadata(messageID string, headers ...string) (*gmail.Message, error) {
	req := c.svc.Messages.Get("me", messageID).Format("metadata")
	if len(headers) > 0 {
		req = req.MetadataHeaders(headers...)
	}
	msg, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// GetRawMessage retrieves a message in raw RFC-822 form
func (c *Client) GetRawMessage(messageID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	msg, err := c.svc.Messages.Get("me", messageID).Format("raw").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	if msg.Raw == "" {
		return nil, fmt.Errorf("message %s has no raw content", messageID)
	}

	raw, err := decodeWebSafe(msg.Raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", messageID, err)
	}
	if len(raw) > MaxMessageSize {
		return nil, fmt.Errorf("message size %d exceeds maximum size %d", len(raw), MaxMessageSize)
	}
	return raw, nil
}

// InsertMessage inserts a raw message directly into the mailbox, skipping
// spam classification and delivery scanning. The message's own Date header
// determines its internal date, so an inserted copy keeps its place in the
// mailbox timeline.
func (c *Client) InsertMessage(raw []byte) (*gmail.Message, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("raw message is required")
	}

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}
	inserted, err := c.svc.Messages.Insert("me", msg).InternalDateSource("dateHeader").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return inserted, nil
}

// TrashMessage moves a message to the trash
func (c *Client) TrashMessage(messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}
	if _, err := c.svc.Messages.Trash("me", messageID).Do(); err != nil {
		return fmt.Errorf("failed to trash message %s: %w", messageID, err)
	}
	return nil
}

// DeleteMessage permanently deletes a message, bypassing the trash
func (c *Client) DeleteMessage(messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}
	if err := c.svc.Messages.Delete("me", messageID).Do(); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

// ProfileEmailAddress returns the email address of the authenticated mailbox
func (c *Client) ProfileEmailAddress() (string, error) {
	profile, err := c.svc.GetProfile("me").Do()
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// HeaderValue extracts a header value from a Gmail message
func HeaderValue(m *gmail.Message, header string) string {
	mpart := m.Payload
	if mpart == nil {
		return ""
	}
	for _, mph := range mpart.Headers {
		if mph.Name == header {
			return mph.Value
		}
	}
	return ""
}

// decodeWebSafe decodes base64url-encoded data (Gmail API uses RFC 4648
// base64url encoding)
func decodeWebSafe(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Try with standard base64 if URLEncoding fails
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return decoded, nil
}
