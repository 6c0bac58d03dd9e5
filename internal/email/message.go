package email

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	gomessage "github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
)

// UnnamedAttachment is the placeholder label for attachment parts that carry
// no filename. Such parts are listed but never extracted.
const UnnamedAttachment = "Unnamed attachment"

// Message is a mailbox message in raw RFC-822 form.
//
// Operations parse the raw bytes anew on every call, so part traversals are
// finite and restartable; a consumed body reader can never leak from one
// operation into the next.
type Message struct {
	// ID is the opaque identifier assigned by the mailbox service.
	ID string
	// Raw is the full serialized message.
	Raw []byte
}

// NewMessage wraps raw message bytes.
func NewMessage(id string, raw []byte) *Message {
	return &Message{ID: id, Raw: raw}
}

// summaryHeaderKeys is the ordered subset of headers used to identify a
// message in reports.
var summaryHeaderKeys = []string{"Subject", "Delivered-To", "From", "To", "Cc", "Date"}

// HeaderSummary returns a short human-readable identification of the message,
// one "Key: value" line per present summary header.
func (m *Message) HeaderSummary() (string, error) {
	entity, err := gomessage.Read(bytes.NewReader(m.Raw))
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return "", fmt.Errorf("failed to parse message %s: %w", m.ID, err)
	}

	var b strings.Builder
	for _, key := range summaryHeaderKeys {
		v, err := entity.Header.Text(key)
		if err != nil {
			// Undecodable value, fall back to the raw field.
			v = entity.Header.Get(key)
		}
		if v != "" {
			fmt.Fprintf(&b, "%s: %s\n", key, v)
		}
	}
	return b.String(), nil
}

// Subject returns the decoded Subject header, or an empty string.
func (m *Message) Subject() string {
	entity, err := gomessage.Read(bytes.NewReader(m.Raw))
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return ""
	}
	subject, err := entity.Header.Text("Subject")
	if err != nil {
		return entity.Header.Get("Subject")
	}
	return subject
}

// forEachPart walks the leaf parts of a raw message in order. Nested
// multipart containers are flattened by the reader, so fn only sees text and
// attachment parts.
func forEachPart(raw []byte, fn func(p *mail.Part) error) error {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return fmt.Errorf("failed to parse message: %w", err)
	}
	defer mr.Close()

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil && !gomessage.IsUnknownCharset(err) {
			return fmt.Errorf("failed to read message part: %w", err)
		}
		if p == nil {
			break
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// attachmentName reports whether a part counts as an attachment and returns
// its filename (empty when the part carries none).
//
// Parts with Content-Disposition "attachment" always count. Inline parts
// that carry a filename (embedded images and the like) count as well, since
// listing and stripping follow filename semantics, not just disposition.
func attachmentName(p *mail.Part) (string, bool) {
	switch h := p.Header.(type) {
	case *mail.AttachmentHeader:
		name, err := h.Filename()
		if err != nil {
			return "", true
		}
		return name, true
	case *mail.InlineHeader:
		ah := mail.AttachmentHeader{Header: h.Header}
		if name, err := ah.Filename(); err == nil && name != "" {
			return name, true
		}
	}
	return "", false
}
