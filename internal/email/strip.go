package email

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	gomessage "github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
)

// framingHeaders are regenerated by the message writer and must not be
// copied from the original, or the rebuilt body would be misdescribed.
var framingHeaders = []string{"Content-Type", "Mime-Version", "Content-Transfer-Encoding"}

func isFramingHeader(key string) bool {
	for _, h := range framingHeaders {
		if strings.EqualFold(key, h) {
			return true
		}
	}
	return false
}

// StripAttachments rebuilds the message without its attachment parts. The
// result keeps every original header except the framing ones and carries a
// single text part holding the best available body, preferring plain text
// over HTML. The receiver is not modified.
//
// The Date header survives the rebuild untouched, which is what lets a
// reinserted copy keep its place in the mailbox timeline.
func (m *Message) StripAttachments() (*Message, error) {
	body, err := m.textBody()
	if err != nil {
		return nil, err
	}

	entity, err := gomessage.Read(bytes.NewReader(m.Raw))
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to parse message %s: %w", m.ID, err)
	}

	var header mail.Header
	fields := entity.Header.Fields()
	for fields.Next() {
		if isFramingHeader(fields.Key()) {
			continue
		}
		header.Add(fields.Key(), fields.Value())
	}

	var buf bytes.Buffer
	iw, err := mail.CreateInlineWriter(&buf, header)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(th)
	if err != nil {
		iw.Close()
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		pw.Close()
		iw.Close()
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}
	if err := pw.Close(); err != nil {
		iw.Close()
		return nil, fmt.Errorf("failed to finalize text part: %w", err)
	}
	if err := iw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	return &Message{ID: m.ID, Raw: buf.Bytes()}, nil
}

// textBody returns the message body to carry into a stripped rebuild. The
// first text/plain inline part wins; failing that, the first text/html part;
// failing that, the empty string.
func (m *Message) textBody() (string, error) {
	var plain, html string
	var havePlain, haveHTML bool

	err := forEachPart(m.Raw, func(p *mail.Part) error {
		if _, isAttachment := attachmentName(p); isAttachment {
			return nil
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			return nil
		}
		ct, _, err := h.ContentType()
		if err != nil {
			return nil
		}
		switch {
		case !havePlain && strings.EqualFold(ct, "text/plain"):
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil
			}
			plain = string(b)
			havePlain = true
		case !haveHTML && strings.EqualFold(ct, "text/html"):
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil
			}
			html = string(b)
			haveHTML = true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read body of message %s: %w", m.ID, err)
	}

	if havePlain {
		return plain, nil
	}
	if haveHTML {
		return html, nil
	}
	return "", nil
}
