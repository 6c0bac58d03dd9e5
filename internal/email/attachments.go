package email

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"
)

// AttachmentRecord describes one attachment part of a message.
type AttachmentRecord struct {
	// Filename is the sanitized-for-display name, or UnnamedAttachment when
	// the part carries none.
	Filename string
	// Size is the decoded payload size in bytes.
	Size int64
}

// filenameSanitizer matches characters that are unsafe in filenames across
// platforms, including ASCII control characters.
var filenameSanitizer = regexp.MustCompile(`[<>:"/\\|?*` + "\x00-\x1f" + `]`)

// SanitizeFilename reduces an attachment filename to a safe basename. Path
// components are dropped, unsafe characters become underscores, and the
// result is capped at 255 characters. Degenerate names collapse to "_".
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	filename = filenameSanitizer.ReplaceAllString(filename, "_")
	if len(filename) > 255 {
		filename = filename[:255]
	}
	if filename == "" || filename == "." || filename == ".." {
		return "_"
	}
	return filename
}

// ListAttachments returns one record per attachment part, in message order.
// Parts without a filename are reported under the UnnamedAttachment
// placeholder.
func (m *Message) ListAttachments() ([]AttachmentRecord, error) {
	var records []AttachmentRecord
	err := forEachPart(m.Raw, func(p *mail.Part) error {
		name, ok := attachmentName(p)
		if !ok {
			return nil
		}
		size, err := io.Copy(io.Discard, p.Body)
		if err != nil {
			return fmt.Errorf("failed to read attachment %q: %w", name, err)
		}
		if name == "" {
			name = UnnamedAttachment
		} else {
			name = SanitizeFilename(name)
		}
		records = append(records, AttachmentRecord{Filename: name, Size: size})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments of message %s: %w", m.ID, err)
	}
	return records, nil
}

// ExtractAttachments writes every named attachment of the message into
// destDir and returns the written paths. Filenames are sanitized, and name
// collisions within destDir get a numeric suffix before the extension.
// Attachment parts without a filename are skipped.
func (m *Message) ExtractAttachments(destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create extraction directory: %w", err)
	}

	var written []string
	err := forEachPart(m.Raw, func(p *mail.Part) error {
		name, ok := attachmentName(p)
		if !ok || name == "" {
			return nil
		}
		path := uniquePath(destDir, SanitizeFilename(name))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if _, err := io.Copy(f, p.Body); err != nil {
			f.Close()
			os.Remove(path)
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract attachments of message %s: %w", m.ID, err)
	}
	return written, nil
}

// uniquePath returns a path inside dir for name that does not collide with
// an existing file, appending "_1", "_2", ... before the extension until a
// free slot is found.
func uniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
}
