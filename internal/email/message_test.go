package email

import (
	"strings"
	"testing"
)

// crlf joins lines with CRLF so fixtures are valid wire-format messages.
func crlf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func mixedFixture() *Message {
	return NewMessage("msg-mixed", crlf(
		"From: Alice <alice@example.com>",
		"To: bob@example.com",
		"Subject: Quarterly report",
		"Date: Tue, 15 Jul 2025 10:00:00 +0000",
		"X-Custom-Tag: keep-me",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Report attached.",
		"--b1",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="report.pdf"`,
		"Content-Transfer-Encoding: base64",
		"",
		"JVBERi0xLjQ=",
		"--b1--",
		"",
	))
}

func plainFixture() *Message {
	return NewMessage("msg-plain", crlf(
		"From: carol@example.com",
		"To: dave@example.com",
		"Subject: No frills",
		"Date: Wed, 16 Jul 2025 09:30:00 +0000",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Just text.",
		"",
	))
}

func TestHeaderSummary(t *testing.T) {
	summary, err := mixedFixture().HeaderSummary()
	if err != nil {
		t.Fatalf("HeaderSummary failed: %v", err)
	}

	wantLines := []string{
		"Subject: Quarterly report",
		"From: Alice <alice@example.com>",
		"To: bob@example.com",
		"Date: Tue, 15 Jul 2025 10:00:00 +0000",
	}
	for _, line := range wantLines {
		if !strings.Contains(summary, line+"\n") {
			t.Errorf("summary missing %q, got:\n%s", line, summary)
		}
	}

	if strings.Contains(summary, "Cc:") {
		t.Errorf("summary should omit absent headers, got:\n%s", summary)
	}
	if strings.Contains(summary, "X-Custom-Tag") {
		t.Errorf("summary should only contain the well-known headers, got:\n%s", summary)
	}
}

func TestHeaderSummaryOrder(t *testing.T) {
	summary, err := mixedFixture().HeaderSummary()
	if err != nil {
		t.Fatalf("HeaderSummary failed: %v", err)
	}

	subjectIdx := strings.Index(summary, "Subject:")
	fromIdx := strings.Index(summary, "From:")
	dateIdx := strings.Index(summary, "Date:")
	if subjectIdx == -1 || fromIdx == -1 || dateIdx == -1 {
		t.Fatalf("summary incomplete:\n%s", summary)
	}
	if !(subjectIdx < fromIdx && fromIdx < dateIdx) {
		t.Errorf("summary lines out of order:\n%s", summary)
	}
}

func TestSubject(t *testing.T) {
	if got := mixedFixture().Subject(); got != "Quarterly report" {
		t.Errorf("Subject = %q, want %q", got, "Quarterly report")
	}
	if got := plainFixture().Subject(); got != "No frills" {
		t.Errorf("Subject = %q, want %q", got, "No frills")
	}
}

func TestSubjectEncoded(t *testing.T) {
	m := NewMessage("msg-encoded", crlf(
		"From: a@example.com",
		"Subject: =?utf-8?q?Caf=C3=A9_receipt?=",
		"",
		"body",
		"",
	))
	if got := m.Subject(); got != "Café receipt" {
		t.Errorf("Subject = %q, want decoded form", got)
	}
}

func TestHeaderSummaryUnparseable(t *testing.T) {
	m := NewMessage("msg-bad", []byte("total garbage\x00without structure"))
	if _, err := m.HeaderSummary(); err == nil {
		t.Error("expected error for unparseable message")
	}
}
