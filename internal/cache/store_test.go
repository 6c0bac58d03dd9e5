package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeIdentity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"email address", "user@example.com", "user_example_com"},
		{"plus address", "user+tag@example.com", "user+tag_example_com"},
		{"unsafe characters", `We"ird:Name<x>@host`, "We_ird_Name_x__host"},
		{"path characters", "a/b\\c", "a_b_c"},
		{"already safe", "plainname", "plainname"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeIdentity(tt.in); got != tt.want {
				t.Errorf("SanitizeIdentity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeIdentityDeterministic(t *testing.T) {
	if SanitizeIdentity("user@example.com") != SanitizeIdentity("user@example.com") {
		t.Error("same identity must sanitize to the same directory name")
	}
}

func TestMessagePathLayout(t *testing.T) {
	s := NewStore("/tmp/root")
	want := filepath.Join("/tmp/root", "user_example_com", "18f3a.eml")
	if got := s.MessagePath("user@example.com", "18f3a"); got != want {
		t.Errorf("MessagePath = %q, want %q", got, want)
	}
}

func TestExtractionDirLayout(t *testing.T) {
	s := NewStore("/tmp/root")
	want := filepath.Join("/tmp/root", "user_example_com", "18f3a")
	if got := s.ExtractionDir("user@example.com", "18f3a"); got != want {
		t.Errorf("ExtractionDir = %q, want %q", got, want)
	}
}

func TestPutGet(t *testing.T) {
	s := NewStore(t.TempDir())
	raw := []byte("From: a@example.com\r\n\r\nhello\r\n")

	if err := s.Put("user@example.com", "abc123", raw); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := s.Get("user@example.com", "abc123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Get reported no entry after Put")
	}
	if string(got) != string(raw) {
		t.Errorf("Get = %q, want %q", got, raw)
	}
}

func TestGetMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	_, ok, err := s.Get("user@example.com", "nothere")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Get reported an entry that was never stored")
	}
}

func TestPutWriteOnce(t *testing.T) {
	s := NewStore(t.TempDir())
	first := []byte("original content")
	second := []byte("replacement attempt")

	if err := s.Put("user@example.com", "abc123", first); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := s.Put("user@example.com", "abc123", second); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, ok, err := s.Get("user@example.com", "abc123")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if string(got) != string(first) {
		t.Errorf("entry was overwritten: got %q, want %q", got, first)
	}
}

func TestPutCreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep", "cache")
	s := NewStore(root)

	if err := s.Put("user@example.com", "abc123", []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "user_example_com", "abc123.eml")); err != nil {
		t.Errorf("expected entry on disk: %v", err)
	}
}

func TestEnsureExtractionDir(t *testing.T) {
	s := NewStore(t.TempDir())
	dir, err := s.EnsureExtractionDir("user@example.com", "abc123")
	if err != nil {
		t.Fatalf("EnsureExtractionDir failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
	if dir != s.ExtractionDir("user@example.com", "abc123") {
		t.Errorf("EnsureExtractionDir returned %q, want the ExtractionDir path", dir)
	}
}

func TestCheckCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep", "cache")
	s := NewStore(root)
	if err := s.Check(); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", root)
	}

	// A second check on an existing root succeeds
	if err := s.Check(); err != nil {
		t.Errorf("Check on existing root failed: %v", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	s := NewStore(t.TempDir())

	ids := []string{"", "../escape", "a/b", `a\b`, "has..dots"}
	for _, id := range ids {
		if err := s.Put("user@example.com", id, []byte("x")); err == nil {
			t.Errorf("Put accepted invalid id %q", id)
		}
		if _, _, err := s.Get("user@example.com", id); err == nil {
			t.Errorf("Get accepted invalid id %q", id)
		}
	}

	if err := s.Put("", "abc123", []byte("x")); err == nil {
		t.Error("Put accepted empty identity")
	}
}

func TestDefaultRoot(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root, err := DefaultRoot()
	if err != nil {
		t.Fatalf("DefaultRoot failed: %v", err)
	}
	if filepath.Base(root) != "messages" || filepath.Base(filepath.Dir(root)) != "mailtrim" {
		t.Errorf("DefaultRoot = %q, want a .../mailtrim/messages path", root)
	}
}
