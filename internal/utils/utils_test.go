package utils

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPasswordHash("correct horse", hash) {
		t.Error("Expected password to match its hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("Expected wrong password to be rejected")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	id, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected user 42, got %d", id)
	}
}

func TestTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	token, _ := NewTokenIssuer("other", time.Hour).Issue(1)
	if _, err := NewTokenIssuer("secret", time.Hour).Parse(token); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for foreign secret, got %v", err)
	}

	expired, _ := NewTokenIssuer("secret", -time.Minute).Issue(1)
	if _, err := NewTokenIssuer("secret", time.Hour).Parse(expired); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	cases := map[string]bool{"1": true, "42": true, "0": false, "-3": false, "abc": false, "": false}
	for in, ok := range cases {
		if _, got := ParseID(in); got != ok {
			t.Errorf("ParseID(%q) ok = %v, want %v", in, got, ok)
		}
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("**bold** <script>alert(1)</script>\n\n![pic](https://example.com/a.png)"))
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("Expected bold markup, got %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("Expected script to be stripped, got %s", out)
	}
	if !strings.Contains(out, `loading="lazy"`) {
		t.Errorf("Expected lazy image, got %s", out)
	}
}
