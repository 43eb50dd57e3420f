package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blogicum/internal/models"
)

func TestRendererParsesEveryView(t *testing.T) {
	r, err := Renderer()
	if err != nil {
		t.Fatalf("Renderer failed: %v", err)
	}

	w := httptest.NewRecorder()
	err = r.Instance("error.html", map[string]interface{}{
		"Title":       "Not Found",
		"Status":      404,
		"Error":       "nothing here",
		"CurrentPath": "/missing",
	}).Render(w)
	if err != nil {
		t.Fatalf("render error page: %v", err)
	}
	body := w.Body.String()
	if !strings.Contains(body, "nothing here") || !strings.Contains(body, "<title>Not Found | Blogicum</title>") {
		t.Errorf("Unexpected error page: %s", body)
	}
}

func TestFuncMap(t *testing.T) {
	fm := FuncMap()

	truncate := fm["truncate"].(func(string, int) string)
	if got := truncate("привет мир", 6); got != "привет…" {
		t.Errorf("truncate: got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate: got %q", got)
	}

	media := fm["mediaURL"].(func(string) string)
	if got := media("post_photo/a.png"); got != "/media/post_photo/a.png" {
		t.Errorf("mediaURL: got %q", got)
	}

	isAuthor := fm["isAuthor"].(func(uint, *models.User) bool)
	if isAuthor(1, nil) || !isAuthor(1, &models.User{ID: 1}) {
		t.Error("isAuthor mismatch")
	}

	since := fm["timeSince"].(func(time.Time) string)
	if got := since(time.Now().Add(-2 * time.Hour)); got != "2 hours ago" {
		t.Errorf("timeSince: got %q", got)
	}

	dict := fm["dict"].(func(...interface{}) (map[string]interface{}, error))
	if _, err := dict("odd"); err == nil {
		t.Error("Expected dict to reject odd arguments")
	}
}
