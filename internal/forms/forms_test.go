package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func postContext(values url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestBindPostForm(t *testing.T) {
	c := postContext(url.Values{
		"title":        {"Hello"},
		"text":         {"World"},
		"pub_date":     {"2024-05-01T10:30"},
		"category":     {"2"},
		"is_published": {"true"},
		"author":       {"999"},
	})

	var form PostForm
	if err := Bind(c, &form); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if form.Title != "Hello" || form.CategoryID != 2 || form.LocationID != 0 {
		t.Errorf("Unexpected form: %+v", form)
	}
	if !form.IsPublished {
		t.Error("Expected checkbox value to bind as true")
	}

	pub, err := form.ParsedPubDate()
	if err != nil {
		t.Fatalf("ParsedPubDate failed: %v", err)
	}
	want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	if !pub.Equal(want) {
		t.Errorf("Expected %v, got %v", want, pub)
	}
}

func TestBindReportsFieldErrors(t *testing.T) {
	c := postContext(url.Values{
		"title": {strings.Repeat("x", 300)},
	})

	var form PostForm
	err := Bind(c, &form)
	fe, ok := AsErrors(err)
	if !ok {
		t.Fatalf("Expected field errors, got %v", err)
	}
	for _, field := range []string{"title", "text", "pub_date"} {
		if fe[field] == "" {
			t.Errorf("Expected error for %s, got %v", field, fe)
		}
	}
}

func TestParsedPubDateRejectsGarbage(t *testing.T) {
	form := PostForm{PubDate: "tomorrow"}
	_, err := form.ParsedPubDate()
	fe, ok := AsErrors(err)
	if !ok || fe["pub_date"] == "" {
		t.Errorf("Expected pub_date error, got %v", err)
	}
}

func TestParsedPubDateFallsBackToDateparse(t *testing.T) {
	form := PostForm{PubDate: "2024/03/05 10:30:00"}
	got, err := form.ParsedPubDate()
	if err != nil {
		t.Fatalf("ParsedPubDate failed: %v", err)
	}
	want := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestUsernameValidation(t *testing.T) {
	c := postContext(url.Values{"username": {"bad name!"}})
	var form ProfileForm
	fe, ok := AsErrors(Bind(c, &form))
	if !ok || fe["username"] == "" {
		t.Errorf("Expected username error, got %v", fe)
	}

	c = postContext(url.Values{"username": {"good.name"}, "email": {"a@b.io"}})
	form = ProfileForm{}
	if err := Bind(c, &form); err != nil {
		t.Errorf("Expected valid profile form, got %v", err)
	}
}

func TestPostTitleRejectsLineBreaks(t *testing.T) {
	c := postContext(url.Values{
		"title":    {"Hi\r\nBcc: victim@evil.test"},
		"text":     {"body"},
		"pub_date": {"2024-03-05T10:30"},
	})
	var form PostForm
	fe, ok := AsErrors(Bind(c, &form))
	if !ok || fe["title"] == "" {
		t.Errorf("Expected title error, got %v", fe)
	}
}
