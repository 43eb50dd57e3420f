// Package forms binds and validates submitted form fields before they reach
// the persistence layer.
package forms

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Errors maps a form field to a human-readable message. An Errors value is
// returned as an error when validation fails.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Add records msg for field unless one is already present.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// report fields by their form names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
		})
	}
}

// Bind decodes the request into form and converts validation failures to
// Errors keyed by the form tag of each field.
func Bind(c *gin.Context, form interface{}) error {
	if err := c.ShouldBind(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := Errors{}
			for _, fe := range verrs {
				out.Add(fe.Field(), message(fe))
			}
			return out
		}
		return Errors{"__all__": "malformed submission"}
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username: letters, digits and @/./+/-/_ only."
	case "singleline":
		return "Line breaks and control characters are not allowed."
	}
	return "Invalid value."
}

// PostForm carries the editable post fields. The author is never bound from
// the request.
type PostForm struct {
	Title       string                `form:"title" binding:"required,max=256,singleline"`
	Text        string                `form:"text" binding:"required"`
	PubDate     string                `form:"pub_date" binding:"required"`
	LocationID  uint                  `form:"location"`
	CategoryID  uint                  `form:"category"`
	IsPublished bool                  `form:"is_published"`
	Image       *multipart.FileHeader `form:"image"`
}

var pubDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsedPubDate interprets pub_date in the formats browsers and API clients
// send, falling back to dateparse for anything else. Dates without a zone are
// taken as UTC.
func (f *PostForm) ParsedPubDate() (time.Time, error) {
	s := strings.TrimSpace(f.PubDate)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if s != "" {
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Errors{"pub_date": "Enter a valid date/time."}
}

type CommentForm struct {
	Text string `form:"text" binding:"required"`
}

type ProfileForm struct {
	Username  string `form:"username" binding:"required,max=150,username"`
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Email     string `form:"email" binding:"omitempty,email,max=254"`
}

type RegistrationForm struct {
	Username string `form:"username" binding:"required,max=150,username"`
	Email    string `form:"email" binding:"omitempty,email,max=254"`
	Password string `form:"password" binding:"required,min=8"`
}

type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
