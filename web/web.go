// Package web bundles the HTML templates and static assets into the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"
	"unicode/utf8"

	"blogicum/internal/models"
	"blogicum/internal/services"
	"blogicum/internal/utils"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/multitemplate"
)

//go:embed templates static
var files embed.FS

// Page templates, keyed by the name handlers render.
var views = map[string]string{
	"blog/index.html":                     "templates/views/blog/index.html",
	"blog/category.html":                  "templates/views/blog/category.html",
	"blog/profile.html":                   "templates/views/blog/profile.html",
	"blog/detail.html":                    "templates/views/blog/detail.html",
	"blog/create.html":                    "templates/views/blog/create.html",
	"blog/comment.html":                   "templates/views/blog/comment.html",
	"blog/user.html":                      "templates/views/blog/user.html",
	"registration/login.html":             "templates/views/registration/login.html",
	"registration/registration_form.html": "templates/views/registration/registration_form.html",
	"error.html":                          "templates/views/error.html",
}

// EmailFS holds the email bodies used by services.MailService.
func EmailFS() fs.FS {
	sub, err := fs.Sub(files, "templates/email")
	if err != nil {
		panic(err)
	}
	return sub
}

// StaticFS serves web/static under /static.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// FuncMap is available to every page template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"formatDate": func(t time.Time) string {
			return t.UTC().Format("2 January 2006, 15:04")
		},
		"timeSince": func(t time.Time) string {
			return humanize.Time(t)
		},
		"markdown": utils.RenderMarkdown,
		"mediaURL": func(rel string) string {
			return path.Join("/media", rel)
		},
		"truncate": func(s string, n int) string {
			if utf8.RuneCountInString(s) <= n {
				return s
			}
			return string([]rune(s)[:n]) + "…"
		},
		"isAuthor": func(authorID uint, user *models.User) bool {
			return services.IsAuthor(authorID, user)
		},
	}
}

// Renderer parses every page as base layout + includes + view.
func Renderer() (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()
	funcMap := FuncMap()

	for name, view := range views {
		t, err := template.New("base.html").Funcs(funcMap).ParseFS(files,
			"templates/layouts/base.html",
			"templates/includes/*.html",
			view,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.Add(name, t)
	}
	return r, nil
}
