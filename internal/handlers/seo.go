package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"blogicum/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sitemapLimit caps the number of posts listed in sitemap.xml.
const sitemapLimit = 500

type SEOHandler struct {
	posts   *services.PostService
	siteURL string
	log     *zap.Logger
}

func NewSEOHandler(posts *services.PostService, siteURL string, log *zap.Logger) *SEOHandler {
	return &SEOHandler{posts: posts, siteURL: strings.TrimRight(siteURL, "/"), log: log}
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /auth/
Disallow: /api/
Disallow: /posts/create/
Disallow: /profile/edit_profile/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the index, every published category and the most recent
// public posts. Hidden posts never appear.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	today := time.Now().UTC().Format("2006-01-02")

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Loc: h.siteURL + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"})

	categories, err := h.posts.PublishedCategories(ctx)
	if err != nil {
		h.log.Error("sitemap categories", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	for _, category := range categories {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/category/%s/", h.siteURL, category.Slug),
			LastMod:    today,
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}

	posts, err := h.posts.RecentPublic(ctx, sitemapLimit)
	if err != nil {
		h.log.Error("sitemap posts", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	for _, post := range posts {
		// newer posts change more often
		priority, freq := "0.6", "weekly"
		if time.Since(post.PubDate) < 7*24*time.Hour {
			priority, freq = "0.8", "daily"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/posts/%d/", h.siteURL, post.ID),
			LastMod:    post.PubDate.UTC().Format("2006-01-02"),
			ChangeFreq: freq,
			Priority:   priority,
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		h.log.Error("sitemap encode", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
