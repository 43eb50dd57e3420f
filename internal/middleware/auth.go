package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/services"
	"blogicum/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CurrentUserKey = "user"
	SessionUserKey = "user_id"
	LoginPath      = "/auth/login/"
)

// LoadUser resolves the requester from the session cookie or, failing that,
// from an "Authorization: Bearer" token, and stores it in the context.
func LoadUser(users *services.UserService, tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint

		session := sessions.Default(c)
		if id, ok := session.Get(SessionUserKey).(uint); ok {
			userID = id
		} else if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			if id, err := tokens.Parse(strings.TrimPrefix(header, "Bearer ")); err == nil {
				userID = id
			}
		}

		if userID != 0 {
			if user, err := users.Get(c.Request.Context(), userID); err == nil {
				c.Set(CurrentUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired redirects anonymous requests to the login page, remembering
// where they were going.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the requester, or nil when anonymous.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(CurrentUserKey); exists {
		if user, ok := u.(*models.User); ok {
			return user
		}
	}
	return nil
}
