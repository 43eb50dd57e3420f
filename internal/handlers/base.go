package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"blogicum/internal/middleware"
	"blogicum/internal/services"
	"blogicum/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{
		"Title":  http.StatusText(code),
		"Status": code,
		"Error":  message,
	})
}

func notFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
}

// fail maps a service error to a response. Anything that is not a missing
// record is logged and answered with 500.
func fail(c *gin.Context, log *zap.Logger, err error) {
	if errors.Is(err, services.ErrNotFound) {
		notFound(c)
		return
	}
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	RenderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

func pageParam(c *gin.Context) int {
	return utils.StringToInt(c.Query("page"))
}

// idParam reads a numeric path parameter, answering 404 when it is not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		notFound(c)
	}
	return id, ok
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}
