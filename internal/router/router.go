package router

import (
	"net/http"

	"blogicum/internal/handlers"
	"blogicum/internal/middleware"
	"blogicum/internal/services"
	"blogicum/internal/utils"
	"blogicum/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionName = "blogicum_session"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Posts    *services.PostService
	Comments *services.CommentService
	Users    *services.UserService
	Tokens   *utils.TokenIssuer
	Captcha  *services.CaptchaService // optional
	Mail     *services.MailService    // optional
	Log      *zap.Logger

	SessionSecret string
	MediaRoot     string
	SiteURL       string
}

// New assembles the gin engine: middleware, templates, static files and
// routes.
func New(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLog(d.Log))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 14 * 24 * 3600})
	r.Use(sessions.Sessions(sessionName, store))

	renderer, err := web.Renderer()
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	r.StaticFS("/static", web.StaticFS())
	r.Static("/media", d.MediaRoot)

	r.Use(middleware.LoadUser(d.Users, d.Tokens))

	r.NoRoute(func(c *gin.Context) {
		handlers.RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
	})

	RegisterRoutes(r, d)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	postHandler := handlers.NewPostHandler(d.Posts, d.Comments, d.Mail, d.Log)
	commentHandler := handlers.NewCommentHandler(d.Comments, d.Log)
	profileHandler := handlers.NewProfileHandler(d.Posts, d.Users, d.Log)
	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens, d.Captcha, d.Mail, d.Log)
	seoHandler := handlers.NewSEOHandler(d.Posts, d.SiteURL, d.Log)

	// Public
	r.GET("/", postHandler.Index)
	r.GET("/posts/:id/", postHandler.Detail)
	r.GET("/category/:slug/", postHandler.CategoryPosts)
	r.GET("/profile/:username/", profileHandler.Profile)
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)

	// Authentication
	auth := r.Group("/auth")
	{
		auth.GET("/registration/", authHandler.ShowRegister)
		auth.POST("/registration/", authHandler.Register)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.POST("/logout/", authHandler.Logout)
		auth.GET("/logout/", authHandler.Logout)
	}
	r.POST("/api/token", authHandler.Token)

	// Protected
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/posts/create/", postHandler.ShowCreate)
		authorized.POST("/posts/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Update)
		authorized.GET("/posts/:id/delete/", postHandler.ShowDelete)
		authorized.POST("/posts/:id/delete/", postHandler.Delete)

		authorized.POST("/posts/:id/comment/", postHandler.CreateComment)
		authorized.GET("/posts/:id/edit_comment/:comment_id", commentHandler.ShowEdit)
		authorized.POST("/posts/:id/edit_comment/:comment_id", commentHandler.Update)
		authorized.GET("/posts/:id/delete_comment/:comment_id", commentHandler.ShowDelete)
		authorized.POST("/posts/:id/delete_comment/:comment_id", commentHandler.Delete)

		authorized.GET("/profile/edit_profile/", profileHandler.ShowEdit)
		authorized.POST("/profile/edit_profile/", profileHandler.Update)
	}
}
