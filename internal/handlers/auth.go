package handlers

import (
	"errors"
	"net/http"
	"strings"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/services"
	"blogicum/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const captchaSessionKey = "captcha_answer"

type AuthHandler struct {
	users   *services.UserService
	tokens  *utils.TokenIssuer
	captcha *services.CaptchaService // nil disables the registration captcha
	mail    *services.MailService
	log     *zap.Logger
}

func NewAuthHandler(users *services.UserService, tokens *utils.TokenIssuer, captcha *services.CaptchaService, mail *services.MailService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, captcha: captcha, mail: mail, log: log}
}

// login starts a session for user.
func login(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, user.ID)
	return session.Save()
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *AuthHandler) renderRegistration(c *gin.Context, code int, form forms.RegistrationForm, errs forms.Errors) {
	data := gin.H{
		"Title":  "Sign up",
		"Form":   form,
		"Errors": errs,
	}
	if h.captcha != nil {
		question, answer := h.captcha.GenerateMathProblem()
		session := sessions.Default(c)
		session.Set(captchaSessionKey, answer)
		if err := session.Save(); err != nil {
			h.log.Warn("save captcha answer", zap.Error(err))
		}
		data["Captcha"] = question
	}
	Render(c, code, "registration/registration_form.html", data)
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.renderRegistration(c, http.StatusOK, forms.RegistrationForm{}, forms.Errors{})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form forms.RegistrationForm
	err := forms.Bind(c, &form)

	if h.captcha != nil {
		session := sessions.Default(c)
		expected, ok := session.Get(captchaSessionKey).(int)
		session.Delete(captchaSessionKey)
		if !ok || utils.StringToInt(strings.TrimSpace(c.PostForm("captcha"))) != expected {
			errs, _ := forms.AsErrors(err)
			if errs == nil {
				errs = forms.Errors{}
			}
			errs.Add("captcha", "Wrong answer, try again.")
			form.Password = ""
			h.renderRegistration(c, http.StatusBadRequest, form, errs)
			return
		}
	}

	var user *models.User
	if err == nil {
		user, err = h.users.Register(c.Request.Context(), &form)
	}
	if errs, ok := forms.AsErrors(err); ok {
		form.Password = ""
		h.renderRegistration(c, http.StatusBadRequest, form, errs)
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if err := login(c, user); err != nil {
		fail(c, h.log, err)
		return
	}
	if h.mail != nil {
		h.mail.SendWelcomeEmail(user.Email, user.Username)
	}
	h.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "registration/login.html", gin.H{
		"Title":    "Log in",
		"Next":     c.Query("next"),
		"Username": "",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	next := c.PostForm("next")

	err := forms.Bind(c, &form)
	var user *models.User
	if err == nil {
		user, err = h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	}
	if _, invalid := forms.AsErrors(err); invalid || errors.Is(err, services.ErrInvalidCredentials) {
		Render(c, http.StatusBadRequest, "registration/login.html", gin.H{
			"Title":    "Log in",
			"Next":     next,
			"Username": form.Username,
			"Error":    "Please enter a correct username and password.",
		})
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if err := login(c, user); err != nil {
		fail(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.Warn("clear session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

// Token exchanges credentials for a bearer token, accepted on every route
// in place of the session cookie.
func (h *AuthHandler) Token(c *gin.Context) {
	var form forms.LoginForm
	if err := forms.Bind(c, &form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("authenticate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.Error("issue token", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
