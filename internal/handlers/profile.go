package handlers

import (
	"net/http"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	posts *services.PostService
	users *services.UserService
	log   *zap.Logger
}

func NewProfileHandler(posts *services.PostService, users *services.UserService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{posts: posts, users: users, log: log}
}

// Profile lists a user's posts. The owner also sees drafts and scheduled
// posts.
func (h *ProfileHandler) Profile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	author, page, err := h.posts.ListByAuthor(c.Request.Context(), c.Param("username"), viewer, pageParam(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "blog/profile.html", gin.H{
		"Title":   author.Username,
		"Profile": author,
		"Page":    page,
		"IsOwner": services.IsAuthor(author.ID, viewer),
	})
}

func (h *ProfileHandler) ShowEdit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "blog/user.html", gin.H{
		"Title": "Edit profile",
		"Form": forms.ProfileForm{
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
		"Errors": forms.Errors{},
	})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var form forms.ProfileForm
	err := forms.Bind(c, &form)
	user := middleware.CurrentUser(c)
	if err == nil {
		user, err = h.users.UpdateProfile(c.Request.Context(), user, &form)
	}
	if errs, ok := forms.AsErrors(err); ok {
		Render(c, http.StatusBadRequest, "blog/user.html", gin.H{
			"Title":  "Edit profile",
			"Form":   form,
			"Errors": errs,
		})
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, profilePath(user.Username))
}
