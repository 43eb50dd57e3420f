package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentHandler edits and deletes existing comments. Comments are created
// from the post page, see PostHandler.CreateComment.
type CommentHandler struct {
	comments *services.CommentService
	log      *zap.Logger
}

func NewCommentHandler(comments *services.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

// owned loads the comment named by the URL. Anything but the author's own
// comment on that very post is a 404.
func (h *CommentHandler) owned(c *gin.Context) (*models.Comment, bool) {
	postID, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return nil, false
	}
	comment, err := h.comments.GetOwned(c.Request.Context(), postID, commentID, middleware.CurrentUser(c))
	if errors.Is(err, services.ErrNotOwner) {
		notFound(c)
		return nil, false
	}
	if err != nil {
		fail(c, h.log, err)
		return nil, false
	}
	return comment, true
}

func (h *CommentHandler) render(c *gin.Context, code int, comment *models.Comment, data gin.H) {
	data["Comment"] = comment
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	Render(c, code, "blog/comment.html", data)
}

func (h *CommentHandler) ShowEdit(c *gin.Context) {
	comment, ok := h.owned(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, comment, gin.H{
		"Title":  "Edit comment",
		"Action": fmt.Sprintf("/posts/%d/edit_comment/%d", comment.PostID, comment.ID),
		"Form":   forms.CommentForm{Text: comment.Text},
	})
}

func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := h.owned(c)
	if !ok {
		return
	}

	var form forms.CommentForm
	if err := forms.Bind(c, &form); err != nil {
		errs, _ := forms.AsErrors(err)
		h.render(c, http.StatusBadRequest, comment, gin.H{
			"Title":  "Edit comment",
			"Action": fmt.Sprintf("/posts/%d/edit_comment/%d", comment.PostID, comment.ID),
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	if _, err := h.comments.Update(c.Request.Context(), comment.PostID, comment.ID, middleware.CurrentUser(c), &form); err != nil {
		fail(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", comment.PostID))
}

func (h *CommentHandler) ShowDelete(c *gin.Context) {
	comment, ok := h.owned(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, comment, gin.H{
		"Title":    "Delete comment",
		"Action":   fmt.Sprintf("/posts/%d/delete_comment/%d", comment.PostID, comment.ID),
		"Form":     forms.CommentForm{Text: comment.Text},
		"Deleting": true,
	})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := h.owned(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), comment.PostID, comment.ID, middleware.CurrentUser(c)); err != nil {
		fail(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", comment.PostID))
}
