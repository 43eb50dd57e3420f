package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pubDateInput = "2006-01-02T15:04"

type PostHandler struct {
	posts    *services.PostService
	comments *services.CommentService
	mail     *services.MailService
	log      *zap.Logger
}

func NewPostHandler(posts *services.PostService, comments *services.CommentService, mail *services.MailService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, mail: mail, log: log}
}

// Index lists every publicly visible post.
func (h *PostHandler) Index(c *gin.Context) {
	page, err := h.posts.ListPublished(c.Request.Context(), pageParam(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "blog/index.html", gin.H{"Page": page})
}

// CategoryPosts lists the public posts of one published category.
func (h *PostHandler) CategoryPosts(c *gin.Context) {
	category, page, err := h.posts.ListByCategory(c.Request.Context(), c.Param("slug"), pageParam(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "blog/category.html", gin.H{
		"Title":    category.Title,
		"Category": category,
		"Page":     page,
	})
}

func (h *PostHandler) renderDetail(c *gin.Context, code int, post *models.Post, form forms.CommentForm, errs forms.Errors) {
	comments, err := h.comments.ListForPost(c.Request.Context(), post.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	Render(c, code, "blog/detail.html", gin.H{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
		"Form":     form,
		"Errors":   errs,
	})
}

// Detail shows a post with its comments. Hidden posts are only shown to
// their author.
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := h.posts.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.renderDetail(c, http.StatusOK, post, forms.CommentForm{}, forms.Errors{})
}

func postFormFrom(post *models.Post) forms.PostForm {
	form := forms.PostForm{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate.UTC().Format(pubDateInput),
		IsPublished: post.IsPublished,
	}
	if post.CategoryID != nil {
		form.CategoryID = *post.CategoryID
	}
	if post.LocationID != nil {
		form.LocationID = *post.LocationID
	}
	return form
}

// renderForm shows the post form. data carries Form, Errors and, when
// editing, Post.
func (h *PostHandler) renderForm(c *gin.Context, code int, data gin.H) {
	ctx := c.Request.Context()
	categories, err := h.posts.Categories(ctx)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	locations, err := h.posts.Locations(ctx)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	data["Categories"] = categories
	data["Locations"] = locations
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	Render(c, code, "blog/create.html", data)
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, gin.H{
		"Title":  "New post",
		"Action": "/posts/create/",
		"Form": forms.PostForm{
			PubDate:     time.Now().UTC().Format(pubDateInput),
			IsPublished: true,
		},
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form forms.PostForm
	err := forms.Bind(c, &form)
	if err == nil {
		_, err = h.posts.Create(c.Request.Context(), user, &form)
	}
	if errs, ok := forms.AsErrors(err); ok {
		h.renderForm(c, http.StatusBadRequest, gin.H{
			"Title":  "New post",
			"Action": "/posts/create/",
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

// owned loads a post for mutation. Non-authors are sent back to the detail
// page.
func (h *PostHandler) owned(c *gin.Context) (*models.Post, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	post, err := h.posts.GetOwned(c.Request.Context(), id, middleware.CurrentUser(c))
	if errors.Is(err, services.ErrNotOwner) {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", id))
		return nil, false
	}
	if err != nil {
		fail(c, h.log, err)
		return nil, false
	}
	return post, true
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := h.owned(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, gin.H{
		"Title":  "Edit post",
		"Action": fmt.Sprintf("/posts/%d/edit/", post.ID),
		"Post":   post,
		"Form":   postFormFrom(post),
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.owned(c)
	if !ok {
		return
	}

	var form forms.PostForm
	err := forms.Bind(c, &form)
	if err == nil {
		_, err = h.posts.Update(c.Request.Context(), post.ID, middleware.CurrentUser(c), &form)
	}
	if errs, ok := forms.AsErrors(err); ok {
		h.renderForm(c, http.StatusBadRequest, gin.H{
			"Title":  "Edit post",
			"Action": fmt.Sprintf("/posts/%d/edit/", post.ID),
			"Post":   post,
			"Form":   form,
			"Errors": errs,
		})
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

// ShowDelete asks for confirmation, re-rendering the post form page with the
// post in place of the inputs.
func (h *PostHandler) ShowDelete(c *gin.Context) {
	post, ok := h.owned(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, gin.H{
		"Title":    "Delete post",
		"Action":   fmt.Sprintf("/posts/%d/delete/", post.ID),
		"Post":     post,
		"Form":     postFormFrom(post),
		"Deleting": true,
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.owned(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.posts.Delete(c.Request.Context(), post.ID, user); err != nil {
		fail(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(user.Username))
}

// CreateComment adds a comment to a post the requester can see.
func (h *PostHandler) CreateComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	var form forms.CommentForm
	if err := forms.Bind(c, &form); err != nil {
		post, perr := h.posts.Get(ctx, id, user)
		if perr != nil {
			fail(c, h.log, perr)
			return
		}
		errs, _ := forms.AsErrors(err)
		h.renderDetail(c, http.StatusBadRequest, post, form, errs)
		return
	}

	comment, post, err := h.comments.Create(ctx, id, user, &form)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if h.mail != nil && post.AuthorID != user.ID && post.Author.Email != "" {
		link := fmt.Sprintf("%s://%s/posts/%d/#comment-%d", scheme(c), c.Request.Host, post.ID, comment.ID)
		h.mail.SendCommentNotification(post.Author.Email, user.Username, post.Title, comment.Text, link)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

func scheme(c *gin.Context) string {
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		return "https"
	}
	return "http"
}
