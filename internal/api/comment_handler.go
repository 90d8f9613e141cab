package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/article-comments-api/internal/models"
	"github.com/article-comments-api/internal/service"
	"github.com/article-comments-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListComments handles GET /api/comments/:articleId
func (h *CommentHandler) ListComments(c *gin.Context) {
	articleID := c.Param("articleId")

	comments, err := h.services.Comment.GetComments(c.Request.Context(), articleID)
	if err != nil {
		h.writeError(c, err, "failed to load comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /api/comments/:articleId
func (h *CommentHandler) CreateComment(c *gin.Context) {
	articleID := c.Param("articleId")

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	comment, err := h.services.Comment.PostComment(c.Request.Context(), articleID, in)
	if err != nil {
		h.writeError(c, err, "failed to save comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// CreateReply handles POST /api/comments/:articleId/reply/:commentId
func (h *CommentHandler) CreateReply(c *gin.Context) {
	articleID := c.Param("articleId")
	commentID := c.Param("commentId")

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	reply, err := h.services.Comment.PostReply(c.Request.Context(), articleID, commentID, in)
	if err != nil {
		h.writeError(c, err, "failed to save reply")
		return
	}

	c.JSON(http.StatusOK, reply)
}

// bindInput decodes the JSON body. An empty body decodes to empty input so
// the missing-field check reports it.
func (h *CommentHandler) bindInput(c *gin.Context) (models.CommentInput, bool) {
	var in models.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return in, false
	}
	return in, true
}

func (h *CommentHandler) writeError(c *gin.Context, err error, failure string) {
	var notFound *models.NotFoundError
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.RequiredFieldsMessage})
	case errors.As(err, &notFound):
		msg := "Comment not found"
		if notFound.Resource == models.ResourceArticle {
			msg = "Article not found"
		}
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Request cancelled")
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(failure)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}
