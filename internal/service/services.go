package service

import (
	"context"

	"github.com/article-comments-api/internal/models"
	"github.com/article-comments-api/internal/repository"
	"github.com/rs/zerolog"
)

// CommentService defines the comment use cases exposed at the boundary
type CommentService interface {
	GetComments(ctx context.Context, articleID string) ([]models.Comment, error)
	PostComment(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error)
	PostReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// Publisher pushes creation events to live subscribers
type Publisher interface {
	PublishNewComment(articleID string, comment models.Comment)
	PublishNewReply(articleID, commentID string, reply models.Reply)
	SubscriberCount() int
}

// Recorder counts persisted comments. *metrics.Metrics satisfies it.
type Recorder interface {
	CommentCreated(kind string)
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, publisher Publisher, recorder Recorder, log zerolog.Logger) *Services {
	return &Services{
		Comment: newCommentService(repos.Comment, publisher, recorder, log),
	}
}
