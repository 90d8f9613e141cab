package repository

import (
	"context"

	"github.com/article-comments-api/internal/models"
	"github.com/rs/zerolog"
)

// DocumentStore loads and saves the whole comment corpus. Load degrades to
// an empty corpus on failure; LoadStrict reports read and parse errors.
type DocumentStore interface {
	Load(ctx context.Context) models.Corpus
	LoadStrict(ctx context.Context) (models.Corpus, error)
	Save(ctx context.Context, corpus models.Corpus) error
}

// IDGenerator produces unique comment and reply identifiers
type IDGenerator interface {
	NextID() string
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	List(ctx context.Context, articleID string) ([]models.Comment, error)
	AddComment(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error)
	AddReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
}

// New creates all repositories on top of the given document store
func New(store DocumentStore, ids IDGenerator, log zerolog.Logger) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(store, ids, log),
	}
}
