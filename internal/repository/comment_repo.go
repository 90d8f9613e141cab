package repository

import (
	"context"
	"sync"
	"time"

	"github.com/article-comments-api/internal/models"
	"github.com/article-comments-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentRepo is the concrete implementation of CommentRepository.
// It is the only writer of the corpus.
type commentRepo struct {
	store     DocumentStore
	ids       IDGenerator
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time

	// writeMu serializes every load-mutate-save cycle
	writeMu sync.Mutex
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(store DocumentStore, ids IDGenerator, log zerolog.Logger) CommentRepository {
	return newCommentRepo(store, ids, log, time.Now)
}

func newCommentRepo(store DocumentStore, ids IDGenerator, log zerolog.Logger, now func() time.Time) *commentRepo {
	return &commentRepo{
		store:     store,
		ids:       ids,
		validator: validation.NewValidator(),
		log:       log.With().Str("component", "comment_repository").Logger(),
		now:       now,
	}
}

// List returns the comments of an article, or an empty slice
func (r *commentRepo) List(ctx context.Context, articleID string) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Load(ctx).Comments(articleID), nil
}

// AddComment appends a new top-level comment to an article
func (r *commentRepo) AddComment(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error) {
	if err := r.validator.ValidateInput(in); err != nil {
		return nil, err
	}

	var created models.Comment
	err := r.update(ctx, func(corpus models.Corpus) error {
		created = models.NewComment(r.ids.NextID(), in, r.now())
		corpus[articleID] = append(corpus[articleID], created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Str("article_id", articleID).
		Str("comment_id", created.ID).
		Msg("Comment added")

	return &created, nil
}

// AddReply appends a reply to an existing comment
func (r *commentRepo) AddReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error) {
	if err := r.validator.ValidateInput(in); err != nil {
		return nil, err
	}

	var created models.Reply
	err := r.update(ctx, func(corpus models.Corpus) error {
		if len(corpus[articleID]) == 0 {
			return &models.NotFoundError{Resource: models.ResourceArticle, ID: articleID}
		}
		idx := corpus.FindComment(articleID, commentID)
		if idx < 0 {
			return &models.NotFoundError{Resource: models.ResourceComment, ID: commentID}
		}

		created = models.NewReply(r.ids.NextID(), in, r.now())
		parent := &corpus[articleID][idx]
		parent.Replies = append(parent.Replies, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Str("article_id", articleID).
		Str("comment_id", commentID).
		Str("reply_id", created.ID).
		Msg("Reply added")

	return &created, nil
}

// Stats counts articles, comments and replies in the stored corpus
func (r *commentRepo) Stats(ctx context.Context) (models.Stats, error) {
	if err := ctx.Err(); err != nil {
		return models.Stats{}, err
	}

	var stats models.Stats
	for _, comments := range r.store.Load(ctx) {
		if len(comments) == 0 {
			continue
		}
		stats.Articles++
		stats.Comments += len(comments)
		for _, c := range comments {
			stats.Replies += len(c.Replies)
		}
	}
	return stats, nil
}

// update runs one load-mutate-save cycle under the write lock. A load or
// mutation error aborts the cycle without saving.
func (r *commentRepo) update(ctx context.Context, mutate func(models.Corpus) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	corpus, err := r.store.LoadStrict(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.log.Error().Err(err).Msg("Refusing to write over unreadable comments")
		return &models.PersistenceError{Op: "load comments", Err: err}
	}
	if corpus == nil {
		corpus = models.Corpus{}
	}
	if err := mutate(corpus); err != nil {
		return err
	}

	if err := r.store.Save(ctx, corpus); err != nil {
		return &models.PersistenceError{Op: "save comments", Err: err}
	}
	return nil
}
