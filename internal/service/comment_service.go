package service

import (
	"context"

	"github.com/article-comments-api/internal/models"
	"github.com/article-comments-api/internal/repository"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repo      repository.CommentRepository
	publisher Publisher
	recorder  Recorder
	log       zerolog.Logger
}

func newCommentService(repo repository.CommentRepository, publisher Publisher, recorder Recorder, log zerolog.Logger) *commentService {
	return &commentService{
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// GetComments lists the comments of an article
func (s *commentService) GetComments(ctx context.Context, articleID string) ([]models.Comment, error) {
	return s.repo.List(ctx, articleID)
}

// PostComment persists a comment, then notifies subscribers
func (s *commentService) PostComment(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error) {
	comment, err := s.repo.AddComment(ctx, articleID, in)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.CommentCreated(string(models.EventNewComment))
	}
	s.publisher.PublishNewComment(articleID, *comment)

	s.log.Info().
		Str("article_id", articleID).
		Str("comment_id", comment.ID).
		Str("author", comment.Author).
		Msg("Comment posted")

	return comment, nil
}

// PostReply persists a reply, then notifies subscribers
func (s *commentService) PostReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error) {
	reply, err := s.repo.AddReply(ctx, articleID, commentID, in)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.CommentCreated(string(models.EventNewReply))
	}
	s.publisher.PublishNewReply(articleID, commentID, *reply)

	s.log.Info().
		Str("article_id", articleID).
		Str("comment_id", commentID).
		Str("reply_id", reply.ID).
		Str("author", reply.Author).
		Msg("Reply posted")

	return reply, nil
}

// Stats reports corpus counts and live subscribers
func (s *commentService) Stats(ctx context.Context) (models.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	stats.Subscribers = s.publisher.SubscriberCount()
	return stats, nil
}
