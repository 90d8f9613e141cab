package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/article-comments-api/internal/broadcast"
	"github.com/article-comments-api/internal/mocks"
	"github.com/article-comments-api/internal/models"
	"github.com/article-comments-api/internal/repository"
	"github.com/article-comments-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       service.CommentService
	publisher *mocks.MockPublisher
	recorder  *mocks.MockRecorder
	store     *mocks.MockDocumentStore
}

func newFixture() fixture {
	store := mocks.NewMockDocumentStore()
	repos := repository.New(store, &mocks.SequentialIDs{}, zerolog.Nop())
	publisher := mocks.NewMockPublisher()
	recorder := mocks.NewMockRecorder()
	services := service.NewServices(repos, publisher, recorder, zerolog.Nop())
	return fixture{svc: services.Comment, publisher: publisher, recorder: recorder, store: store}
}

func TestPostComment_PublishesOnce(t *testing.T) {
	f := newFixture()

	comment, err := f.svc.PostComment(context.Background(), "post-1", models.CommentInput{Author: "Alice", Content: "Nice post!"})
	require.NoError(t, err)

	events := f.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventNewComment, events[0].Kind)
	assert.Equal(t, "post-1", events[0].ArticleID)
	assert.Equal(t, *comment, *events[0].Comment)
	assert.Equal(t, 1, f.recorder.Created["newComment"])
}

func TestPostReply_PublishesOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	parent, err := f.svc.PostComment(ctx, "post-1", models.CommentInput{Author: "Alice", Content: "Nice post!"})
	require.NoError(t, err)
	reply, err := f.svc.PostReply(ctx, "post-1", parent.ID, models.CommentInput{Author: "Bob", Content: "Thanks!"})
	require.NoError(t, err)

	events := f.publisher.Published()
	require.Len(t, events, 2)
	assert.Equal(t, models.EventNewReply, events[1].Kind)
	assert.Equal(t, parent.ID, events[1].CommentID)
	assert.Equal(t, *reply, *events[1].Reply)
	assert.Equal(t, 1, f.recorder.Created["newReply"])
}

func TestPost_ErrorsPropagateWithoutEvents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.PostComment(ctx, "post-1", models.CommentInput{Author: "", Content: "hello"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.svc.PostReply(ctx, "post-1", "missing", models.CommentInput{Author: "A", Content: "hi"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	f.store.SaveError = errors.New("read-only filesystem")
	_, err = f.svc.PostComment(ctx, "post-1", models.CommentInput{Author: "A", Content: "hi"})
	assert.ErrorIs(t, err, models.ErrPersistence)

	assert.Empty(t, f.publisher.Published())
	assert.Empty(t, f.recorder.Created)
}

func TestGetComments_Delegates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	empty, err := f.svc.GetComments(ctx, "post-1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.PostComment(ctx, "post-1", models.CommentInput{Author: "Alice", Content: "hi"})
	require.NoError(t, err)

	comments, err := f.svc.GetComments(ctx, "post-1")
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Len(t, f.publisher.Published(), 1, "reads must not publish")
}

func TestStats_IncludesSubscribers(t *testing.T) {
	f := newFixture()
	f.publisher.Subscribers = 3
	_, err := f.svc.PostComment(context.Background(), "post-1", models.CommentInput{Author: "Alice", Content: "hi"})
	require.NoError(t, err)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Articles: 1, Comments: 1, Subscribers: 3}, stats)
}

func TestPostComment_RealBroadcaster(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	repos := repository.New(store, &mocks.SequentialIDs{}, zerolog.Nop())
	b := broadcast.New(4, nil, zerolog.Nop())
	svc := service.NewServices(repos, b, nil, zerolog.Nop()).Comment

	subscribed := b.Subscribe()
	gone := b.Subscribe()
	b.Unsubscribe(gone)

	_, err := svc.PostComment(context.Background(), "post-1", models.CommentInput{Author: "Alice", Content: "hi"})
	require.NoError(t, err)

	select {
	case ev := <-subscribed.Events():
		assert.Equal(t, models.EventNewComment, ev.Kind)
	default:
		t.Fatal("subscriber should have an event")
	}
	assert.Len(t, subscribed.Events(), 0, "exactly one event per write")

	_, open := <-gone.Events()
	assert.False(t, open)
}

func newRepoFixture(repo *mocks.MockCommentRepository) fixture {
	publisher := mocks.NewMockPublisher()
	recorder := mocks.NewMockRecorder()
	services := service.NewServices(&repository.Repositories{Comment: repo}, publisher, recorder, zerolog.Nop())
	return fixture{svc: services.Comment, publisher: publisher, recorder: recorder}
}

func TestPost_RepositoryErrorsReachCallerUnchanged(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	f := newRepoFixture(repo)
	ctx := context.Background()

	saveErr := &models.PersistenceError{Op: "save comments", Err: errors.New("disk full")}
	repo.AddCommentFunc = func(context.Context, string, models.CommentInput) (*models.Comment, error) {
		return nil, saveErr
	}
	notFound := &models.NotFoundError{Resource: models.ResourceComment, ID: "c9"}
	repo.AddReplyFunc = func(context.Context, string, string, models.CommentInput) (*models.Reply, error) {
		return nil, notFound
	}

	comment, err := f.svc.PostComment(ctx, "post-1", models.CommentInput{Author: "Alice", Content: "hi"})
	assert.Nil(t, comment)
	assert.Same(t, saveErr, err)

	reply, err := f.svc.PostReply(ctx, "post-1", "c9", models.CommentInput{Author: "Bob", Content: "hi"})
	assert.Nil(t, reply)
	assert.Same(t, notFound, err)

	assert.Empty(t, f.publisher.Published())
	assert.Empty(t, f.recorder.Created)
}

func TestGetComments_ListErrorPropagates(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	repo.ListError = context.DeadlineExceeded
	f := newRepoFixture(repo)

	comments, err := f.svc.GetComments(context.Background(), "post-1")
	assert.Nil(t, comments)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPostReply_PublishesRepositoryResult(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	f := newRepoFixture(repo)
	f.publisher.Subscribers = 2
	ctx := context.Background()

	parent, err := f.svc.PostComment(ctx, "post-1", models.CommentInput{Author: "Alice", Content: "hi"})
	require.NoError(t, err)
	reply, err := f.svc.PostReply(ctx, "post-1", parent.ID, models.CommentInput{Author: "Bob", Content: "thanks"})
	require.NoError(t, err)

	events := f.publisher.Published()
	require.Len(t, events, 2)
	assert.Equal(t, parent.ID, events[1].CommentID)
	assert.Equal(t, *reply, *events[1].Reply)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Articles: 1, Comments: 1, Replies: 1, Subscribers: 2}, stats)
}
