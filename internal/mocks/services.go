package mocks

import (
	"context"
	"sync"

	"github.com/article-comments-api/internal/models"
	"github.com/article-comments-api/internal/service"
)

// MockPublisher records every published event
type MockPublisher struct {
	mu          sync.Mutex
	Events      []models.Event
	Subscribers int
}

// Verify interface compliance
var _ service.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]models.Event, 0)}
}

func (m *MockPublisher) PublishNewComment(articleID string, comment models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, models.NewCommentEvent(articleID, comment))
}

func (m *MockPublisher) PublishNewReply(articleID, commentID string, reply models.Reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, models.NewReplyEvent(articleID, commentID, reply))
}

func (m *MockPublisher) SubscriberCount() int {
	return m.Subscribers
}

// Published returns a copy of the recorded events
func (m *MockPublisher) Published() []models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Event{}, m.Events...)
}

// MockRecorder counts created comments by kind
type MockRecorder struct {
	mu      sync.Mutex
	Created map[string]int
}

var _ service.Recorder = (*MockRecorder)(nil)

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{Created: make(map[string]int)}
}

func (m *MockRecorder) CommentCreated(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created[kind]++
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	GetCommentsFunc func(ctx context.Context, articleID string) ([]models.Comment, error)
	PostCommentFunc func(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error)
	PostReplyFunc   func(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error)
	StatsFunc       func(ctx context.Context) (models.Stats, error)
}

var _ service.CommentService = (*MockCommentService)(nil)

func (m *MockCommentService) GetComments(ctx context.Context, articleID string) ([]models.Comment, error) {
	if m.GetCommentsFunc != nil {
		return m.GetCommentsFunc(ctx, articleID)
	}
	return []models.Comment{}, nil
}

func (m *MockCommentService) PostComment(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error) {
	if m.PostCommentFunc != nil {
		return m.PostCommentFunc(ctx, articleID, in)
	}
	return &models.Comment{ID: "c1", Author: in.Author, Content: in.Content, Replies: []models.Reply{}}, nil
}

func (m *MockCommentService) PostReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error) {
	if m.PostReplyFunc != nil {
		return m.PostReplyFunc(ctx, articleID, commentID, in)
	}
	return &models.Reply{ID: "r1", Author: in.Author, Content: in.Content}, nil
}

func (m *MockCommentService) Stats(ctx context.Context) (models.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return models.Stats{}, nil
}
