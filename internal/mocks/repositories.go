package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/article-comments-api/internal/models"
	"github.com/article-comments-api/internal/repository"
)

// MockDocumentStore is an in-memory DocumentStore. Load and Save copy the
// corpus so callers never share slices with the stored state.
type MockDocumentStore struct {
	mu        sync.Mutex
	Corpus    models.Corpus
	LoadError error
	SaveError error
	Loads     int
	Saves     int
}

// Verify interface compliance
var _ repository.DocumentStore = (*MockDocumentStore)(nil)

func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{Corpus: models.Corpus{}}
}

func (m *MockDocumentStore) Load(ctx context.Context) models.Corpus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	return CopyCorpus(m.Corpus)
}

// LoadStrict returns LoadError when set, otherwise a copy of the corpus
func (m *MockDocumentStore) LoadStrict(ctx context.Context) (models.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return CopyCorpus(m.Corpus), nil
}

func (m *MockDocumentStore) Save(ctx context.Context, corpus models.Corpus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saves++
	m.Corpus = CopyCorpus(corpus)
	return nil
}

// CopyCorpus returns a deep copy of a corpus
func CopyCorpus(src models.Corpus) models.Corpus {
	dst := make(models.Corpus, len(src))
	for articleID, comments := range src {
		copied := make([]models.Comment, len(comments))
		for i, c := range comments {
			copied[i] = c
			copied[i].Replies = append([]models.Reply{}, c.Replies...)
		}
		dst[articleID] = copied
	}
	return dst
}

// SequentialIDs hands out "1", "2", "3", ...
type SequentialIDs struct {
	mu   sync.Mutex
	next int
}

var _ repository.IDGenerator = (*SequentialIDs)(nil)

func (g *SequentialIDs) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%d", g.next)
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mu             sync.Mutex
	Comments       models.Corpus
	AddCommentFunc func(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error)
	AddReplyFunc   func(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error)
	ListError      error
	nextID         int
}

var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: models.Corpus{}}
}

func (m *MockCommentRepository) List(ctx context.Context, articleID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	return CopyCorpus(m.Comments).Comments(articleID), nil
}

func (m *MockCommentRepository) AddComment(ctx context.Context, articleID string, in models.CommentInput) (*models.Comment, error) {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, articleID, in)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c := models.Comment{
		ID:      fmt.Sprintf("c%d", m.nextID),
		Author:  in.Author,
		Email:   in.Email,
		Website: in.Website,
		Content: in.Content,
		Date:    "1/1/2026, 12:00:00 PM",
		Replies: []models.Reply{},
	}
	m.Comments[articleID] = append(m.Comments[articleID], c)
	return &c, nil
}

func (m *MockCommentRepository) AddReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (*models.Reply, error) {
	if m.AddReplyFunc != nil {
		return m.AddReplyFunc(ctx, articleID, commentID, in)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Comments[articleID]) == 0 {
		return nil, &models.NotFoundError{Resource: models.ResourceArticle, ID: articleID}
	}
	idx := m.Comments.FindComment(articleID, commentID)
	if idx < 0 {
		return nil, &models.NotFoundError{Resource: models.ResourceComment, ID: commentID}
	}
	m.nextID++
	r := models.Reply{
		ID:      fmt.Sprintf("r%d", m.nextID),
		Author:  in.Author,
		Email:   in.Email,
		Website: in.Website,
		Content: in.Content,
		Date:    "1/1/2026, 12:00:00 PM",
	}
	m.Comments[articleID][idx].Replies = append(m.Comments[articleID][idx].Replies, r)
	return &r, nil
}

func (m *MockCommentRepository) Stats(ctx context.Context) (models.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats models.Stats
	for _, comments := range m.Comments {
		stats.Articles++
		stats.Comments += len(comments)
		for _, c := range comments {
			stats.Replies += len(c.Replies)
		}
	}
	return stats, nil
}
