package repository

import (
	"time"

	"github.com/rs/zerolog"
)

// NewCommentRepoWithClock exposes the clock-injecting constructor to tests
func NewCommentRepoWithClock(store DocumentStore, ids IDGenerator, now func() time.Time) CommentRepository {
	return newCommentRepo(store, ids, zerolog.Nop(), now)
}
