package models

import (
	"time"
)

// DateLayout is the human-readable layout used for comment and reply dates
const DateLayout = "1/2/2006, 3:04:05 PM"

// Comment represents a top-level comment on an article
type Comment struct {
	ID      string  `json:"id" yaml:"id"`
	Author  string  `json:"author" yaml:"author"`
	Email   string  `json:"email" yaml:"email"`
	Website string  `json:"website" yaml:"website"`
	Content string  `json:"content" yaml:"content"`
	Date    string  `json:"date" yaml:"date"`
	Replies []Reply `json:"replies" yaml:"replies"`
}

// Reply represents a reply to a top-level comment. Replies do not nest.
type Reply struct {
	ID      string `json:"id" yaml:"id"`
	Author  string `json:"author" yaml:"author"`
	Email   string `json:"email" yaml:"email"`
	Website string `json:"website" yaml:"website"`
	Content string `json:"content" yaml:"content"`
	Date    string `json:"date" yaml:"date"`
}

// Corpus maps an article identifier to its comments in insertion order
type Corpus map[string][]Comment

// CommentInput is the request body for creating a comment or a reply
type CommentInput struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// Stats summarizes the stored corpus
type Stats struct {
	Articles    int `json:"articles"`
	Comments    int `json:"comments"`
	Replies     int `json:"replies"`
	Subscribers int `json:"subscribers"`
}

// NewComment builds a comment with an empty reply list
func NewComment(id string, in CommentInput, now time.Time) Comment {
	return Comment{
		ID:      id,
		Author:  in.Author,
		Email:   in.Email,
		Website: in.Website,
		Content: in.Content,
		Date:    now.Format(DateLayout),
		Replies: []Reply{},
	}
}

// NewReply builds a reply
func NewReply(id string, in CommentInput, now time.Time) Reply {
	return Reply{
		ID:      id,
		Author:  in.Author,
		Email:   in.Email,
		Website: in.Website,
		Content: in.Content,
		Date:    now.Format(DateLayout),
	}
}

// Comments returns the comments stored for an article, never nil
func (c Corpus) Comments(articleID string) []Comment {
	comments, ok := c[articleID]
	if !ok || comments == nil {
		return []Comment{}
	}
	for i := range comments {
		if comments[i].Replies == nil {
			comments[i].Replies = []Reply{}
		}
	}
	return comments
}

// FindComment returns the index of the comment with the given ID, or -1
func (c Corpus) FindComment(articleID, commentID string) int {
	for i, comment := range c[articleID] {
		if comment.ID == commentID {
			return i
		}
	}
	return -1
}
