package models

// EventKind identifies the type of a real-time event
type EventKind string

const (
	EventNewComment EventKind = "newComment"
	EventNewReply   EventKind = "newReply"
)

// Event is pushed to live subscribers when a comment or reply is created
type Event struct {
	Kind      EventKind `json:"kind"`
	ArticleID string    `json:"articleId"`
	CommentID string    `json:"commentId,omitempty"`
	Comment   *Comment  `json:"comment,omitempty"`
	Reply     *Reply    `json:"reply,omitempty"`
}

// NewCommentEvent builds a newComment event
func NewCommentEvent(articleID string, comment Comment) Event {
	return Event{
		Kind:      EventNewComment,
		ArticleID: articleID,
		Comment:   &comment,
	}
}

// NewReplyEvent builds a newReply event
func NewReplyEvent(articleID, commentID string, reply Reply) Event {
	return Event{
		Kind:      EventNewReply,
		ArticleID: articleID,
		CommentID: commentID,
		Reply:     &reply,
	}
}
