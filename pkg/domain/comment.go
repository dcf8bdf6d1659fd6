package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommentID uniquely identifies a comment.
type CommentID uuid.UUID

// Comment is a reader response attached to an article. A comment may reply to
// another comment; reply nesting is limited to one level.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID CommentID `json:"id"`
	// ArticleID is the article the comment belongs to.
	ArticleID ArticleID `json:"articleId"`
	// AuthorID is the user who wrote the comment.
	AuthorID UserID `json:"authorId"`
	// ParentID is set when the comment is a reply to another comment.
	ParentID *CommentID `json:"parentId,omitempty"`

	// Body is the comment text.
	Body string `json:"body"`
	// IsApproved controls visibility; only approved comments are listed publicly.
	IsApproved bool `json:"isApproved"`

	// CreatedAt is the time the comment was posted.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time the comment was last edited.
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt marks when the comment was soft-deleted; zero value means not deleted.
	DeletedAt time.Time `json:"-"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c Comment) IsReply() bool { return c.ParentID != nil }

// CanEdit reports whether the given user may edit this comment.
// Only the comment author can edit their own text.
func (c Comment) CanEdit(u User) bool { return c.AuthorID == u.ID }

// CanDelete reports whether the given user may delete this comment.
// The author or staff can delete.
func (c Comment) CanDelete(u User) bool { return c.AuthorID == u.ID || u.IsStaff }
