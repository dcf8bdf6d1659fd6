package storage

import (
	"context"
	"driftblog/pkg/domain"
)

// CommentUpdates describes optional fields applied to an existing comment.
// Only non-nil fields are written.
type CommentUpdates struct {
	// Body, when provided, replaces the comment text.
	Body *string
	// IsApproved, when provided, sets the moderation flag.
	IsApproved *bool
}

// CommentStorage defines CRUD operations for comments. Deletes are soft.
type CommentStorage interface {
	// StoreComment inserts a new comment and returns the stored row.
	StoreComment(ctx context.Context, comment domain.Comment) (*domain.Comment, error)
	// CommentByID fetches a comment by ID, excluding soft-deleted rows.
	// Returns nil when not found.
	CommentByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error)
	// ArticleComments returns the comments of an article ordered by created_at
	// ASC. When approvedOnly is true, unapproved comments are excluded.
	ArticleComments(ctx context.Context, articleID domain.ArticleID, approvedOnly bool) ([]domain.Comment, error)
	// UpdateCommentByID applies the provided updates and returns the updated
	// row, or nil when the comment does not exist. updated_at is set automatically.
	UpdateCommentByID(ctx context.Context, id domain.CommentID, updates CommentUpdates) (*domain.Comment, error)
	// DeleteComment performs a soft delete and returns the deleted comment, or
	// nil when it was not found. Replies to the comment are left in place.
	DeleteComment(ctx context.Context, id domain.CommentID) (*domain.Comment, error)
}
