// Package articles implements the article and comment business logic:
// creation, listing with search and pagination, view counting, permission
// checks, image uploads and comment moderation.
package articles

import (
	"context"
	"driftblog/pkg/domain"
	"driftblog/pkg/storage"
	"io"
)

// CreateParams carries the fields needed to create an article.
type CreateParams struct {
	Title           string
	Body            string
	MetaDescription string
}

// UpdateParams carries optional article fields to change. Nil fields are left
// untouched.
type UpdateParams struct {
	Title           *string
	Body            *string
	MetaDescription *string
}

// ListParams filters and paginates the published-article listing.
type ListParams struct {
	// Search restricts results to articles containing the term in title, body
	// or author username.
	Search string
	// Author, when non-empty, restricts results to the given username.
	Author string
	// Cursor is an opaque position from a previous page's next cursor.
	Cursor string
	// Limit caps the page size.
	Limit uint
}

// Listing is one page of the article list plus aggregate counts.
type Listing struct {
	Articles   []domain.Article
	NextCursor string
	Stats      storage.ArticleStats
}

// Detail is a single article together with related articles by the same author.
type Detail struct {
	Article domain.Article
	Related []domain.Article
}

// Articles provides article CRUD and comment operations.
type Articles interface {
	// Create stores a new article authored by the caller. A missing meta
	// description is generated from the body.
	Create(ctx context.Context, author domain.User, params CreateParams) (*domain.Article, error)
	// Get returns an article and its related articles, incrementing the view
	// counter unless the viewer is the author. Unpublished articles are only
	// visible to their author and staff.
	Get(ctx context.Context, viewer *domain.User, id domain.ArticleID) (*Detail, error)
	// List returns a page of published articles.
	List(ctx context.Context, params ListParams) (*Listing, error)
	// Update modifies an article; only the author or staff may do so.
	Update(ctx context.Context, caller domain.User, id domain.ArticleID, params UpdateParams) (*domain.Article, error)
	// Delete soft-deletes an article; only the author or staff may do so. The
	// header image file, if any, is removed best-effort.
	Delete(ctx context.Context, caller domain.User, id domain.ArticleID) error
	// SetPublished publishes or unpublishes an article; staff only.
	SetPublished(ctx context.Context,
		caller domain.User,
		id domain.ArticleID,
		published bool) (*domain.Article, error)
	// AttachImage stores an uploaded header image under the media directory and
	// enqueues a background job that downscales oversized images.
	AttachImage(ctx context.Context,
		caller domain.User,
		id domain.ArticleID,
		filename string,
		data io.Reader) (*domain.Article, error)

	// AddComment posts a comment or, when parentID is set, a reply. Replies to
	// replies are rejected.
	AddComment(ctx context.Context,
		author domain.User,
		articleID domain.ArticleID,
		parentID *domain.CommentID,
		body string) (*domain.Comment, error)
	// Comments lists an article's comments. Staff and the article author see
	// unapproved ones too.
	Comments(ctx context.Context, viewer *domain.User, articleID domain.ArticleID) ([]domain.Comment, error)
	// EditComment changes the text of the caller's own comment.
	EditComment(ctx context.Context,
		caller domain.User,
		id domain.CommentID,
		body string) (*domain.Comment, error)
	// DeleteComment soft-deletes a comment; the author or staff may do so.
	DeleteComment(ctx context.Context, caller domain.User, id domain.CommentID) error
	// ModerateComment approves or rejects a comment; allowed for staff and the
	// author of the commented article.
	ModerateComment(ctx context.Context,
		caller domain.User,
		id domain.CommentID,
		approved bool) (*domain.Comment, error)
}
