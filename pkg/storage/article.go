package storage

import (
	"context"
	"driftblog/pkg/domain"
	"time"
)

// ArticleUpdates describes a set of optional fields that can be applied to an
// existing article during an update. Only non-nil fields are written.
type ArticleUpdates struct {
	// Title, when provided, replaces the article title.
	Title *string
	// Body, when provided, replaces the article body.
	Body *string
	// MetaDescription, when provided, replaces the SEO description. An empty
	// string value clears it.
	MetaDescription *string
	// ImagePath, when provided, sets the header image path. An empty string
	// value removes the image reference.
	ImagePath *string
	// IsPublished, when provided, toggles public visibility.
	IsPublished *bool
}

// ArticleCursor is a pagination position in the created_at DESC, id DESC
// listing order. The ID tie-breaks rows sharing a creation timestamp so no
// row is skipped or repeated across pages.
type ArticleCursor struct {
	// CreatedAt is the creation timestamp of the last row of the previous page.
	CreatedAt time.Time
	// ID is the article ID of that row.
	ID domain.ArticleID
}

// ArticleQuery filters and paginates published-article listings.
type ArticleQuery struct {
	// Search, when non-empty, restricts results to articles whose title, body
	// or author username contains the term (case-insensitive).
	Search string
	// AuthorID, when non-nil, restricts results to a single author.
	AuthorID *domain.UserID
	// Cursor, when non-nil, returns articles strictly after the given position
	// in listing order.
	Cursor *ArticleCursor
	// Limit caps the page size. A zero limit disables pagination and returns
	// every matching row.
	Limit uint
}

// ArticlePage groups a page of articles together with an optional NextCursor
// used for pagination.
type ArticlePage struct {
	// Articles contains the current page of records.
	Articles []domain.Article
	// NextCursor is the position to resume from when fetching the next page.
	// It is nil when there is no next page.
	NextCursor *ArticleCursor
}

// ArticleStats aggregates listing-page statistics over published articles.
type ArticleStats struct {
	// TotalArticles is the number of published, non-deleted articles.
	TotalArticles int64
	// TotalAuthors is the number of distinct authors with at least one
	// published article.
	TotalAuthors int64
}

// ArticleStorage defines CRUD and query operations for articles. Deletes are
// soft; soft-deleted rows are excluded from every query.
type ArticleStorage interface {
	// StoreArticle inserts a new article and returns the stored row as it
	// exists in the database (including generated fields). Returns ErrDuplicate
	// when the title is already taken (case-insensitive).
	StoreArticle(ctx context.Context, article domain.Article) (*domain.Article, error)
	// ArticleByID fetches an article by ID regardless of its published flag.
	// Returns nil when not found.
	ArticleByID(ctx context.Context, id domain.ArticleID) (*domain.Article, error)
	// PublishedArticles returns a page of published articles matching the query,
	// ordered by created_at DESC, id DESC.
	PublishedArticles(ctx context.Context, query ArticleQuery) (ArticlePage, error)
	// RelatedArticles returns up to limit other published articles by the same
	// author, excluding the given article.
	RelatedArticles(ctx context.Context,
		authorID domain.UserID,
		exclude domain.ArticleID,
		limit uint) ([]domain.Article, error)
	// UpdateArticleByID applies the provided updates to a single article and
	// returns the updated row, or nil when the article does not exist.
	// updated_at is set automatically.
	UpdateArticleByID(ctx context.Context, id domain.ArticleID, updates ArticleUpdates) (*domain.Article, error)
	// IncrementArticleViews atomically increments the view counter without
	// touching updated_at.
	IncrementArticleViews(ctx context.Context, id domain.ArticleID) error
	// DeleteArticle performs a soft delete and returns the deleted article, or
	// nil when it was not found.
	DeleteArticle(ctx context.Context, id domain.ArticleID) (*domain.Article, error)
	// PublishedArticleStats returns aggregate counts for the listing page.
	PublishedArticleStats(ctx context.Context) (ArticleStats, error)
}
