package storage

import (
	"context"
	"driftblog/pkg/domain"
)

// PageStorage defines persistence operations for static site pages.
type PageStorage interface {
	// UpsertPage inserts the page or, when the slug already exists, replaces
	// its title and body. The stored row is returned.
	UpsertPage(ctx context.Context, page domain.Page) (*domain.Page, error)
	// PageBySlug fetches a page by its slug. Returns nil when not found.
	PageBySlug(ctx context.Context, slug string) (*domain.Page, error)
	// Pages returns all pages ordered by slug.
	Pages(ctx context.Context) ([]domain.Page, error)
}
