// Package pages implements the static site pages (about, contact, ...)
// addressed by slug. Reading is public; writing is restricted to staff.
package pages

import (
	"context"
	"driftblog/pkg/domain"
	"driftblog/pkg/serrors"
	"driftblog/pkg/storage"
	"fmt"
	"strings"
)

// UpsertParams carries the editable fields of a page.
type UpsertParams struct {
	Title string
	Body  string
}

// Pages provides read and staff-only write access to site pages.
type Pages interface {
	// Get fetches a page by slug, returning a not-found error when missing.
	Get(ctx context.Context, slug string) (*domain.Page, error)
	// List returns all pages ordered by slug.
	List(ctx context.Context) ([]domain.Page, error)
	// Upsert creates or replaces the page under the given slug; staff only.
	Upsert(ctx context.Context, caller domain.User, slug string, params UpsertParams) (*domain.Page, error)
}

type pages struct {
	storage storage.Storage
}

// New creates a new Pages service backed by the provided storage.
func New(storage storage.Storage) Pages {
	return &pages{storage: storage}
}

func (p pages) Get(ctx context.Context, slug string) (*domain.Page, error) {
	page, err := p.storage.PageBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("could not fetch page: %w", err)
	}
	if page == nil {
		return nil, serrors.With(serrors.ErrNotFound, "page not found")
	}

	return page, nil
}

func (p pages) List(ctx context.Context) ([]domain.Page, error) {
	all, err := p.storage.Pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch pages: %w", err)
	}

	return all, nil
}

func (p pages) Upsert(ctx context.Context,
	caller domain.User,
	slug string,
	params UpsertParams) (*domain.Page, error) {
	if !caller.IsStaff {
		return nil, serrors.With(serrors.ErrForbidden, "only staff may edit pages")
	}
	if !domain.ValidSlug(slug) {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid slug %q", slug)
	}

	title := strings.TrimSpace(params.Title)
	body := strings.TrimSpace(params.Body)
	if title == "" || body == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "title and body must not be empty")
	}

	page, err := p.storage.UpsertPage(ctx, domain.Page{
		Slug:  slug,
		Title: title,
		Body:  body,
	})
	if err != nil {
		return nil, fmt.Errorf("could not upsert page: %w", err)
	}

	return page, nil
}
