package postgres

import (
	"context"
	"driftblog/pkg/domain"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	pagesTable = "pages"
)

// UpsertPage inserts a page or, on slug conflict, replaces its title and body.
func (p *PgSQL) UpsertPage(ctx context.Context, page domain.Page) (*domain.Page, error) {
	var row PgPage
	found, err := p.Builder.Insert(pagesTable).
		Rows(goqu.Record{
			"slug":  page.Slug,
			"title": page.Title,
			"body":  page.Body,
		}).
		OnConflict(goqu.DoUpdate("slug", goqu.Record{
			"title":      page.Title,
			"body":       page.Body,
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Returning(&PgPage{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not upsert page in pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("upsert of page returned no row")
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) PageBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	var row PgPage
	found, err := p.Builder.From(pagesTable).
		Where(goqu.I("slug").Eq(slug)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch page by slug: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) Pages(ctx context.Context) ([]domain.Page, error) {
	var rows []PgPage
	if err := p.Builder.From(pagesTable).
		Order(goqu.I("slug").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch pages from pg: %w", err)
	}

	out := make([]domain.Page, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}
