package postgres

import (
	"context"
	"driftblog/pkg/domain"
	"driftblog/pkg/storage"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	articlesTable = "articles"
)

func (p *PgSQL) StoreArticle(ctx context.Context, article domain.Article) (*domain.Article, error) {
	var pgArticle PgArticle
	pgArticle.FromDomain(article)

	var row PgArticle
	found, err := p.Builder.Insert(articlesTable).
		Rows(pgArticle).
		Returning(&PgArticle{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, mapError(err, "could not store article into pg")
	}
	if !found {
		return nil, fmt.Errorf("insert of article returned no row")
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) ArticleByID(ctx context.Context, id domain.ArticleID) (*domain.Article, error) {
	var row PgArticle
	found, err := p.Builder.From(articlesTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch article by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// PublishedArticles returns a page of published articles matching the query,
// ordered by created_at DESC, id DESC. One extra row is fetched to decide
// whether a next page exists; the cursor tie-breaks on id so rows sharing a
// creation timestamp are never skipped.
func (p *PgSQL) PublishedArticles(ctx context.Context, query storage.ArticleQuery) (storage.ArticlePage, error) {
	w := []goqu.Expression{
		goqu.I("is_published").IsTrue(),
		goqu.I("deleted_at").IsNull(),
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		w = append(w, goqu.Or(
			goqu.I("title").ILike(pattern),
			goqu.I("body").ILike(pattern),
			goqu.I("author_id").In(
				p.Builder.From(usersTable).
					Select(goqu.I("id")).
					Where(goqu.I("username").ILike(pattern)),
			),
		))
	}
	if query.AuthorID != nil {
		w = append(w, goqu.I("author_id").Eq(uuid.UUID(*query.AuthorID)))
	}
	if query.Cursor != nil {
		w = append(w, goqu.Or(
			goqu.I("created_at").Lt(query.Cursor.CreatedAt),
			goqu.And(
				goqu.I("created_at").Eq(query.Cursor.CreatedAt),
				goqu.I("id").Lt(uuid.UUID(query.Cursor.ID)),
			),
		))
	}

	ds := p.Builder.From(articlesTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())
	if query.Limit > 0 {
		// fetch one extra to determine if there is a next page
		ds = ds.Limit(query.Limit + 1)
	}

	var rows []PgArticle
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.ArticlePage{}, fmt.Errorf("could not fetch published articles from pg: %w", err)
	}

	var nextCursor *storage.ArticleCursor
	if query.Limit > 0 && uint(len(rows)) > query.Limit {
		trimmed := rows[:query.Limit]
		last := trimmed[len(trimmed)-1]
		nextCursor = &storage.ArticleCursor{
			CreatedAt: last.CreatedAt,
			ID:        domain.ArticleID(last.ID),
		}
		rows = trimmed
	}

	return storage.ArticlePage{
		Articles:   pgArticlesToDomain(rows),
		NextCursor: nextCursor,
	}, nil
}

func (p *PgSQL) RelatedArticles(ctx context.Context,
	authorID domain.UserID,
	exclude domain.ArticleID,
	limit uint) ([]domain.Article, error) {
	var rows []PgArticle
	if err := p.Builder.From(articlesTable).
		Where(
			goqu.I("author_id").Eq(uuid.UUID(authorID)),
			goqu.I("id").Neq(uuid.UUID(exclude)),
			goqu.I("is_published").IsTrue(),
			goqu.I("deleted_at").IsNull(),
		).
		Order(goqu.I("created_at").Desc()).
		Limit(limit).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch related articles from pg: %w", err)
	}

	return pgArticlesToDomain(rows), nil
}

// UpdateArticleByID applies the provided updates to a single article. Only
// provided fields are changed and updated_at is set automatically.
func (p *PgSQL) UpdateArticleByID(ctx context.Context,
	id domain.ArticleID,
	updates storage.ArticleUpdates) (*domain.Article, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Title != nil {
		rec["title"] = *updates.Title
	}
	if updates.Body != nil {
		rec["body"] = *updates.Body
	}
	if updates.MetaDescription != nil {
		if *updates.MetaDescription == "" {
			// set to NULL when empty string provided
			rec["meta_description"] = goqu.L("NULL")
		} else {
			rec["meta_description"] = *updates.MetaDescription
		}
	}
	if updates.ImagePath != nil {
		if *updates.ImagePath == "" {
			rec["image_path"] = goqu.L("NULL")
		} else {
			rec["image_path"] = *updates.ImagePath
		}
	}
	if updates.IsPublished != nil {
		rec["is_published"] = *updates.IsPublished
	}

	var row PgArticle
	found, err := p.Builder.Update(articlesTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgArticle{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, mapError(err, "could not update article in pg")
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// IncrementArticleViews bumps the view counter without touching updated_at, so
// reads don't look like edits.
func (p *PgSQL) IncrementArticleViews(ctx context.Context, id domain.ArticleID) error {
	_, err := p.Builder.Update(articlesTable).
		Set(goqu.Record{
			"views_count": goqu.L("views_count + 1"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not increment article views in pg: %w", err)
	}

	return nil
}

// DeleteArticle performs a soft delete by setting deleted_at, returning the
// deleted record.
func (p *PgSQL) DeleteArticle(ctx context.Context, id domain.ArticleID) (*domain.Article, error) {
	var row PgArticle
	found, err := p.Builder.Update(articlesTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgArticle{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete article in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) PublishedArticleStats(ctx context.Context) (storage.ArticleStats, error) {
	var stats struct {
		TotalArticles int64 `db:"total_articles"`
		TotalAuthors  int64 `db:"total_authors"`
	}
	found, err := p.Builder.From(articlesTable).
		Select(
			goqu.COUNT(goqu.Star()).As("total_articles"),
			goqu.L("COUNT(DISTINCT author_id)").As("total_authors"),
		).
		Where(
			goqu.I("is_published").IsTrue(),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &stats)
	if err != nil {
		return storage.ArticleStats{}, fmt.Errorf("could not fetch article stats from pg: %w", err)
	}
	if !found {
		return storage.ArticleStats{}, nil
	}

	return storage.ArticleStats{
		TotalArticles: stats.TotalArticles,
		TotalAuthors:  stats.TotalAuthors,
	}, nil
}
