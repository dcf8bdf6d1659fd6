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
	commentsTable = "comments"
)

func (p *PgSQL) StoreComment(ctx context.Context, comment domain.Comment) (*domain.Comment, error) {
	var pgComment PgComment
	pgComment.FromDomain(comment)

	var row PgComment
	found, err := p.Builder.Insert(commentsTable).
		Rows(pgComment).
		Returning(&PgComment{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, mapError(err, "could not store comment into pg")
	}
	if !found {
		return nil, fmt.Errorf("insert of comment returned no row")
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) CommentByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	var row PgComment
	found, err := p.Builder.From(commentsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch comment by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// ArticleComments returns an article's comments oldest-first so threads read
// top to bottom.
func (p *PgSQL) ArticleComments(ctx context.Context,
	articleID domain.ArticleID,
	approvedOnly bool) ([]domain.Comment, error) {
	w := []goqu.Expression{
		goqu.I("article_id").Eq(uuid.UUID(articleID)),
		goqu.I("deleted_at").IsNull(),
	}
	if approvedOnly {
		w = append(w, goqu.I("is_approved").IsTrue())
	}

	var rows []PgComment
	if err := p.Builder.From(commentsTable).
		Where(w...).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch article comments from pg: %w", err)
	}

	return pgCommentsToDomain(rows), nil
}

func (p *PgSQL) UpdateCommentByID(ctx context.Context,
	id domain.CommentID,
	updates storage.CommentUpdates) (*domain.Comment, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Body != nil {
		rec["body"] = *updates.Body
	}
	if updates.IsApproved != nil {
		rec["is_approved"] = *updates.IsApproved
	}

	var row PgComment
	found, err := p.Builder.Update(commentsTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgComment{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update comment in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DeleteComment performs a soft delete by setting deleted_at, returning the
// deleted record. Replies stay in place.
func (p *PgSQL) DeleteComment(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	var row PgComment
	found, err := p.Builder.Update(commentsTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgComment{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete comment in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}
