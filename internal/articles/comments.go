package articles

import (
	"context"
	"driftblog/pkg/domain"
	"driftblog/pkg/serrors"
	"driftblog/pkg/storage"
	"fmt"
	"strings"
)

const (
	// CommentMaxLen bounds comment bodies.
	CommentMaxLen = 2000
)

func validateCommentBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > CommentMaxLen {
		return "", serrors.With(serrors.ErrBadRequest, "comment must be 1-%d characters", CommentMaxLen)
	}

	return body, nil
}

// AddComment posts a comment on a published article. When parentID is set the
// comment becomes a reply; only one level of nesting is allowed, replying to a
// reply is rejected.
func (a articles) AddComment(ctx context.Context,
	author domain.User,
	articleID domain.ArticleID,
	parentID *domain.CommentID,
	body string) (*domain.Comment, error) {
	body, err := validateCommentBody(body)
	if err != nil {
		return nil, err
	}

	article, err := a.storage.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch article: %w", err)
	}
	if article == nil || !visibleTo(*article, &author) {
		return nil, serrors.With(serrors.ErrNotFound, "article not found")
	}

	if parentID != nil {
		parent, err := a.storage.CommentByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("could not fetch parent comment: %w", err)
		}
		if parent == nil || parent.ArticleID != articleID {
			return nil, serrors.With(serrors.ErrNotFound, "parent comment not found")
		}
		if parent.IsReply() {
			return nil, serrors.With(serrors.ErrBadRequest, "replies cannot be nested further")
		}
	}

	comment, err := a.storage.StoreComment(ctx, domain.Comment{
		ArticleID: articleID,
		AuthorID:  author.ID,
		ParentID:  parentID,
		Body:      body,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store comment: %w", err)
	}

	return comment, nil
}

// Comments lists an article's comments. Moderators (staff) and the article's
// author also see comments still waiting for approval.
func (a articles) Comments(ctx context.Context,
	viewer *domain.User,
	articleID domain.ArticleID) ([]domain.Comment, error) {
	article, err := a.storage.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch article: %w", err)
	}
	if article == nil || !visibleTo(*article, viewer) {
		return nil, serrors.With(serrors.ErrNotFound, "article not found")
	}

	approvedOnly := true
	if viewer != nil && (viewer.IsStaff || viewer.ID == article.AuthorID) {
		approvedOnly = false
	}

	comments, err := a.storage.ArticleComments(ctx, articleID, approvedOnly)
	if err != nil {
		return nil, fmt.Errorf("could not fetch comments: %w", err)
	}

	return comments, nil
}

// EditComment changes the caller's own comment text.
func (a articles) EditComment(ctx context.Context,
	caller domain.User,
	id domain.CommentID,
	body string) (*domain.Comment, error) {
	body, err := validateCommentBody(body)
	if err != nil {
		return nil, err
	}

	comment, err := a.storage.CommentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch comment: %w", err)
	}
	if comment == nil {
		return nil, serrors.With(serrors.ErrNotFound, "comment not found")
	}
	if !comment.CanEdit(caller) {
		return nil, serrors.With(serrors.ErrForbidden, "not allowed to edit this comment")
	}

	updated, err := a.storage.UpdateCommentByID(ctx, id, storage.CommentUpdates{
		Body: &body,
	})
	if err != nil {
		return nil, fmt.Errorf("could not update comment: %w", err)
	}
	if updated == nil {
		return nil, serrors.With(serrors.ErrNotFound, "comment not found")
	}

	return updated, nil
}

// DeleteComment soft-deletes a comment; the author or staff may do so.
func (a articles) DeleteComment(ctx context.Context, caller domain.User, id domain.CommentID) error {
	comment, err := a.storage.CommentByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not fetch comment: %w", err)
	}
	if comment == nil {
		return serrors.With(serrors.ErrNotFound, "comment not found")
	}
	if !comment.CanDelete(caller) {
		return serrors.With(serrors.ErrForbidden, "not allowed to delete this comment")
	}

	deleted, err := a.storage.DeleteComment(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete comment: %w", err)
	}
	if deleted == nil {
		return serrors.With(serrors.ErrNotFound, "comment not found")
	}

	return nil
}

// ModerateComment approves or rejects a comment. Staff can moderate anything,
// article authors can moderate comments on their own articles.
func (a articles) ModerateComment(ctx context.Context,
	caller domain.User,
	id domain.CommentID,
	approved bool) (*domain.Comment, error) {
	comment, err := a.storage.CommentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch comment: %w", err)
	}
	if comment == nil {
		return nil, serrors.With(serrors.ErrNotFound, "comment not found")
	}

	if !caller.IsStaff {
		article, err := a.storage.ArticleByID(ctx, comment.ArticleID)
		if err != nil {
			return nil, fmt.Errorf("could not fetch article: %w", err)
		}
		if article == nil || article.AuthorID != caller.ID {
			return nil, serrors.With(serrors.ErrForbidden, "not allowed to moderate this comment")
		}
	}

	updated, err := a.storage.UpdateCommentByID(ctx, id, storage.CommentUpdates{
		IsApproved: &approved,
	})
	if err != nil {
		return nil, fmt.Errorf("could not update comment: %w", err)
	}
	if updated == nil {
		return nil, serrors.With(serrors.ErrNotFound, "comment not found")
	}

	return updated, nil
}
