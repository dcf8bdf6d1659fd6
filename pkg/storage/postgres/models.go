package postgres

import (
	"database/sql"
	"driftblog/pkg/domain"
	"time"

	"github.com/google/uuid"
)

type PgUser struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`

	FirstName sql.NullString `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`

	IsStaff     bool `db:"is_staff"`
	IsSuperuser bool `db:"is_superuser"`

	JoinedAt  time.Time    `db:"joined_at"  goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgUser) ToDomain() *domain.User {
	return &domain.User{
		ID:           domain.UserID(p.ID),
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName.String,
		LastName:     p.LastName.String,
		IsStaff:      p.IsStaff,
		IsSuperuser:  p.IsSuperuser,
		JoinedAt:     p.JoinedAt,
		UpdatedAt:    p.UpdatedAt.Time,
	}
}

func (p *PgUser) FromDomain(user domain.User) {
	*p = PgUser{
		ID:           uuid.UUID(user.ID),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FirstName: sql.NullString{
			String: user.FirstName,
			Valid:  user.FirstName != "",
		},
		LastName: sql.NullString{
			String: user.LastName,
			Valid:  user.LastName != "",
		},
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		JoinedAt:    user.JoinedAt,
		UpdatedAt: sql.NullTime{
			Time:  user.UpdatedAt,
			Valid: !user.UpdatedAt.IsZero(),
		},
	}
}

type PgArticle struct {
	ID       uuid.UUID `db:"id"        goqu:"skipinsert"`
	AuthorID uuid.UUID `db:"author_id"`

	Title           string         `db:"title"`
	Body            string         `db:"body"`
	ImagePath       sql.NullString `db:"image_path"`
	MetaDescription sql.NullString `db:"meta_description"`

	IsPublished bool `db:"is_published"`
	ViewsCount  uint `db:"views_count" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgArticle) ToDomain() *domain.Article {
	return &domain.Article{
		ID:              domain.ArticleID(p.ID),
		AuthorID:        domain.UserID(p.AuthorID),
		Title:           p.Title,
		Body:            p.Body,
		ImagePath:       p.ImagePath.String,
		MetaDescription: p.MetaDescription.String,
		IsPublished:     p.IsPublished,
		ViewsCount:      p.ViewsCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt.Time,
		DeletedAt:       p.DeletedAt.Time,
	}
}

func (p *PgArticle) FromDomain(article domain.Article) {
	*p = PgArticle{
		ID:       uuid.UUID(article.ID),
		AuthorID: uuid.UUID(article.AuthorID),
		Title:    article.Title,
		Body:     article.Body,
		ImagePath: sql.NullString{
			String: article.ImagePath,
			Valid:  article.ImagePath != "",
		},
		MetaDescription: sql.NullString{
			String: article.MetaDescription,
			Valid:  article.MetaDescription != "",
		},
		IsPublished: article.IsPublished,
		ViewsCount:  article.ViewsCount,
		CreatedAt:   article.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  article.UpdatedAt,
			Valid: !article.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  article.DeletedAt,
			Valid: !article.DeletedAt.IsZero(),
		},
	}
}

func pgArticlesToDomain(articles []PgArticle) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for i := range articles {
		out = append(out, *articles[i].ToDomain())
	}

	return out
}

type PgComment struct {
	ID        uuid.UUID     `db:"id"         goqu:"skipinsert"`
	ArticleID uuid.UUID     `db:"article_id"`
	AuthorID  uuid.UUID     `db:"author_id"`
	ParentID  uuid.NullUUID `db:"parent_id"`

	Body       string `db:"body"`
	IsApproved bool   `db:"is_approved"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgComment) ToDomain() *domain.Comment {
	var parentID *domain.CommentID
	if p.ParentID.Valid {
		id := domain.CommentID(p.ParentID.UUID)
		parentID = &id
	}

	return &domain.Comment{
		ID:         domain.CommentID(p.ID),
		ArticleID:  domain.ArticleID(p.ArticleID),
		AuthorID:   domain.UserID(p.AuthorID),
		ParentID:   parentID,
		Body:       p.Body,
		IsApproved: p.IsApproved,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt.Time,
		DeletedAt:  p.DeletedAt.Time,
	}
}

func (p *PgComment) FromDomain(comment domain.Comment) {
	var parentID uuid.NullUUID
	if comment.ParentID != nil {
		parentID = uuid.NullUUID{UUID: uuid.UUID(*comment.ParentID), Valid: true}
	}

	*p = PgComment{
		ID:         uuid.UUID(comment.ID),
		ArticleID:  uuid.UUID(comment.ArticleID),
		AuthorID:   uuid.UUID(comment.AuthorID),
		ParentID:   parentID,
		Body:       comment.Body,
		IsApproved: comment.IsApproved,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  comment.UpdatedAt,
			Valid: !comment.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  comment.DeletedAt,
			Valid: !comment.DeletedAt.IsZero(),
		},
	}
}

func pgCommentsToDomain(comments []PgComment) []domain.Comment {
	out := make([]domain.Comment, 0, len(comments))
	for i := range comments {
		out = append(out, *comments[i].ToDomain())
	}

	return out
}

type PgPage struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Slug  string `db:"slug"`
	Title string `db:"title"`
	Body  string `db:"body"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgPage) ToDomain() *domain.Page {
	return &domain.Page{
		ID:        domain.PageID(p.ID),
		Slug:      p.Slug,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
	}
}
