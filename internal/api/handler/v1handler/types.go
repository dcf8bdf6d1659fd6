package v1handler

import (
	"driftblog/pkg/domain"
	"driftblog/pkg/storage"
	"time"

	"github.com/google/uuid"
)

// The wire types below decouple JSON payloads from the domain structs; typed
// UUIDs are rendered as strings and derived fields (excerpt, reading time) are
// computed at conversion time.

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	IsStaff   bool      `json:"isStaff"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        uuid.UUID(u.ID).String(),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		IsStaff:   u.IsStaff,
		JoinedAt:  u.JoinedAt,
	}
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type articleResponse struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"authorId"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	MetaDescription string    `json:"metaDescription"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	IsPublished     bool      `json:"isPublished"`
	ViewsCount      uint      `json:"viewsCount"`
	ReadingMinutes  int       `json:"readingMinutes"`
	Excerpt         string    `json:"excerpt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toArticleResponse(a domain.Article) articleResponse {
	out := articleResponse{
		ID:              uuid.UUID(a.ID).String(),
		AuthorID:        uuid.UUID(a.AuthorID).String(),
		Title:           a.Title,
		Body:            a.Body,
		MetaDescription: a.MetaDescription,
		IsPublished:     a.IsPublished,
		ViewsCount:      a.ViewsCount,
		ReadingMinutes:  a.ReadingMinutes(),
		Excerpt:         a.Excerpt(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.HasImage() {
		out.ImageURL = "/media/" + a.ImagePath
	}

	return out
}

func toArticleResponses(in []domain.Article) []articleResponse {
	out := make([]articleResponse, 0, len(in))
	for i := range in {
		out = append(out, toArticleResponse(in[i]))
	}

	return out
}

type articleStatsResponse struct {
	TotalArticles int64 `json:"totalArticles"`
	TotalAuthors  int64 `json:"totalAuthors"`
}

func toArticleStatsResponse(s storage.ArticleStats) articleStatsResponse {
	return articleStatsResponse{
		TotalArticles: s.TotalArticles,
		TotalAuthors:  s.TotalAuthors,
	}
}

type articleListResponse struct {
	Items      []articleResponse    `json:"items"`
	NextCursor string               `json:"nextCursor,omitempty"`
	Stats      articleStatsResponse `json:"stats"`
}

type articleDetailResponse struct {
	articleResponse

	Related []articleResponse `json:"related"`
}

type commentResponse struct {
	ID         string    `json:"id"`
	ArticleID  string    `json:"articleId"`
	AuthorID   string    `json:"authorId"`
	ParentID   *string   `json:"parentId,omitempty"`
	Body       string    `json:"body"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	out := commentResponse{
		ID:         uuid.UUID(c.ID).String(),
		ArticleID:  uuid.UUID(c.ArticleID).String(),
		AuthorID:   uuid.UUID(c.AuthorID).String(),
		Body:       c.Body,
		IsApproved: c.IsApproved,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.ParentID != nil {
		parent := uuid.UUID(*c.ParentID).String()
		out.ParentID = &parent
	}

	return out
}

func toCommentResponses(in []domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(in))
	for i := range in {
		out = append(out, toCommentResponse(in[i]))
	}

	return out
}

type pageResponse struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toPageResponse(p domain.Page) pageResponse {
	return pageResponse{
		Slug:      p.Slug,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
