package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArticleID uniquely identifies an article.
// It wraps uuid.UUID to provide type safety at the domain layer.
type ArticleID uuid.UUID

const (
	// TitleMinLen and TitleMaxLen bound the length of an article title.
	TitleMinLen = 5
	TitleMaxLen = 255
	// BodyMinLen is the minimum length of an article body.
	BodyMinLen = 50
	// MetaDescriptionMaxLen bounds the SEO description.
	MetaDescriptionMaxLen = 160

	// readingWordsPerMinute is the speed assumed when estimating reading time.
	readingWordsPerMinute = 200
	// excerptWords is how many leading words make up the fallback excerpt.
	excerptWords = 30
	// metaDescriptionWords is how many leading words are used when
	// auto-generating a missing meta description.
	metaDescriptionWords = 25
)

// Article represents a single blog post and its publication state.
type Article struct {
	// ID is the unique identifier of the article.
	ID ArticleID `json:"id"`
	// AuthorID is the identifier of the user who wrote the article.
	AuthorID UserID `json:"authorId"`

	// Title is the headline, unique across articles (case-insensitive).
	Title string `json:"title"`
	// Body is the main content.
	Body string `json:"body"`
	// ImagePath is the media-relative path of the optional header image.
	ImagePath string `json:"imagePath,omitempty"`
	// MetaDescription is a short SEO description. When empty at creation time
	// it is auto-generated from the beginning of the body.
	MetaDescription string `json:"metaDescription"`

	// IsPublished determines whether the article is publicly visible.
	IsPublished bool `json:"isPublished"`
	// ViewsCount is the number of recorded detail views.
	ViewsCount uint `json:"viewsCount"`

	// CreatedAt is the time the article was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time the article was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt marks when the article was soft-deleted; zero value means not deleted.
	DeletedAt time.Time `json:"-"`
}

// HasImage reports whether the article has a header image.
func (a Article) HasImage() bool { return a.ImagePath != "" }

// ReadingMinutes estimates the reading time in minutes assuming
// readingWordsPerMinute, with a minimum of one minute.
func (a Article) ReadingMinutes() int {
	words := len(strings.Fields(a.Body))
	minutes := (words + readingWordsPerMinute/2) / readingWordsPerMinute
	if minutes < 1 {
		minutes = 1
	}

	return minutes
}

// Excerpt returns the meta description when present, otherwise the first
// excerptWords words of the body with a trailing ellipsis when truncated.
func (a Article) Excerpt() string {
	if a.MetaDescription != "" {
		return a.MetaDescription
	}

	words := strings.Fields(a.Body)
	if len(words) <= excerptWords {
		return strings.Join(words, " ")
	}

	return strings.Join(words[:excerptWords], " ") + "..."
}

// GenerateMetaDescription builds a meta description from the first words of
// the body, truncated to MetaDescriptionMaxLen.
func GenerateMetaDescription(body string) string {
	words := strings.Fields(body)
	if len(words) > metaDescriptionWords {
		words = words[:metaDescriptionWords]
	}

	desc := strings.Join(words, " ") + "..."
	if len(desc) > MetaDescriptionMaxLen {
		desc = desc[:MetaDescriptionMaxLen]
	}

	return desc
}

// CanEdit reports whether the given user may modify this article.
// Authors can edit their own articles, staff can edit any.
func (a Article) CanEdit(u User) bool {
	return a.AuthorID == u.ID || u.IsStaff
}

// CanDelete reports whether the given user may delete this article.
// The rule matches CanEdit: the author or staff.
func (a Article) CanDelete(u User) bool { return a.CanEdit(u) }
