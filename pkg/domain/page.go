package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// PageID uniquely identifies a site page.
type PageID uuid.UUID

// slugPattern matches lowercase URL slugs: letters, digits and hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Page is a static site page (about, contact, ...) addressed by slug.
type Page struct {
	// ID is the unique identifier of the page.
	ID PageID `json:"id"`

	// Slug is the unique URL fragment the page is served under.
	Slug string `json:"slug"`
	// Title is the page heading.
	Title string `json:"title"`
	// Body is the page content.
	Body string `json:"body"`

	// CreatedAt is the time the page was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time the page was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidSlug reports whether s is an acceptable page slug.
func ValidSlug(s string) bool {
	return len(s) > 0 && len(s) <= 100 && slugPattern.MatchString(s)
}
