package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"driftblog/pkg/domain"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "word"
	}

	return strings.Join(w, " ")
}

func TestReadingMinutes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty body still takes a minute", body: "", want: 1},
		{name: "short body rounds up to a minute", body: words(40), want: 1},
		{name: "two hundred words is one minute", body: words(200), want: 1},
		{name: "three hundred words rounds to two", body: words(300), want: 2},
		{name: "thousand words is five minutes", body: words(1000), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.Article{Body: tt.body}
			require.Equal(t, tt.want, a.ReadingMinutes())
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("prefers meta description", func(t *testing.T) {
		a := domain.Article{Body: words(100), MetaDescription: "hand written"}
		require.Equal(t, "hand written", a.Excerpt())
	})

	t.Run("short body returned as is", func(t *testing.T) {
		a := domain.Article{Body: "just a few words"}
		require.Equal(t, "just a few words", a.Excerpt())
	})

	t.Run("long body is truncated with ellipsis", func(t *testing.T) {
		a := domain.Article{Body: words(100)}
		got := a.Excerpt()
		require.True(t, strings.HasSuffix(got, "..."), "excerpt should end with ellipsis, got %q", got)
		require.Len(t, strings.Fields(strings.TrimSuffix(got, "...")), 30)
	})
}

func TestGenerateMetaDescription(t *testing.T) {
	got := domain.GenerateMetaDescription(words(100))
	require.True(t, strings.HasSuffix(got, "..."))
	require.LessOrEqual(t, len(got), domain.MetaDescriptionMaxLen)

	// a body of very long words must still respect the hard length cap
	long := strings.Repeat("a", 300)
	require.LessOrEqual(t, len(domain.GenerateMetaDescription(long)), domain.MetaDescriptionMaxLen)
}

func TestArticlePermissions(t *testing.T) {
	author := domain.User{ID: domain.UserID(uuid.New())}
	stranger := domain.User{ID: domain.UserID(uuid.New())}
	staff := domain.User{ID: domain.UserID(uuid.New()), IsStaff: true}

	a := domain.Article{AuthorID: author.ID}

	require.True(t, a.CanEdit(author))
	require.True(t, a.CanEdit(staff))
	require.False(t, a.CanEdit(stranger))

	require.True(t, a.CanDelete(author))
	require.True(t, a.CanDelete(staff))
	require.False(t, a.CanDelete(stranger))
}

func TestCommentPermissions(t *testing.T) {
	author := domain.User{ID: domain.UserID(uuid.New())}
	stranger := domain.User{ID: domain.UserID(uuid.New())}
	staff := domain.User{ID: domain.UserID(uuid.New()), IsStaff: true}

	c := domain.Comment{AuthorID: author.ID}

	require.True(t, c.CanEdit(author))
	require.False(t, c.CanEdit(staff), "staff may moderate but not rewrite someone's words")
	require.False(t, c.CanEdit(stranger))

	require.True(t, c.CanDelete(author))
	require.True(t, c.CanDelete(staff))
	require.False(t, c.CanDelete(stranger))

	parent := domain.CommentID(uuid.New())
	require.False(t, c.IsReply())
	c.ParentID = &parent
	require.True(t, c.IsReply())
}

func TestHasImage(t *testing.T) {
	require.False(t, domain.Article{}.HasImage())
	require.True(t, domain.Article{ImagePath: "abc.png"}.HasImage())
}
