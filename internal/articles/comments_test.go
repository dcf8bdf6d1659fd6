package articles_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"driftblog/internal/articles"
	"driftblog/pkg/domain"
	"driftblog/pkg/serrors"
	"driftblog/pkg/storage/storagetest"
)

type commentFixture struct {
	strg     *storagetest.Fake
	svc      articles.Articles
	author   domain.User
	reader   domain.User
	staff    domain.User
	articleA domain.Article
}

func newCommentFixture(t *testing.T) commentFixture {
	t.Helper()

	strg := storagetest.New()
	svc := newArticles(t, strg)
	author := storeUser(t, strg, "jane", false)
	reader := storeUser(t, strg, "john", false)
	staff := storeUser(t, strg, "mod", true)

	article, err := svc.Create(context.Background(), author, articles.CreateParams{
		Title: "Hello world",
		Body:  testBody,
	})
	require.NoError(t, err)

	return commentFixture{
		strg:     strg,
		svc:      svc,
		author:   author,
		reader:   reader,
		staff:    staff,
		articleA: *article,
	}
}

func TestAddComment(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "nice read")
	require.NoError(t, err)
	require.Equal(t, f.reader.ID, comment.AuthorID)
	require.False(t, comment.IsApproved, "new comments await moderation")
	require.False(t, comment.IsReply())
}

func TestAddComment_Validation(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "   ")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = f.svc.AddComment(context.Background(),
		f.reader,
		f.articleA.ID,
		nil,
		strings.Repeat("x", articles.CommentMaxLen+1))
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestAddComment_ReplyNesting(t *testing.T) {
	f := newCommentFixture(t)

	top, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "top level")
	require.NoError(t, err)

	reply, err := f.svc.AddComment(context.Background(), f.author, f.articleA.ID, &top.ID, "a reply")
	require.NoError(t, err)
	require.True(t, reply.IsReply())

	// one level only: replying to a reply is rejected
	_, err = f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, &reply.ID, "nested reply")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestAddComment_ParentMustBelongToArticle(t *testing.T) {
	f := newCommentFixture(t)

	other, err := f.svc.Create(context.Background(), f.author, articles.CreateParams{
		Title: "Another article",
		Body:  testBody,
	})
	require.NoError(t, err)

	comment, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "on article A")
	require.NoError(t, err)

	_, err = f.svc.AddComment(context.Background(), f.reader, other.ID, &comment.ID, "wrong article")
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestComments_ApprovalVisibility(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "pending")
	require.NoError(t, err)
	approved, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "approved")
	require.NoError(t, err)
	_, err = f.svc.ModerateComment(context.Background(), f.staff, approved.ID, true)
	require.NoError(t, err)

	// the public only sees approved comments
	visible, err := f.svc.Comments(context.Background(), nil, f.articleA.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, approved.ID, visible[0].ID)

	visible, err = f.svc.Comments(context.Background(), &f.reader, f.articleA.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)

	// staff and the article author see pending ones too
	for _, viewer := range []domain.User{f.staff, f.author} {
		all, err := f.svc.Comments(context.Background(), &viewer, f.articleA.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
	}
}

func TestEditComment_AuthorOnly(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "original")
	require.NoError(t, err)

	// not even staff may rewrite someone else's words
	_, err = f.svc.EditComment(context.Background(), f.staff, comment.ID, "edited")
	require.ErrorIs(t, err, serrors.ErrForbidden)

	updated, err := f.svc.EditComment(context.Background(), f.reader, comment.ID, "edited")
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Body)
}

func TestDeleteComment(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "delete me")
	require.NoError(t, err)

	require.ErrorIs(t,
		f.svc.DeleteComment(context.Background(), f.author, comment.ID),
		serrors.ErrForbidden,
		"article authors may not delete other people's comments")

	require.NoError(t, f.svc.DeleteComment(context.Background(), f.reader, comment.ID))
	require.ErrorIs(t,
		f.svc.DeleteComment(context.Background(), f.reader, comment.ID),
		serrors.ErrNotFound)
}

func TestDeleteComment_Staff(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "spam")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteComment(context.Background(), f.staff, comment.ID))
}

func TestModerateComment_Permissions(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.svc.AddComment(context.Background(), f.reader, f.articleA.ID, nil, "pending")
	require.NoError(t, err)

	// a random user may not moderate
	_, err = f.svc.ModerateComment(context.Background(), f.reader, comment.ID, true)
	require.ErrorIs(t, err, serrors.ErrForbidden)

	// the article author may
	moderated, err := f.svc.ModerateComment(context.Background(), f.author, comment.ID, true)
	require.NoError(t, err)
	require.True(t, moderated.IsApproved)

	// and staff can reject again
	moderated, err = f.svc.ModerateComment(context.Background(), f.staff, comment.ID, false)
	require.NoError(t, err)
	require.False(t, moderated.IsApproved)
}
