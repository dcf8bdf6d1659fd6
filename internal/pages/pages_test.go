package pages_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"driftblog/internal/pages"
	"driftblog/pkg/domain"
	"driftblog/pkg/logger"
	"driftblog/pkg/serrors"
	"driftblog/pkg/storage/storagetest"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

var (
	staff    = domain.User{Username: "mod", IsStaff: true}
	regular  = domain.User{Username: "jane"}
	aboutUs  = pages.UpsertParams{Title: "About", Body: "We write about things."}
	contact  = pages.UpsertParams{Title: "Contact", Body: "mail@example.com"}
	editions = pages.UpsertParams{Title: "About v2", Body: "We still write about things."}
)

func TestUpsert(t *testing.T) {
	svc := pages.New(storagetest.New())

	page, err := svc.Upsert(context.Background(), staff, "about", aboutUs)
	require.NoError(t, err)
	require.Equal(t, "about", page.Slug)
	require.Equal(t, "About", page.Title)

	// upserting the same slug replaces content and keeps identity
	updated, err := svc.Upsert(context.Background(), staff, "about", editions)
	require.NoError(t, err)
	require.Equal(t, page.ID, updated.ID)
	require.Equal(t, "About v2", updated.Title)
}

func TestUpsert_StaffOnly(t *testing.T) {
	svc := pages.New(storagetest.New())

	_, err := svc.Upsert(context.Background(), regular, "about", aboutUs)
	require.ErrorIs(t, err, serrors.ErrForbidden)
}

func TestUpsert_Validation(t *testing.T) {
	svc := pages.New(storagetest.New())

	for _, slug := range []string{"", "About", "about us", "-about", "about-", "a_b"} {
		_, err := svc.Upsert(context.Background(), staff, slug, aboutUs)
		require.ErrorIs(t, err, serrors.ErrBadRequest, "slug %q must be rejected", slug)
	}

	_, err := svc.Upsert(context.Background(), staff, "about", pages.UpsertParams{Title: " ", Body: "x"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestGet(t *testing.T) {
	svc := pages.New(storagetest.New())

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, serrors.ErrNotFound)

	_, err = svc.Upsert(context.Background(), staff, "about", aboutUs)
	require.NoError(t, err)

	page, err := svc.Get(context.Background(), "about")
	require.NoError(t, err)
	require.Equal(t, "About", page.Title)
}

func TestList(t *testing.T) {
	svc := pages.New(storagetest.New())

	_, err := svc.Upsert(context.Background(), staff, "contact", contact)
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), staff, "about", aboutUs)
	require.NoError(t, err)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "about", all[0].Slug, "pages are ordered by slug")
	require.Equal(t, "contact", all[1].Slug)
}
