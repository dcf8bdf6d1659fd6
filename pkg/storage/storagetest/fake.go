// Package storagetest provides an in-memory storage.Storage implementation
// for service-level tests. It mimics the semantics of the postgres backend:
// duplicate detection, soft deletes and cursor pagination.
package storagetest

import (
	"bytes"
	"context"
	"driftblog/pkg/domain"
	"driftblog/pkg/storage"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// Fake is an in-memory storage backend. The zero value is not usable; create
// instances with New. Setting Err makes every subsequent operation fail with
// it, which tests use to exercise error paths.
type Fake struct {
	mu sync.Mutex

	// Err, when non-nil, is returned by every operation.
	Err error

	users    map[domain.UserID]domain.User
	articles map[domain.ArticleID]domain.Article
	comments map[domain.CommentID]domain.Comment
	pages    map[string]domain.Page

	// Jobs records every enqueued job in insertion order.
	Jobs []river.JobArgs
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{
		users:    make(map[domain.UserID]domain.User),
		articles: make(map[domain.ArticleID]domain.Article),
		comments: make(map[domain.CommentID]domain.Comment),
		pages:    make(map[string]domain.Page),
	}
}

var _ storage.Storage = (*Fake)(nil)

// Close is a no-op.
func (f *Fake) Close() error { return nil }

// Begin returns a transactional view backed by the same data. The fake does
// not implement rollback; tests relying on it should use the postgres backend.
func (f *Fake) Begin(ctx context.Context) (storage.TxStorage, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	return &fakeTx{Fake: f}, nil
}

// WithTx invokes the callback against the same in-memory data.
func (f *Fake) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	if f.Err != nil {
		return f.Err
	}

	return cb(f)
}

type fakeTx struct {
	*Fake
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

// StoreUser inserts a user, enforcing username uniqueness.
func (f *Fake) StoreUser(ctx context.Context, user domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	for _, existing := range f.users {
		if existing.Username == user.Username {
			return nil, storage.ErrDuplicate
		}
	}

	user.ID = domain.UserID(uuid.New())
	user.JoinedAt = time.Now().UTC()
	user.UpdatedAt = user.JoinedAt
	f.users[user.ID] = user

	return &user, nil
}

func (f *Fake) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	if user, ok := f.users[id]; ok {
		return &user, nil
	}

	return nil, nil //nolint: nilnil
}

func (f *Fake) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	for _, user := range f.users {
		if user.Username == username {
			return &user, nil
		}
	}

	return nil, nil //nolint: nilnil
}

func (f *Fake) SuperuserExists(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}

	for _, user := range f.users {
		if user.IsSuperuser {
			return true, nil
		}
	}

	return false, nil
}

// StoreArticle inserts an article, enforcing case-insensitive title uniqueness
// among non-deleted rows.
func (f *Fake) StoreArticle(ctx context.Context, article domain.Article) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	for _, existing := range f.articles {
		if existing.DeletedAt.IsZero() && strings.EqualFold(existing.Title, article.Title) {
			return nil, storage.ErrDuplicate
		}
	}

	article.ID = domain.ArticleID(uuid.New())
	article.CreatedAt = time.Now().UTC()
	article.UpdatedAt = article.CreatedAt
	f.articles[article.ID] = article

	return &article, nil
}

func (f *Fake) ArticleByID(ctx context.Context, id domain.ArticleID) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	if article, ok := f.articles[id]; ok && article.DeletedAt.IsZero() {
		return &article, nil
	}

	return nil, nil //nolint: nilnil
}

func (f *Fake) publishedLocked() []domain.Article {
	out := make([]domain.Article, 0, len(f.articles))
	for _, article := range f.articles {
		if article.IsPublished && article.DeletedAt.IsZero() {
			out = append(out, article)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return idLess(out[j].ID, out[i].ID)
	})

	return out
}

// idLess orders article IDs the way the database does, byte-wise.
func idLess(a, b domain.ArticleID) bool {
	ua, ub := uuid.UUID(a), uuid.UUID(b)

	return bytes.Compare(ua[:], ub[:]) < 0
}

// afterCursor reports whether the article comes strictly after the cursor in
// created_at DESC, id DESC order.
func afterCursor(article domain.Article, cursor *storage.ArticleCursor) bool {
	if cursor == nil {
		return true
	}
	if !article.CreatedAt.Equal(cursor.CreatedAt) {
		return article.CreatedAt.Before(cursor.CreatedAt)
	}

	return idLess(article.ID, cursor.ID)
}

func (f *Fake) PublishedArticles(ctx context.Context, query storage.ArticleQuery) (storage.ArticlePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return storage.ArticlePage{}, f.Err
	}

	matched := make([]domain.Article, 0)
	for _, article := range f.publishedLocked() {
		if query.Search != "" {
			term := strings.ToLower(query.Search)
			author := f.users[article.AuthorID]
			if !strings.Contains(strings.ToLower(article.Title), term) &&
				!strings.Contains(strings.ToLower(article.Body), term) &&
				!strings.Contains(strings.ToLower(author.Username), term) {
				continue
			}
		}
		if query.AuthorID != nil && article.AuthorID != *query.AuthorID {
			continue
		}
		if !afterCursor(article, query.Cursor) {
			continue
		}
		matched = append(matched, article)
	}

	page := storage.ArticlePage{Articles: matched}
	if query.Limit > 0 && uint(len(matched)) > query.Limit {
		page.Articles = matched[:query.Limit]
		last := matched[query.Limit-1]
		page.NextCursor = &storage.ArticleCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}
	}

	return page, nil
}

func (f *Fake) RelatedArticles(ctx context.Context,
	authorID domain.UserID,
	exclude domain.ArticleID,
	limit uint) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]domain.Article, 0, limit)
	for _, article := range f.publishedLocked() {
		if article.AuthorID != authorID || article.ID == exclude {
			continue
		}
		out = append(out, article)
		if uint(len(out)) == limit {
			break
		}
	}

	return out, nil
}

func (f *Fake) UpdateArticleByID(ctx context.Context,
	id domain.ArticleID,
	updates storage.ArticleUpdates) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	article, ok := f.articles[id]
	if !ok || !article.DeletedAt.IsZero() {
		return nil, nil //nolint: nilnil
	}

	if updates.Title != nil {
		for _, existing := range f.articles {
			if existing.ID != id && existing.DeletedAt.IsZero() && strings.EqualFold(existing.Title, *updates.Title) {
				return nil, storage.ErrDuplicate
			}
		}
		article.Title = *updates.Title
	}
	if updates.Body != nil {
		article.Body = *updates.Body
	}
	if updates.MetaDescription != nil {
		article.MetaDescription = *updates.MetaDescription
	}
	if updates.ImagePath != nil {
		article.ImagePath = *updates.ImagePath
	}
	if updates.IsPublished != nil {
		article.IsPublished = *updates.IsPublished
	}
	article.UpdatedAt = time.Now().UTC()
	f.articles[id] = article

	return &article, nil
}

func (f *Fake) IncrementArticleViews(ctx context.Context, id domain.ArticleID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}

	if article, ok := f.articles[id]; ok {
		article.ViewsCount++
		f.articles[id] = article
	}

	return nil
}

func (f *Fake) DeleteArticle(ctx context.Context, id domain.ArticleID) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	article, ok := f.articles[id]
	if !ok || !article.DeletedAt.IsZero() {
		return nil, nil //nolint: nilnil
	}

	article.DeletedAt = time.Now().UTC()
	f.articles[id] = article

	return &article, nil
}

func (f *Fake) PublishedArticleStats(ctx context.Context) (storage.ArticleStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return storage.ArticleStats{}, f.Err
	}

	authors := make(map[domain.UserID]struct{})
	stats := storage.ArticleStats{}
	for _, article := range f.publishedLocked() {
		stats.TotalArticles++
		authors[article.AuthorID] = struct{}{}
	}
	stats.TotalAuthors = int64(len(authors))

	return stats, nil
}

func (f *Fake) StoreComment(ctx context.Context, comment domain.Comment) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	comment.ID = domain.CommentID(uuid.New())
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	f.comments[comment.ID] = comment

	return &comment, nil
}

func (f *Fake) CommentByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	if comment, ok := f.comments[id]; ok && comment.DeletedAt.IsZero() {
		return &comment, nil
	}

	return nil, nil //nolint: nilnil
}

func (f *Fake) ArticleComments(ctx context.Context,
	articleID domain.ArticleID,
	approvedOnly bool) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]domain.Comment, 0)
	for _, comment := range f.comments {
		if comment.ArticleID != articleID || !comment.DeletedAt.IsZero() {
			continue
		}
		if approvedOnly && !comment.IsApproved {
			continue
		}
		out = append(out, comment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (f *Fake) UpdateCommentByID(ctx context.Context,
	id domain.CommentID,
	updates storage.CommentUpdates) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	comment, ok := f.comments[id]
	if !ok || !comment.DeletedAt.IsZero() {
		return nil, nil //nolint: nilnil
	}

	if updates.Body != nil {
		comment.Body = *updates.Body
	}
	if updates.IsApproved != nil {
		comment.IsApproved = *updates.IsApproved
	}
	comment.UpdatedAt = time.Now().UTC()
	f.comments[id] = comment

	return &comment, nil
}

func (f *Fake) DeleteComment(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	comment, ok := f.comments[id]
	if !ok || !comment.DeletedAt.IsZero() {
		return nil, nil //nolint: nilnil
	}

	comment.DeletedAt = time.Now().UTC()
	f.comments[id] = comment

	return &comment, nil
}

func (f *Fake) UpsertPage(ctx context.Context, page domain.Page) (*domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	now := time.Now().UTC()
	if existing, ok := f.pages[page.Slug]; ok {
		existing.Title = page.Title
		existing.Body = page.Body
		existing.UpdatedAt = now
		f.pages[page.Slug] = existing

		return &existing, nil
	}

	page.ID = domain.PageID(uuid.New())
	page.CreatedAt = now
	page.UpdatedAt = now
	f.pages[page.Slug] = page

	return &page, nil
}

func (f *Fake) PageBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	if page, ok := f.pages[slug]; ok {
		return &page, nil
	}

	return nil, nil //nolint: nilnil
}

func (f *Fake) Pages(ctx context.Context) ([]domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]domain.Page, 0, len(f.pages))
	for _, page := range f.pages {
		out = append(out, page)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })

	return out, nil
}

// AddJob records the job args and reports it as inserted.
func (f *Fake) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}

	f.Jobs = append(f.Jobs, args)

	return true, nil
}
