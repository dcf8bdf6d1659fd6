package articles

import (
	"context"
	"driftblog/internal/config"
	"driftblog/pkg/domain"
	"driftblog/pkg/logger"
	"driftblog/pkg/serrors"
	"driftblog/pkg/storage"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultRelatedLimit is how many related articles accompany a detail view.
	DefaultRelatedLimit = 3
)

// allowedImageExts lists the accepted upload extensions, matching the
// original upload form.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Options configure media handling and job enqueueing.
type Options struct {
	// MediaDir is the directory article images are written to.
	MediaDir string
	// MaxImageWidth is passed to the image job; wider images get downscaled.
	MaxImageWidth int
}

// NewOptions constructs an Options value from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MediaDir:      filepath.Join(cfg.Startup.DataDir, "media"),
		MaxImageWidth: cfg.Media.MaxImageWidth,
	}
}

// articles is the concrete implementation of the Articles interface.
type articles struct {
	options Options
	storage storage.Storage
}

// New creates a new Articles service backed by the provided storage.
func New(storage storage.Storage, options Options) Articles {
	return &articles{
		options: options,
		storage: storage,
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if len(title) < domain.TitleMinLen || len(title) > domain.TitleMaxLen {
		return "", serrors.With(serrors.ErrBadRequest,
			"title must be %d-%d characters", domain.TitleMinLen, domain.TitleMaxLen)
	}

	return title, nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if len(body) < domain.BodyMinLen {
		return "", serrors.With(serrors.ErrBadRequest,
			"body must be at least %d characters", domain.BodyMinLen)
	}

	return body, nil
}

// Create stores a new article. The meta description falls back to the leading
// words of the body, mirroring what authors would otherwise type by hand.
func (a articles) Create(ctx context.Context, author domain.User, params CreateParams) (*domain.Article, error) {
	title, err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}
	body, err := validateBody(params.Body)
	if err != nil {
		return nil, err
	}

	meta := strings.TrimSpace(params.MetaDescription)
	if len(meta) > domain.MetaDescriptionMaxLen {
		return nil, serrors.With(serrors.ErrBadRequest,
			"meta description must be at most %d characters", domain.MetaDescriptionMaxLen)
	}
	if meta == "" {
		meta = domain.GenerateMetaDescription(body)
	}

	article, err := a.storage.StoreArticle(ctx, domain.Article{
		AuthorID:        author.ID,
		Title:           title,
		Body:            body,
		MetaDescription: meta,
		IsPublished:     true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "an article with this title already exists")
		}

		return nil, fmt.Errorf("could not store article: %w", err)
	}

	return article, nil
}

// visibleTo reports whether the viewer may see the article at all.
func visibleTo(article domain.Article, viewer *domain.User) bool {
	if article.IsPublished {
		return true
	}
	if viewer == nil {
		return false
	}

	return article.CanEdit(*viewer)
}

// Get returns the article detail. The view counter is incremented unless the
// viewer is the author; a failed increment only logs since losing a view is
// harmless.
func (a articles) Get(ctx context.Context, viewer *domain.User, id domain.ArticleID) (*Detail, error) {
	article, err := a.storage.ArticleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch article: %w", err)
	}
	if article == nil || !visibleTo(*article, viewer) {
		return nil, serrors.With(serrors.ErrNotFound, "article not found")
	}

	if viewer == nil || viewer.ID != article.AuthorID {
		if err := a.storage.IncrementArticleViews(ctx, id); err != nil {
			logger.Warn(ctx, "could not increment article views", zap.Error(err))
		} else {
			article.ViewsCount++
		}
	}

	related, err := a.storage.RelatedArticles(ctx, article.AuthorID, article.ID, DefaultRelatedLimit)
	if err != nil {
		return nil, fmt.Errorf("could not fetch related articles: %w", err)
	}

	return &Detail{
		Article: *article,
		Related: related,
	}, nil
}

// encodeCursor renders a pagination position as an opaque string handed to
// clients, pairing the creation timestamp with the row ID.
func encodeCursor(c storage.ArticleCursor) string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "," + uuid.UUID(c.ID).String()
}

func decodeCursor(s string) (*storage.ArticleCursor, error) {
	ts, rawID, ok := strings.Cut(s, ",")
	if !ok {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid cursor")
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
	}

	return &storage.ArticleCursor{CreatedAt: t, ID: domain.ArticleID(id)}, nil
}

// List returns a page of published articles with aggregate stats, supporting
// cursor-based pagination.
func (a articles) List(ctx context.Context, params ListParams) (*Listing, error) {
	query := storage.ArticleQuery{
		Search: strings.TrimSpace(params.Search),
		Limit:  params.Limit,
	}

	if params.Cursor != "" {
		cursor, err := decodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		query.Cursor = cursor
	}

	if params.Author != "" {
		author, err := a.storage.UserByUsername(ctx, params.Author)
		if err != nil {
			return nil, fmt.Errorf("could not fetch author: %w", err)
		}
		if author == nil {
			return nil, serrors.With(serrors.ErrNotFound, "author not found")
		}
		query.AuthorID = &author.ID
	}

	page, err := a.storage.PublishedArticles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not fetch articles: %w", err)
	}

	stats, err := a.storage.PublishedArticleStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch article stats: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = encodeCursor(*page.NextCursor)
	}

	return &Listing{
		Articles:   page.Articles,
		NextCursor: next,
		Stats:      stats,
	}, nil
}

// editableArticle fetches an article and checks the caller may modify it.
func (a articles) editableArticle(ctx context.Context,
	caller domain.User,
	id domain.ArticleID) (*domain.Article, error) {
	article, err := a.storage.ArticleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch article: %w", err)
	}
	if article == nil {
		return nil, serrors.With(serrors.ErrNotFound, "article not found")
	}
	if !article.CanEdit(caller) {
		return nil, serrors.With(serrors.ErrForbidden, "not allowed to modify this article")
	}

	return article, nil
}

// Update modifies an article's content fields.
func (a articles) Update(ctx context.Context,
	caller domain.User,
	id domain.ArticleID,
	params UpdateParams) (*domain.Article, error) {
	if _, err := a.editableArticle(ctx, caller, id); err != nil {
		return nil, err
	}

	updates := storage.ArticleUpdates{}
	if params.Title != nil {
		title, err := validateTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		updates.Title = &title
	}
	if params.Body != nil {
		body, err := validateBody(*params.Body)
		if err != nil {
			return nil, err
		}
		updates.Body = &body
	}
	if params.MetaDescription != nil {
		meta := strings.TrimSpace(*params.MetaDescription)
		if len(meta) > domain.MetaDescriptionMaxLen {
			return nil, serrors.With(serrors.ErrBadRequest,
				"meta description must be at most %d characters", domain.MetaDescriptionMaxLen)
		}
		updates.MetaDescription = &meta
	}

	article, err := a.storage.UpdateArticleByID(ctx, id, updates)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "an article with this title already exists")
		}

		return nil, fmt.Errorf("could not update article: %w", err)
	}
	if article == nil {
		return nil, serrors.With(serrors.ErrNotFound, "article not found")
	}

	return article, nil
}

// Delete soft-deletes an article and removes its image file best-effort.
func (a articles) Delete(ctx context.Context, caller domain.User, id domain.ArticleID) error {
	if _, err := a.editableArticle(ctx, caller, id); err != nil {
		return err
	}

	article, err := a.storage.DeleteArticle(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete article: %w", err)
	}
	if article == nil {
		return serrors.With(serrors.ErrNotFound, "article not found")
	}

	if article.HasImage() {
		if err := os.Remove(filepath.Join(a.options.MediaDir, article.ImagePath)); err != nil {
			logger.Warn(ctx, "could not remove article image", zap.Error(err))
		}
	}

	return nil
}

// SetPublished toggles public visibility. Restricted to staff, mirroring the
// bulk publish/unpublish admin actions.
func (a articles) SetPublished(ctx context.Context,
	caller domain.User,
	id domain.ArticleID,
	published bool) (*domain.Article, error) {
	if !caller.IsStaff {
		return nil, serrors.With(serrors.ErrForbidden, "only staff may change publication state")
	}

	article, err := a.storage.UpdateArticleByID(ctx, id, storage.ArticleUpdates{
		IsPublished: &published,
	})
	if err != nil {
		return nil, fmt.Errorf("could not update article: %w", err)
	}
	if article == nil {
		return nil, serrors.With(serrors.ErrNotFound, "article not found")
	}

	return article, nil
}

// imageFilename builds a collision-resistant media filename from the upload
// time and the article title, e.g. "article_20250114_133702_my-title.png".
func imageFilename(title, ext string) string {
	var slug strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			slug.WriteRune(r)
		case r == ' ':
			slug.WriteRune('-')
		}
		if slug.Len() >= 30 {
			break
		}
	}

	return fmt.Sprintf("article_%s_%s%s", time.Now().UTC().Format("20060102_150405"), slug.String(), ext)
}

// AttachImage writes the uploaded file into the media directory, points the
// article at it and enqueues a downscale job. The file write happens before
// the transaction so a failed transaction leaves only an orphan file, never a
// dangling reference.
func (a articles) AttachImage(ctx context.Context,
	caller domain.User,
	id domain.ArticleID,
	filename string,
	data io.Reader) (*domain.Article, error) {
	article, err := a.editableArticle(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported image format %q", ext)
	}

	name := imageFilename(article.Title, ext)
	dst, err := os.Create(filepath.Join(a.options.MediaDir, name))
	if err != nil {
		return nil, fmt.Errorf("could not create image file: %w", err)
	}
	if _, err := io.Copy(dst, data); err != nil {
		_ = dst.Close()

		return nil, fmt.Errorf("could not write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("could not close image file: %w", err)
	}

	var updated *domain.Article
	if err := a.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		updated, err = tx.UpdateArticleByID(ctx, id, storage.ArticleUpdates{
			ImagePath: &name,
		})
		if err != nil {
			return fmt.Errorf("could not update article: %w", err)
		}
		if updated == nil {
			return serrors.With(serrors.ErrNotFound, "article not found")
		}

		if _, err := tx.AddJob(ctx, OptimizeImageArgs{
			Path:     name,
			MaxWidth: a.options.MaxImageWidth,
		}, nil); err != nil {
			return fmt.Errorf("could not add image job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not attach image: %w", err)
	}

	// the old image is unreferenced now, drop it
	if article.HasImage() && article.ImagePath != name {
		if err := os.Remove(filepath.Join(a.options.MediaDir, article.ImagePath)); err != nil {
			logger.Warn(ctx, "could not remove previous article image", zap.Error(err))
		}
	}

	return updated, nil
}
