package v1handler

import (
	"driftblog/internal/articles"
	"driftblog/pkg/domain"
	"driftblog/pkg/serrors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// DefaultLimit is the article page size used when the client does not ask for one.
const DefaultLimit = 20

// MaxLimit caps the article page size.
const MaxLimit = 100

func articleIDFromPath(r *http.Request) (domain.ArticleID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return domain.ArticleID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid article id")
	}

	return domain.ArticleID(id), nil
}

// listArticles returns a page of published articles with aggregate stats.
func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	params := articles.ListParams{
		Search: r.URL.Query().Get("search"),
		Author: r.URL.Query().Get("author"),
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  DefaultLimit,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || limit == 0 || limit > MaxLimit {
			h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "limit must be 1-%d", MaxLimit))

			return
		}
		params.Limit = uint(limit)
	}

	listing, err := h.deps.Articles.List(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, articleListResponse{
		Items:      toArticleResponses(listing.Articles),
		NextCursor: listing.NextCursor,
		Stats:      toArticleStatsResponse(listing.Stats),
	})
}

type createArticleRequest struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	MetaDescription string `json:"metaDescription"`
}

// createArticle stores a new article authored by the caller.
func (h *Handler) createArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	article, err := h.deps.Articles.Create(r.Context(), *UserFromContext(r.Context()), articles.CreateParams{
		Title:           req.Title,
		Body:            req.Body,
		MetaDescription: req.MetaDescription,
	})
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusCreated, toArticleResponse(*article))
}

// getArticle returns the article detail together with related articles.
func (h *Handler) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	detail, err := h.deps.Articles.Get(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, articleDetailResponse{
		articleResponse: toArticleResponse(detail.Article),
		Related:         toArticleResponses(detail.Related),
	})
}

type updateArticleRequest struct {
	Title           *string `json:"title"`
	Body            *string `json:"body"`
	MetaDescription *string `json:"metaDescription"`
}

// updateArticle modifies the content fields of an article.
func (h *Handler) updateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	var req updateArticleRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	article, err := h.deps.Articles.Update(r.Context(), *UserFromContext(r.Context()), id, articles.UpdateParams{
		Title:           req.Title,
		Body:            req.Body,
		MetaDescription: req.MetaDescription,
	})
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, toArticleResponse(*article))
}

// deleteArticle soft-deletes an article.
func (h *Handler) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	if err := h.deps.Articles.Delete(r.Context(), *UserFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id, err := articleIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	article, err := h.deps.Articles.SetPublished(r.Context(), *UserFromContext(r.Context()), id, published)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, toArticleResponse(*article))
}

// publishArticle makes an article publicly visible; staff only.
func (h *Handler) publishArticle(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

// unpublishArticle hides an article from the public; staff only.
func (h *Handler) unpublishArticle(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

// uploadArticleImage attaches a header image uploaded as multipart form data
// under the "image" field.
func (h *Handler) uploadArticleImage(w http.ResponseWriter, r *http.Request) {
	id, err := articleIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.options.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.options.MaxUploadBytes); err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid upload"))

		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "missing image field"))

		return
	}
	defer func() { _ = file.Close() }()

	article, err := h.deps.Articles.AttachImage(r.Context(),
		*UserFromContext(r.Context()),
		id,
		header.Filename,
		file)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, toArticleResponse(*article))
}
