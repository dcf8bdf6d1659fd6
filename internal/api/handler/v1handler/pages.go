package v1handler

import (
	"driftblog/internal/pages"
	"net/http"
)

// listPages returns all site pages ordered by slug.
func (h *Handler) listPages(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.Pages.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	items := make([]pageResponse, 0, len(all))
	for i := range all {
		items = append(items, toPageResponse(all[i]))
	}

	h.writeJSON(w, r, http.StatusOK, struct {
		Items []pageResponse `json:"items"`
	}{Items: items})
}

// getPage returns a single page by slug.
func (h *Handler) getPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.deps.Pages.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, toPageResponse(*page))
}

type upsertPageRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// upsertPage creates or replaces the page under the given slug; staff only.
func (h *Handler) upsertPage(w http.ResponseWriter, r *http.Request) {
	var req upsertPageRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	page, err := h.deps.Pages.Upsert(r.Context(),
		*UserFromContext(r.Context()),
		r.PathValue("slug"),
		pages.UpsertParams{Title: req.Title, Body: req.Body})
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, toPageResponse(*page))
}
