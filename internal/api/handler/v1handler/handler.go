// Package v1handler implements the version 1 JSON API handlers for accounts,
// articles, comments and pages.
package v1handler

import (
	"driftblog/internal/accounts"
	"driftblog/internal/articles"
	"driftblog/internal/config"
	"driftblog/internal/pages"
	"driftblog/pkg/logger"
	"driftblog/pkg/serrors"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// maxJSONBodyBytes caps the size of accepted JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// Deps carries the services the handlers delegate to.
type Deps struct {
	Accounts accounts.Accounts
	Articles articles.Articles
	Pages    pages.Pages
}

// Options configure request handling limits.
type Options struct {
	// MaxUploadBytes caps the size of an uploaded article image.
	MaxUploadBytes int64
}

// NewOptions constructs an Options value from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	}
}

// Handler serves the v1 API routes.
type Handler struct {
	deps    Deps
	options Options
}

// New creates a v1 API handler with the given dependencies.
func New(deps Deps, options Options) *Handler {
	return &Handler{deps: deps, options: options}
}

// Register installs all v1 routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	// auth
	mux.HandleFunc("POST /v1/auth/register", h.register)
	mux.HandleFunc("POST /v1/auth/login", h.login)
	mux.HandleFunc("GET /v1/auth/me", h.requireUser(h.me))

	// articles
	mux.HandleFunc("GET /v1/articles", h.withUser(h.listArticles))
	mux.HandleFunc("POST /v1/articles", h.requireUser(h.createArticle))
	mux.HandleFunc("GET /v1/articles/{id}", h.withUser(h.getArticle))
	mux.HandleFunc("PATCH /v1/articles/{id}", h.requireUser(h.updateArticle))
	mux.HandleFunc("DELETE /v1/articles/{id}", h.requireUser(h.deleteArticle))
	mux.HandleFunc("POST /v1/articles/{id}/publish", h.requireUser(h.publishArticle))
	mux.HandleFunc("POST /v1/articles/{id}/unpublish", h.requireUser(h.unpublishArticle))
	mux.HandleFunc("PUT /v1/articles/{id}/image", h.requireUser(h.uploadArticleImage))

	// comments
	mux.HandleFunc("GET /v1/articles/{id}/comments", h.withUser(h.listComments))
	mux.HandleFunc("POST /v1/articles/{id}/comments", h.requireUser(h.addComment))
	mux.HandleFunc("PATCH /v1/comments/{id}", h.requireUser(h.editComment))
	mux.HandleFunc("DELETE /v1/comments/{id}", h.requireUser(h.deleteComment))
	mux.HandleFunc("POST /v1/comments/{id}/approve", h.requireUser(h.approveComment))

	// pages
	mux.HandleFunc("GET /v1/pages", h.listPages)
	mux.HandleFunc("GET /v1/pages/{slug}", h.getPage)
	mux.HandleFunc("PUT /v1/pages/{slug}", h.requireUser(h.upsertPage))
}

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps semantic error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, serrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, serrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, serrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, serrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, serrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError converts an error into a JSON error response. Internal errors are
// logged and hidden behind a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", zap.Error(err))
		msg = "internal server error"
	}

	var sErr *serrors.Error
	if errors.As(err, &sErr) && sErr.Message() != "" {
		msg = sErr.Message()
	}

	h.writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeJSON serializes v as the response body with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(r.Context(), "could not encode response", zap.Error(err))
	}
}

// readJSON decodes the request body into v, rejecting unknown fields and
// oversized bodies.
func (h *Handler) readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return nil
}
