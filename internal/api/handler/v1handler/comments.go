package v1handler

import (
	"driftblog/pkg/domain"
	"driftblog/pkg/serrors"
	"net/http"

	"github.com/google/uuid"
)

func commentIDFromPath(r *http.Request) (domain.CommentID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return domain.CommentID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid comment id")
	}

	return domain.CommentID(id), nil
}

// listComments returns an article's comments. Staff and the article author
// also see ones still waiting for approval.
func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	articleID, err := articleIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	comments, err := h.deps.Articles.Comments(r.Context(), UserFromContext(r.Context()), articleID)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, struct {
		Items []commentResponse `json:"items"`
	}{Items: toCommentResponses(comments)})
}

type addCommentRequest struct {
	Body     string  `json:"body"`
	ParentID *string `json:"parentId"`
}

// addComment posts a comment or, with parentId set, a reply.
func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	articleID, err := articleIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	var req addCommentRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	var parentID *domain.CommentID
	if req.ParentID != nil {
		parsed, err := uuid.Parse(*req.ParentID)
		if err != nil {
			h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid parent comment id"))

			return
		}
		id := domain.CommentID(parsed)
		parentID = &id
	}

	comment, err := h.deps.Articles.AddComment(r.Context(),
		*UserFromContext(r.Context()),
		articleID,
		parentID,
		req.Body)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusCreated, toCommentResponse(*comment))
}

type editCommentRequest struct {
	Body string `json:"body"`
}

// editComment changes the text of the caller's own comment.
func (h *Handler) editComment(w http.ResponseWriter, r *http.Request) {
	id, err := commentIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	var req editCommentRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	comment, err := h.deps.Articles.EditComment(r.Context(), *UserFromContext(r.Context()), id, req.Body)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, toCommentResponse(*comment))
}

// deleteComment soft-deletes a comment.
func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := commentIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	if err := h.deps.Articles.DeleteComment(r.Context(), *UserFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type approveCommentRequest struct {
	Approved *bool `json:"approved"`
}

// approveComment approves a comment, or rejects it again when the body carries
// {"approved": false}.
func (h *Handler) approveComment(w http.ResponseWriter, r *http.Request) {
	id, err := commentIDFromPath(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	approved := true
	if r.ContentLength > 0 {
		var req approveCommentRequest
		if err := h.readJSON(r, &req); err != nil {
			h.writeError(w, r, err)

			return
		}
		if req.Approved != nil {
			approved = *req.Approved
		}
	}

	comment, err := h.deps.Articles.ModerateComment(r.Context(), *UserFromContext(r.Context()), id, approved)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, toCommentResponse(*comment))
}
