package v1handler

import (
	"driftblog/internal/accounts"
	"net/http"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// register creates a new account and immediately logs it in, returning a
// token like login does.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	user, err := h.deps.Accounts.Register(r.Context(), accounts.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	token, _, err := h.deps.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusCreated, tokenResponse{
		Token: token,
		User:  toUserResponse(*user),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login verifies credentials and returns a signed access token.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	token, user, err := h.deps.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	h.writeJSON(w, r, http.StatusOK, tokenResponse{
		Token: token,
		User:  toUserResponse(*user),
	})
}

// me returns the profile of the authenticated user.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, toUserResponse(*UserFromContext(r.Context())))
}
