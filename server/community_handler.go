package server

import (
	"errors"
	"net/http"

	"stonehub/repository"
)

type createPostRequest struct {
	Text string `json:"text"`
}

type feedbackRequest struct {
	Message string `json:"message"`
}

// ListPostsHandler returns every post, newest first.
func (h *APIHandler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postRepo.List(r.Context())
	if err != nil {
		internalError(w, "[Posts]", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreatePostHandler 发布社区帖子
func (h *APIHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := IdentityFromContext(r.Context())

	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.postRepo.Create(r.Context(), email, req.Text); err != nil {
		if errors.Is(err, repository.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, "Post text cannot be empty")
			return
		}
		internalError(w, "[Posts]", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse)
}

// SubmitFeedbackHandler stores feedback under the current identity, or anonymously.
func (h *APIHandler) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var author *string
	if email, ok := IdentityFromContext(r.Context()); ok {
		author = &email
	}

	if err := h.feedbackRepo.Submit(r.Context(), author, req.Message); err != nil {
		if errors.Is(err, repository.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, "Feedback cannot be empty")
			return
		}
		internalError(w, "[Feedback]", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse)
}

// ListFeedbackHandler 仅管理员可查看全部反馈
func (h *APIHandler) ListFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		writeError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	items, err := h.feedbackRepo.ListAll(r.Context())
	if err != nil {
		internalError(w, "[Feedback]", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// isAdmin reports whether the requester is the configured administrator.
// An unset ADMIN_EMAIL matches nobody.
func (h *APIHandler) isAdmin(r *http.Request) bool {
	email, ok := IdentityFromContext(r.Context())
	return ok && h.cfg.AdminEmail != "" && email == h.cfg.AdminEmail
}
