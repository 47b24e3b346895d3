package server

import (
	"errors"
	"net/http"

	"stonehub/logger"
	"stonehub/repository"
)

type updateProfileRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type achievementRequest struct {
	Achievement string `json:"achievement"`
}

// GetProfileHandler 获取当前用户资料
func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := IdentityFromContext(r.Context())

	user, err := h.userRepo.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		internalError(w, "[Profile]", err)
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

// UpdateProfileHandler overwrites username and bio. Absent fields are stored as "".
func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := IdentityFromContext(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.userRepo.UpdateProfile(r.Context(), email, req.Username, req.Bio); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		internalError(w, "[Profile]", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse)
}

// ChangePasswordHandler 修改密码，需要校验当前密码
func (h *APIHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := IdentityFromContext(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "New password is required")
		return
	}

	err := h.userRepo.ChangePassword(r.Context(), email, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		logger.Info("[Password] 密码已修改", logger.String("email", email))
		writeJSON(w, http.StatusOK, successResponse)
	case errors.Is(err, repository.ErrIncorrectOldPassword):
		writeError(w, http.StatusBadRequest, "Incorrect current password")
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		internalError(w, "[Password]", err)
	}
}

// UnlockAchievementHandler adds one key to the user's achievement set.
func (h *APIHandler) UnlockAchievementHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := IdentityFromContext(r.Context())

	var req achievementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Achievement == "" {
		writeError(w, http.StatusBadRequest, "Achievement is required")
		return
	}

	if err := h.userRepo.UnlockAchievement(r.Context(), email, req.Achievement); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		internalError(w, "[Achievement]", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse)
}
