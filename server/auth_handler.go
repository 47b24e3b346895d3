package server

import (
	"errors"
	"net/http"

	"stonehub/logger"
	"stonehub/repository"
)

// sessionStatus is the /session-check body.
type sessionStatus struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// SessionCheckHandler reports whether the request carries a live session.
func (h *APIHandler) SessionCheckHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, sessionStatus{LoggedIn: false})
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), email)
	if errors.Is(err, repository.ErrUserNotFound) {
		// 会话对应的用户已不存在，清掉 cookie
		if err := h.sessions.End(r.Context(), w, r); err != nil {
			logger.Warn("[SessionCheck] 清除会话失败", logger.ErrorField(err))
		}
		writeJSON(w, http.StatusOK, sessionStatus{LoggedIn: false})
		return
	}
	if err != nil {
		internalError(w, "[SessionCheck]", err)
		return
	}

	writeJSON(w, http.StatusOK, sessionStatus{
		LoggedIn: true,
		Email:    user.Email,
		Username: user.Username,
	})
}

// SignupHandler handles the signup form.
func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	if _, err := h.userRepo.Create(r.Context(), email, password); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			http.Error(w, "Email already exists", http.StatusBadRequest)
			return
		}
		logger.Error("[Signup] 创建用户失败", logger.String("email", email), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("[Signup] 注册成功", logger.String("email", email))
	http.Redirect(w, r, "/login.html", http.StatusFound)
}

// LoginHandler handles the login form and starts a session.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, err := h.userRepo.VerifyCredentials(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			logger.Warn("[Login] 登录失败", logger.String("email", email))
			http.Error(w, "Invalid login", http.StatusUnauthorized)
			return
		}
		logger.Error("[Login] 校验凭据失败", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Begin(r.Context(), w, user.Email); err != nil {
		logger.Error("[Login] 创建会话失败", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("[Login] 登录成功", logger.String("email", user.Email))
	http.Redirect(w, r, "/home.html", http.StatusFound)
}

// LogoutHandler ends the session, present or not, and returns to the login page.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context(), w, r); err != nil {
		logger.Warn("[Logout] 结束会话失败", logger.ErrorField(err))
	}
	http.Redirect(w, r, "/login.html", http.StatusFound)
}
