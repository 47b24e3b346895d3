package server

import (
	"encoding/json"
	"net/http"

	"stonehub/config"
	"stonehub/core/session"
	"stonehub/logger"
	"stonehub/repository"
	"stonehub/storage"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	feedbackRepo repository.FeedbackRepository
	kdaRepo      repository.KDARepository
	sessions     session.Store
	images       storage.ImageStore
	cfg          *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	feedbackRepo repository.FeedbackRepository,
	kdaRepo repository.KDARepository,
	sessions session.Store,
	images storage.ImageStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		postRepo:     postRepo,
		feedbackRepo: feedbackRepo,
		kdaRepo:      kdaRepo,
		sessions:     sessions,
		images:       images,
		cfg:          cfg,
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var successResponse = statusResponse{Status: "success"}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("[HTTP] 编码响应失败", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// internalError logs err under tag and answers with a generic 500.
func internalError(w http.ResponseWriter, tag string, err error) {
	logger.Error(tag+" 内部错误", logger.ErrorField(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON reads a JSON object body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
