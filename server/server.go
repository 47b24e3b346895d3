package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stonehub/config"
	"stonehub/core/session"
	"stonehub/db"
	"stonehub/logger"
	"stonehub/repository"
	"stonehub/storage"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	gormlogger "gorm.io/gorm/logger"
)

// NewRouter wires every route of the site onto a gorilla/mux router.
func NewRouter(h *APIHandler) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	router.Use(LoggerMiddleware)
	router.Use(WithIdentity(h.sessions))

	// 会话与账号
	router.HandleFunc("/session-check", h.SessionCheckHandler).Methods(http.MethodGet)
	router.HandleFunc("/signup", h.SignupHandler).Methods(http.MethodPost)
	router.HandleFunc("/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/logout", h.LogoutHandler).Methods(http.MethodGet)

	// 个人资料
	router.HandleFunc("/api/profile", RequireSessionAPI(h.GetProfileHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/profile/update", RequireSessionAPI(h.UpdateProfileHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/profile/change-password", RequireSessionAPI(h.ChangePasswordHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/achievement", RequireSessionAPI(h.UnlockAchievementHandler)).Methods(http.MethodPost)

	// 社区帖子与反馈
	router.HandleFunc("/api/posts", h.ListPostsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", RequireSessionAPI(h.CreatePostHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/feedback", h.SubmitFeedbackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/feedback", h.ListFeedbackHandler).Methods(http.MethodGet)

	// KDA
	router.HandleFunc("/api/save-kda", RequireSessionAPI(h.SaveKDAHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/get-kda", RequireSessionAPI(h.GetKDAHandler)).Methods(http.MethodGet)

	// 页面与图片
	router.HandleFunc("/progress.html", RequireSessionPage(h.ProgressPageHandler)).Methods(http.MethodGet)
	router.HandleFunc(`/{page:[^/]+\.html}`, h.PageHandler).Methods(http.MethodGet)
	router.HandleFunc("/images/{path:.+}", h.ImageHandler).Methods(http.MethodGet)

	return corsHandler(h.cfg).Handler(router)
}

func corsHandler(cfg *config.Config) *cors.Cors {
	wildcard := len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*")
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		// 凭据只对明确列出的来源开放
		AllowCredentials: !wildcard,
		MaxAge:           86400,
	})
}

// Start opens every backing service, serves HTTP and shuts down gracefully on SIGINT/SIGTERM.
func Start(cfg *config.Config) error {
	ctx := context.Background()

	if cfg.UsingDevSecret() {
		logger.Warn("[Server] SESSION_SECRET 未设置，使用开发默认值，请勿用于生产环境")
	}

	gdb, err := db.Open(cfg, gormlogger.Warn)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.SessionBackend == "redis" {
		rdb, err = db.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		logger.Info("[Server] Redis 会话后端已连接", logger.String("addr", cfg.RedisAddr()))
	}

	sessions, err := session.NewStore(cfg, rdb)
	if err != nil {
		return err
	}

	images, err := storage.NewImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	h := NewAPIHandler(
		repository.NewGormUserRepository(gdb),
		repository.NewGormPostRepository(gdb),
		repository.NewGormFeedbackRepository(gdb),
		repository.NewGormKDARepository(gdb),
		sessions,
		images,
		cfg,
	)

	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      NewRouter(h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("[Server] 服务启动",
			logger.String("addr", cfg.ServerAddr),
			logger.String("db", cfg.DBDriver),
			logger.String("session", cfg.SessionBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-stop:
	}
	logger.Info("[Server] 正在关闭服务...")

	// 创建一个5秒超时的上下文
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("[Server] 服务已停止")
	return nil
}
