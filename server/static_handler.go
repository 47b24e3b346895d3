package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"stonehub/logger"
	"stonehub/storage"

	"github.com/gorilla/mux"
)

// PageHandler serves {page}.html from the pages directory.
func (h *APIHandler) PageHandler(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, mux.Vars(r)["page"])
}

// ProgressPageHandler serves the session-gated progress tracker page.
func (h *APIHandler) ProgressPageHandler(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, "progress.html")
}

func (h *APIHandler) servePage(w http.ResponseWriter, r *http.Request, name string) {
	if !strings.HasSuffix(name, ".html") || strings.ContainsAny(name, `/\`) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	f, err := os.Open(filepath.Join(h.cfg.PagesDir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Error("[Pages] 打开页面失败", logger.String("page", name), logger.ErrorField(err))
		}
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// ImageHandler streams /images/{path} from the configured image store.
func (h *APIHandler) ImageHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["path"]

	img, err := h.images.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrImageNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		logger.Error("[Images] 读取图片失败", logger.String("path", name), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer img.Body.Close()

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if rs, ok := img.Body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, img.ModTime, rs)
		return
	}
	if _, err := io.Copy(w, img.Body); err != nil {
		logger.Warn("[Images] 发送图片中断", logger.String("path", name), logger.ErrorField(err))
	}
}
