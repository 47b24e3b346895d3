package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"stonehub/config"
	"stonehub/logger"
)

// ErrImageNotFound is returned when the requested object does not exist.
var ErrImageNotFound = errors.New("image not found")

// Image is an open image ready to be streamed to a client.
type Image struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// ObjectInfo 文件信息
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// ImageStore serves the files behind /images/.
type ImageStore interface {
	Open(ctx context.Context, name string) (*Image, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// NewImageStore returns a MinIO-backed store when an endpoint is configured,
// otherwise a store reading from cfg.ImagesDir.
func NewImageStore(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	if cfg.MinioEndpoint == "" {
		logger.Info("[Storage] 使用本地图片目录", logger.String("dir", cfg.ImagesDir))
		return NewLocalImageStore(cfg.ImagesDir), nil
	}
	store, err := NewMinioImageStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init minio image store: %w", err)
	}
	return store, nil
}

// CleanObjectName normalizes a request path into a relative object key.
// It returns "" for names that escape the root or name a directory.
func CleanObjectName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" || cleaned == "." || strings.HasSuffix(name, "/") {
		return ""
	}
	return cleaned
}

// DetectContentType 根据扩展名检测内容类型
func DetectContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// FormatSize 格式化文件大小
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
