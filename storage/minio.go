package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"stonehub/config"
	"stonehub/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioImageStore 封装了 MinIO 客户端，从存储桶读取图片
type MinioImageStore struct {
	client     *minio.Client
	bucketName string
}

// NewMinioImageStore 初始化 MinIO 客户端并确保存储桶存在
func NewMinioImageStore(ctx context.Context, cfg *config.Config) (*MinioImageStore, error) {
	logger.Info("[MinIO] 正在连接 MinIO 服务器...",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion})
		if err != nil {
			return nil, fmt.Errorf("创建存储桶失败: %w", err)
		}
		logger.Info("[MinIO] 成功创建存储桶", logger.String("bucket", cfg.MinioBucket))
	}

	logger.Info("[MinIO] 客户端初始化成功")
	return &MinioImageStore{client: client, bucketName: cfg.MinioBucket}, nil
}

func (s *MinioImageStore) Open(ctx context.Context, name string) (*Image, error) {
	key := CleanObjectName(name)
	if key == "" {
		return nil, ErrImageNotFound
	}

	// GetObject 是惰性的，需要 Stat 才能知道对象是否存在
	object, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	info, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = DetectContentType(key)
	}
	return &Image{
		Body:        object,
		Size:        info.Size,
		ContentType: contentType,
		ModTime:     info.LastModified,
	}, nil
}

// List 列出存储桶中指定前缀下的所有对象
func (s *MinioImageStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects := []ObjectInfo{}
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("列出对象时出错: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		})
	}
	return objects, nil
}

// Upload 上传单个图片对象
func (s *MinioImageStore) Upload(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{
		ContentType: DetectContentType(key),
	})
	if err != nil {
		return fmt.Errorf("上传 %s 失败: %w", key, err)
	}
	return nil
}

// SyncFrom uploads every file of src into the bucket, keeping relative keys.
// It returns the number of uploaded objects.
func (s *MinioImageStore) SyncFrom(ctx context.Context, src *LocalImageStore) (int, error) {
	objects, err := src.List(ctx, "")
	if err != nil {
		return 0, err
	}

	uploaded := 0
	for _, obj := range objects {
		img, err := src.Open(ctx, obj.Key)
		if err != nil {
			return uploaded, err
		}
		err = s.Upload(ctx, obj.Key, img.Body, img.Size)
		img.Body.Close()
		if err != nil {
			return uploaded, err
		}
		uploaded++
		logger.Debug("[MinIO] 已上传", logger.String("key", obj.Key), logger.Int64("size", obj.Size))
	}
	return uploaded, nil
}
