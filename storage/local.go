package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalImageStore reads images from a directory on disk.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore creates a store rooted at dir.
func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{dir: dir}
}

// resolve maps key to a real path, following symlinks. Paths that end up
// outside the root report ErrImageNotFound.
func (s *LocalImageStore) resolve(key string) (string, error) {
	root, err := filepath.EvalSymlinks(s.dir)
	if err != nil {
		return "", err
	}
	p, err := filepath.EvalSymlinks(filepath.Join(root, filepath.FromSlash(key)))
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrImageNotFound
	}
	return p, nil
}

func (s *LocalImageStore) Open(ctx context.Context, name string) (*Image, error) {
	key := CleanObjectName(name)
	if key == "" {
		return nil, ErrImageNotFound
	}

	p, err := s.resolve(key)
	if err != nil {
		return nil, openError(key, err)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, openError(key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat image %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrImageNotFound
	}

	return &Image{
		Body:        f,
		Size:        info.Size(),
		ContentType: DetectContentType(key),
		ModTime:     info.ModTime(),
	}, nil
}

func openError(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrImageNotFound) {
		return ErrImageNotFound
	}
	return fmt.Errorf("failed to open image %s: %w", key, err)
}

// List walks the directory and returns regular files under prefix, sorted by key.
func (s *LocalImageStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		var info fs.FileInfo
		if d.Type()&fs.ModeSymlink != 0 {
			// 与 Open 一致：指向根目录之外或悬空的链接不列出
			target, err := s.resolve(key)
			if err != nil {
				return nil
			}
			if info, err = os.Stat(target); err != nil || info.IsDir() {
				return nil
			}
		} else if info, err = d.Info(); err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  DetectContentType(key),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ObjectInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}
