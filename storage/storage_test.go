package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"stonehub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestCleanObjectName(t *testing.T) {
	cases := map[string]string{
		"logo.png":          "logo.png",
		"/logo.png":         "logo.png",
		"icons/a.svg":       "icons/a.svg",
		"../secret.txt":     "secret.txt",
		"icons/../../x.png": "x.png",
		"..\\x.png":         "x.png",
		"":                  "",
		"icons/":            "",
		".":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanObjectName(in), "input %q", in)
	}
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", DetectContentType("a.PNG"))
	assert.Equal(t, "image/jpeg", DetectContentType("dir/b.jpeg"))
	assert.Equal(t, "image/svg+xml", DetectContentType("c.svg"))
	assert.Equal(t, "application/octet-stream", DetectContentType("noext"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "2.0 MB", FormatSize(2*1024*1024))
}

func TestLocalImageStoreOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "logo.png", "png-bytes")
	writeFile(t, dir, "icons/star.svg", "<svg/>")

	store := NewLocalImageStore(dir)
	ctx := context.Background()

	img, err := store.Open(ctx, "logo.png")
	require.NoError(t, err)
	defer img.Body.Close()
	body, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, int64(9), img.Size)
	assert.Equal(t, "image/png", img.ContentType)

	img2, err := store.Open(ctx, "icons/star.svg")
	require.NoError(t, err)
	img2.Body.Close()

	_, err = store.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrImageNotFound)

	_, err = store.Open(ctx, "icons")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestLocalImageStoreStaysInRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "images")
	require.NoError(t, os.MkdirAll(root, 0755))
	writeFile(t, parent, "secret.txt", "nope")

	store := NewLocalImageStore(root)
	_, err := store.Open(context.Background(), "../secret.txt")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestLocalImageStoreSymlinks(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "images")
	writeFile(t, root, "cat.png", "meow")
	writeFile(t, parent, "outside/secret.png", "nope")

	require.NoError(t, os.Symlink(filepath.Join(root, "cat.png"), filepath.Join(root, "alias.png")))
	require.NoError(t, os.Symlink(filepath.Join(parent, "outside", "secret.png"), filepath.Join(root, "leak.png")))
	require.NoError(t, os.Symlink(filepath.Join(parent, "outside"), filepath.Join(root, "out")))

	store := NewLocalImageStore(root)
	ctx := context.Background()

	img, err := store.Open(ctx, "alias.png")
	require.NoError(t, err)
	body, err := io.ReadAll(img.Body)
	img.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "meow", string(body))

	_, err = store.Open(ctx, "leak.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, err = store.Open(ctx, "out/secret.png")
	assert.ErrorIs(t, err, ErrImageNotFound)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	keys := make([]string, 0, len(all))
	for _, o := range all {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"alias.png", "cat.png"}, keys)
	assert.Equal(t, int64(4), all[0].Size)
}

func TestLocalImageStoreList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.png", "bb")
	writeFile(t, dir, "a.jpg", "a")
	writeFile(t, dir, "icons/c.gif", "ccc")

	store := NewLocalImageStore(dir)
	all, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a.jpg", all[0].Key)
	assert.Equal(t, "b.png", all[1].Key)
	assert.Equal(t, "icons/c.gif", all[2].Key)
	assert.Equal(t, int64(3), all[2].Size)

	icons, err := store.List(context.Background(), "icons/")
	require.NoError(t, err)
	require.Len(t, icons, 1)

	missing, err := NewLocalImageStore(filepath.Join(dir, "nope")).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestNewImageStoreDefaultsToLocal(t *testing.T) {
	cfg := &config.Config{ImagesDir: t.TempDir()}
	store, err := NewImageStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalImageStore{}, store)
}
