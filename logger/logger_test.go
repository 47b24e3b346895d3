package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stonehub.log")
	l := New(Config{Level: "debug", OutputPath: path, MaxSize: 1})

	l.Info("[Test] hello", String("k", "v"), ErrorField(errors.New("boom")))
	_ = l.Sync() // stdout 可能不支持 fsync

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, `"msg":"[Test] hello"`), line)
	assert.Contains(t, line, `"k":"v"`)
	assert.Contains(t, line, `"error":"boom"`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	l := New(Config{Level: "warn", OutputPath: path})

	l.Info("dropped")
	l.Warn("kept")
	_ = l.Sync() // stdout 可能不支持 fsync

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestHelpersWithoutInit(t *testing.T) {
	// 未初始化时包级函数不应 panic
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
	Sync()
}
