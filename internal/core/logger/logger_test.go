package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"streamblog/internal/core/config"
)

func TestFromConfigWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(config.Log{
		Level: "info",
		JSON:  true,
		File:  config.LogFile{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("post created", zap.String("slug", "hello-world"))
	l.Debug("dropped below level")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"slug":"hello-world"`)
	assert.NotContains(t, string(b), "dropped below level")
}

func TestToWriterTrimsNewline(t *testing.T) {
	file := filepath.Join(t.TempDir(), "w.log")
	l, cleanup := FromConfig(config.Log{Level: "debug", JSON: true, File: config.LogFile{Enable: true, Filename: file}})
	w := ToWriter(l, zapcore.WarnLevel)
	n, err := w.Write([]byte("gin warning\n"))
	require.NoError(t, err)
	assert.Equal(t, len("gin warning\n"), n)
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"gin warning"`)
	assert.Contains(t, string(b), `"level":"warn"`)
}
