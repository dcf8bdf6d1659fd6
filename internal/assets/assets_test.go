package assets_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"driftblog/internal/assets"
	"driftblog/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollect(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "static")

	writeFile(t, filepath.Join(src, "css", "main.css"), "body {}")
	writeFile(t, filepath.Join(src, "robots.txt"), "User-agent: *")

	count, err := assets.Collect(context.Background(), src, dest)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	data, err := os.ReadFile(filepath.Join(dest, "css", "main.css"))
	require.NoError(t, err)
	require.Equal(t, "body {}", string(data))
}

func TestCollect_RemovesStaleFiles(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "static")

	writeFile(t, filepath.Join(src, "old.css"), "old")
	_, err := assets.Collect(context.Background(), src, dest)
	require.NoError(t, err)

	// a file deleted from the source disappears from the staging dir
	require.NoError(t, os.Remove(filepath.Join(src, "old.css")))
	writeFile(t, filepath.Join(src, "new.css"), "new")

	count, err := assets.Collect(context.Background(), src, dest)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = os.Stat(filepath.Join(dest, "old.css"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollect_MissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "static")

	_, err := assets.Collect(context.Background(), filepath.Join(t.TempDir(), "nope"), dest)
	require.Error(t, err)
}

func TestCollect_CanceledContext(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "main.css"), "body {}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := assets.Collect(ctx, src, filepath.Join(t.TempDir(), "static"))
	require.ErrorIs(t, err, context.Canceled)
}
