package worker_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"

	"driftblog/internal/articles"
	"driftblog/internal/worker"
	"driftblog/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func makeJob(id int64, path string, maxWidth int) *river.Job[articles.OptimizeImageArgs] {
	return &river.Job[articles.OptimizeImageArgs]{
		JobRow: &rivertype.JobRow{ID: id},
		Args:   articles.OptimizeImageArgs{Path: path, MaxWidth: maxWidth},
	}
}

func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255}) //nolint: gosec
		}
	}

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	return name
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)

	return cfg.Width, cfg.Height
}

func TestOptimizeImageWorker_DownscalesWideImage(t *testing.T) {
	dir := t.TempDir()
	name := writePNG(t, dir, "wide.png", 400, 200)

	w := worker.NewOptimizeImageWorker(dir)
	require.NoError(t, w.Work(t.Context(), makeJob(1, name, 100)))

	width, height := decodeSize(t, filepath.Join(dir, name))
	require.Equal(t, 100, width)
	require.Equal(t, 50, height, "aspect ratio must be preserved")
}

func TestOptimizeImageWorker_LeavesSmallImageAlone(t *testing.T) {
	dir := t.TempDir()
	name := writePNG(t, dir, "small.png", 80, 60)

	before, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	w := worker.NewOptimizeImageWorker(dir)
	require.NoError(t, w.Work(t.Context(), makeJob(2, name, 100)))

	after, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestOptimizeImageWorker_MissingFileCancels(t *testing.T) {
	w := worker.NewOptimizeImageWorker(t.TempDir())

	err := w.Work(t.Context(), makeJob(3, "gone.png", 100))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestOptimizeImageWorker_UndecodableFileCancels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0o644))

	w := worker.NewOptimizeImageWorker(dir)

	err := w.Work(t.Context(), makeJob(4, "junk.png", 100))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}
