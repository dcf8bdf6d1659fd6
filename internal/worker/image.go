package worker

import (
	"context"
	"driftblog/internal/articles"
	"driftblog/pkg/logger"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decode support for uploaded webp files
)

// jpegQuality is the encoder quality used when re-encoding downscaled JPEGs.
const jpegQuality = 85

// OptimizeImageWorker downscales uploaded article images that exceed the
// configured maximum width. Images are scaled in place: the result is written
// next to the original and renamed over it so readers never observe a partial
// file. Aspect ratio is preserved.
//
// Errors that retrying cannot fix (missing file, undecodable data, an image
// format we cannot re-encode) cancel the job instead of burning attempts.
type OptimizeImageWorker struct {
	river.WorkerDefaults[articles.OptimizeImageArgs]

	// mediaDir is the directory uploaded images live in; job args carry paths
	// relative to it.
	mediaDir string
}

// NewOptimizeImageWorker constructs an image worker operating on mediaDir.
func NewOptimizeImageWorker(mediaDir string) *OptimizeImageWorker {
	return &OptimizeImageWorker{mediaDir: mediaDir}
}

// Work processes a single image optimization job.
func (o *OptimizeImageWorker) Work(ctx context.Context, job *river.Job[articles.OptimizeImageArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.String("path", job.Args.Path))

	path := filepath.Join(o.mediaDir, filepath.Base(job.Args.Path))

	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// the article was deleted or the image replaced before we ran
			return river.JobCancel(fmt.Errorf("image file is gone: %w", err)) //nolint: wrapcheck
		}

		return fmt.Errorf("could not open image: %w", err)
	}

	img, format, err := image.Decode(src)
	_ = src.Close()
	if err != nil {
		return river.JobCancel(fmt.Errorf("could not decode image: %w", err)) //nolint: wrapcheck
	}

	width := img.Bounds().Dx()
	if job.Args.MaxWidth <= 0 || width <= job.Args.MaxWidth {
		logger.Debug(ctx, "image already within bounds", zap.Int("width", width))

		return nil
	}

	scaled := downscale(img, job.Args.MaxWidth)

	encode, err := encoderFor(format, filepath.Ext(path))
	if err != nil {
		// e.g. webp, which the stack can decode but not encode; keep the original
		logger.Info(ctx, "image format not re-encodable, keeping original",
			zap.String("format", format))

		return river.JobCancel(err) //nolint: wrapcheck
	}

	if err := writeAtomically(path, scaled, encode); err != nil {
		return err
	}

	logger.Info(ctx, "image downscaled",
		zap.Int("fromWidth", width),
		zap.Int("toWidth", scaled.Bounds().Dx()))

	return nil
}

// downscale resizes img to maxWidth preserving the aspect ratio.
func downscale(img image.Image, maxWidth int) *image.RGBA {
	bounds := img.Bounds()
	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

// encoderFor picks an encoder matching the decoded format, falling back to the
// file extension when the two disagree.
func encoderFor(format, ext string) (func(f *os.File, img image.Image) error, error) {
	switch {
	case format == "jpeg" || ext == ".jpg" || ext == ".jpeg":
		return func(f *os.File, img image.Image) error {
			return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
		}, nil
	case format == "png" || ext == ".png":
		return func(f *os.File, img image.Image) error {
			return png.Encode(f, img)
		}, nil
	case format == "gif" || ext == ".gif":
		return func(f *os.File, img image.Image) error {
			return gif.Encode(f, img, nil)
		}, nil
	default:
		return nil, fmt.Errorf("no encoder for image format %q", format)
	}
}

// writeAtomically encodes the image into a sibling temp file and renames it
// over the original.
func writeAtomically(path string, img image.Image, encode func(f *os.File, img image.Image) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*")
	if err != nil {
		return fmt.Errorf("could not create temp image file: %w", err)
	}

	if err := encode(tmp, img); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("could not encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("could not close temp image file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("could not replace image file: %w", err)
	}

	return nil
}
