// Package assets stages static files into the serving directory, the
// equivalent of a framework's collectstatic step.
package assets

import (
	"context"
	"driftblog/pkg/logger"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Collect clears the destination directory and copies every regular file from
// src into it, preserving the relative layout. It returns the number of files
// staged. Re-running against the same destination is safe: previously staged
// assets are removed first so deletions in src propagate.
func Collect(ctx context.Context, src, dest string) (int, error) {
	if err := os.RemoveAll(dest); err != nil {
		return 0, fmt.Errorf("could not clear staged assets: %w", err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, fmt.Errorf("could not create asset directory: %w", err)
	}

	count := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("could not compute relative path: %w", err)
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			logger.Debug(ctx, "skipping non-regular file", zap.String("path", path))

			return nil
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		count++

		return nil
	})
	if err != nil {
		return count, fmt.Errorf("could not collect static files: %w", err)
	}

	return count, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("could not create staged file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("could not close staged file: %w", err)
	}

	return nil
}
