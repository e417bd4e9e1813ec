package site

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/logfields"
	"git.home.luguber.info/inful/mksite/internal/metrics"
)

// stageCopyStatic copies every file under the static directory to the same
// content-relative path under the output directory.
func stageCopyStatic(ctx context.Context, bs *buildState) error {
	staticRoot := filepath.Join(bs.cfg.ContentDir, bs.cfg.StaticDir)
	info, err := os.Stat(staticRoot)
	if errors.Is(err, fs.ErrNotExist) {
		bs.logger.Info("No static directory, skipping", logfields.Path(staticRoot))
		return nil
	}
	if err != nil {
		return berrors.IOFailure("stat", staticRoot, err)
	}
	if !info.IsDir() {
		return berrors.IOFailure("stat", staticRoot, errors.New("not a directory"))
	}

	bs.logger.Info("Copying static files", logfields.Path(staticRoot))
	return filepath.WalkDir(staticRoot, func(src string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return berrors.IOFailure("walk", src, walkErr)
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(bs.cfg.ContentDir, src)
		if err != nil {
			return berrors.InternalError("relativize "+src, err)
		}
		dst := filepath.Join(bs.cfg.OutputDir, rel)
		bs.logger.Info("Copy static file", logfields.Src(src), logfields.Dst(dst))

		copied, err := copyIfStale(src, dst)
		if err != nil {
			return err
		}
		if !copied {
			bs.logger.Info("Skipping up-to-date file", logfields.Src(src))
			bs.report.StaticSkipped++
			bs.recorder.IncStaticFile(metrics.StaticSkipped)
			return nil
		}
		bs.report.StaticCopied++
		bs.recorder.IncStaticFile(metrics.StaticCopied)
		return nil
	})
}

// copyIfStale copies src to dst unless dst exists with a modification time
// strictly newer than src's. It reports whether a copy happened.
func copyIfStale(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, berrors.IOFailure("stat", src, err)
	}
	dstInfo, err := os.Stat(dst)
	switch {
	case err == nil:
		if dstInfo.ModTime().After(srcInfo.ModTime()) {
			return false, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return false, berrors.IOFailure("stat", dst, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return false, berrors.IOFailure("create directory", filepath.Dir(dst), err)
	}
	if err := copyFile(src, dst, srcInfo.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// copyFile copies the bytes of src to dst and applies perm.
func copyFile(src, dst string, perm fs.FileMode) error {
	// #nosec G304 -- src comes from walking the static directory.
	in, err := os.Open(src)
	if err != nil {
		return berrors.IOFailure("open", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	// #nosec G304 -- dst mirrors src under the output directory.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return berrors.IOFailure("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return berrors.IOFailure("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return berrors.IOFailure("close", dst, err)
	}
	if err := os.Chmod(dst, perm); err != nil {
		return berrors.IOFailure("chmod", dst, err)
	}
	return nil
}
