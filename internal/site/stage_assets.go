package site

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/docs"
)

// stageCopyAssets copies non-Markdown content files verbatim.
func stageCopyAssets(ctx context.Context, bs *buildState) error {
	if len(bs.set.Assets) == 0 {
		return errSkipStage
	}
	for _, a := range bs.set.Assets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bs.copyAsset(a); err != nil {
			return err
		}
	}
	bs.report.Assets = len(bs.set.Assets)
	return nil
}

func (bs *buildState) copyAsset(a docs.Asset) error {
	dst := filepath.Join(bs.stageDir, filepath.FromSlash(a.RelPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fsError(err, "failed to create asset directory", filepath.Dir(dst))
	}
	in, err := os.Open(a.Path)
	if err != nil {
		return fsError(err, "failed to open asset", a.Path)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fsError(err, "failed to create asset", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fsError(err, "failed to copy asset", dst)
	}
	if err := out.Close(); err != nil {
		return fsError(err, "failed to close asset", dst)
	}
	return nil
}
