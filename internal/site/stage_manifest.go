package site

import (
	"context"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/version"
)

// stageWriteManifest records what this build produced.
func stageWriteManifest(_ context.Context, bs *buildState) error {
	m := &manifest.BuildManifest{
		ID:        bs.buildID,
		Version:   version.Version,
		Timestamp: bs.report.Start.UTC(),
		Inputs: manifest.Inputs{
			ConfigHash:  bs.report.ConfigHash,
			ContentHash: bs.report.ContentHash,
		},
		Plan: manifest.Plan{
			BaseURL:    bs.cfg.Site.BaseURL,
			BasePath:   bs.cfg.Site.BasePath,
			Transforms: bs.renderer.Pipeline().Names(),
		},
		Pages:    bs.pages,
		Assets:   bs.report.Assets,
		Status:   manifest.StatusSuccess,
		Duration: time.Since(bs.report.Start).Milliseconds(),
	}
	return m.Write(bs.manifestPath())
}

func (bs *buildState) manifestPath() string {
	p := bs.cfg.Build.Manifest
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(bs.stageDir, filepath.FromSlash(p))
}
