package site

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/linkverify"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// stageVerifyLinks parses the emitted pages and fails the build when an
// external link in page content lacks the configured attributes. Rendered
// pages pass by construction; hand-written HTML assets are where violations
// surface.
func stageVerifyLinks(ctx context.Context, bs *buildState) error {
	if bs.cfg.Build.SkipLinkVerification || !bs.hasRule {
		return errSkipStage
	}
	v := linkverify.New(bs.rule, bs.cfg.Site.BasePath)
	report, err := v.VerifySite(ctx, bs.stageDir, bs.cfg.Build.Concurrency)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings() {
		bs.report.addWarning("broken internal link " + w.URL + " in " + w.File)
	}
	for _, e := range report.Errors() {
		slog.Error("External link lacks required attributes",
			logfields.File(e.File), logfields.URL(e.URL), slog.String("detail", e.Detail))
	}
	slog.Debug("Verified emitted links", logfields.Count(report.Anchors), slog.Int("pages", report.Pages))
	return report.Err()
}
