package site

import (
	"context"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// stagePrepareOutput creates the directory this build writes to. Unless
// output.keep_existing is set, that is a fresh staging directory next to
// the output directory.
func stagePrepareOutput(_ context.Context, bs *buildState) error {
	if bs.cfg.Output.KeepExisting {
		if err := os.MkdirAll(bs.outputDir, 0o755); err != nil {
			return fsError(err, "failed to create output directory", bs.outputDir)
		}
		bs.stageDir = bs.outputDir
		return nil
	}

	stage := bs.outputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fsError(err, "failed to clear staging directory", stage)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fsError(err, "failed to create staging directory", stage)
	}
	bs.stageDir = stage
	bs.staged = true
	slog.Debug("Initialized staging directory", slog.String("staging", stage), logfields.Output(bs.outputDir))
	return nil
}

// promote replaces the output directory with the staging directory. The
// previous output is moved aside first and removed once the swap succeeded.
func (bs *buildState) promote() error {
	if !bs.staged {
		return nil
	}
	prev := bs.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fsError(err, "failed to remove previous output backup", prev)
	}
	hadOutput := false
	if _, err := os.Stat(bs.outputDir); err == nil {
		if err := os.Rename(bs.outputDir, prev); err != nil {
			return fsError(err, "failed to back up existing output", bs.outputDir)
		}
		hadOutput = true
	}
	if err := os.Rename(bs.stageDir, bs.outputDir); err != nil {
		if hadOutput {
			_ = os.Rename(prev, bs.outputDir)
		}
		return fsError(err, "failed to promote staging directory", bs.stageDir)
	}
	bs.staged = false
	if hadOutput {
		removeAll(prev)
	}
	slog.Info("Promoted staging directory", logfields.Output(bs.outputDir))
	return nil
}

// abort removes the staging directory after a failed build.
func (bs *buildState) abort() {
	if bs == nil || !bs.staged {
		return
	}
	bs.staged = false
	removeAll(bs.stageDir)
	slog.Debug("Removed staging directory after abort", slog.String("staging", bs.stageDir))
}

func fsError(err error, msg, path string) error {
	return errors.FileSystemError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}
