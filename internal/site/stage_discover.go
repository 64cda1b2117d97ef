package site

import (
	"context"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docs"
	"git.home.luguber.info/inful/docsite/internal/nav"
)

func stageDiscover(_ context.Context, bs *buildState) error {
	set, err := docs.Discover(bs.cfg.Content.Dir, false)
	if err != nil {
		return err
	}
	bs.set = set
	bs.report.Drafts = set.Drafts
	bs.report.ContentHash = set.Hash()
	return nil
}

// stageValidateSidebar resolves the sidebar against the discovered content.
// A sidebar slug without a document stops the build before anything is
// written.
func stageValidateSidebar(_ context.Context, bs *buildState) error {
	if err := config.ValidateSidebarContent(bs.cfg.Sidebar, bs.set); err != nil {
		return err
	}
	sidebar, err := nav.Build(bs.cfg.Sidebar, bs.set, bs.cfg.Site.BasePath)
	if err != nil {
		return err
	}
	bs.sidebar = sidebar
	return nil
}
