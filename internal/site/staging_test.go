package site

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func TestFSError(t *testing.T) {
	err := fsError(os.ErrPermission, "failed to create staging directory", "/tmp/dist_stage")
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, errors.CategoryFileSystem, ce.Category())
	require.True(t, ce.CanRetry())
	require.ErrorIs(t, err, os.ErrPermission)
	p, _ := ce.Context().GetString("path")
	require.Equal(t, "/tmp/dist_stage", p)
}
