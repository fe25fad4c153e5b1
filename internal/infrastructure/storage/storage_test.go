package storage

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
)

func TestEnsureDirs_CreatesBoth(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := &config.Config{}
	cfg.Storage.DataDir = filepath.Join("var", "freee")
	cfg.Storage.TemplateDir = filepath.Join("var", "freee", "templates")

	require.NoError(t, EnsureDirs(fs, cfg, zap.NewNop()))

	for _, dir := range []string{cfg.Storage.DataDir, cfg.Storage.TemplateDir} {
		ok, err := afero.DirExists(fs, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}
}

func TestEnsureDirs_SkipsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := &config.Config{}
	cfg.Storage.TemplateDir = "templates"

	require.NoError(t, EnsureDirs(fs, cfg, zap.NewNop()))

	ok, err := afero.DirExists(fs, "templates")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureDirs_ReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	cfg := &config.Config{}
	cfg.Storage.DataDir = "data"

	err := EnsureDirs(fs, cfg, zap.NewNop())

	var ioErr *apperror.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "data", ioErr.Path)
}
