package storage

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
)

// NewFs returns the filesystem the token file and templates live on
func NewFs() afero.Fs {
	return afero.NewOsFs()
}

// EnsureDirs creates the data and template directories when missing
func EnsureDirs(fs afero.Fs, cfg *config.Config, logger *zap.Logger) error {
	for _, dir := range []string{cfg.Storage.DataDir, cfg.Storage.TemplateDir} {
		if dir == "" {
			continue
		}
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return &apperror.IOError{Op: "mkdir", Path: dir, Err: err}
		}
		logger.Debug("Storage directory ready", zap.String("path", dir))
	}
	return nil
}
