// Package tokenfile stores the OAuth token record as a JSON file.
package tokenfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
)

const (
	dirPerm  = 0o755
	filePerm = 0o600
)

type fileRepository struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
}

func NewRepository(fs afero.Fs, cfg *config.Config, logger *zap.Logger) repository.TokenRepository {
	return NewFileRepository(fs, cfg.Storage.TokenPath(), logger)
}

// NewFileRepository stores the record at path on fs
func NewFileRepository(fs afero.Fs, path string, logger *zap.Logger) repository.TokenRepository {
	return &fileRepository{
		fs:     fs,
		path:   path,
		logger: logger,
	}
}

func (r *fileRepository) Path() string {
	return r.path
}

func (r *fileRepository) Load(ctx context.Context) (*entity.TokenRecord, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &apperror.IOError{Op: "read", Path: r.path, Err: err}
	}

	var record entity.TokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// A corrupt file is treated like a missing one; the user re-authorizes.
		r.logger.Warn("Token file is not valid JSON, ignoring it",
			zap.String("path", r.path),
			zap.Error(err),
		)
		return nil, nil
	}

	return &record, nil
}

// Save writes to a temp file in the same directory and renames it over the
// old record, so readers never see a half written file.
func (r *fileRepository) Save(ctx context.Context, record *entity.TokenRecord) error {
	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, dirPerm); err != nil {
		return &apperror.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return &apperror.IOError{Op: "encode", Path: r.path, Err: err}
	}

	tmp, err := afero.TempFile(r.fs, dir, ".token-*.json")
	if err != nil {
		return &apperror.IOError{Op: "create", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return &apperror.IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		r.fs.Remove(tmpName)
		return &apperror.IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := r.fs.Chmod(tmpName, filePerm); err != nil {
		r.logger.Debug("Failed to chmod token file", zap.String("path", tmpName), zap.Error(err))
	}
	if err := r.fs.Rename(tmpName, r.path); err != nil {
		r.fs.Remove(tmpName)
		return &apperror.IOError{Op: "rename", Path: r.path, Err: err}
	}

	r.logger.Debug("Token record saved", zap.String("path", r.path))
	return nil
}
