// Package template keeps reusable deal templates as one JSON file each.
package template

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
)

const (
	fileExtension = ".json"
	idPrefix      = "template_"
)

// Store is a directory of <id>.json template files. Every lookup is a full
// scan of the directory; there is no index and no locking.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// storedTemplate is a parsed template together with the file it came from
type storedTemplate struct {
	record entity.TemplateRecord
	path   string
}

func NewStore(fs afero.Fs, cfg *config.Config, logger *zap.Logger) *Store {
	return NewDirStore(fs, cfg.Storage.TemplateDir, logger)
}

func NewDirStore(fs afero.Fs, dir string, logger *zap.Logger) *Store {
	return &Store{
		fs:     fs,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Dir returns the template directory
func (s *Store) Dir() string {
	return s.dir
}

// Save stores fields under a new unique name. Only the whitelisted deal
// fields are kept.
func (s *Store) Save(name string, fields map[string]string) (*entity.TemplateRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperror.ValidationError{Field: "name", Err: apperror.ErrTemplateNameRequired}
	}

	existing, err := s.find(name)
	if err != nil && !errors.Is(err, apperror.ErrTemplateNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &apperror.ValidationError{Field: "name", Err: apperror.ErrTemplateNameTaken}
	}

	now := s.now()
	record := &entity.TemplateRecord{
		ID:        newID(name, now),
		Name:      name,
		CreatedAt: now.Format(entity.TemplateTimeLayout),
		Data:      entity.TemplateDataFromFields(fields),
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return nil, &apperror.IOError{Op: "mkdir", Path: s.dir, Err: err}
	}

	data, err := encode(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}

	path := filepath.Join(s.dir, record.ID+fileExtension)
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return nil, &apperror.IOError{Op: "write", Path: path, Err: err}
	}

	s.logger.Info("Template saved",
		zap.String("id", record.ID),
		zap.String("name", record.Name),
	)

	return record, nil
}

// List returns every readable template, newest first. Files that do not
// parse or carry no name are skipped.
func (s *Store) List() ([]entity.TemplateRecord, error) {
	stored, err := s.sorted()
	if err != nil {
		return nil, err
	}

	records := make([]entity.TemplateRecord, 0, len(stored))
	for _, st := range stored {
		records = append(records, st.record)
	}
	return records, nil
}

// sorted is scan ordered newest first, the order lookups by name follow
func (s *Store) sorted() ([]storedTemplate, error) {
	stored, err := s.scan()
	if err != nil {
		return nil, err
	}

	// created_at sorts lexicographically; ties keep directory order
	slices.SortStableFunc(stored, func(a, b storedTemplate) int {
		return strings.Compare(b.record.CreatedAt, a.record.CreatedAt)
	})
	return stored, nil
}

func (s *Store) LoadByName(name string) (*entity.TemplateData, error) {
	st, err := s.find(name)
	if err != nil {
		return nil, err
	}
	data := st.record.Data
	return &data, nil
}

func (s *Store) DeleteByName(name string) error {
	st, err := s.find(name)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(st.path); err != nil {
		return &apperror.IOError{Op: "delete", Path: st.path, Err: err}
	}

	s.logger.Info("Template deleted",
		zap.String("id", st.record.ID),
		zap.String("name", name),
	)

	return nil
}

func (s *Store) Exists(name string) (bool, error) {
	_, err := s.find(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperror.ErrTemplateNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Status describes the directory and its raw files for troubleshooting
func (s *Store) Status() (*entity.TemplateDirStatus, error) {
	status := &entity.TemplateDirStatus{
		Directory: s.dir,
		Files:     []entity.TemplateFileInfo{},
	}

	exists, err := afero.DirExists(s.fs, s.dir)
	if err != nil {
		return nil, &apperror.IOError{Op: "stat", Path: s.dir, Err: err}
	}
	status.Exists = exists
	if !exists {
		return status, nil
	}

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, &apperror.IOError{Op: "read", Path: s.dir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		status.Files = append(status.Files, entity.TemplateFileInfo{
			Filename: entry.Name(),
			Size:     entry.Size(),
			Modified: entry.ModTime(),
		})
	}

	records, err := s.List()
	if err != nil {
		return nil, err
	}
	status.TemplateCount = len(records)

	return status, nil
}

// find returns the newest template whose name matches. Names are compared
// trimmed, the way Save stores them.
func (s *Store) find(name string) (*storedTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ErrTemplateNotFound
	}

	stored, err := s.sorted()
	if err != nil {
		return nil, err
	}
	for i := range stored {
		if stored[i].record.Name == name {
			return &stored[i], nil
		}
	}
	return nil, apperror.ErrTemplateNotFound
}

func (s *Store) scan() ([]storedTemplate, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &apperror.IOError{Op: "read", Path: s.dir, Err: err}
	}

	var stored []storedTemplate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExtension) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			s.logger.Warn("Skipping unreadable template", zap.String("path", path), zap.Error(err))
			continue
		}

		var record entity.TemplateRecord
		if err := json.Unmarshal(data, &record); err != nil {
			s.logger.Warn("Skipping malformed template", zap.String("path", path), zap.Error(err))
			continue
		}
		if record.Name == "" {
			continue
		}
		if record.ID == "" {
			record.ID = strings.TrimSuffix(entry.Name(), fileExtension)
		}

		stored = append(stored, storedTemplate{record: record, path: path})
	}

	return stored, nil
}

// newID is template_<unix>_<first 8 hex of md5(name + unix)>
func newID(name string, now time.Time) string {
	unix := strconv.FormatInt(now.Unix(), 10)
	sum := md5.Sum([]byte(name + unix))
	return idPrefix + unix + "_" + hex.EncodeToString(sum[:])[:8]
}

// encode writes indented JSON with HTML characters and non-ASCII text left
// as is
func encode(record *entity.TemplateRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
