package repository

import "freee-deals/internal/domain/entity"

// TemplateRepository stores named deal templates. Names are unique; ids are
// internal to the store.
type TemplateRepository interface {
	Save(name string, fields map[string]string) (*entity.TemplateRecord, error)
	List() ([]entity.TemplateRecord, error)
	LoadByName(name string) (*entity.TemplateData, error)
	DeleteByName(name string) error
	Exists(name string) (bool, error)
	Status() (*entity.TemplateDirStatus, error)
}
