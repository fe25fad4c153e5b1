package usecase

import (
	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
)

type TemplateUsecase interface {
	Save(name string, fields map[string]string) (*entity.TemplateRecord, error)
	// SaveFromDeal keeps the reusable parts of a deal form under name
	SaveFromDeal(name string, form *entity.DealForm) (*entity.TemplateRecord, error)
	List() ([]entity.TemplateRecord, error)
	Get(name string) (*entity.TemplateData, error)
	Delete(name string) error
	Status() (*entity.TemplateDirStatus, error)
}

type templateUsecase struct {
	repo   repository.TemplateRepository
	logger *zap.Logger
}

func NewTemplateUsecase(repo repository.TemplateRepository, logger *zap.Logger) TemplateUsecase {
	return &templateUsecase{
		repo:   repo,
		logger: logger,
	}
}

func (u *templateUsecase) Save(name string, fields map[string]string) (*entity.TemplateRecord, error) {
	record, err := u.repo.Save(name, fields)
	if err != nil {
		u.logger.Warn("Failed to save template", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (u *templateUsecase) SaveFromDeal(name string, form *entity.DealForm) (*entity.TemplateRecord, error) {
	return u.Save(name, form.Fields())
}

func (u *templateUsecase) List() ([]entity.TemplateRecord, error) {
	return u.repo.List()
}

func (u *templateUsecase) Get(name string) (*entity.TemplateData, error) {
	return u.repo.LoadByName(name)
}

func (u *templateUsecase) Delete(name string) error {
	if err := u.repo.DeleteByName(name); err != nil {
		u.logger.Warn("Failed to delete template", zap.String("name", name), zap.Error(err))
		return err
	}
	return nil
}

func (u *templateUsecase) Status() (*entity.TemplateDirStatus, error) {
	return u.repo.Status()
}
