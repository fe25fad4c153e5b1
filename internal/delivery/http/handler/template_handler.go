package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/usecase"
)

type TemplateHandler struct {
	templates usecase.TemplateUsecase
	logger    *zap.Logger
}

func NewTemplateHandler(templates usecase.TemplateUsecase, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		logger:    logger,
	}
}

// ListTemplates godoc
// @Summary List templates, newest first
// @Tags templates
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	records, err := h.templates.List()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(records, "Templates retrieved"))
}

// GetTemplate godoc
// @Summary Load a template by name
// @Tags templates
// @Produce json
// @Param name query string true "Template name"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /api/v1/templates/item [get]
func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return badRequest(c, "name is required")
	}

	data, err := h.templates.Get(name)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(data, "Template loaded"))
}

// SaveTemplate godoc
// @Summary Save a template
// @Tags templates
// @Accept json
// @Produce json
// @Param request body entity.SaveTemplateRequest true "Template"
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Router /api/v1/templates [post]
func (h *TemplateHandler) SaveTemplate(c *fiber.Ctx) error {
	var req entity.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	record, err := h.templates.Save(req.Name, req.Fields())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(record, "Template saved"))
}

// DeleteTemplate godoc
// @Summary Delete a template by name
// @Tags templates
// @Produce json
// @Param name query string true "Template name"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /api/v1/templates [delete]
func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return badRequest(c, "name is required")
	}

	if err := h.templates.Delete(name); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Template deleted"))
}

// TemplateStatus godoc
// @Summary Template directory diagnostics
// @Tags templates
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/templates/status [get]
func (h *TemplateHandler) TemplateStatus(c *fiber.Ctx) error {
	status, err := h.templates.Status()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(status, "Template directory status"))
}
