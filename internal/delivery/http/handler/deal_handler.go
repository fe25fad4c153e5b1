package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/usecase"
)

type DealHandler struct {
	deals     usecase.DealUsecase
	templates usecase.TemplateUsecase
	logger    *zap.Logger
}

func NewDealHandler(deals usecase.DealUsecase, templates usecase.TemplateUsecase, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		deals:     deals,
		templates: templates,
		logger:    logger,
	}
}

// CreateDealResponse is the created deal plus the template saved alongside it
type CreateDealResponse struct {
	Deal          *entity.Deal           `json:"deal"`
	Template      *entity.TemplateRecord `json:"template,omitempty"`
	TemplateError string                 `json:"template_error,omitempty"`
}

// CreateDeal godoc
// @Summary Create an income or expense deal
// @Description Creates the deal in freee. from_walletable_id may be a walletable id or
//
//	"private_account_item" for the owner's own funds. When save_as_template is set
//	the form is also stored as a template; a template failure does not fail the deal.
//
// @Tags deals
// @Accept json
// @Produce json
// @Param request body entity.DealForm true "Deal form"
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/deals [post]
func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	var form entity.DealForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}

	deal, err := h.deals.CreateDeal(c.UserContext(), &form)
	if err != nil {
		return respondErrorMessage(c, h.logger, err, usecase.FailureMessage(err))
	}

	response := CreateDealResponse{Deal: deal}
	message := "Deal created"

	if form.SaveAsTemplate != "" {
		record, err := h.templates.SaveFromDeal(form.SaveAsTemplate, &form)
		if err != nil {
			response.TemplateError = err.Error()
			message = "Deal created, template not saved"
		} else {
			response.Template = record
			message = "Deal created and template saved"
		}
	}

	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(response, message))
}
