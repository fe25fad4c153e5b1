package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/usecase"
)

type CatalogHandler struct {
	catalog   usecase.CatalogUsecase
	companies usecase.CompanyResolver
	logger    *zap.Logger
}

func NewCatalogHandler(catalog usecase.CatalogUsecase, companies usecase.CompanyResolver, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		companies: companies,
		logger:    logger,
	}
}

// ListCompanies godoc
// @Summary List companies
// @Tags catalog
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/companies [get]
func (h *CatalogHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.catalog.Companies(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(companies, "Companies retrieved"))
}

// ListAccountItems godoc
// @Summary List account items of a company
// @Description :id may be "current" for the company the token was issued for.
// @Tags catalog
// @Produce json
// @Param id path string true "Company ID or current"
// @Param available query bool false "Only available items"
// @Param q query string false "Search name or shortcut"
// @Param group query string false "category to group by account category"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/companies/{id}/account_items [get]
func (h *CatalogHandler) ListAccountItems(c *fiber.Ctx) error {
	ctx := c.UserContext()

	companyID, err := h.companies.Resolve(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	query := usecase.AccountItemQuery{
		AvailableOnly: c.QueryBool("available", false),
		Search:        c.Query("q"),
	}

	if c.Query("group") == "category" {
		grouped, err := h.catalog.AccountItemsByCategory(ctx, companyID, query)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return c.JSON(entity.NewSuccessResponse(grouped, "Account items retrieved"))
	}

	items, err := h.catalog.AccountItems(ctx, companyID, query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(items, "Account items retrieved"))
}

// ListTaxCodes godoc
// @Summary List available tax codes of a company
// @Tags catalog
// @Produce json
// @Param id path string true "Company ID or current"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/companies/{id}/tax_codes [get]
func (h *CatalogHandler) ListTaxCodes(c *fiber.Ctx) error {
	ctx := c.UserContext()

	companyID, err := h.companies.Resolve(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	codes, err := h.catalog.TaxCodes(ctx, companyID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(codes, "Tax codes retrieved"))
}

// ListWalletables godoc
// @Summary List walletables grouped by type
// @Tags catalog
// @Produce json
// @Param id path string true "Company ID or current"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/companies/{id}/walletables [get]
func (h *CatalogHandler) ListWalletables(c *fiber.Ctx) error {
	ctx := c.UserContext()

	companyID, err := h.companies.Resolve(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	grouped, err := h.catalog.Walletables(ctx, companyID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(grouped, "Walletables retrieved"))
}

// ListItems godoc
// @Summary List available items sorted by name
// @Tags catalog
// @Produce json
// @Param id path string true "Company ID or current"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/companies/{id}/items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	ctx := c.UserContext()

	companyID, err := h.companies.Resolve(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	items, err := h.catalog.Items(ctx, companyID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(items, "Items retrieved"))
}
