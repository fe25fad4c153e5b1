package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/infrastructure/oauth2"
	"freee-deals/internal/usecase"
)

const (
	// StateCookie carries the issued OAuth state back to the exchange call
	StateCookie     = "freee_oauth_state"
	stateCookiePath = "/api/v1/oauth"
)

type OAuthHandler struct {
	usecase      usecase.OAuthUsecase
	tokenService oauth2.TokenService
	config       *config.Config
	logger       *zap.Logger
}

func NewOAuthHandler(usecase usecase.OAuthUsecase, tokenService oauth2.TokenService, cfg *config.Config, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		usecase:      usecase,
		tokenService: tokenService,
		config:       cfg,
		logger:       logger,
	}
}

// Authorize godoc
// @Summary Start the freee authorization flow
// @Description Issues a new state and returns the freee consent URL. With redirect=true
//
//	the browser is sent straight to freee. freee shows the authorization code
//	on its own page; paste it into /api/v1/oauth/exchange.
//
// @Tags oauth
// @Produce json
// @Param redirect query bool false "Redirect to freee instead of returning JSON"
// @Success 200 {object} entity.APIResponse
// @Success 302 "Redirect to freee"
// @Router /api/v1/oauth/authorize [get]
func (h *OAuthHandler) Authorize(c *fiber.Ctx) error {
	start, err := h.usecase.StartAuthorization(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookie,
		Value:    start.State,
		Path:     stateCookiePath,
		Expires:  time.Now().Add(h.config.OAuth.StateTTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if c.QueryBool("redirect", false) {
		return c.Redirect(start.AuthorizationURL, fiber.StatusFound)
	}

	return c.JSON(entity.NewSuccessResponse(start, "Open the authorization URL and paste the code back"))
}

// Exchange godoc
// @Summary Exchange an authorization code
// @Description Exchanges the pasted code for tokens and stores them. The state comes
//
//	from the body or, when omitted, from the cookie set by /authorize.
//
// @Tags oauth
// @Accept json
// @Produce json
// @Param request body entity.ExchangeCodeRequest true "Code and state"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/oauth/exchange [post]
func (h *OAuthHandler) Exchange(c *fiber.Ctx) error {
	var req entity.ExchangeCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.State == "" {
		req.State = c.Cookies(StateCookie)
	}

	status, err := h.usecase.CompleteAuthorization(c.UserContext(), req.Code, req.State)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookie,
		Path:     stateCookiePath,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(entity.NewSuccessResponse(status, "Authorization completed"))
}

// Status godoc
// @Summary Token status
// @Description Returns the stored token with secrets masked
// @Tags oauth
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/oauth/status [get]
func (h *OAuthHandler) Status(c *fiber.Ctx) error {
	status, err := h.usecase.Status(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(status, "Token status"))
}

// Refresh godoc
// @Summary Force a token refresh
// @Tags oauth
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/oauth/refresh [post]
func (h *OAuthHandler) Refresh(c *fiber.Ctx) error {
	status, err := h.usecase.Refresh(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entity.NewSuccessResponse(status, "Access token refreshed"))
}

// RequireToken rejects the request with 401 unless a valid access token can
// be obtained, refreshing it first when needed
func (h *OAuthHandler) RequireToken(c *fiber.Ctx) error {
	if _, err := h.tokenService.GetValidAccessToken(c.UserContext()); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Next()
}
