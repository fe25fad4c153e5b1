package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
	infrarepo "freee-deals/internal/infrastructure/repository"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

type LogHandler struct {
	logRepo repository.APILogRepository
	logger  *zap.Logger
}

func NewLogHandler(logRepo repository.APILogRepository, logger *zap.Logger) *LogHandler {
	return &LogHandler{
		logRepo: logRepo,
		logger:  logger,
	}
}

// GetLogs godoc
// @Summary Recent freee API calls
// @Description Newest first. Empty when the database is disabled.
// @Tags logs
// @Produce json
// @Param limit query int false "Maximum number of logs (default 50, max 200)"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/logs [get]
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLogLimit)
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	logs, err := h.logRepo.Recent(c.UserContext(), limit)
	if errors.Is(err, infrarepo.ErrLogsDisabled) {
		return c.JSON(entity.NewSuccessResponse([]entity.APILog{}, "API log storage is disabled"))
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved"))
}
