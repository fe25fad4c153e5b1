package handler

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	infrarepo "freee-deals/internal/infrastructure/repository"
)

func newLogApp(repo *mockLogRepository) *fiber.App {
	h := NewLogHandler(repo, zap.NewNop())
	app := fiber.New()
	app.Get("/api/v1/logs", h.GetLogs)
	return app
}

func TestLogHandler_Limit(t *testing.T) {
	tests := []struct {
		query string
		limit int
	}{
		{"", defaultLogLimit},
		{"?limit=10", 10},
		{"?limit=0", defaultLogLimit},
		{"?limit=5000", maxLogLimit},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			repo := new(mockLogRepository)
			repo.On("Recent", mock.Anything, tt.limit).Return([]entity.APILog{{ID: 1, Method: "GET"}}, nil)
			app := newLogApp(repo)

			resp, env := doRequest(t, app, fiber.MethodGet, "/api/v1/logs"+tt.query, "")

			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			var logs []entity.APILog
			require.NoError(t, json.Unmarshal(env.Data, &logs))
			assert.Len(t, logs, 1)
			repo.AssertExpectations(t)
		})
	}
}

func TestLogHandler_Disabled(t *testing.T) {
	repo := new(mockLogRepository)
	repo.On("Recent", mock.Anything, defaultLogLimit).Return(nil, infrarepo.ErrLogsDisabled)
	app := newLogApp(repo)

	resp, env := doRequest(t, app, fiber.MethodGet, "/api/v1/logs", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestLogHandler_QueryFailure(t *testing.T) {
	repo := new(mockLogRepository)
	repo.On("Recent", mock.Anything, defaultLogLimit).Return(nil, errors.New("connection refused"))
	app := newLogApp(repo)

	resp, env := doRequest(t, app, fiber.MethodGet, "/api/v1/logs", "")

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}
