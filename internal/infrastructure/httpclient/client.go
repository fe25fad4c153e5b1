package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/infrastructure/oauth2"
)

const (
	maxBodyLogLength = 500   // Maximum characters to log for body
	maxBodyStoreSize = 10000 // Maximum characters stored per body in api_logs
)

// HTTPClient calls the freee REST API with the current access token
type HTTPClient interface {
	// Get performs a GET request; query may be nil
	Get(ctx context.Context, path string, query url.Values, result interface{}) error
	// Post performs a JSON POST request
	Post(ctx context.Context, path string, body interface{}, result interface{}) error
}

// APILogSaver interface for saving API logs
type APILogSaver interface {
	Save(ctx context.Context, log *entity.APILog) error
}

type httpClient struct {
	client       *http.Client
	config       *config.Config
	baseURL      string
	apiVersion   string
	tokenService oauth2.TokenService
	apiLogSaver  APILogSaver
	logger       *zap.Logger
}

func NewHTTPClient(cfg *config.Config, tokenService oauth2.TokenService, apiLogSaver APILogSaver, logger *zap.Logger) HTTPClient {
	logger.Info("HTTP Client initialized",
		zap.String("base_url", cfg.Freee.BaseURL),
		zap.String("api_version", cfg.Freee.APIVersion),
		zap.Duration("timeout", cfg.Freee.Timeout),
	)

	return &httpClient{
		client: &http.Client{
			Timeout: cfg.Freee.Timeout,
		},
		config:       cfg,
		baseURL:      strings.TrimRight(cfg.Freee.BaseURL, "/"),
		apiVersion:   cfg.Freee.APIVersion,
		tokenService: tokenService,
		apiLogSaver:  apiLogSaver,
		logger:       logger,
	}
}

// truncateString truncates a string if it exceeds maxLength
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("... [truncated, total %d chars]", len(s))
}

// formatHeadersForLog formats HTTP headers for logging in "Header Key=Value" format
func formatHeadersForLog(headers http.Header) string {
	var sb strings.Builder
	for key, values := range headers {
		for _, value := range values {
			if key == "Authorization" {
				value = "Bearer " + entity.MaskSecret(strings.TrimPrefix(value, "Bearer "))
			}
			// Truncate very long header values
			if len(value) > 100 {
				value = value[:100] + "..."
			}
			sb.WriteString(fmt.Sprintf("Header %s=%s\n", key, value))
		}
	}
	return sb.String()
}

// logRequest logs the HTTP request details
func (c *httpClient) logRequest(method, url string, headers http.Header, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [FREEE-REQ]\n")
	logBuilder.WriteString(fmt.Sprintf("Method: %s\n", method))
	logBuilder.WriteString(fmt.Sprintf("URL: %s\n", url))
	logBuilder.WriteString(formatHeadersForLog(headers))

	if len(body) > 0 {
		logBuilder.WriteString(fmt.Sprintf("REQUEST BODY: %s\n", truncateString(string(body), maxBodyLogLength)))
	}

	c.logger.Info(logBuilder.String())
}

// logResponse logs the HTTP response details
func (c *httpClient) logResponse(statusCode int, statusText string, duration time.Duration, headers http.Header, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [FREEE-RESPONSE]\n")
	logBuilder.WriteString(fmt.Sprintf("Status: %s\n", statusText))
	logBuilder.WriteString(fmt.Sprintf("Duration: %s\n", duration))
	logBuilder.WriteString(formatHeadersForLog(headers))
	logBuilder.WriteString(fmt.Sprintf("Body: %s\n", truncateString(string(body), maxBodyLogLength)))

	if statusCode >= 400 {
		c.logger.Warn(logBuilder.String())
		return
	}
	c.logger.Info(logBuilder.String())
}

// saveAPILog saves the API request/response log to database
func (c *httpClient) saveAPILog(method, endpoint, companyID string, requestBody, responseBody []byte, statusCode int, duration time.Duration) {
	if c.apiLogSaver == nil {
		return
	}

	apiLog := &entity.APILog{
		Endpoint:     endpoint,
		Method:       method,
		RequestBody:  truncateString(string(requestBody), maxBodyStoreSize),
		ResponseBody: truncateString(string(responseBody), maxBodyStoreSize),
		StatusCode:   statusCode,
		Duration:     duration.Milliseconds(),
		CompanyID:    companyID,
		CreatedAt:    time.Now(),
	}

	// Save asynchronously to not block the request
	go func() {
		if err := c.apiLogSaver.Save(context.Background(), apiLog); err != nil {
			c.logger.Warn("Failed to save API log to database",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
	}()
}

// setAuthHeaders sets the bearer token and the freee API version
func (c *httpClient) setAuthHeaders(ctx context.Context, req *http.Request) error {
	accessToken, err := c.tokenService.GetValidAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Api-Version", c.apiVersion)
	return nil
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, result interface{}, isRetry bool) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.setAuthHeaders(ctx, req); err != nil {
		return err
	}

	// Log request details
	c.logRequest(method, fullURL, req.Header, jsonBody)

	op := method + " " + path
	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &apperror.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperror.TransportError{Op: op, Err: err}
	}

	// Log response details
	c.logResponse(resp.StatusCode, resp.Status, duration, resp.Header, respBody)

	// Save API log to database
	c.saveAPILog(method, fullURL, query.Get("company_id"), jsonBody, respBody, resp.StatusCode, duration)

	// Handle 401 Unauthorized - refresh once and retry
	if resp.StatusCode == http.StatusUnauthorized && !isRetry {
		c.logger.Info("Received 401 Unauthorized, attempting to refresh token",
			zap.String("path", path),
		)

		if _, err := c.tokenService.ForceRefresh(ctx); err != nil {
			c.logger.Error("Failed to refresh token", zap.Error(err))
			return err
		}

		c.logger.Info("Token refreshed, retrying request", zap.String("path", path))
		return c.doRequest(ctx, method, path, query, body, result, true)
	}

	// Check for HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperror.HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	// Parse response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &apperror.DecodeError{Body: string(respBody), Err: err}
		}
	}

	return nil
}

func (c *httpClient) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, query, nil, result, false)
}

func (c *httpClient) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, result, false)
}
