package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, DefaultAPIBaseURL, cfg.Freee.BaseURL)
	assert.Equal(t, DefaultAPIVersion, cfg.Freee.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Freee.Timeout)
	assert.Equal(t, DefaultRedirectURI, cfg.Freee.OAuth2.RedirectURI)
	assert.Equal(t, DefaultTokenURL, cfg.Freee.OAuth2.TokenURL)
	assert.Equal(t, "select_company", cfg.Freee.OAuth2.Prompt)
	assert.Equal(t, filepath.Join("_data", "token.json"), cfg.Storage.TokenPath())
	assert.Equal(t, "templates", cfg.Storage.TemplateDir)
	assert.Equal(t, 5*time.Minute, cfg.OAuth.RefreshMargin())
	assert.Equal(t, 15*time.Minute, cfg.OAuth.StateTTL())
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
app:
  env: production
  port: 9090
freee:
  timeout: 10
  oauth2:
    client_id: from-file
    client_secret: file-secret
storage:
  data_dir: /var/lib/freee
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("FREEE_OAUTH2_CLIENT_ID", "from-env")

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 10*time.Second, cfg.Freee.Timeout)
	assert.Equal(t, "from-env", cfg.Freee.OAuth2.ClientID)
	assert.Equal(t, "file-secret", cfg.Freee.OAuth2.ClientSecret)
	assert.Equal(t, filepath.Join("/var/lib/freee", "token.json"), cfg.Storage.TokenPath())
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("app: [unterminated"), 0o644))

	cfg, err := Load(viper.New(), dir)
	require.Error(t, err)
	assert.Nil(t, cfg)
}
