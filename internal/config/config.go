package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Fixed values of the freee public API.
const (
	DefaultAPIBaseURL  = "https://api.freee.co.jp"
	DefaultAPIVersion  = "2020-06-15"
	DefaultAuthURL     = "https://accounts.secure.freee.co.jp/public_api/authorize"
	DefaultTokenURL    = "https://accounts.secure.freee.co.jp/public_api/token"
	DefaultRedirectURI = "urn:ietf:wg:oauth:2.0:oob"
)

// Version is set at build time with -ldflags "-X freee-deals/internal/config.Version=..."
var Version = "dev"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Freee    FreeeConfig    `mapstructure:"freee"`
	Storage  StorageConfig  `mapstructure:"storage"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type FreeeConfig struct {
	BaseURL    string            `mapstructure:"base_url"`
	APIVersion string            `mapstructure:"api_version"`
	Timeout    time.Duration     `mapstructure:"timeout"` // seconds
	OAuth2     OAuth2Credentials `mapstructure:"oauth2"`
}

// OAuth2Credentials stores the freee application credentials and endpoints
type OAuth2Credentials struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
	AuthURL      string `mapstructure:"auth_url"`
	TokenURL     string `mapstructure:"token_url"`
	Prompt       string `mapstructure:"prompt"`
}

type StorageConfig struct {
	DataDir     string `mapstructure:"data_dir"`     // Directory holding token.json
	TokenFile   string `mapstructure:"token_file"`   // File name inside DataDir
	TemplateDir string `mapstructure:"template_dir"` // Directory holding <id>.json templates
}

// TokenPath returns the full path of the persisted token record
func (s StorageConfig) TokenPath() string {
	return filepath.Join(s.DataDir, s.TokenFile)
}

type OAuthConfig struct {
	RefreshMarginSeconds int `mapstructure:"refresh_margin_seconds"`
	StateTTLMinutes      int `mapstructure:"state_ttl_minutes"`
}

// RefreshMargin is how long before expires_at a token is treated as expired
func (o OAuthConfig) RefreshMargin() time.Duration {
	return time.Duration(o.RefreshMarginSeconds) * time.Second
}

// StateTTL is how long an issued OAuth state stays redeemable
func (o OAuthConfig) StateTTL() time.Duration {
	return time.Duration(o.StateTTLMinutes) * time.Minute
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json", empty follows app.env
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "freee-deals")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "development")

	v.SetDefault("freee.base_url", DefaultAPIBaseURL)
	v.SetDefault("freee.api_version", DefaultAPIVersion)
	v.SetDefault("freee.timeout", 30)
	// Empty defaults register the keys so env overrides reach Unmarshal
	v.SetDefault("freee.oauth2.client_id", "")
	v.SetDefault("freee.oauth2.client_secret", "")
	v.SetDefault("freee.oauth2.redirect_uri", DefaultRedirectURI)
	v.SetDefault("freee.oauth2.auth_url", DefaultAuthURL)
	v.SetDefault("freee.oauth2.token_url", DefaultTokenURL)
	v.SetDefault("freee.oauth2.prompt", "select_company")

	v.SetDefault("storage.data_dir", "_data")
	v.SetDefault("storage.token_file", "token.json")
	v.SetDefault("storage.template_dir", "templates")

	v.SetDefault("oauth.refresh_margin_seconds", 300)
	v.SetDefault("oauth.state_ttl_minutes", 15)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "freee_deals")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "")
}

func NewConfig() (*Config, error) {
	return Load(viper.New(), ".", "./config")
}

// Load reads config.yaml from the given paths. A missing file is not an
// error: defaults and environment variables still apply.
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert timeout to duration
	cfg.Freee.Timeout = cfg.Freee.Timeout * time.Second

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
