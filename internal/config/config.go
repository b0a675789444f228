package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// AuthType constants
const (
	AuthTypeWSSE = "wsse"
	AuthTypeHMAC = "hmac"
)

// DefaultEndpoint is the Penneo sandbox API
const DefaultEndpoint = "https://sandbox.penneo.com/api/v1"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Penneo   PenneoConfig   `mapstructure:"penneo"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Document DocumentConfig `mapstructure:"document"`
	Callback CallbackConfig `mapstructure:"callback"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Env     string `mapstructure:"env"`
	BaseURL string `mapstructure:"base_url"`
}

type PenneoConfig struct {
	Endpoint       string            `mapstructure:"endpoint"`
	AuthType       string            `mapstructure:"auth_type"` // "wsse" or "hmac"
	Key            string            `mapstructure:"key"`
	Secret         string            `mapstructure:"secret"`
	User           string            `mapstructure:"user"` // sent as penneo-api-user
	Headers        map[string]string `mapstructure:"headers"`
	Timeout        time.Duration     `mapstructure:"timeout"` // 0 keeps the transport default
	UseSystemProxy bool              `mapstructure:"use_system_proxy"`
}

// IsWSSE returns true if auth type is WSSE
func (p *PenneoConfig) IsWSSE() bool {
	return p.AuthType == AuthTypeWSSE || p.AuthType == ""
}

// IsHMAC returns true if auth type is HMAC
func (p *PenneoConfig) IsHMAC() bool {
	return p.AuthType == AuthTypeHMAC
}

// Validate checks the connector settings
func (p PenneoConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Endpoint, validation.Required, is.URL),
		validation.Field(&p.AuthType, validation.In(AuthTypeWSSE, AuthTypeHMAC)),
		validation.Field(&p.Key, validation.Required),
		validation.Field(&p.Secret, validation.Required),
		validation.Field(&p.Timeout, validation.Min(time.Duration(0))),
	)
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
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DocumentConfig struct {
	BasePath       string `mapstructure:"base_path"`       // Base path for documents
	ReadyFolder    string `mapstructure:"ready_folder"`    // PDFs waiting to be sent
	ProgressFolder string `mapstructure:"progress_folder"` // PDFs out for signing
	FinishFolder   string `mapstructure:"finish_folder"`   // Signed PDFs downloaded after completion
}

type CallbackConfig struct {
	MappingTTL time.Duration `mapstructure:"mapping_ttl"` // 0 keeps mappings forever
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return load(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "penneo-esign")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "development")
	v.SetDefault("penneo.endpoint", DefaultEndpoint)
	v.SetDefault("penneo.auth_type", AuthTypeWSSE)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("document.ready_folder", "ready")
	v.SetDefault("document.progress_folder", "progress")
	v.SetDefault("document.finish_folder", "finish")
	v.SetDefault("logging.level", "info")
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Timeouts are configured in seconds
	cfg.Penneo.Timeout = cfg.Penneo.Timeout * time.Second
	cfg.Callback.MappingTTL = cfg.Callback.MappingTTL * time.Second

	if cfg.Penneo.AuthType == "" {
		cfg.Penneo.AuthType = AuthTypeWSSE
	}
	cfg.Penneo.Endpoint = strings.TrimRight(cfg.Penneo.Endpoint, "/")

	if err := cfg.Penneo.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
