package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type GitHubConfig struct {
	Token     string `mapstructure:"token"`
	RepoOwner string `mapstructure:"repo_owner"`
	RepoName  string `mapstructure:"repo_name"`
}

type AIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	ProxyURL string `mapstructure:"proxy_url" validate:"omitempty,url"`
}

type NotionConfig struct {
	APIKey     string `mapstructure:"api_key"`
	DatabaseID string `mapstructure:"database_id"`
}

type StorageConfig struct {
	CacheDirectory  string `mapstructure:"cache_directory"`
	ExportDirectory string `mapstructure:"export_directory"`
}

type ReminderConfig struct {
	DailyEnabled         bool   `mapstructure:"daily_enabled"`
	DailyTime            string `mapstructure:"daily_time" validate:"omitempty,datetime=15:04"`
	DailyMinimumMinutes  int    `mapstructure:"daily_minimum_minutes" validate:"min=0"`
	ReviewEnabled        bool   `mapstructure:"review_enabled"`
	ReviewAfterDays      int    `mapstructure:"review_after_days" validate:"min=0"`
	CheckIntervalSeconds int    `mapstructure:"check_interval_seconds" validate:"min=0"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ProxyConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	GitHub   GitHubConfig   `mapstructure:"github"`
	AI       AIConfig       `mapstructure:"ai"`
	Notion   NotionConfig   `mapstructure:"notion"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Database DatabaseConfig `mapstructure:"database"`
	Proxy    ProxyConfig    `mapstructure:"proxy"`
}

// EnsureGitHubCredentials reports a blocking configuration error when the
// remote store cannot be reached with the current settings.
func (c *Config) EnsureGitHubCredentials() error {
	if c.GitHub.Token == "" || c.GitHub.RepoOwner == "" || c.GitHub.RepoName == "" {
		return errors.New("请先配置 GitHub 访问令牌和仓库信息（github.token、github.repo_owner、github.repo_name）")
	}
	return nil
}

// EnsureNotionCredentials reports a blocking configuration error when the
// synced database cannot be queried directly.
func (c *Config) EnsureNotionCredentials() error {
	if c.Notion.APIKey == "" || c.Notion.DatabaseID == "" {
		return errors.New("请先配置 Notion 访问密钥和数据库（notion.api_key、notion.database_id）")
	}
	return nil
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/agentai")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("ai.model", "qwen-turbo")
	v.SetDefault("storage.cache_directory", filepath.Join(".agentai", "cache"))
	v.SetDefault("storage.export_directory", filepath.Join(".agentai", "exports"))
	v.SetDefault("reminder.daily_enabled", true)
	v.SetDefault("reminder.daily_time", "20:00")
	v.SetDefault("reminder.daily_minimum_minutes", 30)
	v.SetDefault("reminder.review_enabled", true)
	v.SetDefault("reminder.review_after_days", 3)
	v.SetDefault("reminder.check_interval_seconds", 60)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "agentai")
	v.SetDefault("database.username", "user")
	v.SetDefault("proxy.port", 3001)

	// Credentials come from environment variables only, never the file
	if err := v.BindEnv("github.token", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind GITHUB_TOKEN environment variable: %w", err)
	}
	if err := v.BindEnv("ai.api_key", "DASHSCOPE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind DASHSCOPE_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("notion.api_key", "NOTION_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind NOTION_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
