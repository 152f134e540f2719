package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Scraper ScraperConfig `yaml:"scraper" envconfig:"SCRAPER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/gilts.log"`
}

// ScraperConfig contains settings for the DMO download step
type ScraperConfig struct {
	ReportURL       string        `yaml:"report_url" envconfig:"REPORT_URL" default:"https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D1A"`
	ExcelURL        string        `yaml:"excel_url" envconfig:"EXCEL_URL" default:"https://www.dmo.gov.uk/data/ExcelDataReport"`
	DownloadTimeout time.Duration `yaml:"download_timeout" envconfig:"DOWNLOAD_TIMEOUT" default:"90s"`
	UserAgent       string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("GILTS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Scraper.ReportURL == "" {
		envConfig.Scraper.ReportURL = fileConfig.Scraper.ReportURL
	}
	if envConfig.Scraper.ExcelURL == "" {
		envConfig.Scraper.ExcelURL = fileConfig.Scraper.ExcelURL
	}
	if envConfig.Scraper.DownloadTimeout == 0 {
		envConfig.Scraper.DownloadTimeout = fileConfig.Scraper.DownloadTimeout
	}
	if envConfig.Scraper.UserAgent == "" {
		envConfig.Scraper.UserAgent = fileConfig.Scraper.UserAgent
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Scraper.ReportURL == "" {
		return fmt.Errorf("scraper report URL must not be empty")
	}

	if c.Scraper.DownloadTimeout <= 0 {
		return fmt.Errorf("scraper download timeout must be positive")
	}

	if c.Logging.Output != "console" && c.Logging.Output != "file" && c.Logging.Output != "both" {
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/gilts.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/gilts.log",
		},
		Scraper: ScraperConfig{
			ReportURL:       "https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D1A",
			ExcelURL:        "https://www.dmo.gov.uk/data/ExcelDataReport",
			DownloadTimeout: 90 * time.Second,
			UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		},
	}
}
