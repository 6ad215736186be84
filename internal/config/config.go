package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Endpoint          string `yaml:"endpoint"`
		AccessKey         string `yaml:"accessKey"`
		SecretKey         string `yaml:"secretKey"`
		BucketName        string `yaml:"bucketName"`
		Region            string `yaml:"region"`
		UseSSL            bool   `yaml:"useSSL"`
		PresignTTLMinutes int    `yaml:"presignTTLMinutes"`
	} `yaml:"minio"`

	DocIntel struct {
		Endpoint string `yaml:"endpoint"`
		Key      string `yaml:"key"`
		ModelID  string `yaml:"modelID"`
	} `yaml:"docintel"`

	Vision struct {
		Endpoint string `yaml:"endpoint"`
		Key      string `yaml:"key"`
	} `yaml:"vision"`

	OpenAI struct {
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"openai"`

	HelpBot struct {
		Endpoint   string `yaml:"endpoint"`
		Key        string `yaml:"key"`
		Project    string `yaml:"project"`
		Deployment string `yaml:"deployment"`
	} `yaml:"helpbot"`

	Auth struct {
		APIKeys map[string]string `yaml:"apiKeys"` // tenant -> key; empty disables auth
	} `yaml:"auth"`

	Limits struct {
		MaxUploadBytes int64 `yaml:"maxUploadBytes"`
		RatePerSecond  int   `yaml:"ratePerSecond"`
		Burst          int   `yaml:"burst"`
	} `yaml:"limits"`
}

// Load reads the yaml config file once at process start.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "documents"
	}
	if c.Minio.PresignTTLMinutes <= 0 {
		c.Minio.PresignTTLMinutes = 60
	}
	if c.DocIntel.ModelID == "" {
		c.DocIntel.ModelID = "prebuilt-receipt"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Limits.MaxUploadBytes <= 0 {
		c.Limits.MaxUploadBytes = 20 << 20
	}
	if c.Limits.RatePerSecond <= 0 {
		c.Limits.RatePerSecond = 10
	}
	if c.Limits.Burst <= 0 {
		c.Limits.Burst = 20
	}
}

// MySQLDSN helper to build the MySQL connection string
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN helper for the lib/pq driver
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// MissingDocIntel lists absent document-intelligence settings.
func (c *Config) MissingDocIntel() []string {
	var missing []string
	if c.DocIntel.Endpoint == "" {
		missing = append(missing, "docintel.endpoint")
	}
	if c.DocIntel.Key == "" {
		missing = append(missing, "docintel.key")
	}
	return missing
}

// MissingVision lists absent vision/LLM settings for the menu flow.
func (c *Config) MissingVision() []string {
	var missing []string
	if c.Vision.Endpoint == "" {
		missing = append(missing, "vision.endpoint")
	}
	if c.Vision.Key == "" {
		missing = append(missing, "vision.key")
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "openai.apiKey")
	}
	return missing
}

// MissingHelpBot lists absent knowledge-base settings.
func (c *Config) MissingHelpBot() []string {
	var missing []string
	if c.HelpBot.Endpoint == "" {
		missing = append(missing, "helpbot.endpoint")
	}
	if c.HelpBot.Key == "" {
		missing = append(missing, "helpbot.key")
	}
	return missing
}
