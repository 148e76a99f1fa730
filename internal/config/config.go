package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Data          DataConfig    `yaml:"data"`
	LLM           LLMConfig     `yaml:"llm"`
	Weather       WeatherConfig `yaml:"weather"`
	HomeAssistant HAConfig      `yaml:"home_assistant,omitempty"`
	MQTT          MQTTConfig    `yaml:"mqtt,omitempty"`
	Server        ServerConfig  `yaml:"server,omitempty"`
}

// DataConfig points at the five input files (.csv or .xlsx)
type DataConfig struct {
	Energy   string `yaml:"energy"`
	Billing  string `yaml:"billing"`
	Payments string `yaml:"payments"`
	Weather  string `yaml:"weather"`
	Tariffs  string `yaml:"tariffs"`
}

// LLMConfig selects and configures the language model provider
type LLMConfig struct {
	Provider           string  `yaml:"provider,omitempty"`            // "openai" (default) or "gemini"
	APIKey             string  `yaml:"api_key,omitempty"`             // Falls back to OPENAI_API_KEY / GEMINI_API_KEY
	BaseURL            string  `yaml:"base_url,omitempty"`            // OpenAI-compatible endpoint override
	Model              string  `yaml:"model,omitempty"`               // Dashboard features (default gpt-3.5-turbo)
	CopilotModel       string  `yaml:"copilot_model,omitempty"`       // Copilot (default gpt-4)
	CopilotTemperature float32 `yaml:"copilot_temperature,omitempty"` // Default 0.6
	TimeoutSeconds     int     `yaml:"timeout_seconds,omitempty"`
}

// WeatherConfig configures the forecast endpoint
type WeatherConfig struct {
	URL            string `yaml:"url,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"` // Falls back to WEATHER_API_KEY
	Location       string `yaml:"location,omitempty"`
	Days           int    `yaml:"days,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://yourdomain.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.energy_forecast"
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// ServerConfig configures the serve command
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// LoadEnv loads KEY=value pairs from an env file into the process
// environment. A missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv fills API keys that are not set in the file from the environment
func (c *Config) ApplyEnv() {
	if c.LLM.APIKey == "" {
		switch c.GetProvider() {
		case "gemini":
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		default:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if c.Weather.APIKey == "" {
		c.Weather.APIKey = os.Getenv("WEATHER_API_KEY")
	}
}

// GetProvider returns the LLM provider name, defaulting to openai
func (c *Config) GetProvider() string {
	if c.LLM.Provider == "" {
		return "openai"
	}
	return c.LLM.Provider
}

// GetModel returns the model used by the dashboard features
func (c *Config) GetModel() string {
	if c.LLM.Model != "" {
		return c.LLM.Model
	}
	if c.GetProvider() == "gemini" {
		return "gemini-2.0-flash"
	}
	return "gpt-3.5-turbo"
}

// GetCopilotModel returns the model used by the copilot
func (c *Config) GetCopilotModel() string {
	if c.LLM.CopilotModel != "" {
		return c.LLM.CopilotModel
	}
	if c.GetProvider() == "gemini" {
		return c.GetModel()
	}
	return "gpt-4"
}

// GetCopilotTemperature returns the copilot sampling temperature (default 0.6)
func (c *Config) GetCopilotTemperature() float32 {
	if c.LLM.CopilotTemperature <= 0 {
		return 0.6
	}
	return c.LLM.CopilotTemperature
}

// GetLLMTimeout returns the completion request timeout (default 2 minutes)
func (c *Config) GetLLMTimeout() time.Duration {
	if c.LLM.TimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// GetWeatherLocation returns the forecast location (default Delhi)
func (c *Config) GetWeatherLocation() string {
	if c.Weather.Location == "" {
		return "Delhi"
	}
	return c.Weather.Location
}

// GetForecastDays returns how many forecast days to request (default 15)
func (c *Config) GetForecastDays() int {
	if c.Weather.Days <= 0 {
		return 15
	}
	return c.Weather.Days
}

// GetWeatherTimeout returns the forecast request timeout (default 30 seconds)
func (c *Config) GetWeatherTimeout() time.Duration {
	if c.Weather.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Weather.TimeoutSeconds) * time.Second
}

// GetServerAddr returns the listen address for serve (default :8080)
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}
