package agents

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config matches iris.yaml. Every field has a usable default so the
// service can start from environment variables alone.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Model      ModelConfig      `yaml:"model"`
	Salesforce SalesforceConfig `yaml:"salesforce"`
	Google     GoogleConfig     `yaml:"google"`
	Search     SearchConfig     `yaml:"search"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"`
}

// ModelConfig selects the chat model shared by all agents. Per-agent
// temperature and cycle limits live in AgentConfig.
type ModelConfig struct {
	Name       string      `yaml:"name"`
	APIKey     string      `yaml:"api_key"`
	BaseURL    string      `yaml:"base_url"`
	Primary    AgentConfig `yaml:"primary"`
	Salesforce AgentConfig `yaml:"salesforce"`
	Google     AgentConfig `yaml:"google"`
}

// AgentConfig tunes one agent's loop.
type AgentConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxCycles   int     `yaml:"max_cycles"`
}

// SalesforceConfig holds the connected-app OAuth settings.
type SalesforceConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	LoginURL     string `yaml:"login_url"`
}

// GoogleConfig holds the Workspace OAuth settings.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// SearchConfig configures the web search tool.
type SearchConfig struct {
	APIKey   string `yaml:"api_key"`
	EngineID string `yaml:"engine_id"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig describes telemetry output.
type LoggingConfig struct {
	EventFile string `yaml:"event_file"`
	Verbose   bool   `yaml:"verbose"`
}

// LoadConfig reads the YAML config at path, falling back to defaults when
// the file is missing, then overlays environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", BaseURL: "http://localhost:8080"},
		Model: ModelConfig{
			Name:       "gpt-4o",
			Primary:    AgentConfig{Temperature: 0, MaxCycles: 10},
			Salesforce: AgentConfig{Temperature: 0, MaxCycles: 10},
			Google:     AgentConfig{Temperature: 0, MaxCycles: 10},
		},
		Salesforce: SalesforceConfig{LoginURL: "https://login.salesforce.com"},
		Store:      StoreConfig{Path: "iris.db"},
	}
}

func (c *Config) applyEnv() {
	overlay(&c.Model.APIKey, "OPENAI_API_KEY")
	overlay(&c.Model.BaseURL, "OPENAI_BASE_URL")
	overlay(&c.Model.Name, "IRIS_MODEL")
	overlay(&c.Server.Addr, "IRIS_ADDR")
	overlay(&c.Server.BaseURL, "IRIS_BASE_URL")
	overlay(&c.Salesforce.ClientID, "SALESFORCE_CLIENT_ID")
	overlay(&c.Salesforce.ClientSecret, "SALESFORCE_CLIENT_SECRET")
	overlay(&c.Salesforce.LoginURL, "SALESFORCE_LOGIN_URL")
	overlay(&c.Google.ClientID, "GOOGLE_CLIENT_ID")
	overlay(&c.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	overlay(&c.Search.APIKey, "GOOGLE_SEARCH_API_KEY")
	overlay(&c.Search.EngineID, "GOOGLE_SEARCH_ENGINE_ID")
	overlay(&c.Store.Path, "IRIS_DB_PATH")
	overlay(&c.Logging.EventFile, "IRIS_EVENT_FILE")
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
