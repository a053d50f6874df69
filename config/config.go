package config

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	GitHub   GitHubConfig   `yaml:"github"`
	AI       AIConfig       `yaml:"ai"`
	Data     DataConfig     `yaml:"data"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

type GitHubConfig struct {
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"token"` // 默认令牌，请求未携带令牌时使用
}

// AIConfig AI 服务配置
// 每个 provider 独立配置 key 与模型，Provider 为默认提供商
type AIConfig struct {
	Provider        string  `yaml:"provider"` // anthropic, openai, perplexity
	AnthropicKey    string  `yaml:"anthropic_key"`
	AnthropicModel  string  `yaml:"anthropic_model"`
	AnthropicAPIURL string  `yaml:"anthropic_api_url"`
	OpenAIKey       string  `yaml:"openai_key"`
	OpenAIModel     string  `yaml:"openai_model"`
	PerplexityKey   string  `yaml:"perplexity_key"`
	PerplexityModel string  `yaml:"perplexity_model"`
	MaxTokens       int     `yaml:"max_tokens"`
	Temperature     float32 `yaml:"temperature"`
}

type DataConfig struct {
	Dir        string `yaml:"dir"`
	ResultsDir string `yaml:"results_dir"`
	ExportDir  string `yaml:"export_dir"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

func loadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/gitanalyzer.db",
		},
		GitHub: GitHubConfig{
			APIURL: "https://api.github.com",
		},
		AI: AIConfig{
			Provider:        "anthropic",
			AnthropicModel:  "claude-3-5-sonnet-20241022",
			AnthropicAPIURL: "https://api.anthropic.com",
			OpenAIModel:     "gpt-4-turbo-preview",
			PerplexityModel: "sonar-pro",
			MaxTokens:       8000,
			Temperature:     0.7,
		},
		Data: DataConfig{
			Dir:        "./data",
			ResultsDir: "./data/analysis_results",
			ExportDir:  "./data/exports",
		},
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		yaml.Unmarshal(data, config)
	}

	// 环境变量优先级高于配置文件
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	}
	if apiURL := os.Getenv("GITHUB_API_URL"); apiURL != "" {
		config.GitHub.APIURL = apiURL
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		config.AI.Provider = provider
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.AI.AnthropicKey = apiKey
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAIKey = apiKey
	}
	if apiKey := os.Getenv("PERPLEXITY_API_KEY"); apiKey != "" {
		config.AI.PerplexityKey = apiKey
	}
	if model := os.Getenv("ANTHROPIC_MODEL"); model != "" {
		config.AI.AnthropicModel = model
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAIModel = model
	}

	// 数据库环境变量
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}

	// 数据目录环境变量
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		config.Data.Dir = dataDir
		config.Data.ResultsDir = filepath.Join(dataDir, "analysis_results")
		config.Data.ExportDir = filepath.Join(dataDir, "exports")
	}
	if resultsDir := os.Getenv("RESULTS_DIR"); resultsDir != "" {
		config.Data.ResultsDir = resultsDir
	}

	if config.Data.ResultsDir == "" {
		config.Data.ResultsDir = filepath.Join(config.Data.Dir, "analysis_results")
	}
	if config.Data.ExportDir == "" {
		config.Data.ExportDir = filepath.Join(config.Data.Dir, "exports")
	}

	return config
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func UpdateConfig(newCfg *Config) {
	cfg = newCfg
}
