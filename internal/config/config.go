package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider selects the hosted LLM backend.
type Provider string

const (
	ProviderGoogle    Provider = "googleai"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	ListenAddr string `yaml:"listen_addr"`
	UploadDir  string `yaml:"upload_dir"`

	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// LLM backend
	LLMProvider     Provider `yaml:"llm_provider"`
	LLMModel        string   `yaml:"llm_model"`
	GoogleAPIKey    string   `yaml:"google_api_key"`
	OpenAIAPIKey    string   `yaml:"openai_api_key"`
	AnthropicAPIKey string   `yaml:"anthropic_api_key"`
	OllamaHost      string   `yaml:"ollama_host"`

	// Outbound messaging (Twilio)
	TwilioAccountSID string `yaml:"twilio_account_sid"`
	TwilioAuthToken  string `yaml:"twilio_auth_token"`
	TwilioFromNumber string `yaml:"twilio_from_number"`

	// Event bus (optional)
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	// Orchestrator knobs
	HistoryWindow int `yaml:"history_window"`
	ToolLoopLimit int `yaml:"tool_loop_limit"`
	TurnTimeoutS  int `yaml:"turn_timeout_seconds"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		ListenAddr: getEnv("OPSHUB_ADDR", ":5001"),
		UploadDir:  getEnv("OPSHUB_UPLOAD_DIR", "uploads"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "opshub"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "main"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(getEnv("OPSHUB_LLM_PROVIDER", string(ProviderGoogle))),
		LLMModel:        getEnv("OPSHUB_LLM_MODEL", "gemini-2.5-flash"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "opshub.events"),

		HistoryWindow: getEnvInt("OPSHUB_HISTORY_WINDOW", 20),
		ToolLoopLimit: getEnvInt("OPSHUB_TOOL_LOOP_LIMIT", 6),
		TurnTimeoutS:  getEnvInt("OPSHUB_TURN_TIMEOUT", 90),

		LogFile:  getEnv("OPSHUB_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("OPSHUB_LOG_LEVEL", "INFO")),
	}
}

// LoadFile layers a YAML config file over the environment-derived config.
// Empty values in the file leave the environment value in place.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	merge(&cfg, overlay)
	return cfg, nil
}

func merge(dst *Config, src Config) {
	setIf(&dst.ListenAddr, src.ListenAddr)
	setIf(&dst.UploadDir, src.UploadDir)
	setIf(&dst.SurrealDBURL, src.SurrealDBURL)
	setIf(&dst.SurrealDBNamespace, src.SurrealDBNamespace)
	setIf(&dst.SurrealDBDatabase, src.SurrealDBDatabase)
	setIf(&dst.SurrealDBUser, src.SurrealDBUser)
	setIf(&dst.SurrealDBPass, src.SurrealDBPass)
	setIf(&dst.SurrealDBAuthLevel, src.SurrealDBAuthLevel)
	if src.LLMProvider != "" {
		dst.LLMProvider = src.LLMProvider
	}
	setIf(&dst.LLMModel, src.LLMModel)
	setIf(&dst.GoogleAPIKey, src.GoogleAPIKey)
	setIf(&dst.OpenAIAPIKey, src.OpenAIAPIKey)
	setIf(&dst.AnthropicAPIKey, src.AnthropicAPIKey)
	setIf(&dst.OllamaHost, src.OllamaHost)
	setIf(&dst.TwilioAccountSID, src.TwilioAccountSID)
	setIf(&dst.TwilioAuthToken, src.TwilioAuthToken)
	setIf(&dst.TwilioFromNumber, src.TwilioFromNumber)
	setIf(&dst.AMQPURL, src.AMQPURL)
	setIf(&dst.AMQPExchange, src.AMQPExchange)
	if src.HistoryWindow > 0 {
		dst.HistoryWindow = src.HistoryWindow
	}
	if src.ToolLoopLimit > 0 {
		dst.ToolLoopLimit = src.ToolLoopLimit
	}
	if src.TurnTimeoutS > 0 {
		dst.TurnTimeoutS = src.TurnTimeoutS
	}
	setIf(&dst.LogFile, src.LogFile)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
