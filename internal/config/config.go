package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Chat     ChatConfig
	Database DatabaseConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig(server)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Chat:     chat,
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig holds model-provider credentials for the proxy endpoint. Two real
// providers are supported: Volcengine Ark (via eino) and OpenRouter; with
// neither configured the proxy serves a simulated demo stream.
type AIConfig struct {
	Provider        string
	APIKey          string
	AccessKey       string
	SecretKey       string
	Model           string
	BaseURL         string
	Region          string
	Temperature     *float64
	TopP            *float64
	MaxTokens       *int
	OpenRouterKey   string
	OpenRouterURL   string
	OpenRouterModel string
}

// ArkEnabled reports whether the Ark credentials are complete.
func (c AIConfig) ArkEnabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// OpenRouterEnabled reports whether the OpenRouter key is present.
func (c AIConfig) OpenRouterEnabled() bool {
	return c.OpenRouterKey != ""
}

// NewChatModel builds the Ark chat model from this configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + ARK_MODEL or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:        strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER"))),
		APIKey:          strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:       strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:       strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:           strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:         getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:          getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:     temperature,
		TopP:            topP,
		MaxTokens:       maxTokens,
		OpenRouterKey:   strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterURL:   getEnvOrDefault("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions"),
		OpenRouterModel: getEnvOrDefault("OPENROUTER_MODEL", "google/gemini-flash-1.5-8b"),
	}, nil
}

// ChatConfig drives the conversation core's transport client.
type ChatConfig struct {
	ProxyURL       string
	MaxTokens      int
	RequestTimeout int
}

func loadChatConfig(server ServerConfig) (ChatConfig, error) {
	maxTokens := 5000
	if override, err := parseOptionalIntEnv("CHAT_MAX_TOKENS"); err != nil {
		return ChatConfig{}, err
	} else if override != nil && *override > 0 {
		maxTokens = *override
	}

	timeout := 120
	if override, err := parseOptionalIntEnv("CHAT_REQUEST_TIMEOUT"); err != nil {
		return ChatConfig{}, err
	} else if override != nil && *override > 0 {
		timeout = *override
	}

	proxyURL := strings.TrimSpace(os.Getenv("CHAT_PROXY_URL"))
	if proxyURL == "" {
		// Default to this process's own proxy endpoint.
		addr := server.Addr
		if strings.HasPrefix(addr, ":") {
			addr = "127.0.0.1" + addr
		}
		proxyURL = "http://" + addr + "/api/chat"
	}

	return ChatConfig{
		ProxyURL:       proxyURL,
		MaxTokens:      maxTokens,
		RequestTimeout: timeout,
	}, nil
}

// DatabaseConfig points at the interaction-log database, optional.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
