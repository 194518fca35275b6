package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is read once at process
// start; there is no hot-reload.
type Config struct {
	// Server configuration
	Port        int
	GatewayPort int
	StaticDir   string
	Environment string
	LogLevel    string
	EnableCORS  bool

	// Cosmos DB configuration. When Endpoint is empty the store falls
	// back to the in-memory backend. An empty Key switches the client to
	// the ambient Azure identity chain.
	CosmosEndpoint   string
	CosmosKey        string
	CosmosDatabase   string
	CosmosContainer  string
	CosmosThroughput int

	// Azure OpenAI configuration
	OpenAIEndpoint   string
	OpenAIDeployment string
	OpenAIAPIKey     string
	OpenAIAPIVersion string

	// Completion retry/backoff and sampling defaults
	AIRetryCount        int
	AIRetryDelay        time.Duration
	AIRequestTimeout    time.Duration
	AITemperature       float64
	AITopP              float64
	AIFrequencyPenalty  float64
	AIPresencePenalty   float64
	AIUseProxy          bool
	AIEnableExplanation bool
	// AIRateLimit caps completion requests per client per minute. Zero
	// disables the limiter.
	AIRateLimit int
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is applied first when present.
func LoadConfig() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 3001),
		GatewayPort: getEnvInt("GATEWAY_PORT", getEnvInt("STATIC_PORT", 8080)),
		StaticDir:   getEnv("STATIC_DIR", "./web"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		EnableCORS:  getEnvBool("ENABLE_CORS", true),

		CosmosEndpoint: getEnv("COSMOS_ENDPOINT", ""),
		CosmosKey:      getEnv("COSMOS_KEY", ""),
		// Legacy variable names accepted for convenience.
		CosmosDatabase:   getEnv("COSMOS_DB_NAME", getEnv("COSMOS_DATABASE", "glossary")),
		CosmosContainer:  getEnv("COSMOS_CONTAINER_NAME", getEnv("COSMOS_CONTAINER", "terms")),
		CosmosThroughput: getEnvInt("COSMOS_THROUGHPUT", 400),

		OpenAIEndpoint:   getEnv("OPENAI_ENDPOINT", ""),
		OpenAIDeployment: getEnv("OPENAI_DEPLOYMENT", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIVersion: getEnv("OPENAI_API_VERSION", "2024-02-01"),

		AIRetryCount:        getEnvInt("AI_RETRY_COUNT", 3),
		AIRetryDelay:        time.Duration(getEnvInt("AI_RETRY_DELAY", 500)) * time.Millisecond,
		AIRequestTimeout:    time.Duration(getEnvInt("AI_REQUEST_TIMEOUT", 30000)) * time.Millisecond,
		AITemperature:       getEnvFloat("AI_DEFAULT_TEMPERATURE", 0.9),
		AITopP:              getEnvFloat("AI_DEFAULT_TOP_P", 0.9),
		AIFrequencyPenalty:  getEnvFloat("AI_DEFAULT_FREQUENCY_PENALTY", 0),
		AIPresencePenalty:   getEnvFloat("AI_DEFAULT_PRESENCE_PENALTY", 0),
		AIUseProxy:          getEnvBool("AI_USE_PROXY", true),
		AIEnableExplanation: getEnvBool("AI_ENABLE_EXPLANATION", true),
		AIRateLimit:         getEnvInt("AI_RATE_LIMIT", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig.
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present and sane.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	if c.GatewayPort <= 0 || c.GatewayPort > 65535 {
		return fmt.Errorf("GATEWAY_PORT must be a valid port number, got %d", c.GatewayPort)
	}
	if c.CosmosThroughput < 400 {
		// 400 RU/s is the Cosmos minimum for manual throughput.
		c.CosmosThroughput = 400
	}
	return nil
}

// ServerAddress is the API listen address.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GatewayAddress is the gateway listen address.
func (c *Config) GatewayAddress() string {
	return fmt.Sprintf(":%d", c.GatewayPort)
}

// APIInternalURL is the loopback URL the gateway forwards API traffic to.
func (c *Config) APIInternalURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", c.Port)
}

// CosmosConfigured reports whether a remote-store endpoint is present.
// A missing key is not fatal: the client then authenticates with the
// ambient Azure identity.
func (c *Config) CosmosConfigured() bool {
	return c.CosmosEndpoint != ""
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
