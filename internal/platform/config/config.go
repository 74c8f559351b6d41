package config

import (
	"os"
	"time"
)

// Server captures process-level configuration sourced from the environment.
type Server struct {
	Addr        string
	DatabaseURL string
	APIToken    string

	Redis RedisConfig
	LLM   LLMConfig
}

// RedisConfig holds connection settings for the optional rule-catalog cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RuleCacheTTL bounds how stale a cached rule snapshot may get.
	RuleCacheTTL time.Duration
}

// LLMConfig holds settings for the Gemini-assisted extraction tier.
type LLMConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SHIPGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	llmTimeout := 15 * time.Second
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			llmTimeout = d
		}
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIToken:    os.Getenv("API_TOKEN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			RuleCacheTTL: 5 * time.Minute,
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   model,
			Timeout: llmTimeout,
		},
	}
}
