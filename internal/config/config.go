package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type GeminiConfig struct {
	APIKey          string  `json:"api_key"`
	Model           string  `json:"model"`
	ClassifierModel string  `json:"classifier_model"`
	EmbeddingModel  string  `json:"embedding_model"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

type QdrantConfig struct {
	URL        string `json:"url"`
	Collection string `json:"collection"`
	APIKey     string `json:"api_key"`
}

type TutorConfig struct {
	PromptsPath       string `json:"prompts_path"`
	SessionTTLMinutes int    `json:"session_ttl_minutes"`
	RetrievalTopK     int    `json:"retrieval_top_k"`
	HistoryWindow     int    `json:"history_window"`
}

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Subpath   string `json:"subpath"`
		JWTSecret string `json:"jwtSecret"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	SQLite struct {
		Path string `json:"path"`
	} `json:"sqlite"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Gemini GeminiConfig `json:"gemini"`
	Qdrant QdrantConfig `json:"qdrant"`
	Tutor  TutorConfig  `json:"tutor"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		applyDefaults(&c)
		cfg = &c
	})
	return cfg, cfgErr
}

func applyDefaults(c *Config) {
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.ClassifierModel == "" {
		c.Gemini.ClassifierModel = c.Gemini.Model
	}
	if c.Gemini.EmbeddingModel == "" {
		c.Gemini.EmbeddingModel = "gemini-embedding-001"
	}
	if c.Gemini.MaxOutputTokens == 0 {
		c.Gemini.MaxOutputTokens = 2048
	}
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = "tutor_knowledge_base"
	}
	if c.Tutor.PromptsPath == "" {
		c.Tutor.PromptsPath = "config/llm_prompts.yaml"
	}
	if c.Tutor.SessionTTLMinutes == 0 {
		c.Tutor.SessionTTLMinutes = 60
	}
	if c.Tutor.RetrievalTopK == 0 {
		c.Tutor.RetrievalTopK = 3
	}
	if c.Tutor.HistoryWindow == 0 {
		c.Tutor.HistoryWindow = 10
	}
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
