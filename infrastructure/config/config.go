// Package config loads the service configuration from a YAML file, a
// .env.local file and the process environment, in that order of precedence
// (environment wins).
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Supported LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Supported vector store backends.
const (
	VectorStoreMemory = "memory"
	VectorStoreQdrant = "qdrant"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSecs int    `yaml:"read_timeout_secs"`
	// WriteTimeoutSecs must cover the whole pipeline (search + completion).
	WriteTimeoutSecs int `yaml:"write_timeout_secs"`
}

// LLMConfig selects and configures the completion model.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	APIKey      string  `yaml:"-"`
}

// EmbedderConfig configures the OpenAI embeddings client.
type EmbedderConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"-"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	Addr       string `yaml:"addr"`
	Collection string `yaml:"collection"`
	VectorSize uint64 `yaml:"vector_size"`
}

// VectorStoreConfig selects the vector store implementation.
type VectorStoreConfig struct {
	Type   string       `yaml:"type"`
	Qdrant QdrantConfig `yaml:"qdrant"`
}

// SearchConfig configures the Brave web search.
type SearchConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Limit   int    `yaml:"limit"`
	APIKey  string `yaml:"-"`
}

// RetrievalConfig tunes retrieval and chunking.
type RetrievalConfig struct {
	TopK             int `yaml:"top_k"`
	ChunkSize        int `yaml:"chunk_size"`
	ChunkOverlap     int `yaml:"chunk_overlap"`
	MaxContextLength int `yaml:"max_context_length"`
	LinkLimit        int `yaml:"link_limit"`
}

// KnowledgeBaseConfig points at a directory indexed at startup.
type KnowledgeBaseConfig struct {
	Dir string `yaml:"dir"`
}

// AppConfig is the root configuration.
type AppConfig struct {
	Server        ServerConfig        `yaml:"server"`
	LLM           LLMConfig           `yaml:"llm"`
	Embedder      EmbedderConfig      `yaml:"embedder"`
	VectorStore   VectorStoreConfig   `yaml:"vector_store"`
	Search        SearchConfig        `yaml:"search"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
}

// ReadTimeout returns the server read timeout.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSecs) * time.Second
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	cfg := &AppConfig{Search: SearchConfig{Enabled: true}}
	applyDefaults(cfg)
	return cfg
}

// Load reads .env.local (if present), the YAML file at path (if path is not
// empty) and then applies environment overrides and defaults.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load(".env.local")

	cfg := &AppConfig{Search: SearchConfig{Enabled: true}}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// maxLinkLimit is the most links an answer may carry.
const maxLinkLimit = 5

// Validate checks the fields that have a closed set of values.
func (c *AppConfig) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return errors.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.VectorStore.Type {
	case VectorStoreMemory, VectorStoreQdrant:
	default:
		return errors.Errorf("unknown vector store %q", c.VectorStore.Type)
	}
	if c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		return errors.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", c.Retrieval.ChunkOverlap, c.Retrieval.ChunkSize)
	}
	if c.Retrieval.LinkLimit > maxLinkLimit {
		return errors.Errorf("link limit (%d) must not exceed %d", c.Retrieval.LinkLimit, maxLinkLimit)
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	if v := getEnv("CHERRY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getEnv("CHERRY_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if v := getEnv("CHERRY_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := getEnv("CHERRY_SEARCH_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.Enabled = b
		}
	}
	if v := getEnv("CHERRY_KNOWLEDGE_DIR"); v != "" {
		cfg.KnowledgeBase.Dir = v
	}
	if v := getEnv("QDRANT_ADDR"); v != "" {
		cfg.VectorStore.Qdrant.Addr = v
	}
	if v := getEnv("QDRANT_COLLECTION_NAME"); v != "" {
		cfg.VectorStore.Qdrant.Collection = v
	}

	openAIKey := getEnv("OPENAI_API_KEY")
	cfg.Embedder.APIKey = openAIKey
	switch cfg.LLM.Provider {
	case ProviderAnthropic:
		cfg.LLM.APIKey = getEnv("ANTHROPIC_API_KEY")
	default:
		cfg.LLM.APIKey = openAIKey
	}
	cfg.Search.APIKey = getEnv("BRAVE_API_KEY")
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Server.ReadTimeoutSecs == 0 {
		cfg.Server.ReadTimeoutSecs = 10
	}
	if cfg.Server.WriteTimeoutSecs == 0 {
		cfg.Server.WriteTimeoutSecs = 120
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderOpenAI
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case ProviderAnthropic:
			cfg.LLM.Model = "claude-3-7-sonnet-latest"
		default:
			cfg.LLM.Model = "gpt-3.5-turbo"
		}
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.8
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = VectorStoreMemory
	}
	if cfg.VectorStore.Qdrant.Addr == "" {
		cfg.VectorStore.Qdrant.Addr = "localhost:6334"
	}
	if cfg.VectorStore.Qdrant.Collection == "" {
		cfg.VectorStore.Qdrant.Collection = "chat_history"
	}
	if cfg.VectorStore.Qdrant.VectorSize == 0 {
		cfg.VectorStore.Qdrant.VectorSize = 1536
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://api.search.brave.com/res/v1/web/search"
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 5
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 150
	}
	if cfg.Retrieval.ChunkOverlap == 0 {
		cfg.Retrieval.ChunkOverlap = 10
	}
	if cfg.Retrieval.MaxContextLength == 0 {
		cfg.Retrieval.MaxContextLength = 4000
	}
	if cfg.Retrieval.LinkLimit == 0 {
		cfg.Retrieval.LinkLimit = 5
	}
}

// getEnv returns the trimmed value of an environment variable.
func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
