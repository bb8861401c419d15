package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Settings holds the full runtime configuration. Values come from
// built-in defaults, overridden by the TOML config file, overridden by
// environment variables.
type Settings struct {
	// APIKey is never written to the config file; it comes from the
	// GEMINI_API_KEY environment variable (a .env file is honoured).
	APIKey string `toml:"-"`

	Models    ModelSettings     `toml:"models"`
	Chunking  ChunkingSettings  `toml:"chunking"`
	Retrieval RetrievalSettings `toml:"retrieval"`
	Chat      ChatSettings      `toml:"chat"`
	Paths     PathSettings      `toml:"paths"`
}

// ModelSettings selects the Gemini models and generation parameters.
type ModelSettings struct {
	LLM         string  `toml:"llm"`
	Embedding   string  `toml:"embedding"`
	Temperature float64 `toml:"temperature"`
	TopP        float64 `toml:"top_p"`
	MaxTokens   int     `toml:"max_tokens"`
	RateLimit   float64 `toml:"rate_limit"`
}

// ChunkingSettings controls how documents are split before embedding.
// Sizes are measured in words.
type ChunkingSettings struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalSettings controls the similarity search.
type RetrievalSettings struct {
	TopK      int     `toml:"top_k"`
	Threshold float64 `toml:"threshold"`
}

// ChatSettings controls conversation behaviour.
type ChatSettings struct {
	MaxHistory     int `toml:"max_history"`
	SessionTimeout int `toml:"session_timeout_seconds"`
}

// PathSettings locates the document corpus and persistent data.
type PathSettings struct {
	DocsDir string `toml:"docs_dir"`
	DataDir string `toml:"data_dir"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".billchat")
	return Settings{
		Models: ModelSettings{
			LLM:         "gemini-2.0-flash-exp",
			Embedding:   "text-embedding-004",
			Temperature: 0.1,
			TopP:        0.95,
			MaxTokens:   2048,
			RateLimit:   2.0,
		},
		Chunking: ChunkingSettings{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalSettings{
			TopK:      5,
			Threshold: 0.35,
		},
		Chat: ChatSettings{
			MaxHistory:     5,
			SessionTimeout: 3600,
		},
		Paths: PathSettings{
			DocsDir: filepath.Join(base, "documents"),
			DataDir: filepath.Join(base, "data"),
		},
	}
}

// LoadSettings builds the effective configuration. If configPath is
// empty, ~/.billchat/config.toml is used; a missing config file is not
// an error. A .env file in the working directory is loaded before
// environment overrides are applied.
func LoadSettings(configPath string) (Settings, error) {
	// Missing .env is fine; real environment still applies.
	_ = godotenv.Load()

	s := DefaultSettings()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return s, fmt.Errorf("config: resolve home directory: %w", err)
		}
		configPath = filepath.Join(home, ".billchat", "config.toml")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return s, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	} else if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("config: parse %s: %w", configPath, err)
	}

	s.applyEnv()
	return s, nil
}

// applyEnv overlays environment variables on the loaded settings.
func (s *Settings) applyEnv() {
	s.APIKey = os.Getenv("GEMINI_API_KEY")

	if v := os.Getenv("BILLCHAT_LLM_MODEL"); v != "" {
		s.Models.LLM = v
	}
	if v := os.Getenv("BILLCHAT_EMBEDDING_MODEL"); v != "" {
		s.Models.Embedding = v
	}
	if v := os.Getenv("BILLCHAT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Models.Temperature = f
		}
	}
	if v := os.Getenv("BILLCHAT_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.Chunking.Size = n
		}
	}
	if v := os.Getenv("BILLCHAT_DOCS_DIR"); v != "" {
		s.Paths.DocsDir = v
	}
	if v := os.Getenv("BILLCHAT_DATA_DIR"); v != "" {
		s.Paths.DataDir = v
	}
}

// Validate reports the first configuration problem found.
func (s *Settings) Validate() error {
	switch {
	case s.APIKey == "":
		return fmt.Errorf("config: GEMINI_API_KEY is not set (export it or add it to a .env file)")
	case s.Models.Temperature < 0 || s.Models.Temperature > 1:
		return fmt.Errorf("config: temperature must be between 0 and 1, got %v", s.Models.Temperature)
	case s.Chunking.Size <= 0:
		return fmt.Errorf("config: chunk size must be positive, got %d", s.Chunking.Size)
	case s.Chunking.Overlap < 0:
		return fmt.Errorf("config: chunk overlap must not be negative, got %d", s.Chunking.Overlap)
	case s.Retrieval.TopK <= 0:
		return fmt.Errorf("config: retrieval top_k must be positive, got %d", s.Retrieval.TopK)
	case s.Retrieval.Threshold < 0 || s.Retrieval.Threshold > 1:
		return fmt.Errorf("config: similarity threshold must be between 0 and 1, got %v", s.Retrieval.Threshold)
	case s.Chat.MaxHistory <= 0:
		return fmt.Errorf("config: max history must be positive, got %d", s.Chat.MaxHistory)
	}
	return nil
}

// Save writes the settings to the given path as TOML, creating parent
// directories as needed. The API key is never persisted.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
