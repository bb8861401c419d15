package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to embedded defaults when a file is missing.
//
// Initialisation is lazy: the prompt directory and default files are
// only created on the first Load, which keeps the constructor free of
// I/O and makes testing easier.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains the embedded default prompts. They are used
// when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSystem: `You are an AI assistant specializing in Nigeria's 2024 Tax Reform Bills.

Your role:
- Answer questions about the tax reform bills accurately based ONLY on the provided documents.
- Cite sources from the official documents.
- Explain complex tax concepts in clear, standard English that is easy to understand.
- Correct misinformation with factual information.

Guidelines:
- **STRICTLY GROUNDED**: Base your answers ONLY on the provided Context. Do not use external knowledge or pre-training data (which may be outdated).
- ALWAYS cite sources when answering policy questions.
- Use format: [Source: Nigeria Tax Bill 2024, Section X]
- If the answer is not in the provided context, say "I cannot find this information in the provided documents."
- Be concise but thorough.
- **IMPORTANT**: Use standard English. Do NOT use Pidgin English. Maintain a professional yet accessible tone suitable for a general Nigerian audience.

Remember: People's livelihoods depend on understanding these reforms correctly.`,

	driven.PromptRetrievalDecision: `Analyze the user's message and decide if document retrieval is needed.

Retrieve documents when:
- User asks about tax policy, rates, laws, or regulations
- User asks "what", "how", "when", "why" about tax reforms
- User needs specific information from the bills

Do NOT retrieve when:
- User greets you (hello, hi, etc.)
- User thanks you
- User asks about your capabilities
- User's question can be answered from conversation history

Return: "RETRIEVE" or "NO_RETRIEVE" with a brief reason.`,
}

// NewPromptStore creates a file-based prompt store. If promptDir is
// empty, ~/.billchat/prompts/ is used.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("prompts: resolve home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".billchat", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name. The first call
// initialises the prompt directory and writes default files. Missing
// files fall back to the embedded defaults.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompts: init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("prompts: unknown prompt %q: %w", name, domain.ErrNotFound)
		}
		return "", fmt.Errorf("prompts: load %q: %w", name, err)
	}

	// Double-check so a concurrent load wins consistently.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files. Called
// once via sync.Once on first Load.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("prompts: create directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("prompts: create default %q: %w", name, err)
				return
			}
		}
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
