// Package gemini provides an embedding service adapter using the Google
// Gemini embedContent API.
//
// The adapter degrades rather than fails: a batch that cannot be
// embedded yields zero vectors so ingestion completes with unsearchable
// entries, and a failed query embedding yields a zero vector the caller
// tolerates. Zero vectors score 0 under cosine similarity and therefore
// never clear a positive retrieval threshold.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/statutelabs/billchat/internal/core/ports/driven"
	"github.com/statutelabs/billchat/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel     = "text-embedding-004"
	DefaultTimeout   = 60 * time.Second
	DefaultRateLimit = 4.0
	DefaultRateBurst = 8

	// BatchSize is the maximum number of texts per API call.
	BatchSize = 100
)

// Task types understood by the Gemini embedding API. Documents and
// queries are embedded with different task types for better retrieval.
const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Model dimensions for Gemini embedding models.
var modelDimensions = map[string]int{
	"text-embedding-004":   768,
	"gemini-embedding-001": 3072,
}

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: the public Gemini endpoint).
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions overrides the default dimension for the model.
	Dimensions int

	// RequestsPerSecond caps the sustained request rate (default: 4).
	RequestsPerSecond float64
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	model      string
	dimensions int
}

// embedRequest is one entry of a :batchEmbedContents request.
type embedRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// batchEmbedRequest is the Gemini :batchEmbedContents request format.
type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

// batchEmbedResponse is the Gemini :batchEmbedContents response format.
type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRateLimit
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		if d, ok := modelDimensions[cfg.Model]; ok {
			dimensions = d
		} else {
			dimensions = modelDimensions[DefaultModel]
		}
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), DefaultRateBurst),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: dimensions,
	}, nil
}

// EmbedDocuments generates embeddings for document chunks at index time.
// Inputs are processed in batches of BatchSize; a failed batch is
// replaced by zero vectors and logged, never aborting ingestion.
func (s *EmbeddingService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += BatchSize {
		end := start + BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		embedded, err := s.embedBatch(ctx, batch, taskDocument)
		if err != nil {
			logger.Error("embedding batch %d-%d failed, substituting zero vectors: %v", start, end, err)
			for range batch {
				vectors = append(vectors, make([]float32, s.dimensions))
			}
			continue
		}

		vectors = append(vectors, embedded...)
		logger.Debug("embedded batch %d-%d of %d texts", start, end, len(texts))
	}

	return vectors, nil
}

// EmbedQuery generates an embedding for a search query. On failure it
// returns a zero vector rather than an error; a zero-vector query
// matches nothing above a positive threshold.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	embedded, err := s.embedBatch(ctx, []string{text}, taskQuery)
	if err != nil {
		logger.Error("query embedding failed, substituting zero vector: %v", err)
		return make([]float32, s.dimensions), nil
	}
	return embedded[0], nil
}

// embedBatch performs one :batchEmbedContents call.
func (s *EmbeddingService) embedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gemini: rate limit wait: %w", err)
	}

	reqBody := batchEmbedRequest{
		Requests: make([]embedRequest, len(texts)),
	}
	for i, text := range texts {
		reqBody.Requests[i] = embedRequest{
			Model:    "models/" + s.model,
			Content:  content{Parts: []part{{Text: text}}},
			TaskType: taskType,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:batchEmbedContents", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read response: %w", err)
	}

	var embedResp batchEmbedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}

	if embedResp.Error != nil {
		return nil, fmt.Errorf("gemini: API error %d: %s", embedResp.Error.Code, embedResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: API returned status %d: %s", resp.StatusCode, string(body))
	}
	if len(embedResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: expected %d embeddings, got %d", len(texts), len(embedResp.Embeddings))
	}

	vectors := make([][]float32, len(embedResp.Embeddings))
	for i, e := range embedResp.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
