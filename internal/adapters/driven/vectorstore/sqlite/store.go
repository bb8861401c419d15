// Package sqlite provides a durable vector index backed by SQLite.
//
// Embeddings are stored as little-endian float32 blobs alongside chunk
// text and metadata. Search is a brute-force cosine scan: the corpus is
// a handful of bills split into at most a few thousand chunks, so a
// linear pass is faster than maintaining an approximate index.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/statutelabs/billchat/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
	"github.com/statutelabs/billchat/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Store is a SQLite-backed vector index.
// Mutations are serialised behind a write lock; searches share a read lock.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewStore creates a vector index at the specified data directory.
// If dataDir is empty, defaults to ~/.billchat/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".billchat", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode lets searches proceed while an ingestion writes
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Upsert stores the chunks, replacing prior records with the same ID.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, source, doc_type, path, position, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			source = excluded.source,
			doc_type = excluded.doc_type,
			path = excluded.path,
			position = excluded.position,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		blob := float32SliceToBytes(chunk.Embedding)
		if blob == nil {
			blob = []byte{}
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Content, chunk.Source,
			chunk.Type, chunk.Path, chunk.Index, blob); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	logger.Debug("upserted %d chunks into %s", len(chunks), s.path)
	return nil
}

// Search scans all records, scores them against the query vector and
// returns up to k hits at or above the threshold, best first.
// An empty index returns an empty slice.
func (s *Store) Search(ctx context.Context, query []float32, k int, threshold float64) ([]domain.Retrieval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, source, doc_type, path, position, embedding FROM chunks
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	results := []domain.Retrieval{}
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Source,
			&chunk.Type, &chunk.Path, &chunk.Index, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(blob)

		score := domain.CosineSimilarity(query, chunk.Embedding)
		if score < threshold {
			continue
		}
		results = append(results, domain.Retrieval{Chunk: chunk, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// Stats reports the record count and embedding dimensions.
func (s *Store) Stats(ctx context.Context) (driven.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := driven.IndexStats{Path: s.path}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`)
	if err := row.Scan(&stats.Records); err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}

	if stats.Records > 0 {
		var blob []byte
		row = s.db.QueryRowContext(ctx, `SELECT embedding FROM chunks LIMIT 1`)
		if err := row.Scan(&blob); err != nil {
			return stats, fmt.Errorf("sampling embedding: %w", err)
		}
		stats.Dimensions = len(blob) / 4
	}

	return stats, nil
}

// Reset irreversibly removes all records.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	logger.Info("vector index reset: %s", s.path)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
