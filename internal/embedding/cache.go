package embedding

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS embeddings (
	content_hash TEXT PRIMARY KEY,
	model        TEXT NOT NULL,
	dimensions   INTEGER NOT NULL,
	vector       BLOB NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
`

// Cache persists generated vectors keyed by content hash, so identical
// embedding text is never sent to the API twice.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache opens (creating if needed) the embedding cache database under
// dataDir.
func OpenCache(dataDir string) (*Cache, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "embeddings.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached vector for a content hash, or ok=false when the
// hash has not been seen.
func (c *Cache) Get(ctx context.Context, contentHash string) ([]float32, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT vector FROM embeddings WHERE content_hash = ?`, contentHash,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}
	return bytesToVector(blob), true, nil
}

// Put stores a vector under its content hash. Replaces any existing entry.
func (c *Cache) Put(ctx context.Context, contentHash, model string, vector []float32) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (content_hash, model, dimensions, vector, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		contentHash, model, len(vector), vectorToBytes(vector), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Len reports the number of cached vectors.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}

func vectorToBytes(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, f := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) []float32 {
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector
}
