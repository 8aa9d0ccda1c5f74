package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vitalgraph/mediq/internal/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS memories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT,
	content TEXT NOT NULL,
	metadata TEXT,
	created_at INTEGER
)`

// Store persists per-user memory snippets in SQLite and retrieves them with
// a bigram-overlap text similarity. No embedding backend is required.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the memory database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memories.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening memory database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing memory schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Store persists one memory snippet.
func (s *Store) Store(ctx context.Context, userID, content string, metadata map[string]string) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		meta = []byte("{}")
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO memories (user_id, content, metadata, created_at) VALUES (?, ?, ?, ?)",
		userID, content, string(meta), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing memory: %w", err)
	}
	return nil
}

// Search returns the topK memories most similar to the query, scoped to a
// user when userID is non-empty.
func (s *Store) Search(ctx context.Context, query, userID string, topK int) ([]model.MemoryHit, error) {
	rows, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Score = bigramSimilarity(query, rows[i].Content)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})

	if len(rows) > topK {
		rows = rows[:topK]
	}
	return rows, nil
}

func (s *Store) fetch(ctx context.Context, userID string) ([]model.MemoryHit, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID != "" {
		rows, err = s.db.QueryContext(ctx,
			"SELECT id, user_id, content, metadata FROM memories WHERE user_id = ? ORDER BY created_at DESC", userID)
	} else {
		rows, err = s.db.QueryContext(ctx,
			"SELECT id, user_id, content, metadata FROM memories ORDER BY created_at DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("fetching memories: %w", err)
	}
	defer rows.Close()

	var hits []model.MemoryHit
	for rows.Next() {
		var (
			hit  model.MemoryHit
			meta string
		)
		if err := rows.Scan(&hit.ID, &hit.UserID, &hit.Content, &meta); err != nil {
			return nil, fmt.Errorf("scanning memory row: %w", err)
		}
		if meta != "" {
			_ = json.Unmarshal([]byte(meta), &hit.Metadata)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// bigramSimilarity is the Sørensen–Dice coefficient over rune bigrams.
func bigramSimilarity(a, b string) float64 {
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	overlap := 0
	for gram, count := range ba {
		if other, ok := bb[gram]; ok {
			overlap += min(count, other)
		}
	}

	total := 0
	for _, c := range ba {
		total += c
	}
	for _, c := range bb {
		total += c
	}
	return 2 * float64(overlap) / float64(total)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}
