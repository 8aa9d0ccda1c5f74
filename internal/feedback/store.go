package feedback

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vitalgraph/mediq/internal/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS feedback (
	feedback_id TEXT PRIMARY KEY,
	query_id TEXT NOT NULL,
	feedback_type TEXT NOT NULL,
	rating INTEGER,
	comment TEXT,
	user_id TEXT,
	suggested_answer TEXT,
	created_at INTEGER
)`

// Store persists user feedback on answers.
type Store struct {
	db *sql.DB
}

func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "feedback.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening feedback database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing feedback schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one feedback entry and returns its generated ID.
func (s *Store) Record(ctx context.Context, req model.FeedbackRequest) (model.FeedbackResponse, error) {
	id := newFeedbackID()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO feedback (feedback_id, query_id, feedback_type, rating, comment, user_id, suggested_answer, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, req.QueryID, string(req.FeedbackType), req.Rating, req.Comment, req.UserID, req.SuggestedAnswer, now.Unix(),
	)
	if err != nil {
		return model.FeedbackResponse{}, fmt.Errorf("recording feedback: %w", err)
	}
	return model.FeedbackResponse{
		FeedbackID: id,
		Status:     "received",
		Message:    "感谢您的反馈！您的意见将帮助我们改进服务。",
		CreatedAt:  now,
	}, nil
}

// Stats summarizes stored feedback: total count, per-type counts, and the
// average of non-zero ratings.
type Stats struct {
	Total         int            `json:"total"`
	ByType        map[string]int `json:"by_type"`
	AverageRating *float64       `json:"average_rating"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByType: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		"SELECT feedback_type, COUNT(*) FROM feedback GROUP BY feedback_type")
	if err != nil {
		return Stats{}, fmt.Errorf("counting feedback: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ   string
			count int
		)
		if err := rows.Scan(&typ, &count); err != nil {
			return Stats{}, fmt.Errorf("scanning feedback count: %w", err)
		}
		stats.ByType[typ] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		"SELECT AVG(rating) FROM feedback WHERE rating > 0").Scan(&avg); err != nil {
		return Stats{}, fmt.Errorf("averaging ratings: %w", err)
	}
	if avg.Valid {
		stats.AverageRating = &avg.Float64
	}
	return stats, nil
}

func newFeedbackID() string {
	u := uuid.New()
	return "fb_" + hex.EncodeToString(u[:6])
}
