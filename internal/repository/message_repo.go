package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"aichat-backend/internal/models"
)

// ErrNotConnected is returned by every query method when the repo has no
// database pool. Callers use it to tell "store offline" apart from a real
// query failure.
var ErrNotConnected = errors.New("database not connected")

// MessageRepo owns the messages table. The pool may be nil when the process
// started without a reachable database; every method degrades to
// ErrNotConnected in that case instead of panicking.
type MessageRepo struct {
	mu   sync.RWMutex
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Save inserts a new record; id and timestamp come back from the database.
func (r *MessageRepo) Save(ctx context.Context, userMessage, aiResponse string) (*models.Message, error) {
	pool := r.getPool()
	if pool == nil {
		return nil, ErrNotConnected
	}

	m := &models.Message{
		UserMessage: userMessage,
		AIResponse:  aiResponse,
	}

	query := `INSERT INTO messages (user_message, ai_response)
		VALUES ($1, $2) RETURNING id, timestamp`

	err := pool.QueryRow(ctx, query, userMessage, aiResponse).Scan(&m.ID, &m.Timestamp)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Recent returns up to limit records, newest first. Ties on timestamp are
// broken by id so the order stays stable under rapid inserts.
func (r *MessageRepo) Recent(ctx context.Context, limit int) ([]models.Message, error) {
	pool := r.getPool()
	if pool == nil {
		return nil, ErrNotConnected
	}

	query := `SELECT id, user_message, ai_response, timestamp
		FROM messages ORDER BY timestamp DESC, id DESC LIMIT $1`

	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0, limit)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.UserMessage, &m.AIResponse, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// Count reports the total number of stored messages, for diagnostics.
func (r *MessageRepo) Count(ctx context.Context) (int, error) {
	pool := r.getPool()
	if pool == nil {
		return 0, ErrNotConnected
	}

	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM messages").Scan(&count)
	return count, err
}

// Ping reports live connectivity with a short budget.
func (r *MessageRepo) Ping(ctx context.Context) bool {
	pool := r.getPool()
	if pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return pool.Ping(ctx) == nil
}

// Close releases the pool. Safe to call more than once.
func (r *MessageRepo) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
}

func (r *MessageRepo) getPool() *pgxpool.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pool
}
