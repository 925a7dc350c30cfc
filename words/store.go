package words

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNoWords            = errors.New("no words available")
	ErrDuplicateWord      = errors.New("word already exists")
	ErrUnexpectedDatabase = errors.New("unexpected database error")
)

// Entry is one row of the words table.
type Entry struct {
	Id        int       `json:"id"`
	Word      string    `json:"word"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is what the HTTP handlers and the game core consume.
type Store interface {
	GetRandomWord(ctx context.Context) (Entry, error)
	ListWords(ctx context.Context) ([]Entry, error)
	AddWord(ctx context.Context, word, category string) (Entry, error)
	DeleteWord(ctx context.Context, id int) error
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

// GetRandomWord returns a uniformly random entry over the current rows.
func (s *PostgresStore) GetRandomWord(ctx context.Context) (Entry, error) {
	entry := Entry{}

	row := s.pool.QueryRow(ctx, "SELECT id, word, category, created_at FROM words ORDER BY random() LIMIT 1")

	err := row.Scan(&entry.Id, &entry.Word, &entry.Category, &entry.CreatedAt)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return Entry{}, ErrNoWords
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return Entry{}, err
		default:
			return Entry{}, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
		}
	}

	return entry, nil
}

func (s *PostgresStore) ListWords(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, word, category, created_at FROM words ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Id, &e.Word, &e.Category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}

	return entries, nil
}

func (s *PostgresStore) AddWord(ctx context.Context, word, category string) (Entry, error) {
	if category == "" {
		category = "General"
	}

	entry := Entry{Word: word, Category: category}

	row := s.pool.QueryRow(ctx, "INSERT INTO words(word, category) VALUES($1, $2) RETURNING id, created_at", word, category)

	err := row.Scan(&entry.Id, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// "23505" is the PostgreSQL error code for unique_violation
			if pgErr.Code == "23505" {
				return Entry{}, ErrDuplicateWord
			}
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Entry{}, err
		}

		return Entry{}, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}

	return entry, nil
}

func (s *PostgresStore) DeleteWord(ctx context.Context, id int) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM words WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
	return nil
}
