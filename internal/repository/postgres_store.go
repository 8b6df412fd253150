package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConfigured indicates the pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

// PostgresSchema creates the tables this service reads and writes.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS news_articles (
        id                  BIGSERIAL PRIMARY KEY,
        title               TEXT NOT NULL,
        description         TEXT NOT NULL DEFAULT '',
        content             TEXT NOT NULL DEFAULT '',
        url                 TEXT NOT NULL DEFAULT '',
        source              TEXT NOT NULL DEFAULT '',
        published_at        TEXT NOT NULL DEFAULT '',
        symbols             TEXT[] NOT NULL DEFAULT '{}',
        entities            JSONB NOT NULL DEFAULT '[]',
        sentiment_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
        sentiment_magnitude DOUBLE PRECISION NOT NULL DEFAULT 0,
        topics              TEXT[] NOT NULL DEFAULT '{}',
        created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS news_articles_symbols_idx ON news_articles USING GIN (symbols)`,
	`CREATE TABLE IF NOT EXISTS options_flow (
        id            TEXT PRIMARY KEY,
        symbol        TEXT NOT NULL,
        contract_type TEXT NOT NULL DEFAULT '',
        strike        DOUBLE PRECISION NOT NULL DEFAULT 0,
        expiration    TEXT NOT NULL DEFAULT '',
        size          BIGINT NOT NULL DEFAULT 0,
        premium       DOUBLE PRECISION NOT NULL DEFAULT 0,
        trade_type    TEXT NOT NULL DEFAULT '',
        sentiment     TEXT NOT NULL DEFAULT '',
        detected_at   TIMESTAMPTZ NOT NULL,
        is_unusual    BOOLEAN NOT NULL DEFAULT false
    )`,
	`CREATE INDEX IF NOT EXISTS options_flow_unusual_detected_idx ON options_flow (detected_at DESC) WHERE is_unusual`,
}

const (
	insertArticleSQL = `INSERT INTO news_articles (
        title,
        description,
        content,
        url,
        source,
        published_at,
        symbols,
        entities,
        sentiment_score,
        sentiment_magnitude,
        topics
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9,$10,$11
    )`

	listUnusualFlowSQL = `SELECT
        id::text,
        symbol,
        contract_type,
        strike::float8,
        expiration::text,
        size,
        premium::float8,
        trade_type,
        sentiment,
        detected_at,
        is_unusual
    FROM options_flow
    WHERE detected_at >= $1 AND is_unusual = true
    ORDER BY detected_at DESC
    LIMIT $2`
)

// PostgresStore implements NewsStore and FlowStore on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertArticle appends one scored article.
func (s *PostgresStore) InsertArticle(ctx context.Context, a *models.NewsArticle) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	entities, err := marshalEntities(a.Entities)
	if err != nil {
		return err
	}

	_, execErr := pool.Exec(ctx, insertArticleSQL,
		a.Title,
		a.Description,
		a.Content,
		a.URL,
		a.Source,
		a.PublishedAt,
		nonNil(a.Symbols),
		entities,
		a.SentimentScore,
		a.SentimentMagnitude,
		nonNil(a.Topics),
	)
	if execErr != nil {
		return fmt.Errorf("insert article: %w", execErr)
	}
	return nil
}

// ListUnusualSince lists unusual flows detected at or after cutoff, newest first.
func (s *PostgresStore) ListUnusualSince(ctx context.Context, cutoff time.Time, limit int) ([]models.OptionsFlow, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listUnusualFlowSQL, cutoff, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list unusual flow: %w", queryErr)
	}
	defer rows.Close()

	flows := make([]models.OptionsFlow, 0)
	for rows.Next() {
		var f models.OptionsFlow
		if err := rows.Scan(
			&f.ID,
			&f.Symbol,
			&f.ContractType,
			&f.Strike,
			&f.Expiration,
			&f.Size,
			&f.Premium,
			&f.TradeType,
			&f.Sentiment,
			&f.DetectedAt,
			&f.IsUnusual,
		); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		flows = append(flows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flow: %w", err)
	}
	return flows, nil
}

func (s *PostgresStore) Health(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func marshalEntities(ents []models.Entity) (string, error) {
	if ents == nil {
		ents = []models.Entity{}
	}
	b, err := json.Marshal(ents)
	if err != nil {
		return "", fmt.Errorf("marshal entities: %w", err)
	}
	return string(b), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var (
	_ domrepo.NewsStore = (*PostgresStore)(nil)
	_ domrepo.FlowStore = (*PostgresStore)(nil)
)
