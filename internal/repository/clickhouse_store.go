package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	pkgch "SignalDesk/pkg/clickhouse"
	applogger "SignalDesk/pkg/logger"
	"SignalDesk/pkg/util"
)

// ClickHouseSchema returns the DDL for database db.
func ClickHouseSchema(db string) []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		`CREATE TABLE IF NOT EXISTS ` + db + `.news_articles (
            title String,
            description String,
            content String,
            url String,
            source String,
            published_at String,
            published_ts DateTime64(3, 'UTC'),
            symbols Array(String),
            entities String,
            sentiment_score Float64,
            sentiment_magnitude Float64,
            topics Array(String),
            created_at DateTime64(3, 'UTC') DEFAULT now64(3)
        ) ENGINE = MergeTree ORDER BY (published_ts, url)`,
		`CREATE TABLE IF NOT EXISTS ` + db + `.options_flow (
            id String,
            symbol LowCardinality(String),
            contract_type LowCardinality(String),
            strike Float64,
            expiration String,
            size Int64,
            premium Float64,
            trade_type LowCardinality(String),
            sentiment LowCardinality(String),
            detected_at DateTime64(3, 'UTC'),
            is_unusual Bool
        ) ENGINE = MergeTree ORDER BY (detected_at, symbol)`,
	}
}

// CHStore implements NewsStore and FlowStore backed by ClickHouse.
type CHStore struct {
	db       *sql.DB
	database string
	l        *applogger.Logger
}

func NewCHStore(ch *pkgch.Client, database string) *CHStore {
	return &CHStore{db: ch.DB(), database: database, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

func (s *CHStore) InsertArticle(ctx context.Context, a *models.NewsArticle) error {
	entities, err := marshalEntities(a.Entities)
	if err != nil {
		return err
	}
	// published_at is stored verbatim; published_ts is only for ordering.
	publishedTS := util.ParseTimeDefault(a.PublishedAt, time.Now().UTC())

	q := fmt.Sprintf(`INSERT INTO %s.news_articles
        (title, description, content, url, source, published_at, published_ts, symbols, entities, sentiment_score, sentiment_magnitude, topics)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.database)
	_, err = s.db.ExecContext(ctx, q,
		a.Title,
		a.Description,
		a.Content,
		a.URL,
		a.Source,
		a.PublishedAt,
		publishedTS,
		nonNil(a.Symbols),
		entities,
		a.SentimentScore,
		a.SentimentMagnitude,
		nonNil(a.Topics),
	)
	if err != nil {
		s.l.Error("clickhouse insert_article error",
			applogger.String("url", a.URL),
			applogger.Strings("symbols", a.Symbols),
			applogger.Error(err),
		)
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (s *CHStore) ListUnusualSince(ctx context.Context, cutoff time.Time, limit int) ([]models.OptionsFlow, error) {
	q := fmt.Sprintf(`
        SELECT id, symbol, contract_type, strike, expiration, size, premium, trade_type, sentiment, detected_at, is_unusual
        FROM %s.options_flow
        WHERE detected_at >= ? AND is_unusual = true
        ORDER BY detected_at DESC
        LIMIT ?`, s.database)
	rows, err := s.db.QueryContext(ctx, q, cutoff.UTC(), limit)
	if err != nil {
		s.l.Error("clickhouse list_unusual query error",
			applogger.String("cutoff", cutoff.UTC().Format(time.RFC3339)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("list unusual flow: %w", err)
	}
	defer rows.Close()

	out := make([]models.OptionsFlow, 0, limit)
	for rows.Next() {
		var f models.OptionsFlow
		if err := rows.Scan(&f.ID, &f.Symbol, &f.ContractType, &f.Strike, &f.Expiration, &f.Size,
			&f.Premium, &f.TradeType, &f.Sentiment, &f.DetectedAt, &f.IsUnusual); err != nil {
			s.l.Error("clickhouse list_unusual scan error", applogger.Error(err))
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var (
	_ domrepo.NewsStore = (*CHStore)(nil)
	_ domrepo.FlowStore = (*CHStore)(nil)
)
