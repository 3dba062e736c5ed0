package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"bridge-lite/internal/logging"
)

type PostgresService struct {
	sqlService
}

func NewPostgresService(dsn string, retain int, logger *zap.Logger) (*PostgresService, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	logger = logging.Or(logger)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS bridge_recommendations (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    system_name TEXT NOT NULL,
    seat TEXT NOT NULL,
    bid TEXT NOT NULL,
    source TEXT NOT NULL,
    phase TEXT NOT NULL DEFAULT '',
    overridden BOOLEAN NOT NULL DEFAULT FALSE,
    payload_b64 TEXT NOT NULL,
    created_at_ms BIGINT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("postgres ledger ready")

	return &PostgresService{sqlService{
		db:       db,
		retain:   retain,
		numbered: true,
		logger:   logger,
		now:      time.Now,
	}}, nil
}
