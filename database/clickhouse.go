// api/database/clickhouse.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"portfolio/api/config"
	"portfolio/api/logger"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

const analyticsEventsDDL = `
	CREATE TABLE IF NOT EXISTS analytics_events (
		event_id   String,
		event_type LowCardinality(String),
		event_data Nullable(String),
		timestamp  DateTime64(3, 'UTC'),
		session_id Nullable(String),
		user_agent String,
		ip_address String
	)
	ENGINE = MergeTree
	PARTITION BY toYYYYMM(timestamp)
	ORDER BY (event_type, timestamp)
`

func NewClickHouseDB(cfg config.ClickHouseConfig) (*ClickHouseClient, error) {
	if cfg.Host == "" || cfg.NativePort <= 0 || cfg.Database == "" {
		return nil, fmt.Errorf("CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT, or CLICKHOUSE_DB_NAME is not set")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.NativePort)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "portfolio-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if err := conn.Exec(ctx, analyticsEventsDDL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create analytics_events table: %w", err)
	}

	logger.Info().Str("addr", options.Addr[0]).Msg("Successfully connected to ClickHouse database via Native TCP")
	return &ClickHouseClient{Conn: conn}, nil
}

func (c *ClickHouseClient) Ping(ctx context.Context) error {
	return c.Conn.Ping(ctx)
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		logger.Info().Msg("ClickHouse connection closed")
	}
}
