package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed snapshot store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Record appends an analysis snapshot.
func (p *PostgresStore) Record(ctx context.Context, snap *Snapshot) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO analysis_snapshots (
			id, address, trust_score, category, confidence,
			risk_level, cluster, catalog_version, report, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		snap.ID, strings.ToLower(snap.Address), snap.TrustScore, snap.Category, snap.Confidence,
		snap.RiskLevel, snap.Cluster, snap.CatalogVersion, []byte(snap.Report), snap.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListByAddress returns up to limit snapshots for an address, newest first.
func (p *PostgresStore) ListByAddress(ctx context.Context, address string, limit int) ([]*Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, address, trust_score, category, confidence,
			risk_level, cluster, catalog_version, report, recorded_at
		FROM analysis_snapshots WHERE address = $1
		ORDER BY recorded_at DESC LIMIT $2
	`, strings.ToLower(address), limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanSnapshots(rows)
}

// Latest returns the most recent snapshot for an address.
func (p *PostgresStore) Latest(ctx context.Context, address string) (*Snapshot, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, address, trust_score, category, confidence,
			risk_level, cluster, catalog_version, report, recorded_at
		FROM analysis_snapshots WHERE address = $1
		ORDER BY recorded_at DESC LIMIT 1
	`, strings.ToLower(address))

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

// Trend returns the score delta across the window, newest minus oldest.
func (p *PostgresStore) Trend(ctx context.Context, address string, window time.Duration) (int, int, error) {
	cutoff := time.Now().Add(-window)
	row := p.db.QueryRowContext(ctx, `
		SELECT
			(SELECT trust_score FROM analysis_snapshots
				WHERE address = $1 AND recorded_at > $2
				ORDER BY recorded_at DESC LIMIT 1),
			(SELECT trust_score FROM analysis_snapshots
				WHERE address = $1 AND recorded_at > $2
				ORDER BY recorded_at ASC LIMIT 1),
			(SELECT COUNT(*) FROM analysis_snapshots
				WHERE address = $1 AND recorded_at > $2)
	`, strings.ToLower(address), cutoff)

	var newest, oldest sql.NullInt64
	var samples int
	if err := row.Scan(&newest, &oldest, &samples); err != nil {
		return 0, 0, fmt.Errorf("trend: %w", err)
	}
	if samples == 0 || !newest.Valid || !oldest.Valid {
		return 0, 0, ErrSnapshotNotFound
	}
	return int(newest.Int64 - oldest.Int64), samples, nil
}

// scannable abstracts *sql.Row and *sql.Rows for shared scanning logic.
type scannable interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row scannable) (*Snapshot, error) {
	var snap Snapshot
	var recordedAt sql.NullTime
	var report []byte

	err := row.Scan(
		&snap.ID, &snap.Address, &snap.TrustScore, &snap.Category, &snap.Confidence,
		&snap.RiskLevel, &snap.Cluster, &snap.CatalogVersion, &report, &recordedAt,
	)
	if err != nil {
		return nil, err
	}

	snap.Report = report
	if recordedAt.Valid {
		snap.RecordedAt = recordedAt.Time
	}
	return &snap, nil
}

func scanSnapshots(rows *sql.Rows) ([]*Snapshot, error) {
	var result []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, snap)
	}
	return result, rows.Err()
}
