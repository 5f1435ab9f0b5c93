// Package history persists analysis snapshots so score evolution can be
// queried over time.
//
// A Snapshot is one completed wallet analysis: the composite score, its
// category, the triggered risk level, and the full serialized report. The
// store never mutates snapshots; history is append-only.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrSnapshotNotFound is returned when no snapshot exists for an address.
var ErrSnapshotNotFound = errors.New("history: snapshot not found")

// Snapshot is one recorded wallet analysis.
type Snapshot struct {
	ID             string          `json:"id"`
	Address        string          `json:"address"`
	TrustScore     int             `json:"trustScore"`
	Category       string          `json:"category"`
	Confidence     float64         `json:"confidence"`
	RiskLevel      string          `json:"riskLevel"` // highest triggered severity, "" when clean
	Cluster        string          `json:"cluster"`
	CatalogVersion int             `json:"catalogVersion"`
	Report         json.RawMessage `json:"report"`
	RecordedAt     time.Time       `json:"recordedAt"`
}

// Store persists and queries analysis snapshots.
type Store interface {
	// Record appends a snapshot. The caller assigns ID and RecordedAt.
	Record(ctx context.Context, snap *Snapshot) error

	// ListByAddress returns up to limit snapshots for an address, newest
	// first.
	ListByAddress(ctx context.Context, address string, limit int) ([]*Snapshot, error)

	// Latest returns the most recent snapshot for an address.
	Latest(ctx context.Context, address string) (*Snapshot, error)

	// Trend returns the score delta between the oldest and newest snapshot
	// within the window, with the number of snapshots considered.
	Trend(ctx context.Context, address string, window time.Duration) (delta int, samples int, err error)
}
