//go:build integration

package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LSUDOKO/TrustLens.AI/internal/testutil"
)

const pgTestAddr = "0x73bceb1cd57c711fec4224d864b04132486b1be0"

func pgSnapshot(id string, score int, recordedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:             id,
		Address:        pgTestAddr,
		TrustScore:     score,
		Category:       "high",
		Confidence:     0.86,
		RiskLevel:      "low",
		Cluster:        "defi_power_user",
		CatalogVersion: 3,
		Report:         json.RawMessage(`{"address":"` + pgTestAddr + `"}`),
		RecordedAt:     recordedAt,
	}
}

func TestPostgresRecordAndLatest(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Record(ctx, pgSnapshot("ana_pg1", 72, now.Add(-time.Hour))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, pgSnapshot("ana_pg2", 78, now)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Latest(ctx, pgTestAddr)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.ID != "ana_pg2" {
		t.Errorf("Latest ID: got %s, want ana_pg2", got.ID)
	}
	if got.TrustScore != 78 {
		t.Errorf("TrustScore: got %d, want 78", got.TrustScore)
	}
	if got.Cluster != "defi_power_user" {
		t.Errorf("Cluster: got %s", got.Cluster)
	}
	if len(got.Report) == 0 {
		t.Error("Report payload missing")
	}
}

func TestPostgresLatestNotFound(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	_, err := store.Latest(context.Background(), "0x0000000000000000000000000000000000000000")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestPostgresListByAddress(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		snap := pgSnapshot(fmt.Sprintf("ana_list%d", i), 60+i, now.Add(time.Duration(i)*time.Minute))
		if err := store.Record(ctx, snap); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	snaps, err := store.ListByAddress(ctx, pgTestAddr, 3)
	if err != nil {
		t.Fatalf("ListByAddress failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	// Newest first
	if snaps[0].TrustScore != 64 || snaps[2].TrustScore != 62 {
		t.Errorf("wrong ordering: scores %d, %d, %d", snaps[0].TrustScore, snaps[1].TrustScore, snaps[2].TrustScore)
	}
}

func TestPostgresAddressCaseInsensitive(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	snap := pgSnapshot("ana_case", 50, time.Now().UTC())
	snap.Address = "0x73BCEB1CD57C711FEC4224D864B04132486B1BE0"
	if err := store.Record(ctx, snap); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Latest(ctx, pgTestAddr)
	if err != nil {
		t.Fatalf("Latest with lowercase lookup failed: %v", err)
	}
	if got.Address != pgTestAddr {
		t.Errorf("stored address not normalized: %s", got.Address)
	}
}

func TestPostgresTrend(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	// One stale snapshot outside the window, three inside.
	if err := store.Record(ctx, pgSnapshot("ana_t0", 90, now.Add(-40*24*time.Hour))); err != nil {
		t.Fatal(err)
	}
	for i, score := range []int{60, 66, 71} {
		snap := pgSnapshot(fmt.Sprintf("ana_t%d", i+1), score, now.Add(time.Duration(i-3)*time.Hour))
		if err := store.Record(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}

	delta, samples, err := store.Trend(ctx, pgTestAddr, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Trend failed: %v", err)
	}
	if samples != 3 {
		t.Errorf("samples = %d, want 3 (stale snapshot must be excluded)", samples)
	}
	if delta != 11 {
		t.Errorf("delta = %d, want 11", delta)
	}
}

func TestPostgresTrendEmptyWindow(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	if err := store.Record(ctx, pgSnapshot("ana_old", 80, time.Now().UTC().Add(-60*24*time.Hour))); err != nil {
		t.Fatal(err)
	}

	_, _, err := store.Trend(ctx, pgTestAddr, 24*time.Hour)
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound for empty window, got %v", err)
	}
}
