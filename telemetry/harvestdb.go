package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// HarvestDBName is the harvest index file inside the output directory.
const HarvestDBName = "harvest.db"

// HarvestIndex records ledger credits in SQLite, keyed by run.
// Writes are queued to a single writer goroutine and batched into
// transactions. When the queue is full, rows are dropped and counted;
// credits.csv and the event log remain complete.
// WriteCredits and Close may be called from different goroutines.
type HarvestIndex struct {
	db    *sql.DB
	runID string

	ch      chan harvestRow
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards sends on ch against close
	closed  bool
	dropped atomic.Int64
}

type harvestRow struct {
	tick    int32
	player  string
	species string
	kind    string
	qty     uint64
}

// OpenHarvestIndex opens or creates the database at path and registers runID.
func OpenHarvestIndex(path, runID string, seed int64) (*HarvestIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initHarvestPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initHarvestSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO runs(run_id, seed, started_at) VALUES(?,?,?)`,
		runID, seed, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registering run: %w", err)
	}

	h := &HarvestIndex{
		db:    db,
		runID: runID,
		ch:    make(chan harvestRow, 65536),
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.loop()
	}()
	return h, nil
}

func initHarvestPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initHarvestSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS credits (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			player TEXT NOT NULL,
			species TEXT NOT NULL,
			kind TEXT NOT NULL,
			qty INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_credits_run_player ON credits(run_id, player);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RunID returns the run the index writes under.
func (h *HarvestIndex) RunID() string {
	return h.runID
}

// WriteCredits queues credit records. It never blocks the simulation.
func (h *HarvestIndex) WriteCredits(records []CreditRecord) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, r := range records {
		select {
		case h.ch <- harvestRow{tick: r.Tick, player: r.Player, species: r.Species, kind: r.Kind, qty: r.Qty}:
		default:
			h.dropped.Add(1)
		}
	}
}

// Dropped returns the number of rows discarded because the queue was full.
func (h *HarvestIndex) Dropped() int64 {
	return h.dropped.Load()
}

// Close drains the queue, commits and closes the database.
func (h *HarvestIndex) Close() error {
	if h == nil {
		return nil
	}
	var err error
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.ch)
		h.mu.Unlock()
		h.wg.Wait()
		if n := h.dropped.Load(); n > 0 {
			slog.Warn("harvest_index_dropped", "rows", n)
		}
		err = h.db.Close()
	})
	return err
}

func (h *HarvestIndex) loop() {
	ctx := context.Background()

	const commitEvery = 2000

	var (
		tx      *sql.Tx
		stmt    *sql.Stmt
		opCount int
	)
	begin := func() bool {
		if tx != nil {
			return true
		}
		txx, err := h.db.BeginTx(ctx, nil)
		if err != nil {
			slog.Error("harvest_index_begin", "error", err)
			return false
		}
		st, err := txx.Prepare(`INSERT INTO credits(run_id,tick,player,species,kind,qty) VALUES(?,?,?,?,?,?)`)
		if err != nil {
			_ = txx.Rollback()
			slog.Error("harvest_index_prepare", "error", err)
			return false
		}
		tx, stmt, opCount = txx, st, 0
		return true
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = stmt.Close()
		if err := tx.Commit(); err != nil {
			slog.Error("harvest_index_commit", "error", err)
		}
		tx, stmt, opCount = nil, nil, 0
	}

	for r := range h.ch {
		if !begin() {
			h.dropped.Add(1)
			continue
		}
		if _, err := stmt.Exec(h.runID, r.tick, r.player, r.species, r.kind, int64(r.qty)); err != nil {
			slog.Error("harvest_index_insert", "error", err)
		}
		opCount++
		// Commit whenever the queue drains so readers never wait on an open tx.
		if opCount >= commitEvery || len(h.ch) == 0 {
			commit()
		}
	}
	commit()
}

// HarvestTotal is the summed quantity of one resource for one player.
type HarvestTotal struct {
	Player  string
	Species string
	Kind    string
	Qty     uint64
}

// HarvestTotals sums credits per player and resource for runID.
// Rows are ordered by player, species, kind.
func HarvestTotals(ctx context.Context, path, runID string) ([]HarvestTotal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT player, species, kind, SUM(qty)
		FROM credits WHERE run_id = ?
		GROUP BY player, species, kind
		ORDER BY player, species, kind`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HarvestTotal
	for rows.Next() {
		var t HarvestTotal
		var qty int64
		if err := rows.Scan(&t.Player, &t.Species, &t.Kind, &qty); err != nil {
			return nil, err
		}
		t.Qty = uint64(qty)
		out = append(out, t)
	}
	return out, rows.Err()
}
