package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/normverify/internal/verify"
)

// RunInfo describes how a batch was verified.
type RunInfo struct {
	Tool           string
	FixturesRoot   string
	OutRoot        string
	CompareGoldens bool
}

// Batch is a recorded verifier invocation.
type Batch struct {
	ID             string `json:"id"`
	Seq            int64  `json:"seq"`
	Tool           string `json:"tool"`
	FixturesRoot   string `json:"fixtures_root"`
	OutRoot        string `json:"out_root"`
	CompareGoldens bool   `json:"compare_goldens"`
	Passed         int    `json:"passed"`
	Failed         int    `json:"failed"`
	Skipped        int    `json:"skipped"`
	Errored        int    `json:"errored"`
}

// Entry is the recorded result of one case within a batch.
type Entry struct {
	BatchID  string `json:"batch_id"`
	BatchSeq int64  `json:"batch_seq"`
	Seq      int    `json:"seq"`
	Case     string `json:"case"`
	Status   string `json:"status"`
	Kind     string `json:"kind,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// StatusError marks a case that could not be verified at all.
const StatusError = "error"

// RecordBatch stores a batch summary and its entries in one transaction.
func (s *Store) RecordBatch(ctx context.Context, info RunInfo, summary *verify.Summary) (Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("record batch: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM batches`).Scan(&seq); err != nil {
		return Batch{}, fmt.Errorf("record batch: next seq: %w", err)
	}

	b := Batch{
		ID:             s.idGen.Generate(),
		Seq:            seq,
		Tool:           info.Tool,
		FixturesRoot:   info.FixturesRoot,
		OutRoot:        info.OutRoot,
		CompareGoldens: info.CompareGoldens,
		Passed:         summary.Passed,
		Failed:         summary.Failed,
		Skipped:        summary.Skipped,
		Errored:        summary.Errored,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches
		(id, seq, tool, fixtures_root, out_root, compare_goldens, passed, failed, skipped, errored)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.Seq, b.Tool, b.FixturesRoot, b.OutRoot, boolToInt(b.CompareGoldens),
		b.Passed, b.Failed, b.Skipped, b.Errored,
	)
	if err != nil {
		return Batch{}, fmt.Errorf("record batch: %w", err)
	}

	for i, r := range summary.Results {
		status, kind, reason := entryFields(r)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (batch_id, seq, case_name, status, kind, reason)
			VALUES (?, ?, ?, ?, ?, ?)
		`, b.ID, i+1, r.Case, status, kind, reason)
		if err != nil {
			return Batch{}, fmt.Errorf("record entry %s: %w", r.Case, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("record batch: commit: %w", err)
	}
	return b, nil
}

func entryFields(r verify.CaseResult) (status, kind, reason string) {
	if r.Err != "" {
		return StatusError, "", r.Err
	}
	if r.Violation != nil {
		kind = string(r.Violation.Kind)
	}
	return string(r.Status), kind, r.Reason
}

// Batches returns the most recent batches, newest first.
// A limit <= 0 returns all batches.
func (s *Store) Batches(ctx context.Context, limit int) ([]Batch, error) {
	query := `
		SELECT id, seq, tool, fixtures_root, out_root, compare_goldens, passed, failed, skipped, errored
		FROM batches
		ORDER BY seq DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		var b Batch
		var goldens int
		if err := rows.Scan(&b.ID, &b.Seq, &b.Tool, &b.FixturesRoot, &b.OutRoot, &goldens,
			&b.Passed, &b.Failed, &b.Skipped, &b.Errored); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.CompareGoldens = goldens != 0
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}

// HistoryFilter narrows History.
type HistoryFilter struct {
	// Case restricts entries to one case name.
	Case string

	// Status restricts entries to one status ("pass", "fail", "skip", "error").
	Status string

	// Limit caps the number of entries; <= 0 means no limit.
	Limit int
}

// History returns entries newest batch first, in case order within a batch.
func (s *Store) History(ctx context.Context, f HistoryFilter) ([]Entry, error) {
	var where []string
	var args []any
	if f.Case != "" {
		where = append(where, "e.case_name = ?")
		args = append(args, f.Case)
	}
	if f.Status != "" {
		where = append(where, "e.status = ?")
		args = append(args, f.Status)
	}

	query := `
		SELECT e.batch_id, b.seq, e.seq, e.case_name, e.status, e.kind, e.reason
		FROM entries e
		JOIN batches b ON e.batch_id = b.id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY b.seq DESC, e.seq ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.BatchID, &e.BatchSeq, &e.Seq, &e.Case, &e.Status, &e.Kind, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
