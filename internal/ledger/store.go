package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/beegrid/corridor-governor/internal/hive"
	"github.com/beegrid/corridor-governor/internal/kernel"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS hives (
	hive_id       TEXT PRIMARY KEY,
	envelope_json TEXT NOT NULL,
	band          TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_events (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id        TEXT NOT NULL UNIQUE,
	hive_id         TEXT NOT NULL,
	adjustment_json TEXT NOT NULL,
	pre_json        TEXT NOT NULL,
	post_json       TEXT NOT NULL,
	accepted_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decision_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	node_id       TEXT NOT NULL,
	decision_json TEXT NOT NULL,
	inputs_json   TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store
// Store persists governed envelopes, the ledger's audit trail, and
// controller decisions in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region envelopes
// SaveEnvelope upserts the current envelope for a hive.
func (s *Store) SaveEnvelope(env hive.Envelope) error {
	blob, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO hives (hive_id, envelope_json, band, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(hive_id) DO UPDATE SET
		   envelope_json = excluded.envelope_json,
		   band = excluded.band,
		   updated_at = excluded.updated_at`,
		env.HiveID, string(blob), string(env.Band), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save envelope %s: %w", env.HiveID, err)
	}
	return nil
}

// GetEnvelope reads the stored envelope for a hive.
func (s *Store) GetEnvelope(hiveID string) (hive.Envelope, error) {
	var blob string
	err := s.db.QueryRow(
		`SELECT envelope_json FROM hives WHERE hive_id = ?`, hiveID,
	).Scan(&blob)
	if err != nil {
		return hive.Envelope{}, fmt.Errorf("get envelope %s: %w", hiveID, err)
	}
	var env hive.Envelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return hive.Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

// ListEnvelopes returns all stored envelopes.
func (s *Store) ListEnvelopes() ([]hive.Envelope, error) {
	rows, err := s.db.Query(`SELECT envelope_json FROM hives ORDER BY hive_id`)
	if err != nil {
		return nil, fmt.Errorf("list envelopes: %w", err)
	}
	defer rows.Close()

	var out []hive.Envelope
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var env hive.Envelope
		if err := json.Unmarshal([]byte(blob), &env); err != nil {
			return nil, fmt.Errorf("unmarshal envelope: %w", err)
		}
		out = append(out, env)
	}
	return out, rows.Err()
}

// #endregion envelopes

// #region events
// AppendEvent writes one accepted adjustment event to the audit trail.
func (s *Store) AppendEvent(ev Event) error {
	adjBlob, err := json.Marshal(ev.Adjustment)
	if err != nil {
		return fmt.Errorf("marshal adjustment: %w", err)
	}
	preBlob, err := json.Marshal(ev.Pre)
	if err != nil {
		return fmt.Errorf("marshal pre envelope: %w", err)
	}
	postBlob, err := json.Marshal(ev.Post)
	if err != nil {
		return fmt.Errorf("marshal post envelope: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO ledger_events (event_id, hive_id, adjustment_json, pre_json, post_json, accepted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.EventID, ev.Adjustment.HiveID, string(adjBlob), string(preBlob), string(postBlob),
		ev.AcceptedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events for a hive, newest first.
// An empty hiveID lists events across all hives.
func (s *Store) ListEvents(hiveID string, limit int) ([]Event, error) {
	query := `SELECT event_id, adjustment_json, pre_json, post_json, accepted_at
	          FROM ledger_events`
	args := []interface{}{}
	if hiveID != "" {
		query += ` WHERE hive_id = ?`
		args = append(args, hiveID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var adjBlob, preBlob, postBlob, acceptedStr string
		if err := rows.Scan(&ev.EventID, &adjBlob, &preBlob, &postBlob, &acceptedStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(adjBlob), &ev.Adjustment); err != nil {
			return nil, fmt.Errorf("unmarshal adjustment: %w", err)
		}
		if err := json.Unmarshal([]byte(preBlob), &ev.Pre); err != nil {
			return nil, fmt.Errorf("unmarshal pre envelope: %w", err)
		}
		if err := json.Unmarshal([]byte(postBlob), &ev.Post); err != nil {
			return nil, fmt.Errorf("unmarshal post envelope: %w", err)
		}
		ev.AcceptedAt, _ = time.Parse(time.RFC3339Nano, acceptedStr)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// #endregion events

// #region decision-log
// LogDecision records one controller decision with its node inputs for
// later inspection and replay.
func (s *Store) LogDecision(decision kernel.Decision, node kernel.NodeState) error {
	decBlob, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	nodeBlob, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("marshal node state: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO decision_log (node_id, decision_json, inputs_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		decision.NodeID, string(decBlob), string(nodeBlob),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// ListDecisions returns the most recent controller decisions, newest first.
func (s *Store) ListDecisions(limit int) ([]kernel.Decision, error) {
	rows, err := s.db.Query(
		`SELECT decision_json FROM decision_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []kernel.Decision
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var d kernel.Decision
		if err := json.Unmarshal([]byte(blob), &d); err != nil {
			return nil, fmt.Errorf("unmarshal decision: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// #endregion decision-log
