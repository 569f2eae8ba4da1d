package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// defaultHistoryLimit caps the rolling history; the oldest entry is evicted
// once the cap is exceeded.
const defaultHistoryLimit = 5

var errHistoryNotFound = errors.New("history entry not found")

// appDataPaths stores resolved locations under the app's home directory.
type appDataPaths struct {
	baseDir    string
	historyDB  string
	envFile    string
	promptDir  string
	exportsDir string
}

func resolveDataPaths() (appDataPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return appDataPaths{}, fmt.Errorf("resolve home dir: %w", err)
	}
	base := filepath.Join(home, ".overthink")
	return appDataPaths{
		baseDir:    base,
		historyDB:  filepath.Join(base, "history.db"),
		envFile:    filepath.Join(base, ".env"),
		promptDir:  filepath.Join(base, "prompts"),
		exportsDir: filepath.Join(base, "exports"),
	}, nil
}

// historyEntry is one persisted generation. id doubles as the creation
// timestamp in Unix milliseconds.
type historyEntry struct {
	id        int64
	createdAt time.Time
	decision  string
	res       result
}

// historyStore keeps the bounded most-recent-first generation history in a
// local SQLite database.
type historyStore struct {
	db    *sql.DB
	limit int
}

func openHistoryStore(path string, limit int) (*historyStore, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %q: %w", path, err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			decision TEXT NOT NULL,
			result_json TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}
	return &historyStore{db: db, limit: limit}, nil
}

func (s *historyStore) close() error {
	return s.db.Close()
}

// append stores a result and evicts the oldest entries beyond the cap.
// Same-millisecond appends bump the id past the newest existing entry so
// ids stay unique and recency-ordered.
func (s *historyStore) append(res result) (historyEntry, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return historyEntry{}, fmt.Errorf("marshal result: %w", err)
	}

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return historyEntry{}, fmt.Errorf("begin transaction: %w", err)
	}
	rollback := true
	defer func() {
		if rollback {
			_ = tx.Rollback()
		}
	}()

	now := time.Now()
	id := now.UnixMilli()
	var maxID sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(id) FROM history`).Scan(&maxID); err != nil {
		return historyEntry{}, fmt.Errorf("query newest history id: %w", err)
	}
	if maxID.Valid && id <= maxID.Int64 {
		id = maxID.Int64 + 1
	}

	createdAt := now.UTC().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, created_at, decision, result_json)
		VALUES (?, ?, ?, ?)
	`, id, createdAt, res.Decision, string(payload))
	if err != nil {
		return historyEntry{}, fmt.Errorf("insert history entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM history
		WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)
	`, s.limit)
	if err != nil {
		return historyEntry{}, fmt.Errorf("evict old history entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return historyEntry{}, fmt.Errorf("commit: %w", err)
	}
	rollback = false

	return historyEntry{id: id, createdAt: now, decision: res.Decision, res: res}, nil
}

// list returns entries most recent first.
func (s *historyStore) list() ([]historyEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, decision, result_json
		FROM history
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]historyEntry, 0, s.limit)
	for rows.Next() {
		entry, err := scanHistoryRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

func (s *historyStore) get(id int64) (historyEntry, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, decision, result_json
		FROM history
		WHERE id = ?
	`, id)
	entry, err := scanHistoryRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return historyEntry{}, fmt.Errorf("%w: %d", errHistoryNotFound, id)
	}
	if err != nil {
		return historyEntry{}, err
	}
	return entry, nil
}

func (s *historyStore) clear() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func scanHistoryRow(scan func(...any) error) (historyEntry, error) {
	var entry historyEntry
	var createdAt, payload string
	if err := scan(&entry.id, &createdAt, &entry.decision, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return historyEntry{}, err
		}
		return historyEntry{}, fmt.Errorf("scan history row: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.createdAt = parsed
	}
	if err := json.Unmarshal([]byte(payload), &entry.res); err != nil {
		return historyEntry{}, fmt.Errorf("decode history entry %d: %w", entry.id, err)
	}
	return entry, nil
}

// runHistoryCommand executes the standalone history CLI path.
func runHistoryCommand(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	list := fs.Bool("list", false, "list recent entries (default action)")
	show := fs.Int64("show", 0, "print the stored result for an entry ID")
	clear := fs.Bool("clear", false, "delete all history entries")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, historyUsageText())
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("unexpected argument %q\n%s", fs.Arg(0), historyUsageText())
	}
	actions := 0
	for _, set := range []bool{*list, *show != 0, *clear} {
		if set {
			actions++
		}
	}
	if actions > 1 {
		return fmt.Errorf("only one action can be used at a time\n%s", historyUsageText())
	}

	paths, err := resolveDataPaths()
	if err != nil {
		return err
	}
	store, err := openHistoryStore(paths.historyDB, defaultHistoryLimit)
	if err != nil {
		return err
	}
	defer store.close()

	switch {
	case *show != 0:
		entry, err := store.get(*show)
		if err != nil {
			return err
		}
		fmt.Print(renderResultText(entry.res))
		return nil
	case *clear:
		if err := store.clear(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	default:
		entries, err := store.list()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("%d  %s  [%s/%s]  %s\n",
				entry.id,
				entry.createdAt.Local().Format("2006-01-02 15:04:05"),
				entry.res.Meta.SourceKind,
				entry.res.Meta.HumorLevel,
				truncateString(oneLine(entry.decision), 60))
		}
		return nil
	}
}

func historyUsageText() string {
	return strings.TrimSpace(`
Usage:
  overthink history [--list]
  overthink history --show <id>
  overthink history --clear
`)
}
