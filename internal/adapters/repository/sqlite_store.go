package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// SQLiteStore is the durable Store, a single-file embedded database. Row
// order of the fetch queries follows rowid, which is insertion order, so
// the repository's "stored order" contract holds across restarts.
type SQLiteStore struct {
	db *sqlx.DB

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewSQLiteStore opens (or creates) the database at dsn and runs
// migrations. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db, subs: make(map[int]func())}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= schemaVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

func (s *SQLiteStore) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tracker_categories (
		id         TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trackers (
		id          TEXT PRIMARY KEY,
		label       TEXT NOT NULL,
		emoji       TEXT NOT NULL,
		color       TEXT NOT NULL,
		schedule    TEXT NOT NULL DEFAULT '[]',
		pinned      INTEGER NOT NULL DEFAULT 0,
		category_id TEXT NOT NULL REFERENCES tracker_categories(id),
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tracker_records (
		tracker_id TEXT NOT NULL REFERENCES trackers(id) ON DELETE CASCADE,
		day        TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (tracker_id, day)
	);`

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, category *domain.TrackerCategory) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracker_categories (id, label, created_at) VALUES (?, ?, ?)`,
		category.ID, category.Label, category.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	s.notify()
	return nil
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *domain.TrackerCategory) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tracker_categories SET label = ? WHERE id = ?`,
		category.Label, category.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	s.notify()
	return nil
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tracker_categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		s.notify()
	}
	return nil
}

func (s *SQLiteStore) CreateTracker(ctx context.Context, tracker *domain.Tracker) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM tracker_categories WHERE id = ?)`, tracker.CategoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return domain.ErrCategoryNotFound
	}

	schedule, err := json.Marshal(tracker.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trackers (id, label, emoji, color, schedule, pinned, category_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tracker.ID, tracker.Label, tracker.Emoji, string(tracker.Color),
		string(schedule), tracker.Pinned, tracker.CategoryID,
		tracker.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert tracker: %w", err)
	}

	s.notify()
	return nil
}

func (s *SQLiteStore) UpdateTracker(ctx context.Context, tracker *domain.Tracker) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM tracker_categories WHERE id = ?)`, tracker.CategoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return domain.ErrCategoryNotFound
	}

	schedule, err := json.Marshal(tracker.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE trackers
		 SET label = ?, emoji = ?, color = ?, schedule = ?, pinned = ?, category_id = ?
		 WHERE id = ?`,
		tracker.Label, tracker.Emoji, string(tracker.Color),
		string(schedule), tracker.Pinned, tracker.CategoryID, tracker.ID,
	)
	if err != nil {
		return fmt.Errorf("update tracker: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTrackerNotFound
	}

	s.notify()
	return nil
}

func (s *SQLiteStore) DeleteTracker(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trackers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tracker: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		s.notify()
	}
	return nil
}

func (s *SQLiteStore) CreateRecord(ctx context.Context, record *domain.TrackerRecord) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tracker_records (tracker_id, day, created_at) VALUES (?, ?, ?)`,
		record.TrackerID, record.Day, record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		s.notify()
	}
	return nil
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, trackerID, day string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tracker_records WHERE tracker_id = ? AND day = ?`, trackerID, day)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		s.notify()
	}
	return nil
}

func (s *SQLiteStore) FetchAll(ctx context.Context) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, created_at FROM tracker_categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category domain.TrackerCategory
		var createdAt string
		if err := rows.Scan(&category.ID, &category.Label, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		category.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse category created_at: %w", err)
		}
		snapshot.Categories = append(snapshot.Categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trackerRows, err := s.db.QueryContext(ctx,
		`SELECT id, label, emoji, color, schedule, pinned, category_id, created_at
		 FROM trackers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query trackers: %w", err)
	}
	defer trackerRows.Close()

	for trackerRows.Next() {
		tracker, err := scanTracker(trackerRows)
		if err != nil {
			return nil, err
		}
		snapshot.Trackers = append(snapshot.Trackers, tracker)
	}
	if err := trackerRows.Err(); err != nil {
		return nil, err
	}

	recordRows, err := s.db.QueryContext(ctx,
		`SELECT tracker_id, day, created_at FROM tracker_records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer recordRows.Close()

	for recordRows.Next() {
		var record domain.TrackerRecord
		var createdAt string
		if err := recordRows.Scan(&record.TrackerID, &record.Day, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse record created_at: %w", err)
		}
		snapshot.Records = append(snapshot.Records, &record)
	}
	if err := recordRows.Err(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *SQLiteStore) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *SQLiteStore) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func scanTracker(rows *sql.Rows) (*domain.Tracker, error) {
	var tracker domain.Tracker
	var schedule, createdAt string

	err := rows.Scan(
		&tracker.ID, &tracker.Label, &tracker.Emoji, &tracker.Color,
		&schedule, &tracker.Pinned, &tracker.CategoryID, &createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan tracker: %w", err)
	}

	if err := json.Unmarshal([]byte(schedule), &tracker.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}

	tracker.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse tracker created_at: %w", err)
	}

	return &tracker, nil
}

var (
	_ domain.Store = (*SQLiteStore)(nil)
	_ domain.Store = (*MemoryStore)(nil)
)
