package log

import (
	"database/sql"
	"errors"
	"fmt"
	stdlog "log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// logStore owns the SQLite handle. It doubles as the io.Writer zerolog
// serializes events into.
type logStore struct {
	db     *sql.DB
	insert *sql.Stmt
	mu     sync.Mutex // serializes the prepared insert
}

func openStore(dbPath string) (*logStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", dbPath, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db %s: %w", dbPath, err)
	}

	const createTableSQL = `
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`
	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create logs table: %w", err)
	}

	// Index the JSON time and level fields so ranged queries stay fast.
	if _, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_logs_json_time ON logs (json_extract(log_data, '$.time'));`); err != nil {
		stdlog.Printf("log: could not create JSON time index: %v\n", err)
	}
	if _, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_logs_json_level ON logs (json_extract(log_data, '$.level'));`); err != nil {
		stdlog.Printf("log: could not create JSON level index: %v\n", err)
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert statement: %w", err)
	}

	return &logStore{db: db, insert: stmt}, nil
}

func (s *logStore) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.insert.Exec(string(p)); err != nil {
		stdlog.Printf("log: error writing event to sqlite: %v\n", err)
		return 0, err
	}
	eventsSinceStart.Add(1)
	return len(p), nil
}

func (s *logStore) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	if s.insert != nil {
		if err := s.insert.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close statement: %w", err))
		}
		s.insert = nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
		s.db = nil
	}
	return errors.Join(errs...)
}

func (s *logStore) lastN(n int) ([]LogEntry, error) {
	rows, err := s.db.Query(`SELECT id, inserted_at, log_data FROM logs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query last %d logs: %w", n, err)
	}
	logs, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	// Newest-first from the query, flip to chronological.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

func (s *logStore) between(start, end time.Time, limit int) ([]LogEntry, error) {
	const query = `
        SELECT id, inserted_at, log_data
        FROM logs
        WHERE json_extract(log_data, '$.time') >= ? AND json_extract(log_data, '$.time') <= ?
        ORDER BY json_extract(log_data, '$.time') ASC, id ASC
        LIMIT ?`

	startStr := start.Format(timeFieldFormat)
	endStr := end.Format(timeFieldFormat)
	rows, err := s.db.Query(query, startStr, endStr, limit)
	if err != nil {
		return nil, fmt.Errorf("query logs between %s and %s: %w", startStr, endStr, err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]LogEntry, error) {
	defer rows.Close()
	var logs []LogEntry
	for rows.Next() {
		var entry LogEntry
		var insertedAt string
		if err := rows.Scan(&entry.ID, &insertedAt, &entry.LogData); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry.InsertedAt = parseDBTimestamp(insertedAt)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log rows: %w", err)
	}
	return logs, nil
}

// parseDBTimestamp tries the timestamp layouts SQLite is known to emit.
func parseDBTimestamp(ts string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05", // SQLite default without timezone
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t
		}
	}
	stdlog.Printf("log: could not parse inserted_at timestamp %q\n", ts)
	return time.Time{}
}
