// Package log is the shared logger for the randkit daemon and tools. Events
// are written as zerolog JSON rows into an SQLite database so they can be
// queried later through the management interface or the logs command.
package log

import (
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"randkit-go/pkg/appdir"
)

const (
	// DefaultLimit caps time-ranged queries when the caller passes no limit.
	DefaultLimit = 100

	timeFieldFormat = time.RFC3339Nano
)

var (
	eventsSinceStart atomic.Int64
	pkgLogger        = zerolog.Nop() // until Init or SetStd
	store            *logStore
	mu               sync.RWMutex // guards store and pkgLogger across Init/Close

	// ErrNotInitialized is returned by the retrieval functions before Init.
	ErrNotInitialized = errors.New("log: logger not initialized, call log.Init() first")
)

// SetStd switches the package logger to a plain console writer. Used by the
// CLI tools, which have no database to write to.
func SetStd() {
	pkgLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Init opens the SQLite log database and routes all package logging into it.
// A relative dbFile is placed under the randkit app directory; an absolute
// path is used as given.
func Init(dbFile string) error {
	if dbFile == "" {
		return fmt.Errorf("log: database file required")
	}
	dbPath := dbFile
	if !filepath.IsAbs(dbPath) {
		dbPath = appdir.Path(dbPath)
	}

	mu.Lock()
	defer mu.Unlock()

	if store != nil {
		return fmt.Errorf("log: logger already initialized")
	}

	s, err := openStore(dbPath)
	if err != nil {
		return fmt.Errorf("log: open store: %w", err)
	}
	store = s

	zerolog.TimeFieldFormat = timeFieldFormat
	pkgLogger = zerolog.New(store).With().Timestamp().Logger()

	stdlog.Printf("log: sqlite logger writing to %s\n", dbPath)
	return nil
}

// Close flushes a final event and closes the database. Safe to call when
// never initialized.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if store == nil {
		return nil
	}
	s := store
	store = nil
	pkgLogger = zerolog.Nop()

	zerolog.New(s).With().Timestamp().Logger().Log().Msg("closing sqlite logger")

	if err := s.close(); err != nil {
		stdlog.Printf("log: error closing sqlite logger: %v\n", err)
		return fmt.Errorf("log: close store: %w", err)
	}
	return nil
}

func Debug() *zerolog.Event { return pkgLogger.Debug() }
func Info() *zerolog.Event  { return pkgLogger.Info() }
func Warn() *zerolog.Event  { return pkgLogger.Warn() }
func Error() *zerolog.Event { return pkgLogger.Error() }
func Fatal() *zerolog.Event { return pkgLogger.Fatal() }
func Panic() *zerolog.Event { return pkgLogger.Panic() }
func Log() *zerolog.Event   { return pkgLogger.Log() }

// Print logs at info level. Arguments are handled in the manner of fmt.Print.
func Print(v ...interface{}) {
	pkgLogger.Info().CallerSkipFrame(1).Msg(fmt.Sprint(v...))
}

// Printf logs at info level. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...interface{}) {
	pkgLogger.Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Fatalf(format string, v ...any) {
	pkgLogger.Fatal().Msgf(format, v...)
}

// LogEntry is one stored log row.
type LogEntry struct {
	ID         int64
	InsertedAt time.Time
	LogData    string // the raw JSON event
}

func getStore() (*logStore, error) {
	mu.RLock()
	defer mu.RUnlock()
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store, nil
}

// GetLogsSinceStart returns every event written since this process called
// Init, using the write counter to bound the query.
func GetLogsSinceStart() ([]LogEntry, error) {
	n := eventsSinceStart.Load()
	return GetLastNLogs(int(n))
}

// GetLastNLogs returns the most recent n entries in chronological order.
func GetLastNLogs(n int) ([]LogEntry, error) {
	s, err := getStore()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []LogEntry{}, nil
	}
	return s.lastN(n)
}

// GetLogsBetween returns entries whose event time (the JSON time field)
// falls within [start, end], in chronological order. A limit <= 0 means
// DefaultLimit.
func GetLogsBetween(start, end time.Time, limit int) ([]LogEntry, error) {
	s, err := getStore()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.between(start, end, limit)
}

// GetLogsSince returns entries from start up to now. A limit <= 0 means
// DefaultLimit.
func GetLogsSince(start time.Time, limit int) ([]LogEntry, error) {
	return GetLogsBetween(start, time.Now(), limit)
}
