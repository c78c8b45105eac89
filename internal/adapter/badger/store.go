// Package badger persists simulation records in an embedded BadgerDB.
//
// Records are keyed by creation time so a reverse prefix scan yields the
// newest first:
//
//	sim:<20-digit unix nanos>:<record id>  ->  JSON SimulationRecord
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

const recordPrefix = "sim:"

// Config holds configuration for the history store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests and HISTORY_IN_MEMORY.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. Nil disables it.
	Logger *slog.Logger
}

// Store is a SimulationRecord store backed by BadgerDB.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens the store at cfg.Path, creating the directory if needed, or in
// memory when cfg.InMemory is set. Caller must Close it.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent history store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create history directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Append stores rec. Records are immutable; appending the same id and
// timestamp twice overwrites with identical content.
func (s *Store) Append(ctx context.Context, rec domain.SimulationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode simulation record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec), value)
	})
	if err != nil {
		return fmt.Errorf("append simulation record %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.SimulationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := make([]domain.SimulationRecord, 0, min(max(limit, 0), 64))
	if limit <= 0 {
		return records, nil
	}

	prefix := []byte(recordPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seekKey := append([]byte(recordPrefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix) && len(records) < limit; it.Next() {
			var rec domain.SimulationRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				s.logger.Warn("skipping unreadable simulation record", "key", string(it.Item().Key()), "error", err)
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list simulation records: %w", err)
	}
	return records, nil
}

// RunGC periodically reclaims value-log space until ctx is cancelled.
// In-memory stores have no value log, so it returns immediately for them.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) {
	if s.db.Opts().InMemory || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("history value log gc failed", "error", err)
			}
		}
	}
}

// CheckReadiness reports whether the store is open.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("history store closed")
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func recordKey(rec domain.SimulationRecord) []byte {
	return fmt.Appendf(nil, "%s%020d:%s", recordPrefix, rec.CreatedAt.UnixNano(), rec.ID)
}
