// Package store is the persistent record of tracked actions. The whole
// set of records is loaded into memory when the store is opened, mutated
// in place, and written back at most once when the store is closed.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownAction is returned by Remove and Log for a name that is not
// tracked. It is the only recoverable store error.
var ErrUnknownAction = errors.New("unknown heartbeat")

// Action is one tracked activity and the messages shown when it goes stale.
type Action struct {
	Name      string
	LastBeat  *time.Time    // nil means the action has never been performed
	Leniency  time.Duration // 0 means the action is never considered stale
	LastLine  string        // template with one %s for the formatted elapsed time
	NeverLine string        // shown verbatim while LastBeat is nil
}

// Store holds every tracked action for the duration of one command
// invocation. Mutations mark it dirty; Close persists dirty state.
// A Store is not safe for concurrent use.
type Store struct {
	db      *sql.DB
	path    string
	actions map[string]Action
	dirty   bool
}

// Open opens (or creates) the store at path and loads all tracked
// actions. An absent or empty database file yields an empty store; a
// present file that cannot be decoded is an error.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return load(db, path)
}

// OpenMemory opens an in-memory store for testing.
func OpenMemory() (*Store, error) {
	db, err := openDB(":memory:")
	if err != nil {
		return nil, err
	}
	return load(db, ":memory:")
}

func load(db *sql.DB, path string) (*Store, error) {
	rows, err := db.Query(`
		SELECT name, last_beat, leniency, last_line, never_line
		FROM actions ORDER BY name
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load actions: %w", err)
	}
	defer rows.Close()

	actions := make(map[string]Action)
	for rows.Next() {
		var a Action
		var beat sql.NullInt64
		var leniency int64
		if err := rows.Scan(&a.Name, &beat, &leniency, &a.LastLine, &a.NeverLine); err != nil {
			db.Close()
			return nil, fmt.Errorf("scan action: %w", err)
		}
		if beat.Valid {
			t := time.UnixMilli(beat.Int64)
			a.LastBeat = &t
		}
		a.Leniency = time.Duration(leniency) * time.Second
		actions[a.Name] = a
	}
	if err := rows.Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load actions: %w", err)
	}

	return &Store{db: db, path: path, actions: actions}, nil
}

// Add inserts a tracked action, replacing any existing record with the
// same name. The record starts with no recorded beat regardless of what
// the caller set. The change is persisted when the store is closed.
func (s *Store) Add(a Action) {
	a.LastBeat = nil
	s.actions[a.Name] = a
	s.dirty = true
}

// Remove deletes a tracked action and saves the store immediately.
// Returns ErrUnknownAction, leaving the store untouched, if the name is
// not tracked.
func (s *Store) Remove(name string) error {
	if _, ok := s.actions[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	delete(s.actions, name)
	return s.Save()
}

// Log records that the action was performed at now. Returns
// ErrUnknownAction, mutating nothing, if the name is not tracked.
func (s *Store) Log(name string, now time.Time) error {
	a, ok := s.actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	a.LastBeat = &now
	s.actions[name] = a
	s.dirty = true
	return nil
}

// Get returns the tracked action with the given name, if any.
func (s *Store) Get(name string) (Action, bool) {
	a, ok := s.actions[name]
	return a, ok
}

// All returns every tracked action sorted by name. The status report
// uses this order.
func (s *Store) All() []Action {
	all := make([]Action, 0, len(s.actions))
	for _, a := range s.actions {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Names returns every tracked action name, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dirty reports whether the store has unsaved mutations.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Save writes the full set of actions in one transaction, replacing
// whatever the database held, and clears the dirty flag.
func (s *Store) Save() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save to %s: %w", s.path, err)
	}
	if _, err := tx.Exec(`DELETE FROM actions`); err != nil {
		tx.Rollback()
		return fmt.Errorf("save to %s: %w", s.path, err)
	}
	for _, a := range s.actions {
		var beat sql.NullInt64
		if a.LastBeat != nil {
			beat = sql.NullInt64{Int64: a.LastBeat.UnixMilli(), Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO actions (name, last_beat, leniency, last_line, never_line)
			VALUES (?, ?, ?, ?, ?)
		`, a.Name, beat, int64(a.Leniency/time.Second), a.LastLine, a.NeverLine); err != nil {
			tx.Rollback()
			return fmt.Errorf("save %q to %s: %w", a.Name, s.path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save to %s: %w", s.path, err)
	}
	s.dirty = false
	return nil
}

// Close saves the store if it has unsaved mutations, then closes the
// database. Callers defer this so the conditional save runs on every
// exit path.
func (s *Store) Close() error {
	if s.dirty {
		if err := s.Save(); err != nil {
			s.db.Close()
			return err
		}
	}
	return s.db.Close()
}
