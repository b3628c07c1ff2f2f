// Package store owns the canonical in-memory expense list and mirrors it to a
// key-value backend after every mutation.
//
// Reads are subscribe-style: a listener registered with Subscribe receives the
// current list immediately and then every subsequent list, synchronously and
// in mutation order. Listeners may read the store but must not mutate it.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"expenses/internal/core"
	"expenses/internal/storage"
)

// DefaultKey is the key the list is persisted under.
const DefaultKey = "expenses"

// Snapshot is one emission of the store: the full list and a revision that
// increases by one with every mutation.
type Snapshot struct {
	Revision uint64
	Expenses []core.Expense
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Revision: s.Revision, Expenses: slices.Clone(s.Expenses)}
}

// Listener receives every emission. The slice is the listener's own copy.
type Listener func(Snapshot)

type subscription struct {
	id int
	fn Listener
}

type Option func(*Store)

// WithKey overrides the persistence key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

type Store struct {
	mu     sync.Mutex
	emitMu sync.Mutex

	kv     storage.KeyValue
	key    string
	newID  func() string
	logger *slog.Logger

	expenses  []core.Expense
	revision  uint64
	listeners []subscription
	nextSubID int
}

// New builds a store backed by kv and loads whatever is persisted under the
// store key. Missing or malformed data yields an empty list. A nil kv keeps
// the list in memory only.
func New(ctx context.Context, kv storage.KeyValue, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")
	s.expenses = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []core.Expense {
	if s.kv == nil {
		return nil
	}
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read persisted expenses, starting empty", "key", s.key, "error", err)
		return nil
	}
	expenses, err := Decode(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Persisted expenses are malformed, starting empty", "key", s.key, "error", err)
		return nil
	}
	s.logger.InfoContext(ctx, "Loaded persisted expenses", "key", s.key, "count", len(expenses))
	return expenses
}

// Subscribe registers fn and immediately delivers the current list to it.
// The returned function unregisters fn; calling it more than once is safe.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	snap := s.snapshotLocked()
	s.emitMu.Lock()
	s.mu.Unlock()
	fn(snap)
	s.emitMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
		})
	}
}

// Snapshot returns the current list and revision.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Expenses returns a copy of the current list.
func (s *Store) Expenses() []core.Expense {
	return s.Snapshot().Expenses
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expenses)
}

// Get looks up one expense by id.
func (s *Store) Get(id string) (core.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return core.Expense{}, false
	}
	return s.expenses[i], true
}

// Add validates d, assigns a fresh id, appends, persists and emits.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Expense, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Expense{}, err
	}

	var created core.Expense
	s.mutate(ctx, "add", func(current []core.Expense) []core.Expense {
		created = d.WithID(s.uniqueIDLocked())
		return append(current, created)
	})
	return created, nil
}

// Update replaces the expense with e.ID. An unknown id leaves the list
// unchanged; it is still persisted and emitted.
func (s *Store) Update(ctx context.Context, e core.Expense) error {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return err
	}

	s.mutate(ctx, "update", func(current []core.Expense) []core.Expense {
		next := slices.Clone(current)
		for i := range next {
			if next[i].ID == e.ID {
				next[i] = e
			}
		}
		return next
	})
	return nil
}

// Delete removes the expense with id. Absent ids are a silent no-op.
func (s *Store) Delete(ctx context.Context, id string) {
	s.DeleteMany(ctx, id)
}

// DeleteMany removes every listed id in one mutation and reports how many
// expenses were removed.
func (s *Store) DeleteMany(ctx context.Context, ids ...string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	removed := 0
	s.mutate(ctx, "delete", func(current []core.Expense) []core.Expense {
		next := make([]core.Expense, 0, len(current))
		for _, e := range current {
			if _, ok := drop[e.ID]; ok {
				removed++
				continue
			}
			next = append(next, e)
		}
		return next
	})
	return removed
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, "clear", func([]core.Expense) []core.Expense { return nil })
}

// SeedIfEmpty adds drafts when the store holds no expenses. Invalid drafts
// are skipped. It reports whether seeding happened.
func (s *Store) SeedIfEmpty(ctx context.Context, drafts []core.Draft) bool {
	valid := make([]core.Draft, 0, len(drafts))
	for _, d := range drafts {
		d = d.Normalize()
		if err := d.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Skipping invalid seed expense", "description", d.Description, "error", err)
			continue
		}
		valid = append(valid, d)
	}

	s.mu.Lock()
	empty := len(s.expenses) == 0
	s.mu.Unlock()
	if !empty || len(valid) == 0 {
		return false
	}

	seeded := false
	s.mutate(ctx, "seed", func(current []core.Expense) []core.Expense {
		if len(current) > 0 {
			return current
		}
		seeded = true
		next := make([]core.Expense, 0, len(valid))
		for _, d := range valid {
			next = append(next, d.WithID(s.uniqueIDIn(next)))
		}
		return next
	})
	if seeded {
		s.logger.InfoContext(ctx, "Seeded sample expenses", "count", len(valid))
	}
	return seeded
}

// mutate applies fn under the store lock, persists, and emits the result to
// every listener. Emissions are serialized in mutation order: the emit lock
// is taken before the state lock is released.
func (s *Store) mutate(ctx context.Context, op string, fn func([]core.Expense) []core.Expense) {
	s.mu.Lock()
	s.expenses = fn(s.expenses)
	s.revision++
	s.persistLocked(ctx, op)
	snap := s.snapshotLocked()
	subs := slices.Clone(s.listeners)
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	for _, sub := range subs {
		sub.fn(snap.clone())
	}
}

func (s *Store) persistLocked(ctx context.Context, op string) {
	if s.kv == nil {
		return
	}
	data, err := Encode(s.expenses)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode expenses", "operation", op, "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist expenses", "operation", op, "key", s.key, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "Persisted expenses", "operation", op, "count", len(s.expenses), "revision", s.revision)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Revision: s.revision, Expenses: slices.Clone(s.expenses)}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.expenses, func(e core.Expense) bool { return e.ID == id })
}

func (s *Store) uniqueIDLocked() string {
	return s.uniqueIDIn(s.expenses)
}

func (s *Store) uniqueIDIn(list []core.Expense) string {
	for {
		id := s.newID()
		if !slices.ContainsFunc(list, func(e core.Expense) bool { return e.ID == id }) {
			return id
		}
	}
}
