// Package session owns the panel's mutable state: the cached file tree,
// folder expansion, and the bounded error log. It replaces what used to be
// process-wide globals with one object handlers share.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrkuros/scenebucket/internal/filetree"
)

// DefaultErrorLimit is how many error messages the log retains; older
// entries are dropped.
const DefaultErrorLimit = 5

// ErrorLog is a bounded in-memory error list. Messages are surfaced to the
// user once and cleared on read.
type ErrorLog struct {
	mu      sync.Mutex
	limit   int
	entries []string
}

// NewErrorLog returns a log retaining the last limit entries.
func NewErrorLog(limit int) *ErrorLog {
	if limit <= 0 {
		limit = DefaultErrorLimit
	}
	return &ErrorLog{limit: limit}
}

// Append records a message, evicting the oldest entry when full.
func (l *ErrorLog) Append(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, msg)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Drain returns all retained messages and clears the log.
func (l *ErrorLog) Drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.entries
	l.entries = nil
	return out
}

// Len reports the number of retained messages.
func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Lister is the part of the storage backend a refresh needs.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// Snapshot is a point-in-time view of the cached listing for rendering.
type Snapshot struct {
	Tree       *filetree.Node
	Keys       []string
	Refreshing bool
}

// Session holds the panel state. All fields are guarded by mu; the tree is
// never mutated after install, so snapshots can share it.
type Session struct {
	log    zerolog.Logger
	errors *ErrorLog

	mu        sync.Mutex
	tree      *filetree.Node
	keys      []string
	expanded  filetree.ExpandedSet
	inflight  int
	started   uint64
	installed uint64
}

// New returns an empty session.
func New(log zerolog.Logger) *Session {
	return &Session{
		log:      log,
		errors:   NewErrorLog(DefaultErrorLimit),
		tree:     filetree.Build(nil),
		expanded: filetree.NewExpandedSet(),
	}
}

// StartRefresh lists the bucket on its own goroutine and installs the
// resulting tree. The returned channel closes when the refresh finishes.
// Overlapping refreshes are allowed: each one gets a generation number and
// a stale completion never overwrites a newer install, so the last writer
// wins and partial trees are never observable.
func (s *Session) StartRefresh(ctx context.Context, lister Lister) <-chan struct{} {
	s.mu.Lock()
	s.started++
	gen := s.started
	s.inflight++
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		keys, err := lister.List(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("refresh failed")
			keys = nil
		}
		tree := filetree.Build(keys)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.inflight--
		if err != nil {
			s.errors.Append(fmt.Sprintf("refresh failed: %v", err))
		}
		if gen > s.installed {
			s.installed = gen
			s.keys = keys
			s.tree = tree
		}
	}()
	return done
}

// Snapshot returns the cached tree, the flat key list, and whether a
// refresh is in flight.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return Snapshot{Tree: s.tree, Keys: keys, Refreshing: s.inflight > 0}
}

// Toggle flips the expansion state of a folder path and returns the new
// state. Toggling twice restores the original state.
func (s *Session) Toggle(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded.Toggle(path)
}

// IsExpanded reports whether the folder path is open.
func (s *Session) IsExpanded(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded.IsExpanded(path)
}

// RecordError logs and retains a user-visible failure message.
func (s *Session) RecordError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.log.Error().Msg(msg)
	s.errors.Append(msg)
}

// Errors drains the retained error messages; they are shown once.
func (s *Session) Errors() []string {
	return s.errors.Drain()
}
