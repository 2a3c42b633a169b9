// Package store implements the Knowledge Store (C5): a context-tree of
// fact/rule partitions with symbol/arity and argument-position indices
// and a lazy query interface. A context's partition is an indexed
// memdb.MemDB snapshot of its parent plus a content-hash radix tree
// used for O(1) exact-term lookups, so forking a context never copies
// the parent's data and a child's retractions never touch it.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	iradix "github.com/hashicorp/go-immutable-radix/v2"
	"github.com/hashicorp/go-memdb"

	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/kernel/ast"
)

// RootContextName is the identifier of the store's always-present,
// un-forked root context, created with kind Truths.
const RootContextName = "TRUTHS"

// Store owns the context tree. A Store is not safe for concurrent
// mutation from multiple goroutines without external synchronization
// beyond the single-writer discipline already enforced by the owning
// KR instance; mu here only protects the context index itself, not the
// per-partition memdb (which has its own transaction locking).
type Store struct {
	mu       sync.RWMutex
	contexts map[string]*Context
	rootID   string
}

// New creates a Store with a single root context named RootContextName
// of kind Truths.
func New() *Store {
	s := &Store{contexts: make(map[string]*Context)}
	root := &Context{
		ID:        uuid.NewString(),
		Name:      RootContextName,
		Kind:      Truths,
		partition: newPartition(),
	}
	s.contexts[root.ID] = root
	s.rootID = root.ID
	return s
}

// RootID returns the opaque identifier of the root TRUTHS context.
func (s *Store) RootID() string {
	return s.rootID
}

// HasContext reports whether id names a live context, for callers
// (notably the Inference Coordinator) that need to validate a goal's
// candidate contexts as a precondition before any store mutation.
func (s *Store) HasContext(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.contexts[id]
	return ok
}

func (s *Store) lookup(id string) (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contexts[id]
	if !ok {
		return nil, kerrors.New(kerrors.KR001, fmt.Sprintf("unknown context %q", id), nil)
	}
	return c, nil
}

func (s *Store) lookupAll(ids []string) ([]*Context, error) {
	out := make([]*Context, 0, len(ids))
	for _, id := range ids {
		c, err := s.lookup(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// partition is the storage behind a single context: indexed facts and
// rules in memdb, plus a parallel content-hash index for O(1) exact
// lookups that query's symbol/arity indices don't serve directly
// (distinct or non-Application sentences, and the exists() fast path).
type partition struct {
	db    *memdb.MemDB
	hashes *iradix.Tree[string] // content hash -> entry ID
}

func newPartition() *partition {
	db, err := memdb.NewMemDB(buildSchema())
	if err != nil {
		// buildSchema is a static, compile-time-fixed schema; a
		// failure here means the schema itself is malformed, which is
		// a programmer error, not a runtime condition callers recover
		// from.
		panic(fmt.Sprintf("store: invalid schema: %v", err))
	}
	return &partition{db: db, hashes: iradix.New[string]()}
}

// snapshotFrom builds a child partition that shares the parent's
// current data through memdb's own copy-on-write snapshot and the
// radix tree's persistent structure sharing; no entry is copied.
func snapshotFrom(parent *partition) *partition {
	return &partition{db: parent.db.Snapshot(), hashes: parent.hashes}
}

func (p *partition) nodeByHash(hash string) (ast.Node, bool) {
	id, ok := p.hashes.Get([]byte(hash))
	if !ok {
		return nil, false
	}
	txn := p.db.Txn(false)
	defer txn.Abort()
	for arity := 0; arity <= maxArity; arity++ {
		raw, err := txn.First(factTable(arity), "id", id)
		if err == nil && raw != nil {
			return raw.(*entry).Node, true
		}
	}
	raw, err := txn.First(opaqueTable, "id", id)
	if err == nil && raw != nil {
		return raw.(*entry).Node, true
	}
	raw, err = txn.First(ruleTable, "id", id)
	if err == nil && raw != nil {
		return raw.(*ruleEntry).Node, true
	}
	return nil, false
}
