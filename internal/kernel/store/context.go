package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v3"

	kerrors "github.com/kr-engine/godel/internal/errors"
)

// ContextKind records the suggested-but-not-enforced reserved context
// kind at create_context time. The store never rejects a statement
// based on kind, and the coordinator's prover selection does not read
// it; it is recorded metadata.
type ContextKind int

const (
	Truths ContextKind = iota
	Belief
	Hypothetical
	Custom
)

func (k ContextKind) String() string {
	switch k {
	case Truths:
		return "TRUTHS"
	case Belief:
		return "BELIEFS"
	case Hypothetical:
		return "HYPOTHETICAL"
	default:
		return "CUSTOM"
	}
}

// Context is one node of the context tree. Frozen contexts reject
// add/retract with an invariant violation; ConsistentOnly contexts
// reject (without erroring) an add that would introduce a shallow,
// syntactically detectable contradiction.
type Context struct {
	ID             string
	Name           string
	Kind           ContextKind
	ParentID       string
	HasParent      bool
	Frozen         bool
	ConsistentOnly bool

	partition *partition
	children  []string
}

// ContextInfo is a read-only snapshot of one context's tree metadata,
// for callers (notably snapshot/restore) that need to walk the whole
// tree without reaching into the store's internals.
type ContextInfo struct {
	ID             string
	Name           string
	Kind           ContextKind
	ParentID       string
	HasParent      bool
	Frozen         bool
	ConsistentOnly bool
}

// Contexts returns metadata for every live context in a pre-order
// walk from the root, so a caller reconstructing the tree (snapshot/
// restore) always sees a parent before its children.
func (s *Store) Contexts() []ContextInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ContextInfo, 0, len(s.contexts))
	var walk func(id string)
	walk = func(id string) {
		c, ok := s.contexts[id]
		if !ok {
			return
		}
		out = append(out, ContextInfo{
			ID: c.ID, Name: c.Name, Kind: c.Kind,
			ParentID: c.ParentID, HasParent: c.HasParent,
			Frozen: c.Frozen, ConsistentOnly: c.ConsistentOnly,
		})
		for _, childID := range c.children {
			walk(childID)
		}
	}
	walk(s.rootID)
	return out
}

// CreateContext adds a new context named name as a child of parentID
// (the root context if parentID is ""), of the given kind, and returns
// its opaque identifier. The child's partition is an O(1) structural
// snapshot of the parent's at this instant.
func (s *Store) CreateContext(name string, parentID string, kind ContextKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID == "" {
		parentID = s.rootID
	}
	parent, ok := s.contexts[parentID]
	if !ok {
		return "", kerrors.New(kerrors.KR001, fmt.Sprintf("unknown parent context %q", parentID), nil)
	}

	child := &Context{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		ParentID:  parentID,
		HasParent: true,
		partition: snapshotFrom(parent.partition),
	}
	s.contexts[child.ID] = child
	parent.children = append(parent.children, child.ID)
	return child.ID, nil
}

// DeleteContext removes a context and, cascading, every descendant
// context. The root context cannot be deleted.
func (s *Store) DeleteContext(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contexts[id]
	if !ok {
		return kerrors.New(kerrors.KR001, fmt.Sprintf("unknown context %q", id), nil)
	}
	if id == s.rootID {
		return kerrors.New(kerrors.KR004, "cannot delete the root TRUTHS context", nil)
	}

	victims := set.New[string](8)
	s.collectDescendants(id, victims)
	for _, vid := range victims.Slice() {
		delete(s.contexts, vid)
	}

	if c.HasParent {
		if parent, ok := s.contexts[c.ParentID]; ok {
			kept := parent.children[:0]
			for _, cid := range parent.children {
				if !victims.Contains(cid) {
					kept = append(kept, cid)
				}
			}
			parent.children = kept
		}
	}
	return nil
}

func (s *Store) collectDescendants(id string, out *set.Set[string]) {
	out.Insert(id)
	c, ok := s.contexts[id]
	if !ok {
		return
	}
	for _, childID := range c.children {
		s.collectDescendants(childID, out)
	}
}

// Freeze marks a context so that subsequent add/retract calls fail
// with an invariant violation instead of mutating it.
func (s *Store) Freeze(id string) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	c.Frozen = true
	s.mu.Unlock()
	return nil
}

// SetConsistentOnly toggles the shallow-contradiction check on add.
func (s *Store) SetConsistentOnly(id string, v bool) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	c.ConsistentOnly = v
	s.mu.Unlock()
	return nil
}
