package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// Add stores stmt in the named context. It reports false (no error)
// when the context is ConsistentOnly and stmt's negation is already
// present as a shallow, syntactically identical fact; that is a
// logical rejection, not a failure. TypeError and UnknownContext are
// returned as errors; appending to a Frozen context is an invariant
// violation.
func (s *Store) Add(f *ast.Factory, stmt ast.Node, contextID string, metadata map[string]any) (bool, error) {
	c, err := s.lookup(contextID)
	if err != nil {
		return false, err
	}
	if c.Frozen {
		return false, kerrors.New(kerrors.KR004, fmt.Sprintf("cannot append to frozen context %q", c.Name), nil)
	}
	if stmt.Type() != types.Boolean {
		return false, kerrors.New(kerrors.KR002, fmt.Sprintf("statement has non-Boolean type %s", stmt.Type()), nil)
	}

	if c.ConsistentOnly && s.shallowContradicts(f, c, stmt) {
		return false, nil
	}

	id := uuid.NewString()
	txn := c.partition.db.Txn(true)
	if antecedent, consequent, isRule := asRule(stmt); isRule {
		symbol, arity, _ := headSymbolArity(consequent)
		re := &ruleEntry{
			ID:         id,
			HeadSymbol: symbol,
			HeadArity:  arity,
			Antecedent: antecedent,
			Consequent: consequent,
			Node:       stmt,
			ContextID:  contextID,
			Metadata:   metadata,
		}
		if err := txn.Insert(ruleTable, re); err != nil {
			txn.Abort()
			return false, kerrors.New(kerrors.KR002, err.Error(), nil)
		}
	} else if symbol, arity, ok := headSymbolArity(stmt); ok && arity <= maxArity {
		e := &entry{
			ID:        id,
			Symbol:    symbol,
			Arity:     arity,
			ArgHashes: argHashes(stmt),
			Node:      stmt,
			ContextID: contextID,
			Metadata:  metadata,
		}
		if err := txn.Insert(factTable(arity), e); err != nil {
			txn.Abort()
			return false, kerrors.New(kerrors.KR002, err.Error(), nil)
		}
	} else {
		e := &entry{ID: id, Node: stmt, ContextID: contextID, Metadata: metadata}
		if err := txn.Insert(opaqueTable, e); err != nil {
			txn.Abort()
			return false, kerrors.New(kerrors.KR002, err.Error(), nil)
		}
	}
	txn.Commit()

	if len(ast.FreeVariables(stmt)) == 0 {
		rtxn := c.partition.hashes.Txn()
		rtxn.Insert([]byte(stmt.Hash()), id)
		c.partition.hashes = rtxn.Commit()
	}
	return true, nil
}

// shallowContradicts reports whether stmt's logical negation is
// already present as a fact in c, by direct structural comparison
// only (deep contradiction detection belongs to the Inference Engine).
func (s *Store) shallowContradicts(f *ast.Factory, c *Context, stmt ast.Node) bool {
	var negation ast.Node
	if conn, ok := stmt.(*ast.Connective); ok && conn.Kind == ast.Not && len(conn.Operands) == 1 {
		negation = conn.Operands[0]
	} else {
		negation = f.NewConnective(ast.Not, []ast.Node{stmt}, types.Boolean, stmt.Meta())
	}
	if len(ast.FreeVariables(negation)) != 0 {
		return false
	}
	_, found := c.partition.nodeByHash(negation.Hash())
	return found
}

// Retract removes every entry in context matching pattern (which may
// contain free variables used as wildcards) and returns the count
// removed.
func (s *Store) Retract(pattern ast.Node, contextID string) (int, error) {
	c, err := s.lookup(contextID)
	if err != nil {
		return 0, err
	}
	if c.Frozen {
		return 0, kerrors.New(kerrors.KR004, fmt.Sprintf("cannot retract from frozen context %q", c.Name), nil)
	}

	txn := c.partition.db.Txn(true)
	removed := 0
	var removedHashes []string
	for _, table := range candidateTables(pattern) {
		it, err := txn.Get(table, "id")
		if err != nil {
			continue
		}
		var toDelete []*entry
		for raw := it.Next(); raw != nil; raw = it.Next() {
			e := raw.(*entry)
			if _, ok := match(pattern, e.Node, map[uint64]ast.Node{}); ok {
				toDelete = append(toDelete, e)
			}
		}
		for _, e := range toDelete {
			if err := txn.Delete(table, e); err == nil {
				removed++
				if len(ast.FreeVariables(e.Node)) == 0 {
					removedHashes = append(removedHashes, e.Node.Hash())
				}
			}
		}
	}
	if _, _, isRuleShaped := asRule(pattern); isRuleShaped || !headSymbolKnown(pattern) {
		if it, err := txn.Get(ruleTable, "id"); err == nil {
			var toDelete []*ruleEntry
			for raw := it.Next(); raw != nil; raw = it.Next() {
				re := raw.(*ruleEntry)
				if _, ok := match(pattern, re.Node, map[uint64]ast.Node{}); ok {
					toDelete = append(toDelete, re)
				}
			}
			for _, re := range toDelete {
				if err := txn.Delete(ruleTable, re); err == nil {
					removed++
					if len(ast.FreeVariables(re.Node)) == 0 {
						removedHashes = append(removedHashes, re.Node.Hash())
					}
				}
			}
		}
	}
	txn.Commit()

	if len(removedHashes) > 0 {
		rtxn := c.partition.hashes.Txn()
		for _, h := range removedHashes {
			rtxn.Delete([]byte(h))
		}
		c.partition.hashes = rtxn.Commit()
	}
	return removed, nil
}

func headSymbolKnown(pattern ast.Node) bool {
	_, _, ok := headSymbolArity(pattern)
	return ok
}

func candidateTables(pattern ast.Node) []string {
	if symbol, arity, ok := headSymbolArity(pattern); ok && arity <= maxArity {
		_ = symbol
		return []string{factTable(arity)}
	}
	tables := make([]string, 0, maxArity+2)
	for arity := 0; arity <= maxArity; arity++ {
		tables = append(tables, factTable(arity))
	}
	return append(tables, opaqueTable)
}

// Exists reports whether a ground statement is present in the union of
// the named contexts, using the O(1) content-hash index.
func (s *Store) Exists(stmt ast.Node, contextIDs []string) (bool, error) {
	contexts, err := s.lookupAll(contextIDs)
	if err != nil {
		return false, err
	}
	if len(ast.FreeVariables(stmt)) != 0 {
		for _, c := range contexts {
			it, errQ := rawQuery(c, stmt)
			if errQ != nil {
				return false, errQ
			}
			if it.Next() != nil {
				return true, nil
			}
		}
		return false, nil
	}
	for _, c := range contexts {
		if _, ok := c.partition.nodeByHash(stmt.Hash()); ok {
			return true, nil
		}
	}
	return false, nil
}

func rawQuery(c *Context, pattern ast.Node) (memdb.ResultIterator, error) {
	txn := c.partition.db.Txn(false)
	if symbol, arity, ok := headSymbolArity(pattern); ok && arity <= maxArity {
		return txn.Get(factTable(arity), "symbol", symbol)
	}
	return txn.Get(opaqueTable, "id")
}
