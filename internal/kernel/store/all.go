package store

import "github.com/kr-engine/godel/internal/kernel/ast"

// AllStatements returns every statement (fact, rule, or opaque
// sentence) visible in the union of contextIDs, for callers — notably
// the resolution prover — that need the full axiom set of a context
// rather than a single pattern match.
func (s *Store) AllStatements(contextIDs []string) ([]ast.Node, error) {
	contexts, err := s.lookupAll(contextIDs)
	if err != nil {
		return nil, err
	}
	var out []ast.Node
	for _, c := range contexts {
		txn := c.partition.db.Txn(false)
		for arity := 0; arity <= maxArity; arity++ {
			it, err := txn.Get(factTable(arity), "id")
			if err != nil {
				continue
			}
			for raw := it.Next(); raw != nil; raw = it.Next() {
				out = append(out, raw.(*entry).Node)
			}
		}
		if it, err := txn.Get(opaqueTable, "id"); err == nil {
			for raw := it.Next(); raw != nil; raw = it.Next() {
				out = append(out, raw.(*entry).Node)
			}
		}
		if it, err := txn.Get(ruleTable, "id"); err == nil {
			for raw := it.Next(); raw != nil; raw = it.Next() {
				out = append(out, raw.(*ruleEntry).Node)
			}
		}
	}
	return out, nil
}
