package store

import (
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

// maxArity bounds the number of per-arity fact tables the schema
// declares (rules share the single ruleTable). memdb requires a fixed table/index layout up front;
// arities beyond this fall back to opaqueTable, which still supports
// exists()/retract() via the content-hash index but not per-position
// indexed query.
const maxArity = 8

const opaqueTable = "opaque"
const ruleTable = "rule"

func factTable(arity int) string {
	return fmt.Sprintf("fact_%d", arity)
}

// entry is the record stored in every memdb table. ArgHashes holds the
// content hash of each argument position that is ground (empty string
// when that position is a free variable in the stored statement, which
// only rules ever have).
type entry struct {
	ID        string
	Symbol    string
	Arity     int
	ArgHashes []string
	Node      ast.Node
	ContextID string
	Metadata  map[string]any
}

// ruleEntry indexes an implication by its consequent's head symbol and
// arity for the shallow, depth-1 rule-head lookup query() performs.
// Antecedent is kept whole; the coordinator's provers do the deep work.
type ruleEntry struct {
	ID            string
	HeadSymbol    string
	HeadArity     int
	Antecedent    ast.Node
	Consequent    ast.Node
	Node          ast.Node
	ContextID     string
	Metadata      map[string]any
}

type argPosIndexer struct{ pos int }

func (a *argPosIndexer) FromObject(obj interface{}) (bool, []byte, error) {
	e, ok := obj.(*entry)
	if !ok {
		return false, nil, fmt.Errorf("store: argPosIndexer expects *entry, got %T", obj)
	}
	if a.pos >= len(e.ArgHashes) || e.ArgHashes[a.pos] == "" {
		return false, nil, nil
	}
	return true, []byte(e.ArgHashes[a.pos] + "\x00"), nil
}

func (a *argPosIndexer) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("store: argPosIndexer expects 1 arg, got %d", len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("store: argPosIndexer expects string arg, got %T", args[0])
	}
	return []byte(s + "\x00"), nil
}

func buildSchema() *memdb.DBSchema {
	tables := make(map[string]*memdb.TableSchema, maxArity+3)

	for arity := 0; arity <= maxArity; arity++ {
		indexes := map[string]*memdb.IndexSchema{
			"id": {
				Name:    "id",
				Unique:  true,
				Indexer: &memdb.StringFieldIndex{Field: "ID"},
			},
			"symbol": {
				Name:    "symbol",
				Unique:  false,
				Indexer: &memdb.StringFieldIndex{Field: "Symbol"},
			},
		}
		for pos := 0; pos < arity; pos++ {
			indexes[fmt.Sprintf("arg%d", pos)] = &memdb.IndexSchema{
				Name:         fmt.Sprintf("arg%d", pos),
				Unique:       false,
				AllowMissing: true,
				Indexer:      &argPosIndexer{pos: pos},
			}
		}
		tables[factTable(arity)] = &memdb.TableSchema{
			Name:    factTable(arity),
			Indexes: indexes,
		}
	}

	tables[opaqueTable] = &memdb.TableSchema{
		Name: opaqueTable,
		Indexes: map[string]*memdb.IndexSchema{
			"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
		},
	}

	tables[ruleTable] = &memdb.TableSchema{
		Name: ruleTable,
		Indexes: map[string]*memdb.IndexSchema{
			"id": {
				Name:    "id",
				Unique:  true,
				Indexer: &memdb.StringFieldIndex{Field: "ID"},
			},
			"head": {
				Name:    "head",
				Unique:  false,
				Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
					&memdb.StringFieldIndex{Field: "HeadSymbol"},
					&memdb.IntFieldIndex{Field: "HeadArity"},
				}},
			},
		},
	}

	return &memdb.DBSchema{Tables: tables}
}
