package ast

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kr-engine/godel/internal/kernel/types"
)

// Factory is the hash-cons table owned by a single KR instance. All
// node constructors go through it; two structurally identical
// constructions (modulo alpha-renaming of bound variables) always
// yield the same *Node value, giving O(1) equality for shared nodes.
//
// Every lookup and every insert takes the one exclusive lock mu, so
// table access is serialized. With a positive capacity the cache is an
// LRU: once it is full, the least recently used entry is evicted, and a
// later identical construction gets a fresh identity. NewEpoch discards
// every entry at once (§5's "epoch-based reclamation").
type Factory struct {
	mu        sync.Mutex
	cache     *lru.Cache[string, Node]
	unbounded unboundedCache
	nextVar   uint64
	epoch     uint64
}

// NewFactory creates a hash-cons factory with the given cache capacity.
// A capacity of 0 means "unbounded" (no node is ever evicted).
func NewFactory(capacity int) *Factory {
	var cache *lru.Cache[string, Node]
	if capacity > 0 {
		cache, _ = lru.New[string, Node](capacity)
	}
	return &Factory{cache: cache}
}

// unboundedCache backs the zero-capacity "never evict" mode with a
// plain map, since golang-lru requires a positive size.
type unboundedCache = map[string]Node

func (f *Factory) get(h string) (Node, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cache != nil {
		return f.cache.Get(h)
	}
	if f.unbounded == nil {
		return nil, false
	}
	n, ok := f.unbounded[h]
	return n, ok
}

func (f *Factory) put(h string, n Node) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cache != nil {
		f.cache.Add(h, n)
		return
	}
	if f.unbounded == nil {
		f.unbounded = make(unboundedCache)
	}
	f.unbounded[h] = n
}

// NewEpoch discards the current hash-cons generation. Nodes already
// held by live contexts remain valid Go values (structural sharing is
// per-value, not table-mediated); only future lookups stop finding
// them, so identical new constructions get fresh identities in the new
// epoch. This is the reclamation mechanism spec.md §5 allows for
// long-running sessions instead of requiring a tracing GC.
func (f *Factory) NewEpoch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epoch++
	if f.cache != nil {
		f.cache.Purge()
	}
	f.unbounded = nil
}

// NextVarID returns a fresh, globally unique variable id.
func (f *Factory) NextVarID() uint64 {
	return atomic.AddUint64(&f.nextVar, 1)
}

// intern looks up h in the cache, installing n if absent, and returns
// whichever node is now canonical for h.
func (f *Factory) intern(h string, n Node) Node {
	if existing, ok := f.get(h); ok {
		return existing
	}
	f.put(h, n)
	return n
}

// --- structural hashing ---------------------------------------------
//
// The hash is computed over a canonical encoding where bound-variable
// occurrences are replaced by their binding depth (de Bruijn style)
// rather than their VarID, so that alpha-equivalent terms hash
// identically (spec.md §8: equal_mod_alpha(a,b) => hash(a) = hash(b)).
// Free variables hash by VarID, since two different free variables are
// never alpha-equivalent to each other.

type bindEnv map[uint64]int // VarID -> binding depth from the root

func hashNode(n Node, env bindEnv, depth int) string {
	h := sha256.New()
	writeNode(h, n, env, depth)
	return hex.EncodeToString(h.Sum(nil))[:32]
}

func writeNode(h interface{ Write([]byte) (int, error) }, n Node, env bindEnv, depth int) {
	w := func(s string) { h.Write([]byte(s)); h.Write([]byte{0}) }
	switch v := n.(type) {
	case *Constant:
		w("Constant")
		w(v.Name)
		w(fmt.Sprintf("%v", v.Value))
		w(v.typ.String())
	case *Variable:
		if d, bound := env[v.VarID]; bound {
			w("BoundVar")
			w(strconv.Itoa(d))
		} else {
			w("FreeVar")
			w(strconv.FormatUint(v.VarID, 10))
		}
		w(v.typ.String())
	case *Application:
		w("Application")
		writeNode(h, v.Operator, env, depth)
		w(strconv.Itoa(len(v.Arguments)))
		for _, a := range v.Arguments {
			writeNode(h, a, env, depth)
		}
		w(v.typ.String())
	case *Quantifier:
		w("Quantifier")
		w(v.Kind.String())
		child := extend(env, v.Bound, depth)
		w(strconv.Itoa(len(v.Bound)))
		for _, b := range v.Bound {
			w(b.typ.String())
		}
		writeNode(h, v.Body, child, depth+len(v.Bound))
		w(v.typ.String())
	case *Connective:
		w("Connective")
		w(strconv.Itoa(int(v.Kind)))
		for _, o := range v.Operands {
			writeNode(h, o, env, depth)
		}
		w(v.typ.String())
	case *Modal:
		w("Modal")
		w(strconv.Itoa(int(v.Op)))
		if v.WorldOrAgent != nil {
			writeNode(h, v.WorldOrAgent, env, depth)
		} else {
			w("-")
		}
		writeNode(h, v.Proposition, env, depth)
		w(v.typ.String())
	case *Lambda:
		w("Lambda")
		child := extend(env, v.Bound, depth)
		w(strconv.Itoa(len(v.Bound)))
		for _, b := range v.Bound {
			w(b.typ.String())
		}
		writeNode(h, v.Body, child, depth+len(v.Bound))
		w(v.typ.String())
	case *Definition:
		w("Definition")
		w(v.Symbol)
		w(v.DeclaredType.String())
		writeNode(h, v.Body, env, depth)
		w(v.typ.String())
	default:
		w("Unknown")
	}
}

func extend(env bindEnv, bound []*Variable, depth int) bindEnv {
	child := make(bindEnv, len(env)+len(bound))
	for k, v := range env {
		child[k] = v
	}
	for i, b := range bound {
		child[b.VarID] = depth + i
	}
	return child
}

// --- constructors -----------------------------------------------------

func (f *Factory) NewConstant(name string, value interface{}, t types.Type, meta Metadata) *Constant {
	n := &Constant{Name: name, Value: value, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Constant)
}

// NewVariable mints a fresh binding occurrence with a new, globally
// unique VarID (spec.md §3 invariant #3: free and bound occurrences
// never share an id). Use NewVariableUse to reference an existing VarID.
func (f *Factory) NewVariable(name string, t types.Type, meta Metadata) *Variable {
	id := f.NextVarID()
	n := &Variable{Name: name, VarID: id, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Variable)
}

// NewVariableUse references an already-minted VarID, e.g. when a
// quantifier body refers back to a bound variable.
func (f *Factory) NewVariableUse(v *Variable) *Variable {
	n := &Variable{Name: v.Name, VarID: v.VarID, typ: v.typ, meta: v.meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Variable)
}

func (f *Factory) NewApplication(op Node, args []Node, t types.Type, meta Metadata) *Application {
	n := &Application{Operator: op, Arguments: args, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Application)
}

func (f *Factory) NewQuantifier(kind QuantKind, bound []*Variable, body Node, t types.Type, meta Metadata) *Quantifier {
	n := &Quantifier{Kind: kind, Bound: bound, Body: body, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Quantifier)
}

func (f *Factory) NewConnective(kind ConnKind, operands []Node, t types.Type, meta Metadata) *Connective {
	n := &Connective{Kind: kind, Operands: operands, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Connective)
}

func (f *Factory) NewModal(op ModalOp, worldOrAgent, proposition Node, t types.Type, meta Metadata) *Modal {
	n := &Modal{Op: op, WorldOrAgent: worldOrAgent, Proposition: proposition, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Modal)
}

func (f *Factory) NewLambda(bound []*Variable, body Node, t types.Type, meta Metadata) *Lambda {
	n := &Lambda{Bound: bound, Body: body, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Lambda)
}

func (f *Factory) NewDefinition(symbol string, declared types.Type, body Node, t types.Type, meta Metadata) *Definition {
	n := &Definition{Symbol: symbol, DeclaredType: declared, Body: body, typ: t, meta: meta}
	n.hash = hashNode(n, nil, 0)
	return f.intern(n.hash, n).(*Definition)
}
