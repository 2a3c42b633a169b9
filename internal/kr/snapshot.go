package kr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/store"
	"github.com/kr-engine/godel/internal/kernel/types"
	"github.com/kr-engine/godel/internal/kernelconfig"
)

// magic + format version identify a godel snapshot stream (spec §6,
// SPEC_FULL.md §D.1): "so that partial reads fail cleanly" is met by
// checking both before trusting any block that follows.
var magic = [4]byte{'G', 'O', 'D', 'L'}

const formatVersion byte = 1

// ErrBadMagic and ErrBadVersion are invariant violations (exit code 4,
// SPEC_FULL.md §D.4): a stream that fails either check was not written
// by a conforming writer, or was truncated before the header.
var (
	ErrBadMagic   = fmt.Errorf("snapshot: bad magic")
	ErrBadVersion = fmt.Errorf("snapshot: unsupported format version")
)

// --- type descriptors: a lossless, structural encoding of types.Type ---

type typeDesc struct {
	Kind  string     `yaml:"kind"` // atomic | function | parametric | instantiated
	Name  string     `yaml:"name,omitempty"`
	Arity int        `yaml:"arity,omitempty"`
	Args  []typeDesc `yaml:"args,omitempty"`
	Ret   *typeDesc  `yaml:"ret,omitempty"`
}

func encodeType(t types.Type) typeDesc {
	switch v := t.(type) {
	case *types.Atomic:
		return typeDesc{Kind: "atomic", Name: v.Name}
	case *types.Function:
		args := make([]typeDesc, len(v.Args))
		for i, a := range v.Args {
			args[i] = encodeType(a)
		}
		ret := encodeType(v.Ret)
		return typeDesc{Kind: "function", Args: args, Ret: &ret}
	case *types.ParametricCtor:
		return typeDesc{Kind: "parametric", Name: v.Name, Arity: v.Arity}
	case *types.Instantiated:
		args := make([]typeDesc, len(v.Args))
		for i, a := range v.Args {
			args[i] = encodeType(a)
		}
		return typeDesc{Kind: "instantiated", Name: v.Ctor.Name, Arity: v.Ctor.Arity, Args: args}
	default:
		// TypeVar should never reach a hash-consed node: every concrete
		// node carries a ground type by construction. Fall back to
		// Unspecified rather than erroring the whole snapshot over it.
		return typeDesc{Kind: "atomic", Name: types.Unspecified.Name}
	}
}

func decodeType(d typeDesc) types.Type {
	switch d.Kind {
	case "function":
		args := make([]types.Type, len(d.Args))
		for i, a := range d.Args {
			args[i] = decodeType(a)
		}
		var ret types.Type = types.Unspecified
		if d.Ret != nil {
			ret = decodeType(*d.Ret)
		}
		return &types.Function{Args: args, Ret: ret}
	case "parametric":
		return &types.ParametricCtor{Name: d.Name, Arity: d.Arity}
	case "instantiated":
		args := make([]types.Type, len(d.Args))
		for i, a := range d.Args {
			args[i] = decodeType(a)
		}
		return &types.Instantiated{Ctor: &types.ParametricCtor{Name: d.Name, Arity: d.Arity}, Args: args}
	default:
		return &types.Atomic{Name: d.Name}
	}
}

// --- node descriptors: a lossless, structural encoding of ast.Node ---

type nodeDesc struct {
	Kind string   `yaml:"kind"`
	Type typeDesc `yaml:"type"`

	Name  string  `yaml:"name,omitempty"`
	Value *string `yaml:"value,omitempty"`
	VarID uint64  `yaml:"var_id,omitempty"`

	Operator  *nodeDesc  `yaml:"operator,omitempty"`
	Arguments []nodeDesc `yaml:"arguments,omitempty"`

	QuantKind string     `yaml:"quant_kind,omitempty"`
	Bound     []nodeDesc `yaml:"bound,omitempty"`
	Body      *nodeDesc  `yaml:"body,omitempty"`

	ConnKind string     `yaml:"conn_kind,omitempty"`
	Operands []nodeDesc `yaml:"operands,omitempty"`

	ModalOp      string    `yaml:"modal_op,omitempty"`
	WorldOrAgent *nodeDesc `yaml:"world_or_agent,omitempty"`
	Proposition  *nodeDesc `yaml:"proposition,omitempty"`

	Symbol       string    `yaml:"symbol,omitempty"`
	DeclaredType *typeDesc `yaml:"declared_type,omitempty"`
}

func encodeNode(n ast.Node) nodeDesc {
	switch v := n.(type) {
	case *ast.Constant:
		d := nodeDesc{Kind: "const", Name: v.Name, Type: encodeType(v.Type())}
		if v.Value != nil {
			s := fmt.Sprintf("%v", v.Value)
			d.Value = &s
		}
		return d
	case *ast.Variable:
		return nodeDesc{Kind: "var", Name: v.Name, VarID: v.VarID, Type: encodeType(v.Type())}
	case *ast.Application:
		op := encodeNode(v.Operator)
		args := make([]nodeDesc, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = encodeNode(a)
		}
		return nodeDesc{Kind: "app", Type: encodeType(v.Type()), Operator: &op, Arguments: args}
	case *ast.Quantifier:
		bound := make([]nodeDesc, len(v.Bound))
		for i, b := range v.Bound {
			bound[i] = encodeNode(b)
		}
		body := encodeNode(v.Body)
		return nodeDesc{Kind: "quant", Type: encodeType(v.Type()), QuantKind: v.Kind.String(), Bound: bound, Body: &body}
	case *ast.Connective:
		ops := make([]nodeDesc, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = encodeNode(o)
		}
		return nodeDesc{Kind: "conn", Type: encodeType(v.Type()), ConnKind: v.Kind.String(), Operands: ops}
	case *ast.Modal:
		prop := encodeNode(v.Proposition)
		d := nodeDesc{Kind: "modal", Type: encodeType(v.Type()), ModalOp: v.Op.String(), Proposition: &prop}
		if v.WorldOrAgent != nil {
			w := encodeNode(v.WorldOrAgent)
			d.WorldOrAgent = &w
		}
		return d
	case *ast.Lambda:
		bound := make([]nodeDesc, len(v.Bound))
		for i, b := range v.Bound {
			bound[i] = encodeNode(b)
		}
		body := encodeNode(v.Body)
		return nodeDesc{Kind: "lambda", Type: encodeType(v.Type()), Bound: bound, Body: &body}
	case *ast.Definition:
		body := encodeNode(v.Body)
		dt := encodeType(v.DeclaredType)
		return nodeDesc{Kind: "def", Type: encodeType(v.Type()), Symbol: v.Symbol, DeclaredType: &dt, Body: &body}
	default:
		return nodeDesc{Kind: "unknown"}
	}
}

func quantKindOf(s string) ast.QuantKind {
	if s == "exists" {
		return ast.Exists
	}
	return ast.Forall
}

func connKindOf(s string) ast.ConnKind {
	switch s {
	case "and":
		return ast.And
	case "or":
		return ast.Or
	case "implies":
		return ast.Implies
	case "equiv":
		return ast.Equiv
	default:
		return ast.Not
	}
}

func modalOpOf(s string) ast.ModalOp {
	switch s {
	case "diamond":
		return ast.Diamond
	case "knows":
		return ast.Knows
	case "believes":
		return ast.Believes
	default:
		return ast.Box
	}
}

// decodeNode rebuilds a hash-consed node through f, re-using varIDs
// recorded at encode time so bound/free variable identity (invariant
// #3 in spec.md §3) survives the round trip.
func decodeNode(f *ast.Factory, d nodeDesc, vars map[uint64]*ast.Variable) ast.Node {
	t := decodeType(d.Type)
	switch d.Kind {
	case "const":
		var value interface{}
		if d.Value != nil {
			value = *d.Value
		}
		return f.NewConstant(d.Name, value, t, ast.Metadata{})
	case "var":
		if v, ok := vars[d.VarID]; ok {
			return f.NewVariableUse(v)
		}
		v := f.NewVariable(d.Name, t, ast.Metadata{})
		vars[d.VarID] = v
		return v
	case "app":
		op := decodeNode(f, *d.Operator, vars)
		args := make([]ast.Node, len(d.Arguments))
		for i, a := range d.Arguments {
			args[i] = decodeNode(f, a, vars)
		}
		return f.NewApplication(op, args, t, ast.Metadata{})
	case "quant":
		bound := make([]*ast.Variable, len(d.Bound))
		for i, b := range d.Bound {
			bv := decodeNode(f, b, vars).(*ast.Variable)
			bound[i] = bv
		}
		body := decodeNode(f, *d.Body, vars)
		return f.NewQuantifier(quantKindOf(d.QuantKind), bound, body, t, ast.Metadata{})
	case "conn":
		ops := make([]ast.Node, len(d.Operands))
		for i, o := range d.Operands {
			ops[i] = decodeNode(f, o, vars)
		}
		return f.NewConnective(connKindOf(d.ConnKind), ops, t, ast.Metadata{})
	case "modal":
		var world ast.Node
		if d.WorldOrAgent != nil {
			world = decodeNode(f, *d.WorldOrAgent, vars)
		}
		prop := decodeNode(f, *d.Proposition, vars)
		return f.NewModal(modalOpOf(d.ModalOp), world, prop, t, ast.Metadata{})
	case "lambda":
		bound := make([]*ast.Variable, len(d.Bound))
		for i, b := range d.Bound {
			bound[i] = decodeNode(f, b, vars).(*ast.Variable)
		}
		body := decodeNode(f, *d.Body, vars)
		return f.NewLambda(bound, body, t, ast.Metadata{})
	case "def":
		body := decodeNode(f, *d.Body, vars)
		declared := t
		if d.DeclaredType != nil {
			declared = decodeType(*d.DeclaredType)
		}
		return f.NewDefinition(d.Symbol, declared, body, t, ast.Metadata{})
	default:
		return nil
	}
}

// --- top-level blocks ---

type typeBlock struct {
	Symbols     map[string]typeDesc `yaml:"symbols"`
	Parametrics map[string]int      `yaml:"parametrics"`
	AtomicEdges map[string][]string `yaml:"atomic_edges"`
}

type contextBlock struct {
	ID             string          `yaml:"id"`
	Name           string          `yaml:"name"`
	Kind           int             `yaml:"kind"`
	ParentID       string          `yaml:"parent_id"`
	HasParent      bool            `yaml:"has_parent"`
	Frozen         bool            `yaml:"frozen"`
	ConsistentOnly bool            `yaml:"consistent_only"`
	Statements     []nodeDesc      `yaml:"statements"`
}

func writeBlock(w io.Writer, v interface{}) error {
	payload, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(payload)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func readBlock(r io.Reader, v interface{}) error {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return err
	}
	payload := make([]byte, binary.BigEndian.Uint32(length[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return err
	}
	return yaml.Unmarshal(payload, v)
}

// WriteSnapshot serializes k's signature table and every context's own
// visible statements to w, framed per SPEC_FULL.md §D.1: magic,
// version byte, then one length-prefixed yaml.v3 block per section.
func (k *KR) WriteSnapshot(w io.Writer) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return err
	}

	tb := typeBlock{
		Symbols:     make(map[string]typeDesc),
		Parametrics: make(map[string]int),
		AtomicEdges: make(map[string][]string),
	}
	for name, t := range k.Sig.Symbols() {
		tb.Symbols[name] = encodeType(t)
	}
	for name, ctor := range k.Sig.Parametrics() {
		tb.Parametrics[name] = ctor.Arity
	}
	for sub, supers := range k.Sig.DAG().Edges() {
		tb.AtomicEdges[sub] = supers
	}
	if err := writeBlock(w, tb); err != nil {
		return err
	}

	for _, info := range k.Store.Contexts() {
		statements, err := k.Store.AllStatements([]string{info.ID})
		if err != nil {
			return err
		}
		cb := contextBlock{
			ID: info.ID, Name: info.Name, Kind: int(info.Kind),
			ParentID: info.ParentID, HasParent: info.HasParent,
			Frozen: info.Frozen, ConsistentOnly: info.ConsistentOnly,
		}
		cb.Statements = make([]nodeDesc, len(statements))
		for i, s := range statements {
			cb.Statements[i] = encodeNode(s)
		}
		if err := writeBlock(w, cb); err != nil {
			return err
		}
	}
	return nil
}

// RestoreSnapshot rebuilds a fresh KR from a stream written by
// WriteSnapshot. A magic/version mismatch is reported as ErrBadMagic/
// ErrBadVersion: spec's CLI maps both to exit code 4 (internal
// invariant violation), since a corrupt snapshot means a broken
// writer, not a user mistake.
//
// Fidelity note: a context's "own" statements are read back out of its
// memdb snapshot, which (per store.Context's copy-on-write partition)
// still includes everything visible from its parent at fork time, so a
// non-root context's block repeats statements its restored parent
// already carries. Restore skips any closed statement the context
// already holds, so this does not duplicate entries, only the snapshot
// stream's size.
func RestoreSnapshot(cfg kernelconfig.Config, log *zap.SugaredLogger, r io.Reader) (*KR, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	if !bytes.Equal(header[:4], magic[:]) {
		return nil, ErrBadMagic
	}
	if header[4] != formatVersion {
		return nil, ErrBadVersion
	}

	k := New(cfg, log)

	var tb typeBlock
	if err := readBlock(r, &tb); err != nil {
		return nil, err
	}
	for name, arity := range tb.Parametrics {
		k.Sig.DefineParametric(name, arity)
	}
	for name, d := range tb.Symbols {
		fn, ok := decodeType(d).(*types.Function)
		if !ok {
			continue
		}
		if err := k.Sig.DefineFunction(name, fn.Args, fn.Ret); err != nil {
			return nil, err
		}
	}
	for sub, supers := range tb.AtomicEdges {
		superTypes := make([]types.Type, len(supers))
		for i, s := range supers {
			superTypes[i] = &types.Atomic{Name: s}
		}
		if _, err := k.Sig.DefineAtomic(sub, superTypes...); err != nil {
			return nil, err
		}
	}

	idMap := map[string]string{}
	rootRead := false
	for {
		var cb contextBlock
		if err := readBlock(r, &cb); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		var newID string
		if !rootRead {
			newID = k.Store.RootID()
			idMap[cb.ID] = newID
			rootRead = true
		} else {
			parentID, ok := idMap[cb.ParentID]
			if !ok {
				parentID = k.Store.RootID()
			}
			id, err := k.Store.CreateContext(cb.Name, parentID, store.ContextKind(cb.Kind))
			if err != nil {
				return nil, err
			}
			idMap[cb.ID] = id
			newID = id
		}

		for _, nd := range cb.Statements {
			stmt := decodeNode(k.Factory, nd, map[uint64]*ast.Variable{})
			if len(ast.FreeVariables(stmt)) == 0 {
				if present, err := k.Store.Exists(stmt, []string{newID}); err == nil && present {
					continue
				}
			}
			if _, err := k.Store.Add(k.Factory, stmt, newID, nil); err != nil {
				return nil, err
			}
		}
		if cb.ConsistentOnly {
			if err := k.Store.SetConsistentOnly(newID, true); err != nil {
				return nil, err
			}
		}
		if cb.Frozen {
			if err := k.Store.Freeze(newID); err != nil {
				return nil, err
			}
		}
	}
	return k, nil
}
