// Package kr assembles C1-C11 into the single symbolic cognition
// kernel instance spec.md §6 names "the KR": one hash-cons factory,
// one signature table, one Knowledge Store, and one Inference
// Coordinator with every coordinator.Strategy registered, fronted by
// the public operation surface spec §6 lists (define_*/is_subtype/
// check/infer, the AST helpers, parse, add/retract/query/exists/
// create_context/delete_context, submit_goal, justified_beliefs, and
// AGM revise/contract/expand).
//
// KR enforces single-writer discipline: every mutating call takes mu,
// a coarse mutex guarding shared interpreter state rather than making
// every subordinate type independently concurrency-safe.
package kr

import (
	"context"
	"sync"

	"go.uber.org/zap"

	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/kernel/argue"
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/bridge"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/resolution"
	"github.com/kr-engine/godel/internal/kernel/store"
	"github.com/kr-engine/godel/internal/kernel/tableau"
	"github.com/kr-engine/godel/internal/kernel/typecheck"
	"github.com/kr-engine/godel/internal/kernel/types"
	"github.com/kr-engine/godel/internal/kernelconfig"
	"github.com/kr-engine/godel/internal/parser"
)

// KR is the assembled kernel instance.
type KR struct {
	mu sync.Mutex

	Factory *ast.Factory
	Sig     *types.SignatureTable
	Store   *store.Store
	Coord   *coordinator.Coordinator

	cfg    kernelconfig.Config
	log    *zap.SugaredLogger
	bridge bridge.TheoryBridge
}

// Option customizes New beyond its teacher-shaped defaults.
type Option func(*KR)

// WithBridge replaces the default NullBridge with a real C11 adapter
// (e.g. one backed by an actual SMT process), registering it under
// theoryTag for goals containing theory symbols.
func WithBridge(b bridge.TheoryBridge, theoryTag string, opts bridge.Options) Option {
	return func(k *KR) {
		k.bridge = b
		k.Coord.Register(bridge.New(k.Store, b, theoryTag, opts, k.Factory))
	}
}

// New wires a fresh KR: one Factory, one SignatureTable, one Store
// rooted at "root", and a Coordinator with resolution, tableau (under
// the K system, spec's default), and a NullBridge C11 strategy
// registered. Argumentation (C10) is deliberately not registered as a
// coordinator.Strategy, mirroring coordinator/classify.go's automatic
// routing, which never selects EngineArgumentation; callers reach it
// through JustifiedBeliefs/Revise/Contract/Expand directly.
func New(cfg kernelconfig.Config, log *zap.SugaredLogger) *KR {
	f := ast.NewFactory(0)
	sig := types.NewSignatureTable()
	st := store.New()
	coord := coordinator.New(st, cfg, log)

	k := &KR{
		Factory: f,
		Sig:     sig,
		Store:   st,
		Coord:   coord,
		cfg:     cfg,
		log:     log,
		bridge:  bridge.NullBridge{},
	}

	coord.Register(resolution.New(st, f))
	coord.Register(tableau.New(st, f, tableau.K))
	coord.Register(bridge.New(st, k.bridge, "", nil, f))

	return k
}

// Apply runs opts against an already-built KR (e.g. to swap in a real
// theory bridge after construction).
func (k *KR) Apply(opts ...Option) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, opt := range opts {
		opt(k)
	}
}

// --- C1 Type System -------------------------------------------------

func (k *KR) DefineAtomic(name string, supertypes ...types.Type) (*types.Atomic, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Sig.DefineAtomic(name, supertypes...)
}

func (k *KR) DefineFunction(name string, args []types.Type, ret types.Type) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Sig.DefineFunction(name, args, ret)
}

func (k *KR) DefineParametric(name string, arity int) *types.ParametricCtor {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Sig.DefineParametric(name, arity)
}

func (k *KR) IsSubtype(a, b types.Type) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Sig.IsSubtype(a, b)
}

func (k *KR) Check(n ast.Node) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return typecheck.Check(k.Sig, n)
}

func (k *KR) Infer(n ast.Node) (types.Type, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return typecheck.Infer(k.Sig, n)
}

// --- C2 AST -----------------------------------------------------------

func (k *KR) EqualModAlpha(a, b ast.Node) bool { return ast.EqualModAlpha(a, b) }

func (k *KR) Substitute(n ast.Node, sub ast.Substitution) ast.Node {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Factory.Substitute(n, sub)
}

func (k *KR) Normalize(n ast.Node, mode ast.NormalizeMode) ast.Node {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Factory.Normalize(n, mode)
}

func (k *KR) Print(n ast.Node) string { return ast.Print(n) }

func (k *KR) ParseSExpr(s string, env map[string]ast.Node) (ast.Node, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return ast.ParseSExpr(k.Factory, s, env)
}

// --- C3 Parser ----------------------------------------------------------

// Parse parses src under filename, consulting the signature table for
// declared symbol types (spec §4.3's "consults a signature table when
// one is available").
func (k *KR) Parse(src, filename string) (ast.Node, []*kerrors.Report) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return parser.Parse(k.Factory, k.Sig, src, filename)
}

// --- C5 Knowledge Store -------------------------------------------------

func (k *KR) CreateContext(name, parentID string, kind store.ContextKind) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Store.CreateContext(name, parentID, kind)
}

func (k *KR) DeleteContext(id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Store.DeleteContext(id)
}

func (k *KR) Add(stmt ast.Node, contextID string, metadata map[string]any) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Store.Add(k.Factory, stmt, contextID, metadata)
}

func (k *KR) Retract(pattern ast.Node, contextID string) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Store.Retract(pattern, contextID)
}

func (k *KR) Query(pattern ast.Node, contextIDs []string, bindVars []*ast.Variable) (*store.ResultIterator, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Store.Query(k.Factory, pattern, contextIDs, bindVars)
}

func (k *KR) Exists(stmt ast.Node, contextIDs []string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Store.Exists(stmt, contextIDs)
}

// --- C7 Inference Coordinator -------------------------------------------

func (k *KR) SubmitGoal(ctx context.Context, goal ast.Node, candidateContexts []string, hints *coordinator.Hints) (*proof.Proof, error) {
	// SubmitGoal dispatches into strategies that themselves only read
	// the Store, so it does not need the facade's write lock; holding
	// it here would serialize concurrent goals behind whatever the
	// slowest prover in flight is doing, defeating spec §5's "read
	// concurrency is unrestricted" intent.
	return k.Coord.SubmitGoal(ctx, goal, candidateContexts, hints)
}

// --- C10 Belief Revision & Argumentation ---------------------------------

func (k *KR) JustifiedBeliefs(strict, defeasible []ast.Node, semantics argue.Semantics, pref argue.Preference) []ast.Node {
	return argue.JustifiedBeliefs(k.Factory, strict, defeasible, semantics, pref)
}

func (k *KR) Expand(base []ast.Node, phi ast.Node) []ast.Node {
	return argue.Expand(base, phi)
}

func (k *KR) Contract(ctx context.Context, base []ast.Node, phi ast.Node, entrenchment func(ast.Node) int, limits coordinator.ResourceLimits) ([]ast.Node, argue.ContractOutcome, error) {
	return argue.Contract(ctx, k.entailmentChecker(), base, phi, entrenchment, limits)
}

func (k *KR) Revise(ctx context.Context, base []ast.Node, phi ast.Node, entrenchment func(ast.Node) int, limits coordinator.ResourceLimits) ([]ast.Node, error) {
	return argue.Revise(ctx, k.Factory, k.entailmentChecker(), base, phi, entrenchment, limits)
}
