// Package formula is the public facade of the formula engine: parse a
// formula once, reuse the built Formula across many evaluations against
// different variable bindings.
//
// Grounded on go-dws's pkg/dwscript facade shape (a root Engine type
// constructed with functional options, wrapping the internal
// lexer/parser/interp pipeline) and internal/bytecode's CompilerOption
// pattern (see compiler_core.go) for Engine construction.
package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/formulaengine/internal/ast"
	"github.com/cwbudde/formulaengine/internal/builtins"
	"github.com/cwbudde/formulaengine/internal/cache"
	"github.com/cwbudde/formulaengine/internal/compiler"
	"github.com/cwbudde/formulaengine/internal/ferrors"
	"github.com/cwbudde/formulaengine/internal/interpreter"
	"github.com/cwbudde/formulaengine/internal/lexer"
	"github.com/cwbudde/formulaengine/internal/locale"
	"github.com/cwbudde/formulaengine/internal/optimizer"
	"github.com/cwbudde/formulaengine/internal/parser"
	"github.com/cwbudde/formulaengine/internal/registry"
)

// ExecutionMode selects how a built Formula evaluates.
type ExecutionMode int

const (
	// ModeInterpreted walks the AST on every Eval call.
	ModeInterpreted ExecutionMode = iota
	// ModeCompiled evaluates via a pre-built closure tree with no
	// per-call tree walk or registry lookup.
	ModeCompiled
)

type engineConfig struct {
	locale           string
	mode             ExecutionMode
	cacheEnabled     bool
	cacheCapacity    int
	optimizerEnabled bool
	defaultFunctions bool
	defaultConstants bool
}

// Option configures a new Engine.
type Option func(*engineConfig)

// WithLocale sets the BCP-47 locale tag used to resolve the decimal
// and argument separators formula text is read with (e.g. "de-DE").
func WithLocale(tag string) Option {
	return func(c *engineConfig) { c.locale = tag }
}

// WithExecutionMode selects the interpreted or compiled backend.
func WithExecutionMode(mode ExecutionMode) Option {
	return func(c *engineConfig) { c.mode = mode }
}

// WithCacheEnabled enables or disables the built-formula cache.
// Enabled by default.
func WithCacheEnabled(enabled bool) Option {
	return func(c *engineConfig) { c.cacheEnabled = enabled }
}

// WithCacheCapacity bounds the formula cache to an LRU of at most n
// entries. Unset (or 0) means unbounded.
func WithCacheCapacity(n int) Option {
	return func(c *engineConfig) { c.cacheCapacity = n }
}

// WithOptimizer enables or disables constant folding. Enabled by
// default.
func WithOptimizer(enabled bool) Option {
	return func(c *engineConfig) { c.optimizerEnabled = enabled }
}

// WithDefaultFunctions controls whether the standard math function
// set (sin, cos, max, ...) is pre-registered. Enabled by default.
func WithDefaultFunctions(enabled bool) Option {
	return func(c *engineConfig) { c.defaultFunctions = enabled }
}

// WithDefaultConstants controls whether e and pi are pre-registered.
// Enabled by default.
func WithDefaultConstants(enabled bool) Option {
	return func(c *engineConfig) { c.defaultConstants = enabled }
}

// Engine parses and evaluates formula text against its registered
// functions and constants. An Engine is safe for concurrent use.
type Engine struct {
	functions *registry.FunctionRegistry
	constants *registry.ConstantRegistry
	seps      locale.Separators
	mode      ExecutionMode
	optimize  bool
	cache     *cache.Cache[*Formula]
}

// New constructs an Engine. With no options, it evaluates with the
// compiled backend, the default math functions and constants, an
// unbounded cache, and constant folding enabled (spec.md §6.1).
func New(opts ...Option) (*Engine, error) {
	cfg := engineConfig{
		mode:             ModeCompiled,
		cacheEnabled:     true,
		optimizerEnabled: true,
		defaultFunctions: true,
		defaultConstants: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.mode != ModeInterpreted && cfg.mode != ModeCompiled {
		return nil, ferrors.NewConfigError("unknown execution mode %v", cfg.mode)
	}

	fr := registry.NewFunctionRegistry()
	cr := registry.NewConstantRegistry()
	if cfg.defaultFunctions {
		builtins.RegisterDefaultFunctions(fr)
	}
	if cfg.defaultConstants {
		builtins.RegisterDefaultConstants(cr)
	}

	var c *cache.Cache[*Formula]
	if cfg.cacheCapacity > 0 {
		c = cache.NewBounded[*Formula](cfg.cacheCapacity, cfg.cacheEnabled)
	} else {
		c = cache.New[*Formula](cfg.cacheEnabled)
	}

	return &Engine{
		functions: fr,
		constants: cr,
		seps:      locale.Resolve(cfg.locale),
		mode:      cfg.mode,
		optimize:  cfg.optimizerEnabled,
		cache:     c,
	}, nil
}

// Build parses text (or returns the cached Formula already built for
// it) without evaluating it.
func (e *Engine) Build(text string) (*Formula, error) {
	if text == "" {
		return nil, ferrors.NewArgumentError("formula text must not be empty")
	}
	return e.cache.GetOrBuild(text, func() (*Formula, error) {
		return e.build(text)
	})
}

func (e *Engine) build(text string) (*Formula, error) {
	tree, err := parser.Parse(text, e.functions, e.constants, lexer.WithSeparators(e.seps))
	if err != nil {
		return nil, err
	}

	if e.optimize {
		tree = optimizer.New(e.functions).Optimize(tree)
	}

	f := &Formula{
		source:    text,
		tree:      tree,
		vars:      collectVariables(tree),
		mode:      e.mode,
		functions: e.functions,
		constants: e.constants,
		interp:    interpreter.New(e.functions),
	}

	if e.mode == ModeCompiled {
		callable, err := compiler.Compile(tree, e.functions)
		if err != nil {
			return nil, err
		}
		f.callable = callable
	}

	return f, nil
}

// Calculate builds (or reuses the cached build of) text and evaluates
// it against vars in one call.
func (e *Engine) Calculate(text string, vars map[string]float64) (float64, error) {
	f, err := e.Build(text)
	if err != nil {
		return 0, err
	}
	return f.Eval(vars)
}

// CalculateUnsafe builds (or reuses the cached build of) text and
// evaluates it directly against vars, skipping the lowercasing and
// shadowing checks Calculate performs (spec.md §6.2): the caller is
// responsible for supplying already-lowercased names with no
// collisions. vars must be non-nil; unlike Calculate, there is no
// implicit empty-environment default, since a caller reaching for the
// unsafe path is expected to hand over an explicit, pre-normalized
// mapping (spec.md §7's ArgumentError for "missing variables
// mapping"). vars is copied before use, so neither side observes the
// other's later mutations (spec.md §9's calculate_unsafe open
// question: "implementations must not alias").
func (e *Engine) CalculateUnsafe(text string, vars map[string]float64) (float64, error) {
	if vars == nil {
		return 0, ferrors.NewArgumentError("calculate_unsafe: vars must not be nil")
	}
	f, err := e.Build(text)
	if err != nil {
		return 0, err
	}
	return f.EvalUnsafe(vars)
}

// AddFunction registers a fixed-arity user function. User functions
// overwrite any existing entry of the same name (case-insensitive).
func (e *Engine) AddFunction(name string, arity int, fn func(args []float64) float64) error {
	return e.functions.Register(registry.FunctionInfo{
		Callable:       registry.BuiltinFunc(fn),
		Name:           name,
		Arity:          arity,
		IsOverwritable: true,
	})
}

// AddVariadicFunction registers a user function accepting any number
// of arguments (at least one).
func (e *Engine) AddVariadicFunction(name string, fn func(args []float64) float64) error {
	return e.functions.Register(registry.FunctionInfo{
		Callable:       registry.BuiltinFunc(fn),
		Name:           name,
		Variadic:       true,
		IsOverwritable: true,
	})
}

// AddConstant registers a named constant, overwriting any existing
// user-registered constant of the same name.
func (e *Engine) AddConstant(name string, value float64) error {
	return e.constants.Register(registry.ConstantInfo{
		Name:           name,
		Value:          value,
		IsOverwritable: true,
	})
}

// Functions returns every registered function, in registration order.
func (e *Engine) Functions() []*registry.FunctionInfo { return e.functions.All() }

// Constants returns every registered constant, in registration order.
func (e *Engine) Constants() []*registry.ConstantInfo { return e.constants.All() }

// Describe renders the engine's registered functions and constants as
// a JSON document, built incrementally with sjson rather than
// marshaling a struct, and inspectable with gjson by callers that want
// a specific field (e.g. `functions.0.name`).
func (e *Engine) Describe() (string, error) {
	doc := "{}"
	var err error

	for i, fn := range e.Functions() {
		base := fmt.Sprintf("functions.%d", i)
		if doc, err = sjson.Set(doc, base+".name", fn.Name); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, base+".variadic", fn.Variadic); err != nil {
			return "", err
		}
		if !fn.Variadic {
			if doc, err = sjson.Set(doc, base+".arity", fn.Arity); err != nil {
				return "", err
			}
		}
		if doc, err = sjson.Set(doc, base+".overwritable", fn.IsOverwritable); err != nil {
			return "", err
		}
	}

	for i, c := range e.Constants() {
		base := fmt.Sprintf("constants.%d", i)
		if doc, err = sjson.Set(doc, base+".name", c.Name); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, base+".value", c.Value); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, base+".overwritable", c.IsOverwritable); err != nil {
			return "", err
		}
	}

	if !gjson.Valid(doc) {
		return "", ferrors.NewConfigError("internal error: Describe produced invalid JSON")
	}
	return doc, nil
}

// Formula is a parsed, optionally optimized and compiled formula,
// reusable across many evaluations against different variable
// bindings.
type Formula struct {
	source    string
	tree      ast.Operation
	vars      []string
	mode      ExecutionMode
	functions *registry.FunctionRegistry
	constants *registry.ConstantRegistry
	interp    *interpreter.Interpreter
	callable  compiler.Callable // set only when mode == ModeCompiled
}

// Source returns the formula's original text.
func (f *Formula) Source() string { return f.source }

// Vars returns the free variable names the formula references, sorted
// and deduplicated.
func (f *Formula) Vars() []string {
	out := make([]string, len(f.vars))
	copy(out, f.vars)
	return out
}

// String renders the formula's parsed expression tree.
func (f *Formula) String() string { return f.tree.String() }

// Verify reports whether vars supplies every variable the formula
// needs, without evaluating it. A key in vars that shadows a
// registered constant or function name is reported as a
// *ferrors.VariableNameError, since the parser already resolved that
// identifier to the constant or function at Build time and a value
// supplied for it here would silently be ignored.
func (f *Formula) Verify(vars map[string]float64) error {
	_, err := f.normalize(vars)
	return err
}

// normalize lowercases vars' keys (variable names, like function and
// constant names, are case-insensitive) and checks for the shadowing
// and unbound-variable conditions Verify documents.
func (f *Formula) normalize(vars map[string]float64) (interpreter.Environment, error) {
	env := make(interpreter.Environment, len(vars))
	for name, v := range vars {
		lower := strings.ToLower(name)
		if info, ok := f.constants.Lookup(lower); ok {
			return nil, ferrors.NewVariableNameError(name, "constant "+info.Name)
		}
		if f.functions.Contains(lower) {
			return nil, ferrors.NewVariableNameError(name, "function "+lower)
		}
		env[lower] = v
	}
	for _, name := range f.vars {
		if _, ok := env[name]; !ok {
			return nil, ferrors.NewEvaluationError("unbound variable %q", name)
		}
	}
	return env, nil
}

// Eval evaluates the formula against vars.
func (f *Formula) Eval(vars map[string]float64) (float64, error) {
	env, err := f.normalize(vars)
	if err != nil {
		return 0, err
	}

	if f.mode == ModeCompiled {
		return f.callable(env), nil
	}
	return f.interp.Eval(f.tree, env)
}

// EvalUnsafe evaluates the formula directly against vars, skipping the
// lowercasing and shadowing checks Eval performs via normalize. vars
// is copied into a private Environment first, so the evaluation never
// aliases the caller's map.
func (f *Formula) EvalUnsafe(vars map[string]float64) (float64, error) {
	env := make(interpreter.Environment, len(vars))
	for name, v := range vars {
		env[name] = v
	}

	if f.mode == ModeCompiled {
		return f.callable(env), nil
	}
	return f.interp.Eval(f.tree, env)
}

// Callable is a formula bound to a fixed set of variable values,
// producing the same result on every call.
type Callable func() (float64, error)

// Formula returns a fluent Builder that accumulates variable
// declarations for text before producing a Callable bound to that
// declaration set (spec.md §6.2's `formula(text) -> builder`). Parsing
// of text is deferred until Build is called, so the builder itself
// never fails.
func (e *Engine) Formula(text string) *Builder {
	return &Builder{engine: e, text: text, vars: make(map[string]float64)}
}

// Builder accumulates typed variable declarations for a formula,
// mirroring the engine's own functional-options construction style
// (see Option) but operating on variable bindings instead of engine
// configuration.
type Builder struct {
	engine *Engine
	text   string
	vars   map[string]float64
}

// Var declares (or overwrites) a variable's bound value, returning the
// builder for chaining. The name is lowercased to match the engine's
// case-insensitive identifier resolution.
func (b *Builder) Var(name string, value float64) *Builder {
	b.vars[strings.ToLower(name)] = value
	return b
}

// Vars declares every entry of vars in one call.
func (b *Builder) Vars(vars map[string]float64) *Builder {
	for name, v := range vars {
		b.Var(name, v)
	}
	return b
}

// Build parses (or reuses the cached build of) the builder's formula
// text, verifies it against the accumulated declarations, and returns
// a Callable bound to them. The returned Callable re-evaluates the
// formula on every call against the same fixed bindings.
func (b *Builder) Build() (Callable, error) {
	f, err := b.engine.Build(b.text)
	if err != nil {
		return nil, err
	}
	if err := f.Verify(b.vars); err != nil {
		return nil, err
	}
	bound := make(map[string]float64, len(b.vars))
	for k, v := range b.vars {
		bound[k] = v
	}
	return func() (float64, error) {
		return f.Eval(bound)
	}, nil
}

// collectVariables walks tree and returns every distinct Variable name
// it references, sorted.
func collectVariables(node ast.Operation) []string {
	seen := map[string]bool{}
	var walk func(ast.Operation)
	walk = func(n ast.Operation) {
		switch v := n.(type) {
		case *ast.Variable:
			seen[v.Name] = true
		case *ast.Unary:
			walk(v.Child)
		case *ast.Binary:
			walk(v.Left)
			walk(v.Right)
		case *ast.Function:
			for _, arg := range v.Args {
				walk(arg)
			}
		}
	}
	walk(node)

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
