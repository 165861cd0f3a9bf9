// Package interpreter implements the tree-walking evaluator from
// spec.md §4.5: it is both the ExecutionMode=Interpreted executor and
// the engine the optimizer folds constant subtrees with.
//
// Grounded on go-dws's internal/interp — a recursive Eval(node, env)
// dispatching on AST node type — generalized to this engine's five-
// variant Operation tree and single float64 value domain.
package interpreter

import (
	"math"

	"github.com/cwbudde/formulaengine/internal/ast"
	"github.com/cwbudde/formulaengine/internal/ferrors"
	"github.com/cwbudde/formulaengine/internal/registry"
)

// Environment is the lowercase-name → value mapping an evaluation runs
// against (spec.md §3's Environment).
type Environment map[string]float64

// Interpreter evaluates Operation trees against an Environment,
// resolving Function nodes through a live FunctionRegistry.
type Interpreter struct {
	functions *registry.FunctionRegistry
}

// New creates an Interpreter resolving function calls through
// functions.
func New(functions *registry.FunctionRegistry) *Interpreter {
	return &Interpreter{functions: functions}
}

// Eval walks node, evaluating it against env.
func (i *Interpreter) Eval(node ast.Operation, env Environment) (float64, error) {
	switch n := node.(type) {
	case *ast.Constant:
		return n.Value, nil

	case *ast.Variable:
		v, ok := env[n.Name]
		if !ok {
			return 0, ferrors.NewEvaluationError("variable %q not defined", n.Name)
		}
		return v, nil

	case *ast.Unary:
		child, err := i.Eval(n.Child, env)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case ast.Neg:
			return -child, nil
		default:
			return 0, ferrors.NewEvaluationError("unknown unary operator %v", n.Op)
		}

	case *ast.Binary:
		left, err := i.Eval(n.Left, env)
		if err != nil {
			return 0, err
		}
		right, err := i.Eval(n.Right, env)
		if err != nil {
			return 0, err
		}
		return evalBinary(n.Op, left, right)

	case *ast.Function:
		info, ok := i.functions.Lookup(n.Name)
		if !ok {
			return 0, ferrors.NewEvaluationError("function %q not defined", n.Name)
		}
		args := make([]float64, len(n.Args))
		for idx, a := range n.Args {
			v, err := i.Eval(a, env)
			if err != nil {
				return 0, err
			}
			args[idx] = v
		}
		return info.Callable(args), nil

	default:
		return 0, ferrors.NewEvaluationError("unhandled operation node %T", node)
	}
}

// evalBinary implements spec.md §4.5's binary semantics: plain IEEE-754
// arithmetic, Mod following the host's math.Mod (sign follows the
// dividend), Pow via math.Pow. Division and modulo by zero are never
// rejected here — they fall out of IEEE-754 (±Inf, NaN) exactly as
// spec.md §4.4 requires for the optimizer's folding to stay safe.
func evalBinary(op ast.BinaryOp, l, r float64) (float64, error) {
	switch op {
	case ast.Add:
		return l + r, nil
	case ast.Sub:
		return l - r, nil
	case ast.Mul:
		return l * r, nil
	case ast.Div:
		return l / r, nil
	case ast.Mod:
		return math.Mod(l, r), nil
	case ast.Pow:
		return math.Pow(l, r), nil
	default:
		return 0, ferrors.NewEvaluationError("unknown binary operator %v", op)
	}
}
