// Package optimizer implements the single bottom-up constant-folding
// pass from spec.md §4.4.
//
// Grounded on go-dws's internal/bytecode/optimizer.go (a post-compile
// constant-fold pass over emitted instructions); this pass runs
// earlier, directly over the Operation tree, since the formula
// engine's compiler (internal/compiler) has no intermediate bytecode
// to fold — folding the AST once, before either executor sees it,
// keeps both executors (interpreter and compiler) free of the
// constant-folding concern entirely.
package optimizer

import (
	"github.com/cwbudde/formulaengine/internal/ast"
	"github.com/cwbudde/formulaengine/internal/interpreter"
	"github.com/cwbudde/formulaengine/internal/registry"
)

// Optimizer folds constant subtrees using the tree-walking
// interpreter (never the compiler — spec.md §4.4 requires the
// optimizer's numeric semantics to match the interpreter exactly, and
// reusing it directly is the only way to guarantee that).
type Optimizer struct {
	interp *interpreter.Interpreter
}

// New creates an Optimizer that evaluates idempotent constant
// subtrees through functions.
func New(functions *registry.FunctionRegistry) *Optimizer {
	return &Optimizer{interp: interpreter.New(functions)}
}

// Optimize returns a tree behaviorally equivalent to node on every
// environment where both terminate without error (spec.md §3's
// optimizer invariant), with every subtree whose value does not
// depend on any variable replaced by a Constant.
func (o *Optimizer) Optimize(node ast.Operation) ast.Operation {
	switch n := node.(type) {
	case *ast.Constant:
		return n

	case *ast.Variable:
		return n

	case *ast.Unary:
		child := o.Optimize(n.Child)
		folded := &ast.Unary{Op: n.Op, Child: child}
		if isConstant(child) {
			return o.fold(folded)
		}
		return folded

	case *ast.Binary:
		left := o.Optimize(n.Left)
		right := o.Optimize(n.Right)
		folded := &ast.Binary{Op: n.Op, Left: left, Right: right}
		if isConstant(left) && isConstant(right) {
			return o.fold(folded)
		}
		return folded

	case *ast.Function:
		args := make([]ast.Operation, len(n.Args))
		allConst := true
		for i, a := range n.Args {
			args[i] = o.Optimize(a)
			if !isConstant(args[i]) {
				allConst = false
			}
		}
		folded := &ast.Function{Name: n.Name, Args: args, IsIdempotent: n.IsIdempotent}
		if allConst && n.IsIdempotent {
			return o.fold(folded)
		}
		return folded

	default:
		return node
	}
}

func isConstant(op ast.Operation) bool {
	_, ok := op.(*ast.Constant)
	return ok
}

// fold evaluates node (known to have only constant children, and in
// the Function case a known-idempotent callee) over an empty
// environment and replaces it with the resulting Constant. Evaluation
// over the current operator set cannot raise, so folding never fails
// and the original subtree is always safe to discard.
func (o *Optimizer) fold(node ast.Operation) ast.Operation {
	value, err := o.interp.Eval(node, nil)
	if err != nil {
		// Defensive: the current grammar cannot reach this path (no
		// variable references survive in a node whose children are all
		// Constant), but folding must never raise per spec.md §4.4, so
		// fall back to the unfolded subtree rather than propagate.
		return node
	}
	return &ast.Constant{Value: value}
}
