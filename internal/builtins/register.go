package builtins

import (
	"math"

	"github.com/cwbudde/formulaengine/internal/registry"
)

// entry pairs a name with its fixed arity and implementation, mirroring
// the teacher's RegisterBatch tuple-list pattern in
// internal/interp/builtins/register.go.
type entry struct {
	name  string
	fn    registry.BuiltinFunc
	arity int
}

var defaultFunctions = []entry{
	{"sin", sin, 1},
	{"cos", cos, 1},
	{"tan", tan, 1},
	{"csc", csc, 1},
	{"sec", sec, 1},
	{"cot", cot, 1},
	{"asin", asin, 1},
	{"acos", acos, 1},
	{"atan", atan, 1},
	{"acot", acot, 1},
	{"loge", loge, 1},
	{"log10", log10, 1},
	{"logn", logn, 2},
	{"sqrt", sqrtFn, 1},
	{"abs", absFn, 1},
	{"max", maxFn, 2},
	{"min", minFn, 2},
	{"if", ifFn, 3},
	{"ifless", ifless, 4},
	{"ifmore", ifmore, 4},
	{"ifequal", ifequal, 4},
	{"ceiling", ceiling, 1},
	{"floor", floor, 1},
	{"truncate", truncate, 1},
}

var defaultConstants = []struct {
	name  string
	value float64
}{
	{"e", math.E},
	{"pi", math.Pi},
}

// RegisterDefaultFunctions populates fr with the default scientific
// library from spec.md §6.3. All entries are idempotent and
// non-overwritable.
func RegisterDefaultFunctions(fr *registry.FunctionRegistry) {
	for _, e := range defaultFunctions {
		_ = fr.Register(registry.FunctionInfo{
			Name:           e.name,
			Callable:       e.fn,
			Arity:          e.arity,
			IsIdempotent:   true,
			IsOverwritable: false,
		})
	}
}

// RegisterDefaultConstants populates cr with `e` and `pi`. Both are
// non-overwritable.
func RegisterDefaultConstants(cr *registry.ConstantRegistry) {
	for _, c := range defaultConstants {
		_ = cr.Register(registry.ConstantInfo{
			Name:           c.name,
			Value:          c.value,
			IsOverwritable: false,
		})
	}
}
