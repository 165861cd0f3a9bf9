// Package builtins supplies the formula engine's default function and
// constant library (spec.md §6.3), grounded on the teacher's
// internal/interp/builtins math functions (Abs, Min, Max, trig
// family): same per-function doc-comment density, same one-function-
// per-operation shape, but over a single closed numeric domain
// (float64) rather than the teacher's Integer/Float value union,
// since every Operation node in this engine is statically
// FloatingPoint (spec.md §3).
package builtins

import "math"

func sin(args []float64) float64 { return math.Sin(args[0]) }
func cos(args []float64) float64 { return math.Cos(args[0]) }
func tan(args []float64) float64 { return math.Tan(args[0]) }

// csc, sec, cot are the reciprocal trig functions DWScript-family
// scripting engines expose alongside the core six; absent from Go's
// math package, they are one-line compositions of it.
func csc(args []float64) float64 { return 1 / math.Sin(args[0]) }
func sec(args []float64) float64 { return 1 / math.Cos(args[0]) }
func cot(args []float64) float64 { return 1 / math.Tan(args[0]) }

func asin(args []float64) float64 { return math.Asin(args[0]) }
func acos(args []float64) float64 { return math.Acos(args[0]) }
func atan(args []float64) float64 { return math.Atan(args[0]) }
func acot(args []float64) float64 { return math.Atan(1 / args[0]) }

func loge(args []float64) float64  { return math.Log(args[0]) }
func log10(args []float64) float64 { return math.Log10(args[0]) }
func logn(args []float64) float64  { return math.Log(args[0]) / math.Log(args[1]) }

func sqrtFn(args []float64) float64 { return math.Sqrt(args[0]) }
func absFn(args []float64) float64  { return math.Abs(args[0]) }

func maxFn(args []float64) float64 { return math.Max(args[0], args[1]) }
func minFn(args []float64) float64 { return math.Min(args[0], args[1]) }

func ceiling(args []float64) float64 { return math.Ceil(args[0]) }
func floor(args []float64) float64   { return math.Floor(args[0]) }
func truncate(args []float64) float64 {
	return math.Trunc(args[0])
}

// ifFn is the `if(a,b,c) = a≠0?b:c` intrinsic.
func ifFn(args []float64) float64 {
	if args[0] != 0 {
		return args[1]
	}
	return args[2]
}

func ifless(args []float64) float64 {
	if args[0] < args[1] {
		return args[2]
	}
	return args[3]
}

func ifmore(args []float64) float64 {
	if args[0] > args[1] {
		return args[2]
	}
	return args[3]
}

func ifequal(args []float64) float64 {
	if args[0] == args[1] {
		return args[2]
	}
	return args[3]
}
