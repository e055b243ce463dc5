// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package stub

import (
	"github.com/alex-ozdemir/murxla/solver"
)

// evalValue is the result of evaluating a term under a concrete assignment.
// Exactly one of the two payload fields is meaningful, selected by the
// sort's kind.
type evalValue struct {
	isBool bool
	b      bool
	bv     uint64
}

func (v evalValue) toTerm(sort solver.Sort) solver.Term {
	if v.isBool {
		s := "false"
		if v.b {
			s = "true"
		}
		return &termImpl{sort: sort, kind: solver.OpUndefined, isValue: true, symbol: s, boolVal: v.b}
	}
	return &termImpl{sort: sort, kind: solver.OpUndefined, isValue: true, bvVal: v.bv}
}

// searchCap bounds the brute-force assignment search; beyond it CheckSat
// reports unknown rather than looping forever on a wide formula.
const searchCap = 1 << 20

// evaluate brute-forces satisfiability of the conjunction of terms by
// enumerating assignments to every free Bool/BV constant appearing in them.
func (s *Solver) evaluate(terms []solver.Term) (solver.CheckSatResult, map[string]uint64, map[string]bool, bool) {
	consts := map[string]solver.Sort{}
	for _, t := range terms {
		if !collectConsts(t, consts) {
			return solver.ResultUnknown, nil, nil, false
		}
	}
	names := make([]string, 0, len(consts))
	for n := range consts {
		names = append(names, n)
	}
	sortNames(names)

	total := uint64(1)
	widths := make([]uint32, len(names))
	for i, n := range names {
		sort := consts[n]
		w := uint32(1)
		if sort.Kind() == solver.SortBV {
			w = sort.BVWidth()
		}
		widths[i] = w
		if w >= 63 || total > searchCap>>w {
			return solver.ResultUnknown, nil, nil, false
		}
		total *= uint64(1) << w
	}
	if total > searchCap {
		return solver.ResultUnknown, nil, nil, false
	}

	for assignment := uint64(0); assignment < total; assignment++ {
		model := map[string]uint64{}
		modelBool := map[string]bool{}
		rest := assignment
		for i, n := range names {
			w := widths[i]
			mask := (uint64(1) << w) - 1
			v := rest & mask
			rest >>= w
			if consts[n].Kind() == solver.SortBool {
				modelBool[n] = v != 0
			} else {
				model[n] = v
			}
		}
		ok := true
		for _, t := range terms {
			v, valid := s.evalTerm(t, model, modelBool)
			if !valid || !v.isBool || !v.b {
				ok = false
				break
			}
		}
		if ok {
			return solver.ResultSat, model, modelBool, true
		}
	}
	return solver.ResultUnsat, nil, nil, true
}

func sortNames(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
}

// collectConsts walks t recording every free Bool/BV constant; it returns
// false if t mentions a sort or operator outside what this adapter can
// evaluate, signalling the caller to fall back to unknown.
func collectConsts(t solver.Term, out map[string]solver.Sort) bool {
	ti, ok := t.(*termImpl)
	if !ok {
		return false
	}
	if ti.kind == solver.OpUndefined && !ti.isValue {
		switch ti.sort.Kind() {
		case solver.SortBool, solver.SortBV:
			out[ti.symbol] = ti.sort
			return true
		default:
			return false
		}
	}
	if ti.isValue {
		return true
	}
	switch ti.sort.Kind() {
	case solver.SortBool, solver.SortBV:
	default:
		return false
	}
	for _, a := range ti.args {
		if !collectConsts(a, out) {
			return false
		}
	}
	return true
}

// evalTerm recursively evaluates t under the given assignment. The buggy
// adapter diverges only on OpBVAnd, which it evaluates as bitwise OR.
func (s *Solver) evalTerm(t solver.Term, model map[string]uint64, modelBool map[string]bool) (evalValue, bool) {
	ti, ok := t.(*termImpl)
	if !ok {
		return evalValue{}, false
	}
	if ti.isValue {
		if ti.sort.Kind() == solver.SortBool {
			return evalValue{isBool: true, b: ti.boolVal}, true
		}
		return evalValue{bv: ti.bvVal}, true
	}
	if ti.kind == solver.OpUndefined {
		if ti.sort.Kind() == solver.SortBool {
			v, ok := modelBool[ti.symbol]
			return evalValue{isBool: true, b: v}, ok
		}
		v, ok := model[ti.symbol]
		return evalValue{bv: v}, ok
	}

	args := make([]evalValue, len(ti.args))
	for i, a := range ti.args {
		v, ok := s.evalTerm(a, model, modelBool)
		if !ok {
			return evalValue{}, false
		}
		args[i] = v
	}
	width := ti.sort.BVWidth()
	if width == 0 && len(ti.args) > 0 {
		width = ti.args[0].Sort().BVWidth()
	}
	mask := func(v uint64) uint64 { return maskWidth(v, width) }

	switch ti.kind {
	case solver.OpNot:
		return evalValue{isBool: true, b: !args[0].b}, true
	case solver.OpAnd:
		v := true
		for _, a := range args {
			v = v && a.b
		}
		return evalValue{isBool: true, b: v}, true
	case solver.OpOr:
		v := false
		for _, a := range args {
			v = v || a.b
		}
		return evalValue{isBool: true, b: v}, true
	case solver.OpXor:
		return evalValue{isBool: true, b: args[0].b != args[1].b}, true
	case solver.OpImplies:
		return evalValue{isBool: true, b: !args[0].b || args[1].b}, true
	case solver.OpIte:
		if args[0].b {
			return args[1], true
		}
		return args[2], true
	case solver.OpEqual:
		return evalValue{isBool: true, b: equalValues(args[0], args[1])}, true
	case solver.OpDistinct:
		for i := 0; i < len(args); i++ {
			for j := i + 1; j < len(args); j++ {
				if equalValues(args[i], args[j]) {
					return evalValue{isBool: true, b: false}, true
				}
			}
		}
		return evalValue{isBool: true, b: true}, true

	case solver.OpBVNot:
		return evalValue{bv: mask(^args[0].bv)}, true
	case solver.OpBVNeg:
		return evalValue{bv: mask(-args[0].bv)}, true
	case solver.OpBVAnd:
		if s.buggy {
			return evalValue{bv: mask(args[0].bv | args[1].bv)}, true
		}
		return evalValue{bv: mask(args[0].bv & args[1].bv)}, true
	case solver.OpBVOr:
		return evalValue{bv: mask(args[0].bv | args[1].bv)}, true
	case solver.OpBVXor:
		return evalValue{bv: mask(args[0].bv ^ args[1].bv)}, true
	case solver.OpBVNand:
		return evalValue{bv: mask(^(args[0].bv & args[1].bv))}, true
	case solver.OpBVNor:
		return evalValue{bv: mask(^(args[0].bv | args[1].bv))}, true
	case solver.OpBVXnor:
		return evalValue{bv: mask(^(args[0].bv ^ args[1].bv))}, true
	case solver.OpBVAdd:
		return evalValue{bv: mask(args[0].bv + args[1].bv)}, true
	case solver.OpBVSub:
		return evalValue{bv: mask(args[0].bv - args[1].bv)}, true
	case solver.OpBVMul:
		return evalValue{bv: mask(args[0].bv * args[1].bv)}, true
	case solver.OpBVUdiv:
		if args[1].bv == 0 {
			return evalValue{bv: mask(^uint64(0))}, true
		}
		return evalValue{bv: mask(args[0].bv / args[1].bv)}, true
	case solver.OpBVUrem:
		if args[1].bv == 0 {
			return evalValue{bv: mask(args[0].bv)}, true
		}
		return evalValue{bv: mask(args[0].bv % args[1].bv)}, true
	case solver.OpBVSdiv, solver.OpBVSrem, solver.OpBVSmod:
		return evalSigned(ti.kind, args[0].bv, args[1].bv, width), true
	case solver.OpBVShl:
		return evalValue{bv: mask(args[0].bv << uint(args[1].bv))}, true
	case solver.OpBVLshr:
		return evalValue{bv: mask(args[0].bv >> uint(args[1].bv))}, true
	case solver.OpBVAshr:
		signBit := uint64(1) << (width - 1)
		if args[0].bv&signBit == 0 {
			return evalValue{bv: mask(args[0].bv >> uint(args[1].bv))}, true
		}
		shifted := args[0].bv >> uint(args[1].bv)
		fill := mask(^uint64(0)) << (uint64(width) - args[1].bv)
		return evalValue{bv: mask(shifted | fill)}, true
	case solver.OpBVUlt:
		return evalValue{isBool: true, b: args[0].bv < args[1].bv}, true
	case solver.OpBVUle:
		return evalValue{isBool: true, b: args[0].bv <= args[1].bv}, true
	case solver.OpBVUgt:
		return evalValue{isBool: true, b: args[0].bv > args[1].bv}, true
	case solver.OpBVUge:
		return evalValue{isBool: true, b: args[0].bv >= args[1].bv}, true
	case solver.OpBVSlt, solver.OpBVSle, solver.OpBVSgt, solver.OpBVSge:
		return evalSignedCmp(ti.kind, args[0].bv, args[1].bv, width), true
	case solver.OpBVComp:
		if args[0].bv == args[1].bv {
			return evalValue{bv: 1}, true
		}
		return evalValue{bv: 0}, true
	case solver.OpBVConcat:
		var v uint64
		var w uint32
		for _, a := range ti.args {
			w += a.Sort().BVWidth()
		}
		for i, a := range args {
			aw := ti.args[i].Sort().BVWidth()
			v = (v << aw) | maskWidth(a.bv, aw)
		}
		return evalValue{bv: maskWidth(v, w)}, true
	case solver.OpBVExtract:
		hi, lo := ti.indices[0], ti.indices[1]
		return evalValue{bv: maskWidth(args[0].bv>>lo, hi-lo+1)}, true
	case solver.OpBVZeroExtend:
		return evalValue{bv: args[0].bv}, true
	case solver.OpBVSignExtend:
		srcWidth := ti.args[0].Sort().BVWidth()
		signBit := uint64(1) << (srcWidth - 1)
		if args[0].bv&signBit == 0 {
			return evalValue{bv: args[0].bv}, true
		}
		extBits := mask(^uint64(0)) &^ ((uint64(1) << srcWidth) - 1)
		return evalValue{bv: mask(args[0].bv | extBits)}, true
	case solver.OpBVRepeat:
		srcWidth := ti.args[0].Sort().BVWidth()
		var v uint64
		for i := uint32(0); i < ti.indices[0]; i++ {
			v = (v << srcWidth) | args[0].bv
		}
		return evalValue{bv: mask(v)}, true
	case solver.OpBVRotateLeft:
		srcWidth := ti.args[0].Sort().BVWidth()
		n := ti.indices[0] % srcWidth
		return evalValue{bv: mask((args[0].bv << n) | (args[0].bv >> (srcWidth - n)))}, true
	case solver.OpBVRotateRight:
		srcWidth := ti.args[0].Sort().BVWidth()
		n := ti.indices[0] % srcWidth
		return evalValue{bv: mask((args[0].bv >> n) | (args[0].bv << (srcWidth - n)))}, true
	default:
		return evalValue{}, false
	}
}

func equalValues(a, b evalValue) bool {
	if a.isBool != b.isBool {
		return false
	}
	if a.isBool {
		return a.b == b.b
	}
	return a.bv == b.bv
}

func signExtendTo64(v uint64, width uint32) int64 {
	signBit := uint64(1) << (width - 1)
	if v&signBit == 0 {
		return int64(v)
	}
	return int64(v) - int64(uint64(1)<<width)
}

func evalSigned(kind solver.OpKind, a, b uint64, width uint32) evalValue {
	sa, sb := signExtendTo64(a, width), signExtendTo64(b, width)
	if sb == 0 {
		switch kind {
		case solver.OpBVSdiv:
			if sa < 0 {
				return evalValue{bv: maskWidth(1, width)}
			}
			return evalValue{bv: maskWidth(^uint64(0), width)}
		default:
			return evalValue{bv: maskWidth(a, width)}
		}
	}
	switch kind {
	case solver.OpBVSdiv:
		return evalValue{bv: maskWidth(uint64(sa/sb), width)}
	case solver.OpBVSrem:
		return evalValue{bv: maskWidth(uint64(sa%sb), width)}
	case solver.OpBVSmod:
		m := sa % sb
		if m != 0 && (m < 0) != (sb < 0) {
			m += sb
		}
		return evalValue{bv: maskWidth(uint64(m), width)}
	default:
		return evalValue{}
	}
}

func evalSignedCmp(kind solver.OpKind, a, b uint64, width uint32) evalValue {
	sa, sb := signExtendTo64(a, width), signExtendTo64(b, width)
	var r bool
	switch kind {
	case solver.OpBVSlt:
		r = sa < sb
	case solver.OpBVSle:
		r = sa <= sb
	case solver.OpBVSgt:
		r = sa > sb
	case solver.OpBVSge:
		r = sa >= sb
	}
	return evalValue{isBool: true, b: r}
}
