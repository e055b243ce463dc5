// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package smt2

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alex-ozdemir/murxla/solver"
)

// opSymbols maps the op kinds this adapter knows how to print to their
// SMT-LIB2 function symbol. A kind absent here and from indexedOpSymbols,
// other than UF_APPLY (which MkTerm prints as a plain application), is
// reported via UnsupportedOpKinds so the generation engine never synthesizes it
// against this adapter (spec.md §3 "unsupported op kinds").
var opSymbols = map[solver.OpKind]string{
	solver.OpNot:      "not",
	solver.OpAnd:      "and",
	solver.OpOr:       "or",
	solver.OpXor:      "xor",
	solver.OpImplies:  "=>",
	solver.OpIte:      "ite",
	solver.OpEqual:    "=",
	solver.OpDistinct: "distinct",

	solver.OpNeg: "-",
	solver.OpAdd: "+",
	solver.OpSub: "-",
	solver.OpMul: "*",
	solver.OpDiv: "/",
	solver.OpLt:  "<",
	solver.OpLeq: "<=",
	solver.OpGt:  ">",
	solver.OpGeq: ">=",

	solver.OpIntDiv: "div",
	solver.OpMod:    "mod",
	solver.OpAbs:    "abs",
	solver.OpToReal: "to_real",
	solver.OpToInt:  "to_int",
	solver.OpIsInt:  "is_int",

	solver.OpBVNot:    "bvnot",
	solver.OpBVNeg:    "bvneg",
	solver.OpBVAnd:    "bvand",
	solver.OpBVOr:     "bvor",
	solver.OpBVXor:    "bvxor",
	solver.OpBVNand:   "bvnand",
	solver.OpBVNor:    "bvnor",
	solver.OpBVXnor:   "bvxnor",
	solver.OpBVAdd:    "bvadd",
	solver.OpBVSub:    "bvsub",
	solver.OpBVMul:    "bvmul",
	solver.OpBVUdiv:   "bvudiv",
	solver.OpBVUrem:   "bvurem",
	solver.OpBVSdiv:   "bvsdiv",
	solver.OpBVSrem:   "bvsrem",
	solver.OpBVSmod:   "bvsmod",
	solver.OpBVShl:    "bvshl",
	solver.OpBVLshr:   "bvlshr",
	solver.OpBVAshr:   "bvashr",
	solver.OpBVUlt:    "bvult",
	solver.OpBVUle:    "bvule",
	solver.OpBVUgt:    "bvugt",
	solver.OpBVUge:    "bvuge",
	solver.OpBVSlt:    "bvslt",
	solver.OpBVSle:    "bvsle",
	solver.OpBVSgt:    "bvsgt",
	solver.OpBVSge:    "bvsge",
	solver.OpBVConcat: "concat",
	solver.OpBVComp:   "bvcomp",

	solver.OpArraySelect: "select",
	solver.OpArrayStore:  "store",
}

// indexedOpSymbols maps the indexed op kinds this adapter prints, to the
// `(_ <symbol> idx...)` head.
var indexedOpSymbols = map[solver.OpKind]string{
	solver.OpBVExtract:     "extract",
	solver.OpBVZeroExtend:  "zero_extend",
	solver.OpBVSignExtend:  "sign_extend",
	solver.OpBVRotateLeft:  "rotate_left",
	solver.OpBVRotateRight: "rotate_right",
	solver.OpBVRepeat:      "repeat",
}

func unsupportedOpKinds() map[solver.OpKind]struct{} {
	out := map[solver.OpKind]struct{}{}
	for _, k := range solver.AllKinds() {
		if _, ok := opSymbols[k]; ok {
			continue
		}
		if _, ok := indexedOpSymbols[k]; ok {
			continue
		}
		if k == solver.OpUFApply {
			continue
		}
		out[k] = struct{}{}
	}
	return out
}

// formatSort renders s as SMT-LIB2 sort syntax.
func formatSort(s *sortImpl) string { return s.text }

func bvSortText(width uint32) string {
	return fmt.Sprintf("(_ BitVec %d)", width)
}

func fpSortText(exp, sig uint32) string {
	return fmt.Sprintf("(_ FloatingPoint %d %d)", exp, sig)
}

func arraySortText(index, elem *sortImpl) string {
	return fmt.Sprintf("(Array %s %s)", index.text, elem.text)
}

func funDomainTexts(domain []*sortImpl) []string {
	toks := make([]string, len(domain))
	for i, d := range domain {
		toks[i] = d.text
	}
	return toks
}

// formatApply renders `(<symbol> arg1 arg2 ...)`, collapsing to the bare
// symbol for a zero-arity op (e.g. `re.allchar`).
func formatApply(symbol string, args []string) string {
	if len(args) == 0 {
		return symbol
	}
	return "(" + symbol + " " + strings.Join(args, " ") + ")"
}

// formatIndexedApply renders `((_ <symbol> i1 i2 ...) arg1 arg2 ...)`.
func formatIndexedApply(symbol string, indices []uint32, args []string) string {
	idxToks := make([]string, len(indices))
	for i, idx := range indices {
		idxToks[i] = strconv.FormatUint(uint64(idx), 10)
	}
	head := "(_ " + symbol + " " + strings.Join(idxToks, " ") + ")"
	return "(" + head + " " + strings.Join(args, " ") + ")"
}

// quoteSymbol pipe-quotes a symbol if it isn't a bare SMT-LIB2 simple
// symbol (spec.md's generated symbols may contain spaces or punctuation
// when `-y` is off).
func quoteSymbol(sym string) string {
	simple := true
	for i, r := range sym {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r == '_', r == '-', r == '.', r == '\'', r == '*', r == '!':
		case r >= '0' && r <= '9':
			if i == 0 {
				simple = false
			}
		default:
			simple = false
		}
		if !simple {
			break
		}
	}
	if simple && sym != "" {
		return sym
	}
	return "|" + strings.ReplaceAll(sym, "|", "") + "|"
}

func formatLiteral(kind solver.SortKind, width uint32, literal string) (string, error) {
	switch kind {
	case solver.SortBool:
		return literal, nil
	case solver.SortInt:
		return literal, nil
	case solver.SortReal:
		if strings.Contains(literal, "/") {
			parts := strings.SplitN(literal, "/", 2)
			return fmt.Sprintf("(/ %s.0 %s.0)", parts[0], parts[1]), nil
		}
		return literal + ".0", nil
	case solver.SortBV:
		v, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(_ bv%d %d)", v, width), nil
	case solver.SortString:
		return "\"" + strings.ReplaceAll(literal, "\"", "\"\"") + "\"", nil
	}
	return "", fmt.Errorf("smt2: no literal syntax for sort kind %v", kind)
}
