// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package solver

import "sort"

// OpKind is a symbolic name for an SMT function symbol, e.g. BV_ADD,
// FP_SQRT. The zero value OpUndefined never appears in a real term.
type OpKind int

const (
	OpUndefined OpKind = iota

	// Core/Bool
	OpDistinct
	OpEqual
	OpIte
	OpNot
	OpAnd
	OpOr
	OpXor
	OpImplies

	// Quantifiers
	OpForall
	OpExists

	// Arithmetic (Int/Real, shared)
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIntDiv
	OpMod
	OpPow
	OpLt
	OpLeq
	OpGt
	OpGeq
	OpToReal
	OpToInt
	OpIsInt
	OpAbs

	// BV
	OpBVNot
	OpBVNeg
	OpBVAnd
	OpBVOr
	OpBVXor
	OpBVNand
	OpBVNor
	OpBVXnor
	OpBVAdd
	OpBVSub
	OpBVMul
	OpBVUdiv
	OpBVUrem
	OpBVSdiv
	OpBVSrem
	OpBVSmod
	OpBVShl
	OpBVLshr
	OpBVAshr
	OpBVUlt
	OpBVUle
	OpBVUgt
	OpBVUge
	OpBVSlt
	OpBVSle
	OpBVSgt
	OpBVSge
	OpBVConcat
	OpBVExtract
	OpBVZeroExtend
	OpBVSignExtend
	OpBVRotateLeft
	OpBVRotateRight
	OpBVRepeat
	OpBVComp

	// FP
	OpFPAbs
	OpFPNeg
	OpFPAdd
	OpFPSub
	OpFPMul
	OpFPDiv
	OpFPFma
	OpFPSqrt
	OpFPRem
	OpFPRoundToIntegral
	OpFPMin
	OpFPMax
	OpFPLeq
	OpFPLt
	OpFPGeq
	OpFPGt
	OpFPEq
	OpFPIsNormal
	OpFPIsSubnormal
	OpFPIsZero
	OpFPIsInf
	OpFPIsNaN
	OpFPIsNeg
	OpFPIsPos
	OpFPToFP
	OpFPToSBV
	OpFPToUBV
	OpFPToReal

	// Array
	OpArraySelect
	OpArrayStore

	// String/RegLan
	OpStrConcat
	OpStrLen
	OpStrLt
	OpStrLeq
	OpStrAt
	OpStrSubstr
	OpStrContains
	OpStrIndexOf
	OpStrReplace
	OpStrReplaceAll
	OpStrIsDigit
	OpStrToCode
	OpStrFromCode
	OpStrToInt
	OpStrFromInt
	OpStrInRe
	OpReAllChar
	OpReNone
	OpReAll
	OpReConcat
	OpReUnion
	OpReInter
	OpReStar
	OpRePlus
	OpReOpt
	OpReRange
	OpReComp
	OpReDiff
	OpStrToRe

	// Seq/Set/Bag
	OpSeqConcat
	OpSeqLen
	OpSeqUnit
	OpSeqEmpty
	OpSetUnion
	OpSetInter
	OpSetMember
	OpSetSubset
	OpBagUnion
	OpBagInter
	OpBagCount

	// Uninterpreted function application
	OpUFApply
)

// IndexConstraint validates an indexed operator's integer parameters
// against the sorts of its term arguments, e.g. BV_EXTRACT requires
// 0 <= lo <= hi < width.
type IndexConstraint func(args []Term, indices []uint32) bool

// OpKindInfo is a static tagged record describing one operator: arity
// (-1 means variadic, at least MinArity), number of indices, result/argument sort
// kinds, theory membership, and any index validity constraint. Matched
// at Action time rather than dispatched through a virtual hierarchy, per
// the original implementation's design notes.
type OpKindInfo struct {
	Kind       OpKind
	Name       string
	Arity      int // -1 = variadic (>= MinArity)
	MinArity   int
	NumIndices int
	Result     SortKind
	Args       []SortKind // argument i has kind Args[i] when i < len(Args), else Args[0]
	Theory     Theory
	IsLinear   bool // arithmetic ops that remain in the linear fragment
	Index      IndexConstraint
}

func extractConstraint(args []Term, idx []uint32) bool {
	if len(idx) != 2 || len(args) != 1 {
		return false
	}
	hi, lo := idx[0], idx[1]
	width := args[0].Sort().BVWidth()
	return lo <= hi && hi < width
}

func zeroSignExtendConstraint(args []Term, idx []uint32) bool {
	return len(idx) == 1 && len(args) == 1
}

func repeatConstraint(args []Term, idx []uint32) bool {
	return len(idx) == 1 && len(args) == 1 && idx[0] >= 1
}

func rotateConstraint(args []Term, idx []uint32) bool {
	return len(idx) == 1 && len(args) == 1
}

// opKindTable is the static registry. Order within a theory does not
// matter; smgr's Manager.PickOpKind chooses the theory first and then the
// kind within it specifically to avoid biasing toward theories that
// happen to have more operators (spec.md §4.2).
var opKindTable = buildOpKindTable()

func buildOpKindTable() map[OpKind]OpKindInfo {
	t := map[OpKind]OpKindInfo{}
	add := func(i OpKindInfo) { t[i.Kind] = i }

	add(OpKindInfo{Kind: OpNot, Name: "NOT", Arity: 1, Args: []SortKind{SortBool}, Result: SortBool, Theory: TheoryBool})
	add(OpKindInfo{Kind: OpAnd, Name: "AND", Arity: -1, MinArity: 2, Args: []SortKind{SortBool}, Result: SortBool, Theory: TheoryBool})
	add(OpKindInfo{Kind: OpOr, Name: "OR", Arity: -1, MinArity: 2, Args: []SortKind{SortBool}, Result: SortBool, Theory: TheoryBool})
	add(OpKindInfo{Kind: OpXor, Name: "XOR", Arity: 2, Args: []SortKind{SortBool, SortBool}, Result: SortBool, Theory: TheoryBool})
	add(OpKindInfo{Kind: OpImplies, Name: "IMPLIES", Arity: 2, Args: []SortKind{SortBool, SortBool}, Result: SortBool, Theory: TheoryBool})
	add(OpKindInfo{Kind: OpIte, Name: "ITE", Arity: 3, Args: []SortKind{SortBool, SortAny, SortAny}, Result: SortAny, Theory: TheoryBool})
	add(OpKindInfo{Kind: OpEqual, Name: "EQUAL", Arity: 2, Args: []SortKind{SortAny, SortAny}, Result: SortBool, Theory: TheoryBool})
	add(OpKindInfo{Kind: OpDistinct, Name: "DISTINCT", Arity: -1, MinArity: 2, Args: []SortKind{SortAny}, Result: SortBool, Theory: TheoryBool})

	add(OpKindInfo{Kind: OpForall, Name: "FORALL", Arity: -1, MinArity: 2, Args: []SortKind{SortAny}, Result: SortBool, Theory: TheoryQuant})
	add(OpKindInfo{Kind: OpExists, Name: "EXISTS", Arity: -1, MinArity: 2, Args: []SortKind{SortAny}, Result: SortBool, Theory: TheoryQuant})

	for _, sk := range []SortKind{SortInt, SortReal} {
		th := TheoryInt
		if sk == SortReal {
			th = TheoryReal
		}
		add(OpKindInfo{Kind: arithOp(sk, OpNeg), Name: "NEG", Arity: 1, Args: []SortKind{sk}, Result: sk, Theory: th, IsLinear: true})
		add(OpKindInfo{Kind: arithOp(sk, OpAdd), Name: "ADD", Arity: -1, MinArity: 2, Args: []SortKind{sk}, Result: sk, Theory: th, IsLinear: true})
		add(OpKindInfo{Kind: arithOp(sk, OpSub), Name: "SUB", Arity: -1, MinArity: 2, Args: []SortKind{sk}, Result: sk, Theory: th, IsLinear: true})
		add(OpKindInfo{Kind: arithOp(sk, OpMul), Name: "MUL", Arity: -1, MinArity: 2, Args: []SortKind{sk}, Result: sk, Theory: th, IsLinear: false})
		add(OpKindInfo{Kind: arithOp(sk, OpLt), Name: "LT", Arity: 2, Args: []SortKind{sk, sk}, Result: SortBool, Theory: th, IsLinear: true})
		add(OpKindInfo{Kind: arithOp(sk, OpLeq), Name: "LEQ", Arity: 2, Args: []SortKind{sk, sk}, Result: SortBool, Theory: th, IsLinear: true})
		add(OpKindInfo{Kind: arithOp(sk, OpGt), Name: "GT", Arity: 2, Args: []SortKind{sk, sk}, Result: SortBool, Theory: th, IsLinear: true})
		add(OpKindInfo{Kind: arithOp(sk, OpGeq), Name: "GEQ", Arity: 2, Args: []SortKind{sk, sk}, Result: SortBool, Theory: th, IsLinear: true})
		add(OpKindInfo{Kind: arithOp(sk, OpAbs), Name: "ABS", Arity: 1, Args: []SortKind{sk}, Result: sk, Theory: th, IsLinear: true})
	}
	add(OpKindInfo{Kind: OpDiv, Name: "DIV", Arity: 2, Args: []SortKind{SortReal, SortReal}, Result: SortReal, Theory: TheoryReal, IsLinear: false})
	add(OpKindInfo{Kind: OpIntDiv, Name: "INTDIV", Arity: 2, Args: []SortKind{SortInt, SortInt}, Result: SortInt, Theory: TheoryInt, IsLinear: false})
	add(OpKindInfo{Kind: OpMod, Name: "MOD", Arity: 2, Args: []SortKind{SortInt, SortInt}, Result: SortInt, Theory: TheoryInt, IsLinear: false})
	add(OpKindInfo{Kind: OpPow, Name: "POW", Arity: 2, Args: []SortKind{SortInt, SortInt}, Result: SortInt, Theory: TheoryInt, IsLinear: false})
	add(OpKindInfo{Kind: OpToReal, Name: "TO_REAL", Arity: 1, Args: []SortKind{SortInt}, Result: SortReal, Theory: TheoryReal, IsLinear: true})
	add(OpKindInfo{Kind: OpToInt, Name: "TO_INT", Arity: 1, Args: []SortKind{SortReal}, Result: SortInt, Theory: TheoryInt, IsLinear: true})
	add(OpKindInfo{Kind: OpIsInt, Name: "IS_INT", Arity: 1, Args: []SortKind{SortReal}, Result: SortBool, Theory: TheoryInt, IsLinear: true})

	bv := func(k OpKind, name string, arity int, result SortKind) OpKindInfo {
		return OpKindInfo{Kind: k, Name: name, Arity: arity, MinArity: arity, Args: []SortKind{SortBV}, Result: result, Theory: TheoryBV}
	}
	add(bv(OpBVNot, "BV_NOT", 1, SortBV))
	add(bv(OpBVNeg, "BV_NEG", 1, SortBV))
	add(bv(OpBVAnd, "BV_AND", 2, SortBV))
	add(bv(OpBVOr, "BV_OR", 2, SortBV))
	add(bv(OpBVXor, "BV_XOR", 2, SortBV))
	add(bv(OpBVNand, "BV_NAND", 2, SortBV))
	add(bv(OpBVNor, "BV_NOR", 2, SortBV))
	add(bv(OpBVXnor, "BV_XNOR", 2, SortBV))
	add(bv(OpBVAdd, "BV_ADD", 2, SortBV))
	add(bv(OpBVSub, "BV_SUB", 2, SortBV))
	add(bv(OpBVMul, "BV_MUL", 2, SortBV))
	add(bv(OpBVUdiv, "BV_UDIV", 2, SortBV))
	add(bv(OpBVUrem, "BV_UREM", 2, SortBV))
	add(bv(OpBVSdiv, "BV_SDIV", 2, SortBV))
	add(bv(OpBVSrem, "BV_SREM", 2, SortBV))
	add(bv(OpBVSmod, "BV_SMOD", 2, SortBV))
	add(bv(OpBVShl, "BV_SHL", 2, SortBV))
	add(bv(OpBVLshr, "BV_LSHR", 2, SortBV))
	add(bv(OpBVAshr, "BV_ASHR", 2, SortBV))
	add(bv(OpBVUlt, "BV_ULT", 2, SortBool))
	add(bv(OpBVUle, "BV_ULE", 2, SortBool))
	add(bv(OpBVUgt, "BV_UGT", 2, SortBool))
	add(bv(OpBVUge, "BV_UGE", 2, SortBool))
	add(bv(OpBVSlt, "BV_SLT", 2, SortBool))
	add(bv(OpBVSle, "BV_SLE", 2, SortBool))
	add(bv(OpBVSgt, "BV_SGT", 2, SortBool))
	add(bv(OpBVSge, "BV_SGE", 2, SortBool))
	add(bv(OpBVComp, "BV_COMP", 2, SortBV))
	add(OpKindInfo{Kind: OpBVConcat, Name: "BV_CONCAT", Arity: -1, MinArity: 2, Args: []SortKind{SortBV}, Result: SortBV, Theory: TheoryBV})
	add(OpKindInfo{Kind: OpBVExtract, Name: "BV_EXTRACT", Arity: 1, MinArity: 1, NumIndices: 2, Args: []SortKind{SortBV}, Result: SortBV, Theory: TheoryBV, Index: extractConstraint})
	add(OpKindInfo{Kind: OpBVZeroExtend, Name: "BV_ZERO_EXTEND", Arity: 1, NumIndices: 1, Args: []SortKind{SortBV}, Result: SortBV, Theory: TheoryBV, Index: zeroSignExtendConstraint})
	add(OpKindInfo{Kind: OpBVSignExtend, Name: "BV_SIGN_EXTEND", Arity: 1, NumIndices: 1, Args: []SortKind{SortBV}, Result: SortBV, Theory: TheoryBV, Index: zeroSignExtendConstraint})
	add(OpKindInfo{Kind: OpBVRotateLeft, Name: "BV_ROTATE_LEFT", Arity: 1, NumIndices: 1, Args: []SortKind{SortBV}, Result: SortBV, Theory: TheoryBV, Index: rotateConstraint})
	add(OpKindInfo{Kind: OpBVRotateRight, Name: "BV_ROTATE_RIGHT", Arity: 1, NumIndices: 1, Args: []SortKind{SortBV}, Result: SortBV, Theory: TheoryBV, Index: rotateConstraint})
	add(OpKindInfo{Kind: OpBVRepeat, Name: "BV_REPEAT", Arity: 1, NumIndices: 1, Args: []SortKind{SortBV}, Result: SortBV, Theory: TheoryBV, Index: repeatConstraint})

	fp := func(k OpKind, name string, arity int, result SortKind, withRM bool) OpKindInfo {
		args := make([]SortKind, 0, arity)
		if withRM {
			args = append(args, SortRM)
		}
		for i := 0; i < arity; i++ {
			args = append(args, SortFP)
		}
		return OpKindInfo{Kind: k, Name: name, Arity: len(args), MinArity: len(args), Args: args, Result: result, Theory: TheoryFP}
	}
	add(fp(OpFPAbs, "FP_ABS", 1, SortFP, false))
	add(fp(OpFPNeg, "FP_NEG", 1, SortFP, false))
	add(fp(OpFPAdd, "FP_ADD", 2, SortFP, true))
	add(fp(OpFPSub, "FP_SUB", 2, SortFP, true))
	add(fp(OpFPMul, "FP_MUL", 2, SortFP, true))
	add(fp(OpFPDiv, "FP_DIV", 2, SortFP, true))
	add(fp(OpFPFma, "FP_FMA", 3, SortFP, true))
	add(fp(OpFPSqrt, "FP_SQRT", 1, SortFP, true))
	add(fp(OpFPRem, "FP_REM", 2, SortFP, false))
	add(fp(OpFPRoundToIntegral, "FP_ROUND_TO_INTEGRAL", 1, SortFP, true))
	add(fp(OpFPMin, "FP_MIN", 2, SortFP, false))
	add(fp(OpFPMax, "FP_MAX", 2, SortFP, false))
	add(fp(OpFPLeq, "FP_LEQ", 2, SortBool, false))
	add(fp(OpFPLt, "FP_LT", 2, SortBool, false))
	add(fp(OpFPGeq, "FP_GEQ", 2, SortBool, false))
	add(fp(OpFPGt, "FP_GT", 2, SortBool, false))
	add(fp(OpFPEq, "FP_EQ", 2, SortBool, false))
	for k, name := range map[OpKind]string{
		OpFPIsNormal: "FP_IS_NORMAL", OpFPIsSubnormal: "FP_IS_SUBNORMAL",
		OpFPIsZero: "FP_IS_ZERO", OpFPIsInf: "FP_IS_INF", OpFPIsNaN: "FP_IS_NAN",
		OpFPIsNeg: "FP_IS_NEG", OpFPIsPos: "FP_IS_POS",
	} {
		add(OpKindInfo{Kind: k, Name: name, Arity: 1, Args: []SortKind{SortFP}, Result: SortBool, Theory: TheoryFP})
	}
	add(OpKindInfo{Kind: OpFPToReal, Name: "FP_TO_REAL", Arity: 1, Args: []SortKind{SortFP}, Result: SortReal, Theory: TheoryFP})
	add(OpKindInfo{Kind: OpFPToFP, Name: "FP_TO_FP", Arity: 2, NumIndices: 2, Args: []SortKind{SortRM, SortReal}, Result: SortFP, Theory: TheoryFP})
	add(OpKindInfo{Kind: OpFPToSBV, Name: "FP_TO_SBV", Arity: 2, NumIndices: 1, Args: []SortKind{SortRM, SortFP}, Result: SortBV, Theory: TheoryFP})
	add(OpKindInfo{Kind: OpFPToUBV, Name: "FP_TO_UBV", Arity: 2, NumIndices: 1, Args: []SortKind{SortRM, SortFP}, Result: SortBV, Theory: TheoryFP})

	add(OpKindInfo{Kind: OpArraySelect, Name: "ARRAY_SELECT", Arity: 2, Args: []SortKind{SortArray, SortAny}, Result: SortAny, Theory: TheoryArray})
	add(OpKindInfo{Kind: OpArrayStore, Name: "ARRAY_STORE", Arity: 3, Args: []SortKind{SortArray, SortAny, SortAny}, Result: SortArray, Theory: TheoryArray})

	str := func(k OpKind, name string, args []SortKind, result SortKind) OpKindInfo {
		return OpKindInfo{Kind: k, Name: name, Arity: len(args), MinArity: len(args), Args: args, Result: result, Theory: TheoryString}
	}
	add(OpKindInfo{Kind: OpStrConcat, Name: "STR_CONCAT", Arity: -1, MinArity: 2, Args: []SortKind{SortString}, Result: SortString, Theory: TheoryString})
	add(str(OpStrLen, "STR_LEN", []SortKind{SortString}, SortInt))
	add(str(OpStrLt, "STR_LT", []SortKind{SortString, SortString}, SortBool))
	add(str(OpStrLeq, "STR_LEQ", []SortKind{SortString, SortString}, SortBool))
	add(str(OpStrAt, "STR_AT", []SortKind{SortString, SortInt}, SortString))
	add(str(OpStrSubstr, "STR_SUBSTR", []SortKind{SortString, SortInt, SortInt}, SortString))
	add(str(OpStrContains, "STR_CONTAINS", []SortKind{SortString, SortString}, SortBool))
	add(str(OpStrIndexOf, "STR_INDEXOF", []SortKind{SortString, SortString, SortInt}, SortInt))
	add(str(OpStrReplace, "STR_REPLACE", []SortKind{SortString, SortString, SortString}, SortString))
	add(str(OpStrReplaceAll, "STR_REPLACE_ALL", []SortKind{SortString, SortString, SortString}, SortString))
	add(str(OpStrIsDigit, "STR_IS_DIGIT", []SortKind{SortString}, SortBool))
	add(str(OpStrToCode, "STR_TO_CODE", []SortKind{SortString}, SortInt))
	add(str(OpStrFromCode, "STR_FROM_CODE", []SortKind{SortInt}, SortString))
	add(str(OpStrToInt, "STR_TO_INT", []SortKind{SortString}, SortInt))
	add(str(OpStrFromInt, "STR_FROM_INT", []SortKind{SortInt}, SortString))
	add(str(OpStrInRe, "STR_IN_RE", []SortKind{SortString, SortRegLan}, SortBool))
	add(str(OpStrToRe, "STR_TO_RE", []SortKind{SortString}, SortRegLan))
	add(OpKindInfo{Kind: OpReAllChar, Name: "RE_ALLCHAR", Arity: 0, Args: nil, Result: SortRegLan, Theory: TheoryString})
	add(OpKindInfo{Kind: OpReNone, Name: "RE_NONE", Arity: 0, Args: nil, Result: SortRegLan, Theory: TheoryString})
	add(OpKindInfo{Kind: OpReAll, Name: "RE_ALL", Arity: 0, Args: nil, Result: SortRegLan, Theory: TheoryString})
	add(OpKindInfo{Kind: OpReConcat, Name: "RE_CONCAT", Arity: -1, MinArity: 2, Args: []SortKind{SortRegLan}, Result: SortRegLan, Theory: TheoryString})
	add(OpKindInfo{Kind: OpReUnion, Name: "RE_UNION", Arity: -1, MinArity: 2, Args: []SortKind{SortRegLan}, Result: SortRegLan, Theory: TheoryString})
	add(OpKindInfo{Kind: OpReInter, Name: "RE_INTER", Arity: -1, MinArity: 2, Args: []SortKind{SortRegLan}, Result: SortRegLan, Theory: TheoryString})
	add(str(OpReStar, "RE_STAR", []SortKind{SortRegLan}, SortRegLan))
	add(str(OpRePlus, "RE_PLUS", []SortKind{SortRegLan}, SortRegLan))
	add(str(OpReOpt, "RE_OPT", []SortKind{SortRegLan}, SortRegLan))
	add(str(OpReComp, "RE_COMP", []SortKind{SortRegLan}, SortRegLan))
	add(str(OpReDiff, "RE_DIFF", []SortKind{SortRegLan, SortRegLan}, SortRegLan))
	add(OpKindInfo{Kind: OpReRange, Name: "RE_RANGE", Arity: 2, Args: []SortKind{SortString, SortString}, Result: SortRegLan, Theory: TheoryString})

	add(OpKindInfo{Kind: OpSeqConcat, Name: "SEQ_CONCAT", Arity: -1, MinArity: 2, Args: []SortKind{SortSeq}, Result: SortSeq, Theory: TheorySeq})
	add(OpKindInfo{Kind: OpSeqLen, Name: "SEQ_LEN", Arity: 1, Args: []SortKind{SortSeq}, Result: SortInt, Theory: TheorySeq})
	add(OpKindInfo{Kind: OpSeqUnit, Name: "SEQ_UNIT", Arity: 1, Args: []SortKind{SortAny}, Result: SortSeq, Theory: TheorySeq})
	add(OpKindInfo{Kind: OpSeqEmpty, Name: "SEQ_EMPTY", Arity: 0, Result: SortSeq, Theory: TheorySeq})

	add(OpKindInfo{Kind: OpSetUnion, Name: "SET_UNION", Arity: 2, Args: []SortKind{SortSet, SortSet}, Result: SortSet, Theory: TheorySet})
	add(OpKindInfo{Kind: OpSetInter, Name: "SET_INTERSECT", Arity: 2, Args: []SortKind{SortSet, SortSet}, Result: SortSet, Theory: TheorySet})
	add(OpKindInfo{Kind: OpSetMember, Name: "SET_MEMBER", Arity: 2, Args: []SortKind{SortAny, SortSet}, Result: SortBool, Theory: TheorySet})
	add(OpKindInfo{Kind: OpSetSubset, Name: "SET_SUBSET", Arity: 2, Args: []SortKind{SortSet, SortSet}, Result: SortBool, Theory: TheorySet})

	add(OpKindInfo{Kind: OpBagUnion, Name: "BAG_UNION", Arity: 2, Args: []SortKind{SortBag, SortBag}, Result: SortBag, Theory: TheoryBag})
	add(OpKindInfo{Kind: OpBagInter, Name: "BAG_INTERSECT", Arity: 2, Args: []SortKind{SortBag, SortBag}, Result: SortBag, Theory: TheoryBag})
	add(OpKindInfo{Kind: OpBagCount, Name: "BAG_COUNT", Arity: 2, Args: []SortKind{SortAny, SortBag}, Result: SortInt, Theory: TheoryBag})

	add(OpKindInfo{Kind: OpUFApply, Name: "UF_APPLY", Arity: -1, MinArity: 1, Args: []SortKind{SortFun, SortAny}, Result: SortAny, Theory: TheoryUF})

	return t
}

func arithOp(sk SortKind, base OpKind) OpKind {
	// Int and Real share names but are distinct OpKinds so adapters can
	// reject one without rejecting the other; encode by offsetting the
	// Real kind by 1000, past every declared OpKind, when sk==SortReal.
	if sk == SortReal {
		return base + 1000
	}
	return base
}

// OpKindManager filters the static operator table by a solver's declared
// unsupported set and groups the remaining kinds by theory.
type OpKindManager struct {
	solv Solver
}

func NewOpKindManager(s Solver) *OpKindManager {
	return &OpKindManager{solv: s}
}

// Info looks up the static record for kind.
func Info(kind OpKind) (OpKindInfo, bool) {
	i, ok := opKindTable[kind]
	return i, ok
}

// AllKinds returns every statically registered operator kind, stable order.
func AllKinds() []OpKind {
	ks := make([]OpKind, 0, len(opKindTable))
	for k := range opKindTable {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

// SupportedKinds returns the kinds this manager's solver has not declared
// unsupported, grouped by theory.
func (m *OpKindManager) SupportedKinds() map[Theory][]OpKind {
	unsupported := m.solv.UnsupportedOpKinds()
	byTheory := map[Theory][]OpKind{}
	for k, info := range opKindTable {
		if _, bad := unsupported[k]; bad {
			continue
		}
		byTheory[info.Theory] = append(byTheory[info.Theory], k)
	}
	return byTheory
}
