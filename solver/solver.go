// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package solver defines the capability contract every SMT back-end
// adapter implements. The fuzzing engine depends only on this contract,
// never on a concrete solver; cvc5, Bitwuzla, Boolector, Yices and the
// SMT-LIB2 pipe adapter are all external collaborators behind it.
package solver

import (
	"fmt"
	"strings"
)

// SortKind tags the shape of a Sort. SORT_ANY is a transient tag used only
// while a freshly-returned sort has not yet been classified by the
// adapter.
type SortKind int

const (
	SortAny SortKind = iota
	SortBool
	SortBV
	SortFP
	SortRM
	SortInt
	SortReal
	SortString
	SortRegLan
	SortArray
	SortFun
	SortSeq
	SortSet
	SortBag
	SortDatatype
	SortUninterpreted
)

func (k SortKind) String() string {
	switch k {
	case SortAny:
		return "Any"
	case SortBool:
		return "Bool"
	case SortBV:
		return "BV"
	case SortFP:
		return "FP"
	case SortRM:
		return "RM"
	case SortInt:
		return "Int"
	case SortReal:
		return "Real"
	case SortString:
		return "String"
	case SortRegLan:
		return "RegLan"
	case SortArray:
		return "Array"
	case SortFun:
		return "Fun"
	case SortSeq:
		return "Seq"
	case SortSet:
		return "Set"
	case SortBag:
		return "Bag"
	case SortDatatype:
		return "Datatype"
	case SortUninterpreted:
		return "Uninterpreted"
	default:
		return fmt.Sprintf("SortKind(%d)", int(k))
	}
}

// Theory is a background theory a solver may publish support for.
type Theory int

const (
	TheoryBool Theory = iota
	TheoryBV
	TheoryFP
	TheoryInt
	TheoryReal
	TheoryString
	TheoryArray
	TheoryUF // uninterpreted functions
	TheorySeq
	TheorySet
	TheoryBag
	TheoryDatatype
	TheoryQuant
)

func (t Theory) String() string {
	names := map[Theory]string{
		TheoryBool: "BOOL", TheoryBV: "BV", TheoryFP: "FP", TheoryInt: "INT",
		TheoryReal: "REAL", TheoryString: "STRING", TheoryArray: "ARRAY",
		TheoryUF: "UF", TheorySeq: "SEQ", TheorySet: "SET", TheoryBag: "BAG",
		TheoryDatatype: "DT", TheoryQuant: "QUANT",
	}
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Theory(%d)", int(t))
}

// AllTheories returns every statically known Theory, stable order, for
// the config package's "--<theory>/--no-<theory>" flag registration.
func AllTheories() []Theory {
	return []Theory{
		TheoryBool, TheoryBV, TheoryFP, TheoryInt, TheoryReal, TheoryString,
		TheoryArray, TheoryUF, TheorySeq, TheorySet, TheoryBag, TheoryDatatype,
		TheoryQuant,
	}
}

// AllTheoryFlagNames returns the lower-cased flag-name form of every
// Theory, e.g. "bv", "uf", matching the "--<theory>" flag spelling.
func AllTheoryFlagNames() []string {
	all := AllTheories()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = strings.ToLower(t.String())
	}
	return names
}

// SpecialValueKind names a canonical constant of a sort kind, e.g. BV-zero
// or FP-NaN, independent of any particular width/exponent/significand.
type SpecialValueKind int

const (
	SpecialBVZero SpecialValueKind = iota
	SpecialBVOne
	SpecialBVOnes
	SpecialBVMinSigned
	SpecialBVMaxSigned
	SpecialFPPosZero
	SpecialFPNegZero
	SpecialFPPosInf
	SpecialFPNegInf
	SpecialFPNaN
	SpecialRMRNE
	SpecialRMRNA
	SpecialRMRTN
	SpecialRMRTP
	SpecialRMRTZ
	SpecialRegLanNone
	SpecialRegLanAll
	SpecialRegLanAllChar
)

// SpecialValueCatalog maps each sort kind to the special value kinds a
// conforming adapter is expected to support. Adapters may extend this via
// Solver.ExtraSpecialValues.
var SpecialValueCatalog = map[SortKind][]SpecialValueKind{
	SortBV: {SpecialBVZero, SpecialBVOne, SpecialBVOnes, SpecialBVMinSigned, SpecialBVMaxSigned},
	SortFP: {SpecialFPPosZero, SpecialFPNegZero, SpecialFPPosInf, SpecialFPNegInf, SpecialFPNaN},
	SortRM: {SpecialRMRNE, SpecialRMRNA, SpecialRMRTN, SpecialRMRTP, SpecialRMRTZ},
	SortRegLan: {SpecialRegLanNone, SpecialRegLanAll, SpecialRegLanAllChar},
}

// Sort is an interned value handed back by a solver adapter. Two Sorts are
// equal iff the back-end reports their native objects equal; SortDB never
// compares Go pointer identity directly across adapters.
type Sort interface {
	// Kind reports this sort's tag. Never SortAny once classified.
	Kind() SortKind
	// Equal delegates to the adapter's native equality check.
	Equal(Sort) bool
	// Hash is a hint used to bucket candidates before falling back to
	// Equal; it need not be collision-free.
	Hash() uint64
	// BVWidth is valid only when Kind() == SortBV.
	BVWidth() uint32
	// FPExpSig is valid only when Kind() == SortFP: (exponent, significand).
	FPExpSig() (uint32, uint32)
	// Children returns the ordered child sorts of a composite sort
	// (Array: [index, element]; Fun: [domain..., codomain]; Seq/Set/Bag:
	// [element]). Empty for atomic sorts.
	Children() []Sort
	// String is a human-readable rendering for logs/traces, not used for
	// interning.
	String() string
}

// Term is an interned value handed back by a solver adapter.
type Term interface {
	Sort() Sort
	Equal(Term) bool
	Hash() uint64
	// IsValue reports whether this term is a concrete constant.
	IsValue() bool
	// OpKind reports the operator this term was built with, if the
	// adapter can report it. The zero value OpKind(0) (OpUndefined) means
	// "unknown", which untrace/replay never depends on.
	OpKind() OpKind
	// Indices returns the parameter vector for an indexed operator
	// (e.g. BV_EXTRACT's [hi, lo]); nil otherwise.
	Indices() []uint32
	String() string
}

// CheckSatResult is the verdict of a check-sat call.
type CheckSatResult int

const (
	ResultUnknown CheckSatResult = iota
	ResultSat
	ResultUnsat
)

func (r CheckSatResult) String() string {
	switch r {
	case ResultSat:
		return "sat"
	case ResultUnsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// UnsupportedRole names a structural role in which an adapter may reject
// a sort kind, as answered by Solver.IsUnsupported. The adapters
// implement IsUnsupported; the generation engine does not call it.
type UnsupportedRole int

const (
	RoleVar UnsupportedRole = iota
	RoleArrayIndex
	RoleArrayElement
	RoleFunDomain
	RoleFunCodomain
	RoleSeqElement
	RoleSetElement
	RoleBagElement
	RoleGetValue
)

// Solver is the full capability contract. Every method may return an error
// representing a genuine adapter/target failure (see OpError); a returned
// error from a call whose Action.Applicable() held is itself a finding,
// not an engine bug (spec.md §7).
type Solver interface {
	Name() string

	NewSolver() error
	DeleteSolver() error

	SupportedTheories() []Theory
	UnsupportedOpKinds() map[OpKind]struct{}
	IsUnsupported(role UnsupportedRole, kind SortKind) bool
	ExtraSpecialValues(kind SortKind) []SpecialValueKind

	MkSortBool() (Sort, error)
	MkSortBV(width uint32) (Sort, error)
	MkSortFP(exp, sig uint32) (Sort, error)
	MkSortRM() (Sort, error)
	MkSortInt() (Sort, error)
	MkSortReal() (Sort, error)
	MkSortString() (Sort, error)
	MkSortRegLan() (Sort, error)
	MkSortArray(index, elem Sort) (Sort, error)
	MkSortFun(domain []Sort, codomain Sort) (Sort, error)
	MkSortSeq(elem Sort) (Sort, error)
	MkSortSet(elem Sort) (Sort, error)
	MkSortBag(elem Sort) (Sort, error)
	MkSortDatatype(name string, ctorName string, fields []Sort) (Sort, error)
	MkSortUninterpreted(name string) (Sort, error)

	// LegalFPFormats reports the (exp, sig) pairs this adapter accepts,
	// if it restricts them; nil means "no restriction published".
	LegalFPFormats() [][2]uint32

	MkConst(sort Sort, symbol string) (Term, error)
	MkVar(sort Sort, symbol string) (Term, error)
	MkValue(sort Sort, literal string) (Term, error)
	MkSpecialValue(sort Sort, kind SpecialValueKind) (Term, error)
	MkTerm(kind OpKind, args []Term, indices []uint32) (Term, error)

	AssertFormula(t Term) error
	CheckSat() (CheckSatResult, error)
	CheckSatAssuming(assumptions []Term) (CheckSatResult, error)

	GetUnsatCore() ([]Term, error)
	GetUnsatAssumptions() ([]Term, error)
	GetValue(terms []Term) ([]Term, error)
	GetModel() (string, error)
	PrintModel() (string, error)

	Push(levels uint32) error
	Pop(levels uint32) error

	OptionName(std StandardOption) string
	SetOpt(name, value string) error

	Reset() error
	ResetAssertions() error
}

// StandardOption names the four toggles the engine reasons about
// explicitly (everything else is opaque name/value fuzzing).
type StandardOption int

const (
	OptIncremental StandardOption = iota
	OptModelGen
	OptUnsatAssumptions
	OptUnsatCores
)

// OpError wraps an error raised by a Solver call whose Action precondition
// held, marking it as a fuzzing finding rather than an engine bug.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return fmt.Sprintf("solver op %q failed: %v", e.Op, e.Err) }
func (e *OpError) Unwrap() error { return e.Err }
