package ir

import "fmt"

// Opcode enumerates IR instruction kinds. The selection mirrors spec §6;
// arithmetic/logic/move opcodes are grouped under the generic ALU/MOVE
// entries below rather than one enumerator per ISA mnemonic — the ISA
// instruction descriptor (see Instruction.Descr) carries the mnemonic and
// operand shape, matching how ssa.Instruction separates a small opcode
// enum from a richer per-instruction payload.
type Opcode byte

const (
	OpComment Opcode = iota
	OpDummy
	OpDead
	OpLiteral
	OpLabel
	OpConst
	OpByte
	OpWord
	OpWord1
	OpLong
	OpString
	OpReserve
	OpReserveH
	OpLabeledBlob
	OpFit
	OpOrg
	OpHubMode
	OpJump
	OpCall
	OpDjnz
	OpRet
	OpRepeat
	OpRepeatEnd
	OpFcache
	// OpMove and OpALU stand in for the ISA's move/arithmetic/logic
	// instructions; the concrete mnemonic lives in Descr.Mnemonic.
	OpMove
	OpALU
)

var opcodeNames = [...]string{
	OpComment:     "COMMENT",
	OpDummy:       "DUMMY",
	OpDead:        "DEAD",
	OpLiteral:     "LITERAL",
	OpLabel:       "LABEL",
	OpConst:       "CONST",
	OpByte:        "BYTE",
	OpWord:        "WORD",
	OpWord1:       "WORD1",
	OpLong:        "LONG",
	OpString:      "STRING",
	OpReserve:     "RESERVE",
	OpReserveH:    "RESERVEH",
	OpLabeledBlob: "LABELED_BLOB",
	OpFit:         "FIT",
	OpOrg:         "ORG",
	OpHubMode:     "HUBMODE",
	OpJump:        "JUMP",
	OpCall:        "CALL",
	OpDjnz:        "DJNZ",
	OpRet:         "RET",
	OpRepeat:      "REPEAT",
	OpRepeatEnd:   "REPEAT_END",
	OpFcache:      "FCACHE",
	OpMove:        "MOVE",
	OpALU:         "ALU",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) && opcodeNames[o] != "" {
		return opcodeNames[o]
	}
	panic(fmt.Sprintf("BUG: unknown ir.Opcode %d", o))
}

// IsBranch reports whether an opcode is a control-transfer instruction
// whose Aux back-pointer (if resolved) names a branch target.
func (o Opcode) IsBranch() bool {
	switch o {
	case OpJump, OpCall, OpDjnz, OpRet:
		return true
	default:
		return false
	}
}

// Predicate is the 4-bit condition every instruction carries (spec §6).
type Predicate byte

const (
	PredTrue Predicate = iota // unconditional
	PredEQ
	PredNE
	PredLT
	PredGE
	PredGT
	PredLE
	PredC
	PredNC
)

var predicateMnemonics = [...]string{
	PredTrue: "",
	PredEQ:   "if_e",
	PredNE:   "if_ne",
	PredLT:   "if_b",
	PredGE:   "if_ae",
	PredGT:   "if_a",
	PredLE:   "if_be",
	PredC:    "if_c",
	PredNC:   "if_nc",
}

// Mnemonic returns the textual predicate mnemonic, or "" for unconditional
// (spec §4.6 "Predicate formatting").
func (p Predicate) Mnemonic() string {
	if int(p) < len(predicateMnemonics) {
		return predicateMnemonics[p]
	}
	panic(fmt.Sprintf("BUG: unknown ir.Predicate %d", p))
}

// Invert returns the logical negation of a predicate, used when an
// inline-asm instruction with predicate 0 on the newer ISA synthesizes a
// following `return` (spec §4.5 point 3), and by branch-shortening passes
// that flip a conditional jump to skip around a longer sequence.
func (p Predicate) Invert() Predicate {
	switch p {
	case PredTrue:
		return PredTrue // unconditional has no meaningful inverse
	case PredEQ:
		return PredNE
	case PredNE:
		return PredEQ
	case PredLT:
		return PredGE
	case PredGE:
		return PredLT
	case PredGT:
		return PredLE
	case PredLE:
		return PredGT
	case PredC:
		return PredNC
	case PredNC:
		return PredC
	default:
		panic(fmt.Sprintf("BUG: unknown ir.Predicate %d", p))
	}
}

// FlagBits are the per-instruction flag-effect modifiers (spec §6).
type FlagBits uint16

const (
	FlagWC FlagBits = 1 << iota
	FlagWZ
	FlagWCZ
	FlagNR
	FlagWR
	FlagKeepInstr
	FlagLabelNoJump
)

func (f FlagBits) Has(bit FlagBits) bool { return f&bit != 0 }

// CodePlacement tags where a function's body is assembled (spec §4.3).
type CodePlacement byte

const (
	FastRegion CodePlacement = iota
	SharedRegion
)

func (c CodePlacement) String() string {
	if c == SharedRegion {
		return "SharedRegion"
	}
	return "FastRegion"
}
