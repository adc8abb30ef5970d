package ir

import (
	"fmt"
	"strconv"
)

type (
	// Value is a symbolic name for the result of exactly one instruction.
	Value int

	// Scratch is a second work value of a BinOp whose expansion
	// needs one. It never appears in IR text.
	Scratch int

	Imm int64

	Op int

	Operand interface {
		operand()
	}

	Instr interface {
		instr()
	}

	LoadImm struct {
		Dst Value
		Val Imm
	}

	BinOp struct {
		Op   Op
		Dst  Value
		L, R Operand

		Tmp Scratch
	}

	Ret struct {
		X Operand
	}

	Block struct {
		Label string
		Code  []Instr
	}

	Func struct {
		Name   string
		Blocks []*Block

		values    int
		scratches int
	}

	Program struct {
		Funcs []*Func
	}
)

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
	And
	Or

	numOps
)

const NoScratch Scratch = -1

var opNames = [numOps]string{
	Add: "add",
	Sub: "sub",
	Mul: "mul",
	Div: "div",
	Mod: "mod",
	Eq:  "eq",
	Ne:  "ne",
	Lt:  "lt",
	Gt:  "gt",
	Le:  "le",
	Ge:  "ge",
	And: "and",
	Or:  "or",
}

func (Imm) operand()   {}
func (Value) operand() {}

func (LoadImm) instr() {}
func (BinOp) instr()   {}
func (Ret) instr()     {}

func (p *Program) AddFunc(name string) *Func {
	f := &Func{Name: name}

	p.Funcs = append(p.Funcs, f)

	return f
}

func (f *Func) AddBlock(label string) *Block {
	b := &Block{Label: label}

	f.Blocks = append(f.Blocks, b)

	return b
}

func (f *Func) NewValue() Value {
	v := Value(f.values)
	f.values++

	return v
}

func (f *Func) NewScratch() Scratch {
	s := Scratch(f.scratches)
	f.scratches++

	return s
}

// Values is the number of values allocated in f so far.
func (f *Func) Values() int { return f.values }

// Scratches is the number of scratches allocated in f so far.
func (f *Func) Scratches() int { return f.scratches }

func (b *Block) Append(x Instr) {
	b.Code = append(b.Code, x)
}

func (op Op) Valid() bool {
	return op >= 0 && op < numOps
}

func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Op(%d)", int(op))
	}

	return opNames[op]
}

// Logical reports whether op yields a 0/1 value from 0/1 inputs only.
func (op Op) Logical() bool {
	return op == And || op == Or
}

func (v Value) String() string {
	return "%" + strconv.Itoa(int(v))
}

func (s Scratch) String() string {
	if s == NoScratch {
		return "-"
	}

	return "%tmp" + strconv.Itoa(int(s))
}

func (x Imm) String() string {
	return strconv.FormatInt(int64(x), 10)
}
