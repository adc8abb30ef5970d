package back

import "strconv"

type Reg int

// RISC-V integer registers by number.
const (
	Zero Reg = iota
	RA
	SP
	GP
	TP
	T0
	T1
	T2
	S0
	S1
	A0
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	S2
	S3
	S4
	S5
	S6
	S7
	S8
	S9
	S10
	S11
	T3
	T4
	T5
	T6

	NoReg Reg = -1
)

var regNames = [...]string{
	"x0", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// Pool is the allocation order of scratch registers:
// temporaries first, then argument registers.
var Pool = []Reg{
	T0, T1, T2, T3, T4, T5, T6,
	A0, A1, A2, A3, A4, A5, A6, A7,
}

// RetReg is where a function leaves its result.
const RetReg = A0

func (r Reg) String() string {
	if r < 0 || int(r) >= len(regNames) {
		return "x?" + strconv.Itoa(int(r))
	}

	return regNames[r]
}
