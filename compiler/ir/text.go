package ir

import (
	"github.com/nikandfor/hacked/hfmt"
)

const indent = "    "

func (p *Program) AppendText(b []byte) []byte {
	for _, f := range p.Funcs {
		b = f.AppendText(b)
	}

	return b
}

func (f *Func) AppendText(b []byte) []byte {
	b = hfmt.Appendf(b, "fun @%s(): i32 {\n", f.Name)

	for _, bl := range f.Blocks {
		b = bl.AppendText(b)
	}

	b = append(b, "}\n"...)

	return b
}

func (bl *Block) AppendText(b []byte) []byte {
	b = hfmt.Appendf(b, "%%%s:\n", bl.Label)

	for _, x := range bl.Code {
		b = append(b, indent...)
		b = AppendInstr(b, x)
		b = append(b, '\n')
	}

	return b
}

// AppendInstr appends x as a single line without indent or newline.
func AppendInstr(b []byte, x Instr) []byte {
	switch x := x.(type) {
	case LoadImm:
		return hfmt.Appendf(b, "%v = add 0, %v", x.Dst, x.Val)
	case BinOp:
		return hfmt.Appendf(b, "%v = %v %v, %v", x.Dst, x.Op, x.L, x.R)
	case Ret:
		return hfmt.Appendf(b, "ret %v", x.X)
	default:
		return hfmt.Appendf(b, "<%T>", x)
	}
}

func (p *Program) String() string {
	return string(p.AppendText(nil))
}
