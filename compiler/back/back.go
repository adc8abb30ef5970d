package back

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sysy/compiler/ir"
	"github.com/slowlang/sysy/compiler/set"
)

type (
	Compiler struct{}

	// funContext is the state of emitting one function.
	// It is dropped when the function is done.
	funContext struct {
		*ir.Func

		regs *regAlloc
		defs set.Bitmap
	}
)

var (
	ErrUnsupported    = errors.New("unsupported")
	ErrUndefinedValue = errors.New("undefined value")
	ErrNoScratch      = errors.New("scratch required")
	ErrInvalidValue   = errors.New("invalid value")
)

const indent = "    "

func New() *Compiler { return &Compiler{} }

// CompileProgram appends RISC-V assembly for p to b.
// On error the returned text is nil.
func (c *Compiler) CompileProgram(ctx context.Context, b []byte, p *ir.Program) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: compile program", "funcs", len(p.Funcs))
	defer tr.Finish("err", &err)

	st := len(b)

	for _, f := range p.Funcs {
		b, err = c.compileFunc(ctx, b, f)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	if tr.If("dump_asm") {
		tr.Printw("asm", "text", string(b[st:]))
	}

	return b, nil
}

func (c *Compiler) compileFunc(ctx context.Context, b []byte, fn *ir.Func) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile func", "name", fn.Name)
	defer tr.Finish("err", &err)

	f := &funContext{
		Func: fn,
		regs: newRegAlloc(tr, Pool),
	}

	b = hfmt.Appendf(b, "%s.text\n%[1]s.globl %s\n%[2]s:\n", indent, fn.Name)

	for i, bl := range fn.Blocks {
		if i != 0 {
			b = hfmt.Appendf(b, "%s_%s:\n", fn.Name, bl.Label)
		}

		for j, x := range bl.Code {
			if tr.If("emit") {
				tr.Printw("instr", "block", bl.Label, "i", j, "ir", ir.AppendInstr(nil, x))
			}

			b, err = c.compileInstr(ctx, b, f, x)
			if err != nil {
				return nil, errors.Wrap(err, "block %v: instr %d: %s", bl.Label, j, ir.AppendInstr(nil, x))
			}
		}
	}

	tr.Printw("func compiled", "values", f.Values(), "regs_bound", f.regs.Len(), "regs", f.regs)

	if tr.If("regalloc") {
		tr.Printw("bindings", "regs", string(f.regs.AppendBindings(nil)))
	}

	return b, nil
}

func (c *Compiler) compileInstr(ctx context.Context, b []byte, f *funContext, x ir.Instr) (_ []byte, err error) {
	switch x := x.(type) {
	case ir.LoadImm:
		d, err := f.def(x.Dst)
		if err != nil {
			return nil, err
		}

		b = app(b, "li %v, %v", d, x.Val)

		f.defs.Set(int(x.Dst))
	case ir.BinOp:
		return c.compileBinOp(ctx, b, f, x)
	case ir.Ret:
		switch y := x.X.(type) {
		case ir.Imm:
			b = app(b, "li %v, %v", RetReg, y)
		case ir.Value:
			r, err := f.use(y)
			if err != nil {
				return nil, err
			}

			b = app(b, "mv %v, %v", RetReg, r)
		default:
			return nil, errors.Wrap(ErrUnsupported, "ret operand: %T", y)
		}

		b = app(b, "ret")
	default:
		return nil, errors.Wrap(ErrUnsupported, "instruction: %T", x)
	}

	return b, nil
}

func (c *Compiler) compileBinOp(ctx context.Context, b []byte, f *funContext, x ir.BinOp) (_ []byte, err error) {
	if !x.Op.Valid() {
		return nil, errors.Wrap(ErrUnsupported, "operator %v", x.Op)
	}

	switch {
	case x.Tmp != ir.NoScratch:
	case x.Op == ir.Le, x.Op == ir.Ge, x.Op == ir.And, x.Op == ir.Or:
		return nil, errors.Wrap(ErrNoScratch, "operator %v", x.Op)
	case nonZeroImm(x.L) && nonZeroImm(x.R):
		return nil, errors.Wrap(ErrNoScratch, "two immediates")
	}

	d, err := f.def(x.Dst)
	if err != nil {
		return nil, err
	}

	t, rin := NoReg, d

	if x.Tmp != ir.NoScratch {
		t, err = f.regs.Get(x.Tmp)
		if err != nil {
			return nil, err
		}

		rin = t
	}

	// left immediates are loaded into d, right ones into t if any
	b, l, err := f.operand(b, x.L, d)
	if err != nil {
		return nil, errors.Wrap(err, "lhs")
	}

	b, r, err := f.operand(b, x.R, rin)
	if err != nil {
		return nil, errors.Wrap(err, "rhs")
	}

	switch x.Op {
	case ir.Add:
		b = app(b, "add %v, %v, %v", d, l, r)
	case ir.Sub:
		b = app(b, "sub %v, %v, %v", d, l, r)
	case ir.Mul:
		b = app(b, "mul %v, %v, %v", d, l, r)
	case ir.Div:
		b = app(b, "div %v, %v, %v", d, l, r)
	case ir.Mod:
		b = app(b, "rem %v, %v, %v", d, l, r)
	case ir.Eq:
		b = app(b, "xor %v, %v, %v", d, l, r)
		b = app(b, "seqz %v, %v", d, d)
	case ir.Ne:
		b = app(b, "xor %v, %v, %v", d, l, r)
		b = app(b, "snez %v, %v", d, d)
	case ir.Lt:
		b = app(b, "sub %v, %v, %v", d, l, r)
		b = app(b, "sltz %v, %v", d, d)
	case ir.Gt:
		b = app(b, "slt %v, %v, %v", d, r, l)
	case ir.Le:
		// !(l > r): sign of r-l
		b = app(b, "sub %v, %v, %v", t, r, l)
		b = app(b, "srai %v, %v, 31", t, t)
		b = app(b, "snez %v, %v", t, t)
		b = app(b, "seqz %v, %v", d, t)
	case ir.Ge:
		// !(l < r): sign of l-r
		b = app(b, "sub %v, %v, %v", t, l, r)
		b = app(b, "srai %v, %v, 31", t, t)
		b = app(b, "snez %v, %v", t, t)
		b = app(b, "seqz %v, %v", d, t)
	case ir.And:
		b = app(b, "snez %v, %v", d, l)
		b = app(b, "snez %v, %v", t, r)
		b = app(b, "and %v, %v, %v", d, d, t)
	case ir.Or:
		b = app(b, "snez %v, %v", d, l)
		b = app(b, "snez %v, %v", t, r)
		b = app(b, "or %v, %v, %v", d, d, t)
	default:
		panic(x.Op)
	}

	f.defs.Set(int(x.Dst))

	return b, nil
}

// operand returns the register holding x.
// Non-zero immediates are loaded into into first.
func (f *funContext) operand(b []byte, x ir.Operand, into Reg) ([]byte, Reg, error) {
	switch x := x.(type) {
	case ir.Imm:
		if x == 0 {
			return b, Zero, nil
		}

		b = app(b, "li %v, %v", into, x)

		return b, into, nil
	case ir.Value:
		r, err := f.use(x)

		return b, r, err
	default:
		return b, NoReg, errors.Wrap(ErrUnsupported, "operand: %T", x)
	}
}

// def binds the register v is computed into.
func (f *funContext) def(v ir.Value) (Reg, error) {
	if v < 0 {
		return NoReg, errors.Wrap(ErrInvalidValue, "define %v", v)
	}

	return f.regs.Get(v)
}

func (f *funContext) use(v ir.Value) (Reg, error) {
	if !f.defs.IsSet(int(v)) {
		return NoReg, errors.Wrap(ErrUndefinedValue, "%v", v)
	}

	return f.regs.Get(v)
}

func nonZeroImm(x ir.Operand) bool {
	v, ok := x.(ir.Imm)

	return ok && v != 0
}

func app(b []byte, f string, args ...any) []byte {
	b = append(b, indent...)
	b = hfmt.Appendf(b, f, args...)
	b = append(b, '\n')

	return b
}
