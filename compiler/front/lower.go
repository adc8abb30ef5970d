package front

import (
	"context"

	"github.com/slowlang/sysy/compiler/ast"
	"github.com/slowlang/sysy/compiler/ir"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	Front struct{}

	// funContext is the state of lowering one function.
	funContext struct {
		*ir.Func

		b *ir.Block
	}
)

var ErrUnsupported = errors.New("unsupported")

var binOps = map[string]ir.Op{
	"+":  ir.Add,
	"-":  ir.Sub,
	"*":  ir.Mul,
	"/":  ir.Div,
	"%":  ir.Mod,
	"==": ir.Eq,
	"!=": ir.Ne,
	"<":  ir.Lt,
	">":  ir.Gt,
	"<=": ir.Le,
	">=": ir.Ge,
	"&&": ir.And,
	"||": ir.Or,
}

// IR mnemonics are accepted as binary operators too.
func init() {
	for op := ir.Add; op.Valid(); op++ {
		binOps[op.String()] = op
	}
}

func New() *Front { return &Front{} }

func (c *Front) Lower(ctx context.Context, u *ast.CompUnit) (p *ir.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: lower")
	defer tr.Finish("err", &err)

	if u == nil || u.Func == nil {
		return nil, errors.Wrap(ErrUnsupported, "empty compilation unit")
	}

	p = &ir.Program{}

	err = c.lowerFunc(ctx, p, u.Func)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", u.Func.Name)
	}

	err = ir.Verify(p)
	if err != nil {
		return nil, errors.Wrap(err, "verify")
	}

	if tr.If("dump_ir") {
		tr.Printw("ir", "text", p.String())
	}

	return p, nil
}

func (c *Front) lowerFunc(ctx context.Context, p *ir.Program, d *ast.FuncDef) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower func", "name", d.Name)
	defer tr.Finish("err", &err)

	if d.Type.Ret != "int" {
		return errors.Wrap(ErrUnsupported, "return type %q", d.Type.Ret)
	}

	f := p.AddFunc(d.Name)

	fc := &funContext{
		Func: f,
		b:    f.AddBlock("entry"),
	}

	if d.Body == nil {
		return nil
	}

	for i, s := range d.Body.Stmts {
		err = c.lowerStmt(ctx, fc, s)
		if err != nil {
			return errors.Wrap(err, "stmt %d", i)
		}
	}

	tr.Printw("func lowered", "values", f.Values(), "scratches", f.Scratches(), "instrs", len(fc.b.Code))

	return nil
}

func (c *Front) lowerStmt(ctx context.Context, fc *funContext, s ast.Stmt) error {
	switch s := s.(type) {
	case ast.Return:
		x, err := c.lowerExpr(ctx, fc, s.X)
		if err != nil {
			return errors.Wrap(err, "return")
		}

		fc.b.Append(ir.Ret{X: x})
	default:
		return errors.Wrap(ErrUnsupported, "stmt: %T", s)
	}

	return nil
}

func (c *Front) lowerExpr(ctx context.Context, fc *funContext, e ast.Expr) (ir.Operand, error) {
	switch e := e.(type) {
	case ast.Number:
		return ir.Imm(e.Value), nil
	case ast.Unary:
		x, err := c.lowerExpr(ctx, fc, e.X)
		if err != nil {
			return nil, errors.Wrap(err, "unary %s", e.Op)
		}

		switch e.Op {
		case "+":
			return x, nil
		case "-":
			return fc.emit(ir.Sub, ir.Imm(0), x), nil
		case "!":
			return fc.emit(ir.Eq, x, ir.Imm(0)), nil
		default:
			return nil, errors.Wrap(ErrUnsupported, "unary op %q", e.Op)
		}
	case ast.Binary:
		op, ok := binOps[e.Op]
		if !ok {
			return nil, errors.Wrap(ErrUnsupported, "binary op %q", e.Op)
		}

		l, err := c.lowerExpr(ctx, fc, e.L)
		if err != nil {
			return nil, errors.Wrap(err, "op lhs")
		}

		r, err := c.lowerExpr(ctx, fc, e.R)
		if err != nil {
			return nil, errors.Wrap(err, "op rhs")
		}

		// both sides are always evaluated: && and || do not short-circuit
		if op.Logical() {
			l = fc.emit(ir.Ne, l, ir.Imm(0))
			r = fc.emit(ir.Ne, r, ir.Imm(0))
		}

		return fc.emit(op, l, r), nil
	default:
		return nil, errors.Wrap(ErrUnsupported, "expr: %T", e)
	}
}

func (fc *funContext) emit(op ir.Op, l, r ir.Operand) ir.Value {
	x := ir.BinOp{
		Op:  op,
		Dst: fc.NewValue(),
		L:   l,
		R:   r,
		Tmp: ir.NoScratch,
	}

	if needsScratch(op, l, r) {
		x.Tmp = fc.NewScratch()
	}

	fc.b.Append(x)

	return x.Dst
}

// needsScratch reports whether the expansion of op over l and r
// needs a second work register besides the destination.
func needsScratch(op ir.Op, l, r ir.Operand) bool {
	switch op {
	case ir.Le, ir.Ge, ir.And, ir.Or:
		return true
	}

	return nonZeroImm(l) && nonZeroImm(r)
}

func nonZeroImm(x ir.Operand) bool {
	v, ok := x.(ir.Imm)

	return ok && v != 0
}
