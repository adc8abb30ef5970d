package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/sysy/compiler/ast"
)

// Format appends the debug dump of x to b.
// x is a syntax tree node or a pointer to one.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ast.CompUnit:
		return formatUnit(ctx, b, x)
	case *ast.FuncDef:
		return formatFunc(ctx, b, x)
	case *ast.Block:
		return formatBlock(ctx, b, x)
	case ast.Stmt:
		return formatStmt(ctx, b, x)
	case ast.Expr:
		return formatExpr(ctx, b, x)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatUnit(ctx context.Context, b []byte, x *ast.CompUnit) (_ []byte, err error) {
	b = append(b, "CompUnitAST { "...)

	if x.Func != nil {
		b, err = formatFunc(ctx, b, x.Func)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", x.Func.Name)
		}
	}

	b = append(b, " }"...)

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, x *ast.FuncDef) (_ []byte, err error) {
	b = hfmt.Appendf(b, "FuncDefAST { FuncTypeAST { %s }, %s, ", x.Type.Ret, x.Name)

	if x.Body != nil {
		b, err = formatBlock(ctx, b, x.Body)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}
	}

	b = append(b, " }"...)

	return b, nil
}

func formatBlock(ctx context.Context, b []byte, x *ast.Block) (_ []byte, err error) {
	b = append(b, "BlockAST { "...)

	for i, s := range x.Stmts {
		b, err = formatStmt(ctx, b, s)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}

		b = append(b, "; "...)
	}

	b = append(b, " }"...)

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, x ast.Stmt) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Return:
		b = append(b, "StmtAST { return "...)

		b, err = formatExpr(ctx, b, x.X)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		b = append(b, " }"...)
	default:
		return nil, errors.New("unsupported stmt: %T", x)
	}

	return b, nil
}

func formatExpr(ctx context.Context, b []byte, x ast.Expr) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Number:
		b = hfmt.Appendf(b, "%d", x.Value)
	case ast.Unary:
		b = hfmt.Appendf(b, "UnaryExpAST { %s ", x.Op)

		b, err = formatExpr(ctx, b, x.X)
		if err != nil {
			return nil, errors.Wrap(err, "unary %s", x.Op)
		}

		b = append(b, " }"...)
	case ast.Binary:
		b = append(b, "BinaryExpAST { "...)

		b, err = formatExpr(ctx, b, x.L)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = hfmt.Appendf(b, " %s ", x.Op)

		b, err = formatExpr(ctx, b, x.R)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}

		b = append(b, " }"...)
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}
