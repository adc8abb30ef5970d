package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/sysy/compiler/ast"
)

func TestFormatUnit(t *testing.T) {
	u := &ast.CompUnit{
		Func: &ast.FuncDef{
			Name: "main",
			Type: ast.FuncType{Ret: "int"},
			Body: &ast.Block{Stmts: []ast.Stmt{
				ast.Return{X: ast.Number{Value: 0}},
			}},
		},
	}

	b, err := Format(context.Background(), nil, u)
	require.NoError(t, err)

	assert.Equal(t, "CompUnitAST { FuncDefAST { FuncTypeAST { int }, main, BlockAST { StmtAST { return 0 };  } } }", string(b))
}

func TestFormatExpr(t *testing.T) {
	x := ast.Binary{
		Op: "+",
		L:  ast.Number{Value: 1},
		R:  ast.Unary{Op: "-", X: ast.Number{Value: 2}},
	}

	b, err := Format(context.Background(), []byte("> "), x)
	require.NoError(t, err)

	assert.Equal(t, "> BinaryExpAST { 1 + UnaryExpAST { - 2 } }", string(b))
}

func TestFormatErrors(t *testing.T) {
	_, err := Format(context.Background(), nil, 3)
	assert.ErrorContains(t, err, "unsupported type: int")

	_, err = Format(context.Background(), nil, ast.Unary{Op: "-"})
	assert.ErrorContains(t, err, "unsupported expr")
}
