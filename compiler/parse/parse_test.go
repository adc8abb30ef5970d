package parse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/sysy/compiler/ast"
)

// strip zeroes positions so trees can be compared structurally.
func strip(x ast.Expr) ast.Expr {
	switch x := x.(type) {
	case ast.Number:
		return ast.Number{Value: x.Value}
	case ast.Unary:
		return ast.Unary{Op: x.Op, X: strip(x.X)}
	case ast.Binary:
		return ast.Binary{Op: x.Op, L: strip(x.L), R: strip(x.R)}
	}

	return x
}

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()

	u, err := Parse(context.Background(), []byte("int main() { return "+src+"; }"))
	require.NoError(t, err, "src: %s", src)
	require.Len(t, u.Func.Body.Stmts, 1)

	return strip(u.Func.Body.Stmts[0].(ast.Return).X)
}

func n(v int64) ast.Expr { return ast.Number{Value: v} }

func b(op string, l, r ast.Expr) ast.Expr { return ast.Binary{Op: op, L: l, R: r} }

func u(op string, x ast.Expr) ast.Expr { return ast.Unary{Op: op, X: x} }

func TestParseFunc(t *testing.T) {
	src := "// header\nint main() {\n  /* body */ return 0;\n}\n"

	un, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	f := un.Func
	assert.Equal(t, "main", f.Name)
	assert.Equal(t, "int", f.Type.Ret)
	require.Len(t, f.Body.Stmts, 1)

	r := f.Body.Stmts[0].(ast.Return)
	assert.Equal(t, int64(0), r.X.(ast.Number).Value)
	assert.Equal(t, "return 0;", src[r.Pos:r.End])
}

func TestParseNumbers(t *testing.T) {
	for src, v := range map[string]int64{
		"0":          0,
		"42":         42,
		"017":        15,
		"0x1F":       31,
		"0XfF":       255,
		"2147483647": 2147483647,
	} {
		assert.Equal(t, n(v), parseExpr(t, src), "src: %s", src)
	}
}

func TestParsePrecedence(t *testing.T) {
	for src, exp := range map[string]ast.Expr{
		"1 + 2 * 3":       b("+", n(1), b("*", n(2), n(3))),
		"(1 + 2) * 3":     b("*", b("+", n(1), n(2)), n(3)),
		"1 - 2 - 3":       b("-", b("-", n(1), n(2)), n(3)),
		"6 / 3 % 2":       b("%", b("/", n(6), n(3)), n(2)),
		"1 < 2 == 3 >= 4": b("==", b("<", n(1), n(2)), b(">=", n(3), n(4))),
		"1 <= 2 != 0":     b("!=", b("<=", n(1), n(2)), n(0)),
		"1 || 2 && 3":     b("||", n(1), b("&&", n(2), n(3))),
		"1 && 2 || 3":     b("||", b("&&", n(1), n(2)), n(3)),
		"-!+1":            u("-", u("!", u("+", n(1)))),
		"- -1 * 2":        b("*", u("-", u("-", n(1))), n(2)),
		"!(1 > 2)":        u("!", b(">", n(1), n(2))),
	} {
		assert.Equal(t, exp, parseExpr(t, src), "src: %s", src)
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		src       string
		line, col int
	}{
		{"", 1, 1},
		{"void main() { return 0; }", 1, 1},
		{"int main( { return 0; }", 1, 11},
		{"int main() {\n  return 1 +;\n}", 2, 13},
		{"int main() {\n  return 1\n}", 3, 1},
		{"int main() { return 08; }", 1, 21},
		{"int main() { return 0; } x", 1, 26},
		{"int main() { x = 1; }", 1, 14},
	} {
		_, err := Parse(context.Background(), []byte(tc.src))

		var se SyntaxError
		if assert.ErrorAs(t, err, &se, "src: %q", tc.src) {
			assert.Equal(t, tc.line, se.Line, "src: %q: %v", tc.src, err)
			assert.Equal(t, tc.col, se.Col, "src: %q: %v", tc.src, err)
		}
	}
}

func TestParseFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a.c")
	require.NoError(t, os.WriteFile(name, []byte("int main() { return 1; }"), 0o644))

	x, err := ParseFile(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, "main", x.Func.Name)

	_, err = ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.c"))
	assert.Error(t, err)

	_, err = New(name, []byte("int main() { return ; }")).Parse(context.Background())
	assert.ErrorContains(t, err, name+":1:21: expression expected")
}
