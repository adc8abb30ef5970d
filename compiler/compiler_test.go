package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/sysy/compiler/back"
	"github.com/slowlang/sysy/compiler/parse"
)

func TestReturnZero(t *testing.T) {
	ctx := context.Background()
	src := []byte("int main() {\n  return 0;\n}\n")

	obj, err := Compile(ctx, "a.c", src, Koopa)
	require.NoError(t, err)
	assert.Equal(t, "fun @main(): i32 {\n%entry:\n    ret 0\n}\n", string(obj))

	obj, err = Compile(ctx, "a.c", src, RISCV)
	require.NoError(t, err)
	assert.Equal(t, "    .text\n    .globl main\nmain:\n    li a0, 0\n    ret\n", string(obj))

	obj, err = Compile(ctx, "a.c", src, AST)
	require.NoError(t, err)
	assert.Equal(t, "CompUnitAST { FuncDefAST { FuncTypeAST { int }, main, BlockAST { StmtAST { return 0 };  } } }", string(obj))
}

func TestPrecedence(t *testing.T) {
	obj, err := Compile(context.Background(), "", []byte("int main() { return 1 + 2 * 3; }"), Koopa)
	require.NoError(t, err)

	assert.Equal(t, `fun @main(): i32 {
%entry:
    %0 = mul 2, 3
    %1 = add 1, %0
    ret %1
}
`, string(obj))
}

func TestNotZero(t *testing.T) {
	ctx := context.Background()
	src := []byte("int main() { return !0; }")

	obj, err := Compile(ctx, "", src, Koopa)
	require.NoError(t, err)
	assert.Equal(t, "fun @main(): i32 {\n%entry:\n    %0 = eq 0, 0\n    ret %0\n}\n", string(obj))

	obj, err = Compile(ctx, "", src, RISCV)
	require.NoError(t, err)
	assert.Contains(t, string(obj), "    xor t0, x0, x0\n    seqz t0, t0\n    mv a0, t0\n    ret\n")
}

func TestLogicalEager(t *testing.T) {
	obj, err := Compile(context.Background(), "", []byte("int main() { return 0 && -5; }"), Koopa)
	require.NoError(t, err)

	assert.Equal(t, `fun @main(): i32 {
%entry:
    %0 = sub 0, 5
    %1 = ne 0, 0
    %2 = ne %0, 0
    %3 = and %1, %2
    ret %3
}
`, string(obj))
}

func TestLogicalRISCV(t *testing.T) {
	obj, err := Compile(context.Background(), "", []byte("int main() { return 2 || 3 <= 1; }"), RISCV)
	require.NoError(t, err)

	// %0 = le 3, 1 (t0, scratch t1); %1 = ne 2, 0 (t2); %2 = ne %0, 0 (t3); %3 = or %1, %2 (t4, scratch t5)
	assert.Equal(t, `    .text
    .globl main
main:
    li t0, 3
    li t1, 1
    sub t1, t1, t0
    srai t1, t1, 31
    snez t1, t1
    seqz t0, t1
    li t2, 2
    xor t2, t2, x0
    snez t2, t2
    xor t3, t0, x0
    snez t3, t3
    snez t4, t2
    snez t5, t3
    or t4, t4, t5
    mv a0, t4
    ret
`, string(obj))
}

func TestRegisterOverflow(t *testing.T) {
	// 16 negations need 16 registers
	src := "int main() { return ----------------1; }"

	_, err := Compile(context.Background(), "", []byte(src), Koopa)
	require.NoError(t, err)

	_, err = Compile(context.Background(), "", []byte(src), RISCV)
	assert.ErrorIs(t, err, back.ErrOutOfRegisters)

	_, err = Compile(context.Background(), "", []byte("int main() { return ---------------1; }"), RISCV)
	assert.NoError(t, err)
}

func TestModes(t *testing.T) {
	for s, exp := range map[string]Mode{
		"koopa":  Koopa,
		"-koopa": Koopa,
		"-riscv": RISCV,
		"ast":    AST,
	} {
		m, err := ParseMode(s)
		require.NoError(t, err, "mode %q", s)
		assert.Equal(t, exp, m)
		assert.Equal(t, exp.String(), m.String())
	}

	_, err := ParseMode("-perf")
	assert.ErrorIs(t, err, ErrMode)

	_, err = Compile(context.Background(), "", []byte("int main() { return 0; }"), Mode(9))
	assert.ErrorIs(t, err, ErrMode)
	assert.Equal(t, "Mode(9)", Mode(9).String())
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(context.Background(), "x.c", []byte("int main() { return 1 +; }"), Koopa)

	var se parse.SyntaxError
	assert.ErrorAs(t, err, &se)

	_, err = CompileFile(context.Background(), filepath.Join(t.TempDir(), "none.c"), Koopa)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompileFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a.c")
	require.NoError(t, os.WriteFile(name, []byte("int main() { return -(7 % 4); }"), 0o644))

	obj, err := CompileFile(context.Background(), name, Koopa)
	require.NoError(t, err)
	assert.Equal(t, "fun @main(): i32 {\n%entry:\n    %0 = mod 7, 4\n    %1 = sub 0, %0\n    ret %1\n}\n", string(obj))
}
