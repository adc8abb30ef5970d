package compiler

import (
	"context"
	"os"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sysy/compiler/ast"
	"github.com/slowlang/sysy/compiler/back"
	"github.com/slowlang/sysy/compiler/format"
	"github.com/slowlang/sysy/compiler/front"
	"github.com/slowlang/sysy/compiler/parse"
)

type (
	// Mode selects what the compiler outputs.
	Mode int
)

const (
	_ Mode = iota
	Koopa
	RISCV
	AST
)

var ErrMode = errors.New("unsupported mode")

var modeNames = map[Mode]string{
	Koopa: "koopa",
	RISCV: "riscv",
	AST:   "ast",
}

func ParseMode(s string) (Mode, error) {
	s = strings.TrimLeft(s, "-")

	for m, n := range modeNames {
		if s == n {
			return m, nil
		}
	}

	return 0, errors.Wrap(ErrMode, "%q", s)
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}

	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

func CompileFile(ctx context.Context, name string, mode Mode) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, mode)
}

func Compile(ctx context.Context, name string, text []byte, mode Mode) (obj []byte, err error) {
	if _, ok := modeNames[mode]; !ok {
		return nil, errors.Wrap(ErrMode, "%v", mode)
	}

	u, err := parse.New(name, text).Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	return Emit(ctx, u, mode)
}

// Emit renders the syntax tree u in the given mode.
func Emit(ctx context.Context, u *ast.CompUnit, mode Mode) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "mode", mode.String())
	defer tr.Finish("err", &err)

	if mode == AST {
		obj, err = format.Format(ctx, nil, u)
		if err != nil {
			return nil, errors.Wrap(err, "format ast")
		}

		return obj, nil
	}

	p, err := front.New().Lower(ctx, u)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	switch mode {
	case Koopa:
		return p.AppendText(nil), nil
	case RISCV:
		obj, err = back.New().CompileProgram(ctx, nil, p)
		if err != nil {
			return nil, errors.Wrap(err, "emit")
		}

		return obj, nil
	default:
		return nil, errors.Wrap(ErrMode, "%v", mode)
	}
}
