package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sysy/compiler/ast"
)

type (
	State struct {
		b    []byte
		name string
	}

	// SyntaxError is a user error in the source text.
	SyntaxError struct {
		Name      string
		Pos       int
		Line, Col int
		Msg       string
	}
)

// binary operators by precedence, loosest first.
// Longer symbols go before their prefixes.
var levels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<=", ">=", "<", ">"},
	{"+", "-"},
	{"*", "/", "%"},
}

func ParseFile(ctx context.Context, name string) (*ast.CompUnit, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(data), "name", name)

	return New(name, data).Parse(ctx)
}

func Parse(ctx context.Context, text []byte) (*ast.CompUnit, error) {
	return New("", text).Parse(ctx)
}

func New(name string, text []byte) *State {
	return &State{
		b:    text,
		name: name,
	}
}

func (s *State) Parse(ctx context.Context) (u *ast.CompUnit, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "parse", "name", s.name, "size", len(s.b))
	defer tr.Finish("err", &err)

	f, i, err := s.funcDef(0)
	if err != nil {
		return nil, err
	}

	i = s.skip(i)
	if i != len(s.b) {
		return nil, s.errorf(i, "unexpected text after function")
	}

	u = &ast.CompUnit{
		Base: ast.Base{Pos: f.Pos, End: f.End},
		Func: f,
	}

	if tr.If("dump_ast") {
		tr.Printw("ast", "unit", u)
	}

	return u, nil
}

func (s *State) funcDef(st int) (f *ast.FuncDef, i int, err error) {
	tst := s.skip(st)

	i, err = s.keyword(tst, "int")
	if err != nil {
		return nil, st, err
	}

	f = &ast.FuncDef{
		Type: ast.FuncType{
			Base: ast.Base{Pos: tst, End: i},
			Ret:  "int",
		},
	}

	name, i, err := s.ident(i)
	if err != nil {
		return nil, st, err
	}

	f.Name = name

	for _, p := range []string{"(", ")"} {
		i, err = s.punct(i, p)
		if err != nil {
			return nil, st, err
		}
	}

	f.Body, i, err = s.block(i)
	if err != nil {
		return nil, st, err
	}

	f.Base = ast.Base{Pos: tst, End: i}

	return f, i, nil
}

func (s *State) block(st int) (b *ast.Block, i int, err error) {
	i, err = s.punct(st, "{")
	if err != nil {
		return nil, st, err
	}

	b = &ast.Block{}
	b.Pos = i - 1

	for {
		if e, err := s.punct(i, "}"); err == nil {
			b.End = e

			return b, e, nil
		}

		var x ast.Stmt

		x, i, err = s.stmt(i)
		if err != nil {
			return nil, st, err
		}

		b.Stmts = append(b.Stmts, x)
	}
}

func (s *State) stmt(st int) (x ast.Stmt, i int, err error) {
	sst := s.skip(st)

	i, err = s.keyword(sst, "return")
	if err != nil {
		return nil, st, err
	}

	e, i, err := s.expr(i)
	if err != nil {
		return nil, st, err
	}

	i, err = s.punct(i, ";")
	if err != nil {
		return nil, st, err
	}

	return ast.Return{
		Base: ast.Base{Pos: sst, End: i},
		X:    e,
	}, i, nil
}

func (s *State) expr(st int) (ast.Expr, int, error) {
	return s.binary(st, 0)
}

func (s *State) binary(st, lvl int) (x ast.Expr, i int, err error) {
	if lvl == len(levels) {
		return s.unary(st)
	}

	x, i, err = s.binary(st, lvl+1)
	if err != nil {
		return nil, st, err
	}

loop:
	for {
		for _, op := range levels[lvl] {
			e, err := s.punct(i, op)
			if err != nil {
				continue
			}

			r, e, err := s.binary(e, lvl+1)
			if err != nil {
				return nil, st, err
			}

			x = ast.Binary{
				Base: ast.Base{Pos: pos(x), End: e},
				Op:   op,
				L:    x,
				R:    r,
			}

			i = e

			continue loop
		}

		return x, i, nil
	}
}

func (s *State) unary(st int) (x ast.Expr, i int, err error) {
	ust := s.skip(st)

	if ust < len(s.b) {
		switch op := s.b[ust]; op {
		case '+', '-', '!':
			y, i, err := s.unary(ust + 1)
			if err != nil {
				return nil, st, err
			}

			return ast.Unary{
				Base: ast.Base{Pos: ust, End: i},
				Op:   string(op),
				X:    y,
			}, i, nil
		}
	}

	return s.primary(st)
}

func (s *State) primary(st int) (x ast.Expr, i int, err error) {
	if i, err = s.punct(st, "("); err == nil {
		x, i, err = s.expr(i)
		if err != nil {
			return nil, st, err
		}

		i, err = s.punct(i, ")")
		if err != nil {
			return nil, st, err
		}

		return x, i, nil
	}

	return s.number(st)
}

// number parses decimal, octal (leading 0) and hex (0x) literals.
func (s *State) number(st int) (x ast.Expr, i int, err error) {
	nst := s.skip(st)
	i = nst

	for i < len(s.b) && isNumChar(s.b[i]) {
		i++
	}

	if i == nst || !isDigit(s.b[nst]) {
		return nil, st, s.errorf(nst, "expression expected")
	}

	text := string(s.b[nst:i])

	base := 10

	switch {
	case len(text) > 2 && (text[:2] == "0x" || text[:2] == "0X"):
		base = 16
		text = text[2:]
	case len(text) > 1 && text[0] == '0':
		base = 8
		text = text[1:]
	}

	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return nil, st, s.errorf(nst, "bad number %q", s.b[nst:i])
	}

	return ast.Number{
		Base:  ast.Base{Pos: nst, End: i},
		Value: v,
	}, i, nil
}

func (s *State) keyword(st int, kw string) (i int, err error) {
	w, i, err := s.ident(st)
	if err != nil || w != kw {
		return st, s.errorf(s.skip(st), "%q expected", kw)
	}

	return i, nil
}

func (s *State) ident(st int) (w string, i int, err error) {
	ist := s.skip(st)
	i = ist

	for i < len(s.b) && (isLetter(s.b[i]) || i > ist && isDigit(s.b[i])) {
		i++
	}

	if i == ist {
		return "", st, s.errorf(ist, "identifier expected")
	}

	return string(s.b[ist:i]), i, nil
}

func (s *State) punct(st int, p string) (i int, err error) {
	i = s.skip(st)

	if !bytes.HasPrefix(s.b[i:], []byte(p)) {
		return st, s.errorf(i, "%q expected", p)
	}

	return i + len(p), nil
}

func (s *State) errorf(pos int, format string, args ...any) error {
	line := 1 + bytes.Count(s.b[:pos], []byte{'\n'})
	col := pos - bytes.LastIndexByte(s.b[:pos], '\n')

	return SyntaxError{
		Name: s.name,
		Pos:  pos,
		Line: line,
		Col:  col,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (e SyntaxError) Error() string {
	name := e.Name
	if name == "" {
		name = "<input>"
	}

	return fmt.Sprintf("%s:%d:%d: %s", name, e.Line, e.Col, e.Msg)
}

func pos(x ast.Expr) int {
	switch x := x.(type) {
	case ast.Number:
		return x.Pos
	case ast.Unary:
		return x.Pos
	case ast.Binary:
		return x.Pos
	}

	return 0
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumChar(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' || c == 'x' || c == 'X'
}
