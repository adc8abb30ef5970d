package main

import (
	"context"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sysy/compiler"
)

func main() {
	app := &cli.Command{
		Name:        "sysy",
		Description: "sysy compiles a SysY main function to Koopa IR or RISC-V assembly.\n\nUsage: sysy (-koopa | -riscv | -ast) <input> [-o <output>]",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("koopa", false, "emit Koopa IR"),
			cli.NewFlag("riscv", false, "emit RISC-V assembly"),
			cli.NewFlag("ast", false, "dump syntax tree"),
			cli.NewFlag("output,o", "-", "output file, - for stdout"),
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	mode, err := modeFlag(c)
	if err != nil {
		return err
	}

	if len(c.Args) != 1 {
		return errors.New("expected exactly one input file, got %d", len(c.Args))
	}

	name := c.Args[0]

	obj, err := compiler.CompileFile(ctx, name, mode)
	if err != nil {
		return errors.Wrap(err, "compile %v", name)
	}

	out := c.String("output")

	if out == "" || out == "-" {
		_, err = os.Stdout.Write(obj)
		return err
	}

	err = os.WriteFile(out, obj, 0o644)
	if err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}

func modeFlag(c *cli.Command) (m compiler.Mode, err error) {
	for _, f := range []string{"koopa", "riscv", "ast"} {
		if !c.Bool(f) {
			continue
		}

		if m != 0 {
			return 0, errors.Wrap(compiler.ErrMode, "more than one mode set")
		}

		m, err = compiler.ParseMode(f)
		if err != nil {
			return 0, err
		}
	}

	if m == 0 {
		return 0, errors.Wrap(compiler.ErrMode, "one of -koopa, -riscv, -ast expected")
	}

	return m, nil
}
