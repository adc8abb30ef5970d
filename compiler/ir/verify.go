package ir

import (
	"github.com/slowlang/sysy/compiler/set"
	"tlog.app/go/errors"
)

var ErrInvalid = errors.New("invalid ir")

// Verify checks the invariants every pass relies on:
// values are defined once and before use within their block,
// ops are in the closed set, and every block ends with Ret.
func Verify(p *Program) error {
	for _, f := range p.Funcs {
		err := verifyFunc(f)
		if err != nil {
			return errors.Wrap(err, "func %v", f.Name)
		}
	}

	return nil
}

func verifyFunc(f *Func) error {
	if len(f.Blocks) == 0 {
		return errors.Wrap(ErrInvalid, "no blocks")
	}

	for _, bl := range f.Blocks {
		var defs set.Bitmap

		use := func(x Operand) error {
			switch x := x.(type) {
			case Imm:
				return nil
			case Value:
				if !defs.IsSet(int(x)) {
					return errors.Wrap(ErrInvalid, "%v used before definition", x)
				}

				return nil
			default:
				return errors.Wrap(ErrInvalid, "bad operand: %v (%[1]T)", x)
			}
		}

		def := func(v Value) error {
			if v < 0 {
				return errors.Wrap(ErrInvalid, "bad value: %v", v)
			}

			if defs.IsSet(int(v)) {
				return errors.Wrap(ErrInvalid, "%v redefined", v)
			}

			defs.Set(int(v))

			return nil
		}

		for i, x := range bl.Code {
			var err error

			switch x := x.(type) {
			case LoadImm:
				err = def(x.Dst)
			case BinOp:
				if !x.Op.Valid() {
					err = errors.Wrap(ErrInvalid, "unsupported op: %v", x.Op)
					break
				}

				if err = use(x.L); err != nil {
					break
				}

				if err = use(x.R); err != nil {
					break
				}

				err = def(x.Dst)
			case Ret:
				err = use(x.X)
			default:
				err = errors.Wrap(ErrInvalid, "unsupported instruction: %T", x)
			}

			if err != nil {
				return errors.Wrap(err, "block %v: instr %d", bl.Label, i)
			}
		}

		if l := len(bl.Code); l == 0 {
			return errors.Wrap(ErrInvalid, "block %v: empty", bl.Label)
		} else if _, ok := bl.Code[l-1].(Ret); !ok {
			return errors.Wrap(ErrInvalid, "block %v: not terminated by ret", bl.Label)
		}
	}

	return nil
}
