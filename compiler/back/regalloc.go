package back

import (
	"fmt"

	"github.com/nikandfor/hacked/hfmt"
	"nikand.dev/go/heap"
	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"
)

type (
	// regAlloc binds symbolic values to pool registers on first use.
	// A binding is never released, so one function can hold at most
	// len(pool) values and scratches together.
	regAlloc struct {
		tr tlog.Span

		pool []Reg
		free heap.Heap[int] // pool slots

		// keys are ir.Value or ir.Scratch
		bound map[any]Reg
		order []any // keys in binding order
	}
)

var ErrOutOfRegisters = errors.New("register overflow")

func newRegAlloc(tr tlog.Span, pool []Reg) *regAlloc {
	a := &regAlloc{
		tr:    tr,
		pool:  pool,
		free:  heap.Heap[int]{Less: slotLess},
		bound: make(map[any]Reg, len(pool)),
	}

	for i := range pool {
		a.free.Push(i)
	}

	return a
}

func (a *regAlloc) Get(key any) (Reg, error) {
	if r, ok := a.bound[key]; ok {
		return r, nil
	}

	if a.free.Len() == 0 {
		return NoReg, errors.Wrap(ErrOutOfRegisters, "bind %v: all %d registers taken", key, len(a.pool))
	}

	slot := a.free.Pop()
	r := a.pool[slot]

	a.bound[key] = r
	a.order = append(a.order, key)

	a.tr.V("regalloc").Printw("bind", "key", fmt.Sprint(key), "reg", r.String(), "slot", slot, "from", loc.Caller(1))

	return r, nil
}

func (a *regAlloc) Len() int { return len(a.order) }

// AppendBindings appends "key=reg" pairs in binding order.
func (a *regAlloc) AppendBindings(b []byte) []byte {
	for i, k := range a.order {
		if i != 0 {
			b = append(b, ' ')
		}

		b = hfmt.Appendf(b, "%v=%v", k, a.bound[k])
	}

	return b
}

func (a *regAlloc) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, len(a.bound))

	for _, k := range a.order {
		b = e.AppendKeyInt(b, fmt.Sprint(k), int(a.bound[k]))
	}

	return b
}

func slotLess(d []int, i, j int) bool {
	return d[i] < d[j]
}
