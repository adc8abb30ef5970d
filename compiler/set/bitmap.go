package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Bitmap is a set of small non-negative ints.
	// The zero value is an empty set ready to use.
	Bitmap struct {
		w  []uint64
		w0 [1]uint64
	}
)

func MakeBitmap(n int) Bitmap {
	var s Bitmap

	if n = (n + 63) / 64; n > 1 {
		s.w = make([]uint64, n)
	}

	return s
}

func (s *Bitmap) Set(i int) {
	w, j := split(i)

	s.grow(w)

	s.w[w] |= 1 << j
}

func (s *Bitmap) Clear(i int) {
	if i < 0 {
		return
	}

	w, j := split(i)

	if w >= len(s.w) {
		return
	}

	s.w[w] &^= 1 << j
}

func (s *Bitmap) IsSet(i int) bool {
	if i < 0 {
		return false
	}

	w, j := split(i)

	if w >= len(s.w) {
		return false
	}

	return s.w[w]&(1<<j) != 0
}

func (s *Bitmap) Size() (n int) {
	if s == nil {
		return 0
	}

	for _, x := range s.w {
		n += bits.OnesCount64(x)
	}

	return n
}

func (s *Bitmap) Range(f func(i int) bool) {
	for w, x := range s.w {
		for x != 0 {
			j := bits.TrailingZeros64(x)

			if !f(w*64 + j) {
				return
			}

			x &^= 1 << j
		}
	}
}

// First returns the smallest element or -1.
func (s *Bitmap) First() int {
	for w, x := range s.w {
		if x != 0 {
			return w*64 + bits.TrailingZeros64(x)
		}
	}

	return -1
}

func (s *Bitmap) Reset() {
	for i := range s.w {
		s.w[i] = 0
	}
}

func (s Bitmap) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.w == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(i int) bool {
		b = e.AppendInt(b, i)

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func split(i int) (w, j int) {
	return i / 64, i % 64
}

func (s *Bitmap) grow(w int) {
	if s.w == nil {
		s.w = s.w0[:]
	}

	for w >= len(s.w) {
		s.w = append(s.w, 0)
	}
}
