package parse

import "bytes"

type (
	Spaces uint64
)

var SpaceAll = NewSpaces(' ', '\t', '\r', '\n', '\v', '\f')

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

// skip skips spaces and comments.
// An unterminated block comment runs to the end of text.
func (s *State) skip(st int) int {
	i := st

	for {
		i = SpaceAll.Skip(s.b, i)

		switch {
		case bytes.HasPrefix(s.b[i:], []byte("//")):
			e := bytes.IndexByte(s.b[i:], '\n')
			if e < 0 {
				return len(s.b)
			}

			i += e + 1
		case bytes.HasPrefix(s.b[i:], []byte("/*")):
			e := bytes.Index(s.b[i+2:], []byte("*/"))
			if e < 0 {
				return len(s.b)
			}

			i += 2 + e + 2
		default:
			return i
		}
	}
}
