package render

import (
	"math/bits"

	"github.com/utopiadocs/ambrosia/pkg/token"
)

// Bitmask is a growable set of tokens. Mutators return the updated mask.
type Bitmask []uint64

func (b Bitmask) Set(bit token.Token) Bitmask {
	word, pos := bit/64, bit%64
	for len(b) <= int(word) {
		b = append(b, 0)
	}
	b[word] |= 1 << pos
	return b
}

func (b Bitmask) Clear(bit token.Token) Bitmask {
	word, pos := bit/64, bit%64
	if len(b) <= int(word) {
		return b
	}
	b[word] &^= 1 << pos
	return b
}

func (b Bitmask) Has(bit token.Token) bool {
	word, pos := bit/64, bit%64
	return len(b) > int(word) && b[word]&(1<<pos) != 0
}

// Matches reports whether every bit of required is set in b.
func (b Bitmask) Matches(required Bitmask) bool {
	for i, w := range required {
		if w == 0 {
			continue
		}
		if i >= len(b) || b[i]&w != w {
			return false
		}
	}
	return true
}

func (b Bitmask) ForEachSet(fn func(tok token.Token)) {
	for wordIdx, word := range b {
		for word != 0 {
			pos := bits.TrailingZeros64(word)
			fn(token.Token(wordIdx*64 + pos))
			word &^= 1 << pos
		}
	}
}

func (b Bitmask) Empty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}
