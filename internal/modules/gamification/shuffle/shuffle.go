// Package shuffle permutes quiz content for one game session. Nothing here mutates its
// input and nothing produced here is persisted.
package shuffle

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrNoOptions    = errors.New("question has no options")
	ErrCorrectIndex = errors.New("correct index out of range")
)

// Rand is the randomness source; *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomRand returns a source seeded from the runtime's random generator.
func NewRandomRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Shuffle returns a uniformly random permutation of seq as a new slice
// (Fisher–Yates, walking down from the last index). A nil r uses the global source.
func Shuffle[T any](r Rand, seq []T) []T {
	if r == nil {
		r = globalRand{}
	}
	out := make([]T, len(seq))
	copy(out, seq)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Shuffled is a permuted option list. Order[k] is the original index of Options[k].
type Shuffled struct {
	Options      []string `json:"options"`
	CorrectIndex int      `json:"-"`
	Order        []int    `json:"-"`
}

type taggedOption struct {
	text string
	orig int
}

// Options permutes options and finds where the correct one landed. Options are tracked
// by their original position, so duplicate texts cannot confuse the remap.
func Options(r Rand, options []string, correctIndex int) (Shuffled, error) {
	if len(options) == 0 {
		return Shuffled{}, ErrNoOptions
	}
	if correctIndex < 0 || correctIndex >= len(options) {
		return Shuffled{}, fmt.Errorf("%w: %d of %d", ErrCorrectIndex, correctIndex, len(options))
	}
	tagged := make([]taggedOption, len(options))
	for i, opt := range options {
		tagged[i] = taggedOption{text: opt, orig: i}
	}
	tagged = Shuffle(r, tagged)

	out := Shuffled{
		Options:      make([]string, len(tagged)),
		Order:        make([]int, len(tagged)),
		CorrectIndex: -1,
	}
	for k, t := range tagged {
		out.Options[k] = t.text
		out.Order[k] = t.orig
		if t.orig == correctIndex {
			out.CorrectIndex = k
		}
	}
	return out, nil
}
