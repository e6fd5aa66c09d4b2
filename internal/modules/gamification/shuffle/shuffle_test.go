package shuffle

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	r := NewRand(7)
	inputs := [][]int{
		nil,
		{},
		{1},
		{1, 2},
		{3, 3, 3, 1},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}
	for _, in := range inputs {
		orig := append([]int(nil), in...)
		out := Shuffle(r, in)
		if len(out) != len(in) {
			t.Fatalf("len: want=%d got=%d", len(in), len(out))
		}
		if !reflect.DeepEqual(in, orig) && len(in) > 0 {
			t.Fatalf("input mutated: %v -> %v", orig, in)
		}
		a := append([]int(nil), in...)
		b := append([]int(nil), out...)
		sort.Ints(a)
		sort.Ints(b)
		if len(a) > 0 && !reflect.DeepEqual(a, b) {
			t.Fatalf("multiset changed: %v vs %v", in, out)
		}
	}
}

func TestShuffleReturnsNewSlice(t *testing.T) {
	in := []string{"a", "b", "c"}
	out := Shuffle(NewRand(1), in)
	out[0] = "zzz"
	if in[0] == "zzz" || in[1] == "zzz" || in[2] == "zzz" {
		t.Fatalf("output aliases input")
	}
}

func TestShuffleRoughlyUniform(t *testing.T) {
	r := NewRand(42)
	counts := map[string]int{}
	const draws = 6000
	for i := 0; i < draws; i++ {
		counts[strings.Join(Shuffle(r, []string{"a", "b", "c"}), "")]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, got %v", counts)
	}
	for perm, n := range counts {
		if n < 800 || n > 1200 {
			t.Fatalf("permutation %s drawn %d times out of %d", perm, n, draws)
		}
	}
}

func TestShuffleSeededIsDeterministic(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	a := Shuffle(NewRand(99), in)
	b := Shuffle(NewRand(99), in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed, different output: %v vs %v", a, b)
	}
	if len(Shuffle(nil, in)) != len(in) {
		t.Fatalf("nil rand should fall back to global source")
	}
}

func TestOptionsRemapsCorrectIndex(t *testing.T) {
	r := NewRand(3)
	options := []string{"Accept the gift", "Decline politely", "Ask a colleague", "Report to compliance"}
	for i := 0; i < 200; i++ {
		s, err := Options(r, options, 3)
		if err != nil {
			t.Fatalf("Options: %v", err)
		}
		if s.Options[s.CorrectIndex] != "Report to compliance" {
			t.Fatalf("remap lost the correct option: %+v", s)
		}
		if s.Order[s.CorrectIndex] != 3 {
			t.Fatalf("order does not point at the original index: %+v", s)
		}
	}
}

func TestOptionsWithDuplicateTexts(t *testing.T) {
	r := NewRand(11)
	options := []string{"Report it", "Ignore it", "Report it", "Ignore it"}
	for correct := range options {
		for i := 0; i < 100; i++ {
			s, err := Options(r, options, correct)
			if err != nil {
				t.Fatalf("Options: %v", err)
			}
			if s.Order[s.CorrectIndex] != correct {
				t.Fatalf("duplicate text confused the remap: correct=%d got order=%v idx=%d", correct, s.Order, s.CorrectIndex)
			}
			if s.Options[s.CorrectIndex] != options[correct] {
				t.Fatalf("text mismatch at remapped index")
			}
		}
	}
}

func TestOptionsErrors(t *testing.T) {
	if _, err := Options(nil, nil, 0); !errors.Is(err, ErrNoOptions) {
		t.Fatalf("empty: want ErrNoOptions, got %v", err)
	}
	if _, err := Options(nil, []string{"a", "b"}, 2); !errors.Is(err, ErrCorrectIndex) {
		t.Fatalf("out of range: want ErrCorrectIndex, got %v", err)
	}
	if _, err := Options(nil, []string{"a", "b"}, -1); !errors.Is(err, ErrCorrectIndex) {
		t.Fatalf("negative: want ErrCorrectIndex, got %v", err)
	}
}

func TestShuffleQuestions(t *testing.T) {
	qs := []Question{
		{ID: "q1", Prompt: "p1", Options: []string{"a", "b", "c"}, CorrectIndex: 0},
		{ID: "q2", Prompt: "p2", Options: []string{"x", "x", "y"}, CorrectIndex: 1},
		{ID: "q3", Prompt: "p3", Options: []string{"m", "n"}, CorrectIndex: 1},
	}
	out, err := ShuffleQuestions(NewRand(5), qs)
	if err != nil {
		t.Fatalf("ShuffleQuestions: %v", err)
	}
	if len(out) != len(qs) {
		t.Fatalf("len: want=%d got=%d", len(qs), len(out))
	}
	byID := map[string]Question{}
	for _, q := range qs {
		byID[q.ID] = q
	}
	for _, sq := range out {
		src := byID[sq.ID]
		orig, ok := sq.OriginalIndex(sq.CorrectIndex)
		if !ok || orig != src.CorrectIndex || sq.OriginalCorrectIndex != src.CorrectIndex {
			t.Fatalf("%s: correct option not tracked: %+v", sq.ID, sq)
		}
		if !sq.IsCorrect(sq.CorrectIndex) {
			t.Fatalf("%s: IsCorrect disagrees", sq.ID)
		}
	}
	if qs[0].Options[0] != "a" || qs[1].Options[2] != "y" {
		t.Fatalf("source questions mutated")
	}

	_, err = ShuffleQuestions(NewRand(5), []Question{{ID: "broken", Options: []string{"a"}, CorrectIndex: 4}})
	if !errors.Is(err, ErrCorrectIndex) {
		t.Fatalf("want ErrCorrectIndex, got %v", err)
	}
}
