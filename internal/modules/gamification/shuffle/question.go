package shuffle

import "fmt"

// Question is the source form of any multiple choice item.
type Question struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int
}

// ShuffledQuestion is a session-local presentation of a Question.
type ShuffledQuestion struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`

	// OriginalCorrectIndex and Order allow mapping an answer back to the source item.
	OriginalCorrectIndex int   `json:"-"`
	Order                []int `json:"-"`
}

// OriginalIndex maps a position in the shuffled options back to the source position.
func (q ShuffledQuestion) OriginalIndex(shuffled int) (int, bool) {
	if shuffled < 0 || shuffled >= len(q.Order) {
		return -1, false
	}
	return q.Order[shuffled], true
}

// IsCorrect reports whether the answer at the shuffled position is the correct one.
func (q ShuffledQuestion) IsCorrect(shuffled int) bool {
	return shuffled == q.CorrectIndex
}

func ShuffleQuestion(r Rand, q Question) (ShuffledQuestion, error) {
	s, err := Options(r, q.Options, q.CorrectIndex)
	if err != nil {
		return ShuffledQuestion{}, fmt.Errorf("question %q: %w", q.ID, err)
	}
	return ShuffledQuestion{
		ID:                   q.ID,
		Prompt:               q.Prompt,
		Options:              s.Options,
		CorrectIndex:         s.CorrectIndex,
		OriginalCorrectIndex: q.CorrectIndex,
		Order:                s.Order,
	}, nil
}

// ShuffleQuestions shuffles the question order and then each question's options.
func ShuffleQuestions(r Rand, qs []Question) ([]ShuffledQuestion, error) {
	ordered := Shuffle(r, qs)
	out := make([]ShuffledQuestion, 0, len(ordered))
	for _, q := range ordered {
		sq, err := ShuffleQuestion(r, q)
		if err != nil {
			return nil, err
		}
		out = append(out, sq)
	}
	return out, nil
}
