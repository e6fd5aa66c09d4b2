package catalog

import (
	"errors"
	"testing"

	"github.com/yungbote/integrity-backend/internal/domain/gamification"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	for _, id := range gamification.AllGames {
		if _, ok := c.Game(id); !ok {
			t.Fatalf("game %q missing from catalog", id)
		}
	}
	for _, id := range gamification.AllBadges {
		if _, ok := c.Badge(id); !ok {
			t.Fatalf("badge %q missing from catalog", id)
		}
	}
	if len(c.QuizQuestions) == 0 || len(c.WhistleblowerCases) == 0 || len(c.Scenarios) == 0 {
		t.Fatalf("empty content: %d quiz, %d cases, %d scenarios", len(c.QuizQuestions), len(c.WhistleblowerCases), len(c.Scenarios))
	}
}

func TestQuestionsByCategory(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	all := c.Questions("")
	gifts := c.Questions("GIFTS")
	if len(gifts) == 0 || len(gifts) >= len(all) {
		t.Fatalf("category filter: gifts=%d all=%d", len(gifts), len(all))
	}
	for _, q := range gifts {
		if q.Category != "gifts" {
			t.Fatalf("unexpected category %q", q.Category)
		}
	}
	if got := c.Questions("no-such-category"); len(got) != 0 {
		t.Fatalf("unknown category should be empty, got %d", len(got))
	}
}

func TestParseRejectsBrokenContent(t *testing.T) {
	cases := map[string]string{
		"not yaml":      "games: [",
		"missing games": "games: []\nbadges: []\n",
		"unknown game": `
games:
  - id: pinball
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("want ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestParseRejectsBadCorrectIndex(t *testing.T) {
	base, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	c := *base
	c.QuizQuestions = append([]QuizQuestion(nil), base.QuizQuestions...)
	c.QuizQuestions[0].CorrectIndex = len(c.QuizQuestions[0].Options)
	if err := c.validate(); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("want ErrInvalidCatalog, got %v", err)
	}
}
