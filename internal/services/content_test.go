package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yungbote/integrity-backend/internal/modules/gamification/catalog"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	return cat
}

func TestContentQuiz(t *testing.T) {
	cat := mustCatalog(t)
	svc := NewContentService(logger.Nop(), cat, 7)

	qs, err := svc.Quiz("", 5)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("Quiz: want 5 questions, got %d", len(qs))
	}
	byID := map[string]catalog.QuizQuestion{}
	for _, q := range cat.QuizQuestions {
		byID[q.ID] = q
	}
	for _, q := range qs {
		src, ok := byID[q.ID]
		if !ok {
			t.Fatalf("unknown question %q", q.ID)
		}
		if q.Options[q.CorrectIndex] != src.Options[src.CorrectIndex] {
			t.Fatalf("question %q: correct answer moved to a wrong option", q.ID)
		}
	}

	if _, err := svc.Quiz("astrology", 0); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unknown category: got %v", err)
	}
}

func TestContentSeedIsReproducible(t *testing.T) {
	cat := mustCatalog(t)
	a, err := NewContentService(logger.Nop(), cat, 42).Quiz("", 0)
	if err != nil {
		t.Fatalf("Quiz a: %v", err)
	}
	b, err := NewContentService(logger.Nop(), cat, 42).Quiz("", 0)
	if err != nil {
		t.Fatalf("Quiz b: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed should give the same quiz")
	}
}

func TestContentWhistleblowerAndScenarios(t *testing.T) {
	cat := mustCatalog(t)
	svc := NewContentService(logger.Nop(), cat, 0)

	cases, err := svc.WhistleblowerCases(3)
	if err != nil {
		t.Fatalf("WhistleblowerCases: %v", err)
	}
	if len(cases) != 3 {
		t.Fatalf("WhistleblowerCases: want 3, got %d", len(cases))
	}
	for _, c := range cases {
		if c.Title == "" || c.CorrectIndex < 0 || c.CorrectIndex >= len(c.Options) {
			t.Fatalf("bad case view: %+v", c)
		}
	}

	scenarios := svc.Scenarios()
	if len(scenarios) != len(cat.Scenarios) {
		t.Fatalf("Scenarios: want %d, got %d", len(cat.Scenarios), len(scenarios))
	}
	for i, sc := range scenarios {
		if sc.ID != cat.Scenarios[i].ID || len(sc.Choices) != len(cat.Scenarios[i].Choices) {
			t.Fatalf("scenario %d: %+v", i, sc)
		}
	}
	if len(svc.Games()) != 6 || len(svc.Badges()) != 6 {
		t.Fatalf("catalog lists: games=%d badges=%d", len(svc.Games()), len(svc.Badges()))
	}
}
