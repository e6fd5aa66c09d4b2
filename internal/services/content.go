package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yungbote/integrity-backend/internal/modules/gamification/catalog"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/shuffle"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

var ErrUnknownCategory = errors.New("unknown quiz category")

type WhistleblowerView struct {
	shuffle.ShuffledQuestion
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Explanation string `json:"explanation"`
}

type ScenarioView struct {
	ID        string                   `json:"id"`
	Title     string                   `json:"title"`
	Situation string                   `json:"situation"`
	Choices   []catalog.ScenarioChoice `json:"choices"`
}

// ContentService serves the static game content. Every call returns a fresh shuffle.
type ContentService interface {
	Games() []catalog.Game
	Badges() []catalog.Badge
	Quiz(category string, n int) ([]shuffle.ShuffledQuestion, error)
	WhistleblowerCases(n int) ([]WhistleblowerView, error)
	Scenarios() []ScenarioView
}

// lockedRand makes a seeded source safe for concurrent requests.
type lockedRand struct {
	mu sync.Mutex
	r  shuffle.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

type contentService struct {
	log *logger.Logger
	cat *catalog.Catalog
	rnd shuffle.Rand
}

// NewContentService serves cat. A non-zero seed makes the shuffles reproducible.
func NewContentService(log *logger.Logger, cat *catalog.Catalog, seed uint64) ContentService {
	var r shuffle.Rand
	if seed != 0 {
		r = &lockedRand{r: shuffle.NewRand(seed)}
	}
	return &contentService{log: log.With("service", "ContentService"), cat: cat, rnd: r}
}

func (s *contentService) Games() []catalog.Game {
	return append([]catalog.Game(nil), s.cat.Games...)
}

func (s *contentService) Badges() []catalog.Badge {
	return append([]catalog.Badge(nil), s.cat.Badges...)
}

// Quiz draws n shuffled questions of category; n <= 0 means all of them.
func (s *contentService) Quiz(category string, n int) ([]shuffle.ShuffledQuestion, error) {
	source := s.cat.Questions(category)
	if len(source) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	qs := make([]shuffle.Question, 0, len(source))
	for _, q := range source {
		qs = append(qs, q.AsQuestion())
	}
	out, err := shuffle.ShuffleQuestions(s.rnd, qs)
	if err != nil {
		return nil, err
	}
	return limit(out, n), nil
}

func (s *contentService) WhistleblowerCases(n int) ([]WhistleblowerView, error) {
	cases := shuffle.Shuffle(s.rnd, s.cat.WhistleblowerCases)
	out := make([]WhistleblowerView, 0, len(cases))
	for _, c := range limit(cases, n) {
		sq, err := shuffle.ShuffleQuestion(s.rnd, c.AsQuestion())
		if err != nil {
			return nil, err
		}
		out = append(out, WhistleblowerView{
			ShuffledQuestion: sq,
			Title:            c.Title,
			Severity:         c.Severity,
			Explanation:      c.Explanation,
		})
	}
	return out, nil
}

// Scenarios keeps the scenario order and shuffles the choices of each.
func (s *contentService) Scenarios() []ScenarioView {
	out := make([]ScenarioView, 0, len(s.cat.Scenarios))
	for _, sc := range s.cat.Scenarios {
		out = append(out, ScenarioView{
			ID:        sc.ID,
			Title:     sc.Title,
			Situation: sc.Situation,
			Choices:   shuffle.Shuffle(s.rnd, sc.Choices),
		})
	}
	return out
}

func limit[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
