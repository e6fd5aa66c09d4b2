// Package catalog holds the static game content shipped with the binary.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/integrity-backend/internal/domain/gamification"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/shuffle"
)

//go:embed catalog.yaml
var rawCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type Game struct {
	ID          gamification.GameID `yaml:"id" json:"id"`
	Title       string              `yaml:"title" json:"title"`
	Description string              `yaml:"description" json:"description"`
	Kind        string              `yaml:"kind" json:"kind"`
}

type Badge struct {
	ID          gamification.BadgeID `yaml:"id" json:"id"`
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description"`
	Icon        string               `yaml:"icon" json:"icon"`
}

type QuizQuestion struct {
	ID           string   `yaml:"id" json:"id"`
	Category     string   `yaml:"category" json:"category"`
	Prompt       string   `yaml:"prompt" json:"prompt"`
	Options      []string `yaml:"options" json:"options"`
	CorrectIndex int      `yaml:"correct_index" json:"correct_index"`
	Explanation  string   `yaml:"explanation" json:"explanation"`
}

func (q QuizQuestion) AsQuestion() shuffle.Question {
	return shuffle.Question{ID: q.ID, Prompt: q.Prompt, Options: q.Options, CorrectIndex: q.CorrectIndex}
}

type ScenarioChoice struct {
	Text     string `yaml:"text" json:"text"`
	Points   int    `yaml:"points" json:"points"`
	Feedback string `yaml:"feedback" json:"feedback"`
}

type EthicalScenario struct {
	ID        string           `yaml:"id" json:"id"`
	Title     string           `yaml:"title" json:"title"`
	Situation string           `yaml:"situation" json:"situation"`
	Choices   []ScenarioChoice `yaml:"choices" json:"choices"`
}

type WhistleblowerCase struct {
	ID           string   `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Report       string   `yaml:"report" json:"report"`
	Options      []string `yaml:"options" json:"options"`
	CorrectIndex int      `yaml:"correct_index" json:"correct_index"`
	Explanation  string   `yaml:"explanation" json:"explanation"`
	Severity     string   `yaml:"severity" json:"severity"`
}

func (c WhistleblowerCase) AsQuestion() shuffle.Question {
	return shuffle.Question{ID: c.ID, Prompt: c.Report, Options: c.Options, CorrectIndex: c.CorrectIndex}
}

type Catalog struct {
	Games              []Game              `yaml:"games"`
	Badges             []Badge             `yaml:"badges"`
	QuizQuestions      []QuizQuestion      `yaml:"quiz_questions"`
	Scenarios          []EthicalScenario   `yaml:"scenarios"`
	WhistleblowerCases []WhistleblowerCase `yaml:"whistleblower_cases"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(rawCatalog)
	})
	return defaultCat, defaultErr
}

// Parse decodes and validates a catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	games := map[gamification.GameID]bool{}
	for _, g := range c.Games {
		if !g.ID.Valid() {
			return fmt.Errorf("%w: unknown game %q", ErrInvalidCatalog, g.ID)
		}
		if games[g.ID] {
			return fmt.Errorf("%w: duplicate game %q", ErrInvalidCatalog, g.ID)
		}
		games[g.ID] = true
	}
	if len(games) != len(gamification.AllGames) {
		return fmt.Errorf("%w: expected %d games, got %d", ErrInvalidCatalog, len(gamification.AllGames), len(games))
	}

	badges := map[gamification.BadgeID]bool{}
	for _, b := range c.Badges {
		if !b.ID.Valid() || badges[b.ID] {
			return fmt.Errorf("%w: bad badge %q", ErrInvalidCatalog, b.ID)
		}
		badges[b.ID] = true
	}
	if len(badges) != len(gamification.AllBadges) {
		return fmt.Errorf("%w: expected %d badges, got %d", ErrInvalidCatalog, len(gamification.AllBadges), len(badges))
	}

	ids := map[string]bool{}
	checkItem := func(kind, id string, options []string, correct int) error {
		if strings.TrimSpace(id) == "" || ids[kind+"/"+id] {
			return fmt.Errorf("%w: %s id %q missing or duplicated", ErrInvalidCatalog, kind, id)
		}
		ids[kind+"/"+id] = true
		if len(options) < 2 {
			return fmt.Errorf("%w: %s %q needs at least two options", ErrInvalidCatalog, kind, id)
		}
		if correct < 0 || correct >= len(options) {
			return fmt.Errorf("%w: %s %q correct_index %d out of range", ErrInvalidCatalog, kind, id, correct)
		}
		return nil
	}
	for _, q := range c.QuizQuestions {
		if err := checkItem("quiz", q.ID, q.Options, q.CorrectIndex); err != nil {
			return err
		}
	}
	for _, wc := range c.WhistleblowerCases {
		if err := checkItem("whistleblower", wc.ID, wc.Options, wc.CorrectIndex); err != nil {
			return err
		}
	}
	for _, s := range c.Scenarios {
		if strings.TrimSpace(s.ID) == "" || ids["scenario/"+s.ID] || len(s.Choices) < 2 {
			return fmt.Errorf("%w: scenario %q", ErrInvalidCatalog, s.ID)
		}
		ids["scenario/"+s.ID] = true
	}
	return nil
}

func (c *Catalog) Game(id gamification.GameID) (Game, bool) {
	for _, g := range c.Games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

func (c *Catalog) Badge(id gamification.BadgeID) (Badge, bool) {
	for _, b := range c.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// Questions returns quiz questions of one category, or all when category is empty.
func (c *Catalog) Questions(category string) []QuizQuestion {
	category = strings.TrimSpace(category)
	out := make([]QuizQuestion, 0, len(c.QuizQuestions))
	for _, q := range c.QuizQuestions {
		if category == "" || strings.EqualFold(q.Category, category) {
			out = append(out, q)
		}
	}
	return out
}

func (c *Catalog) Scenario(id string) (EthicalScenario, bool) {
	for _, s := range c.Scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return EthicalScenario{}, false
}
