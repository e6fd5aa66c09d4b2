package gamification

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestIntegrityLevel(t *testing.T) {
	cases := map[int]int{0: 0, 49: 0, 50: 1, 2980: 59, 3005: 60, 5000: 100, 9999: 100, -10: 0}
	for total, want := range cases {
		if got := IntegrityLevel(total); got != want {
			t.Fatalf("IntegrityLevel(%d): want=%d got=%d", total, want, got)
		}
	}
}

func TestLevelTitle(t *testing.T) {
	cases := []struct {
		total int
		want  string
	}{
		{0, "Beginner"},
		{499, "Beginner"},
		{500, "Ally"},
		{1500, "Guardian"},
		{2999, "Guardian"},
		{3000, "Master"},
		{5000, "Legend"},
	}
	for _, tc := range cases {
		if got := LevelTitle(tc.total); got != tc.want {
			t.Fatalf("LevelTitle(%d): want=%s got=%s", tc.total, tc.want, got)
		}
	}
}

func TestApplyCompletionFreshUser(t *testing.T) {
	s := NewAggregateState()
	unlocked := s.ApplyCompletion(ScoreEvent{GameID: GameEthicsQuiz, Points: 25, At: t0})

	if s.TotalScore != 25 || s.IntegrityLevel != 0 {
		t.Fatalf("totals: got score=%d level=%d", s.TotalScore, s.IntegrityLevel)
	}
	gp := s.GamesProgress[GameEthicsQuiz]
	if gp.Score != 25 || !gp.Completed || !gp.LastPlayed.Equal(t0) {
		t.Fatalf("progress: %+v", gp)
	}
	if len(unlocked) != 1 || unlocked[0] != BadgeFirstCompletion {
		t.Fatalf("unlocked: %v", unlocked)
	}
	if !s.BadgeUnlocked(BadgeFirstCompletion) {
		t.Fatalf("first-completion should be unlocked")
	}
}

func TestApplyCompletionFirstBadgeOnlyOnce(t *testing.T) {
	s := NewAggregateState()
	s.ApplyCompletion(ScoreEvent{GameID: "ethics-quiz", Points: 10, At: t0})
	if got := s.ApplyCompletion(ScoreEvent{GameID: "ethics-quiz", Points: 10, At: t0.Add(time.Minute)}); len(got) != 0 {
		t.Fatalf("same game again: unexpected unlocks %v", got)
	}
	if got := s.ApplyCompletion(ScoreEvent{GameID: GameTycoon, Points: 10, At: t0.Add(2 * time.Minute)}); len(got) != 0 {
		t.Fatalf("second game: unexpected unlocks %v", got)
	}
	if s.GamesProgress[GameEthicsQuiz].Score != 20 {
		t.Fatalf("score accumulates per game, got %d", s.GamesProgress[GameEthicsQuiz].Score)
	}
}

func TestApplyCompletionIntegrityMaster(t *testing.T) {
	s := NewAggregateState()
	s.ApplyCompletion(ScoreEvent{GameID: GameEthicsQuiz, Points: 2980, At: t0})
	unlocked := s.ApplyCompletion(ScoreEvent{GameID: GameTycoon, Points: 25, At: t0.Add(time.Hour)})

	if s.TotalScore != 3005 || s.IntegrityLevel != 60 {
		t.Fatalf("totals: got score=%d level=%d", s.TotalScore, s.IntegrityLevel)
	}
	if len(unlocked) != 1 || unlocked[0] != BadgeIntegrityMaster {
		t.Fatalf("unlocked: %v", unlocked)
	}
}

func TestMonotonicTotalsAndLevel(t *testing.T) {
	s := NewAggregateState()
	sum := 0
	prev := 0
	for i, pts := range []int{0, 7, 50, 0, 120, 999, 3, 4000} {
		game := AllGames[i%len(AllGames)]
		s.ApplyCompletion(ScoreEvent{GameID: game, Points: pts, At: t0.Add(time.Duration(i) * time.Minute)})
		sum += pts
		if s.TotalScore != sum {
			t.Fatalf("step %d: total=%d want=%d", i, s.TotalScore, sum)
		}
		if s.TotalScore < prev {
			t.Fatalf("step %d: total decreased", i)
		}
		if s.IntegrityLevel != IntegrityLevel(s.TotalScore) {
			t.Fatalf("step %d: level drifted", i)
		}
		prev = s.TotalScore
	}
}

func TestUnlockIsOneWay(t *testing.T) {
	s := NewAggregateState()
	if !s.Unlock(BadgeTycoonStrategist, t0) {
		t.Fatalf("first unlock should change state")
	}
	if s.Unlock(BadgeTycoonStrategist, t0.Add(time.Hour)) {
		t.Fatalf("second unlock should be a no-op")
	}
	s.ApplyCompletion(ScoreEvent{GameID: GameTycoon, Points: 5, At: t0})
	s.Merge(NewAggregateState())
	if !s.BadgeUnlocked(BadgeTycoonStrategist) {
		t.Fatalf("badge reverted to locked")
	}
	if got := s.UnlockedBadges(); len(got) != 2 {
		t.Fatalf("unlocked badges: %v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewAggregateState()
	s.ApplyCompletion(ScoreEvent{GameID: GameRiskHunt, Points: 10, At: t0})
	cp := s.Clone()
	s.ApplyCompletion(ScoreEvent{GameID: GameRiskHunt, Points: 10, At: t0})
	s.Unlock(BadgeRiskHuntMastery, t0)

	if cp.GamesProgress[GameRiskHunt].Score != 10 {
		t.Fatalf("clone shares progress map")
	}
	if cp.BadgeUnlocked(BadgeRiskHuntMastery) {
		t.Fatalf("clone shares badges")
	}
}

func TestNormalize(t *testing.T) {
	s := AggregateState{
		TotalScore: 120,
		Badges: []Badge{
			{ID: BadgeIntegrityMaster, Unlocked: true},
			{ID: BadgeIntegrityMaster},
		},
	}
	if err := s.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(s.Badges) != len(AllBadges) {
		t.Fatalf("badges not filled: %d", len(s.Badges))
	}
	if !s.BadgeUnlocked(BadgeIntegrityMaster) {
		t.Fatalf("duplicate collapsed to locked")
	}
	if s.IntegrityLevel != 2 {
		t.Fatalf("level not recomputed: %d", s.IntegrityLevel)
	}

	bad := AggregateState{GamesProgress: map[GameID]GameProgress{"pinball": {Score: 1}}}
	if err := bad.Normalize(); !errors.Is(err, ErrMalformedState) {
		t.Fatalf("unknown game: want ErrMalformedState, got %v", err)
	}
}

func TestEncodeDecodeRow(t *testing.T) {
	id := uuid.New()
	s := NewAggregateState()
	s.ApplyCompletion(ScoreEvent{GameID: GameWhistleblower, Points: 40, At: t0})

	row, err := EncodeState(id, s)
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}
	if row.UserID != id || row.IntegrityLevel != 0 || row.TotalScore != 40 {
		t.Fatalf("row: %+v", row)
	}
	got, err := row.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.GamesProgress[GameWhistleblower].Score != 40 || !got.BadgeUnlocked(BadgeFirstCompletion) {
		t.Fatalf("decoded: %+v", got)
	}
}

func TestDecodeMalformedFallsBackToZero(t *testing.T) {
	row := &UserProgress{
		TotalScore:    300,
		GamesProgress: datatypes.JSON(`["not","a","map"]`),
	}
	got, err := row.Decode()
	if !errors.Is(err, ErrMalformedState) {
		t.Fatalf("want ErrMalformedState, got %v", err)
	}
	if got.TotalScore != 0 || len(got.Badges) != len(AllBadges) {
		t.Fatalf("fallback should be zero state: %+v", got)
	}
}

func TestValidatePoints(t *testing.T) {
	cases := []struct {
		points int
		ok     bool
	}{
		{0, true},
		{MaxPointsPerEvent, true},
		{MaxPointsPerEvent + 1, false},
		{-1, false},
		{math.MaxInt, false},
	}
	for _, tc := range cases {
		err := ValidatePoints(tc.points)
		if tc.ok && err != nil {
			t.Fatalf("ValidatePoints(%d): %v", tc.points, err)
		}
		if !tc.ok && !errors.Is(err, ErrPointsOutOfRange) {
			t.Fatalf("ValidatePoints(%d): want ErrPointsOutOfRange, got %v", tc.points, err)
		}
	}
}

func TestApplyCompletionSaturatesInsteadOfWrapping(t *testing.T) {
	s := NewAggregateState()
	s.ApplyCompletion(ScoreEvent{GameID: GameTycoon, Points: math.MaxInt, At: t0})
	s.ApplyCompletion(ScoreEvent{GameID: GameTycoon, Points: 1, At: t0})
	s.ApplyCompletion(ScoreEvent{GameID: GameEthicsQuiz, Points: -50, At: t0})
	if s.TotalScore != math.MaxInt {
		t.Fatalf("total: want=MaxInt got=%d", s.TotalScore)
	}
	if s.GamesProgress[GameTycoon].Score != math.MaxInt {
		t.Fatalf("game score wrapped: %d", s.GamesProgress[GameTycoon].Score)
	}
	if s.IntegrityLevel != 100 {
		t.Fatalf("level: want=100 got=%d", s.IntegrityLevel)
	}
	if err := s.Normalize(); err != nil {
		t.Fatalf("saturated state must stay valid: %v", err)
	}
}

func TestSalvageKeepsReadableParts(t *testing.T) {
	row := &UserProgress{
		TotalScore:    2000,
		GamesProgress: datatypes.JSON(`{"tycoon":{"score":1995,"completed":true},"legacy-game":{"score":5}}`),
		Badges:        datatypes.JSON(`[{"id":"first-completion","unlocked":true},{"id":"gold-star","unlocked":true}]`),
	}
	if _, err := row.Decode(); !errors.Is(err, ErrMalformedState) {
		t.Fatalf("Decode: want ErrMalformedState, got %v", err)
	}
	got := row.Salvage()
	if got.TotalScore != 2000 || got.IntegrityLevel != 40 {
		t.Fatalf("total/level: got %d/%d", got.TotalScore, got.IntegrityLevel)
	}
	if got.GamesProgress[GameTycoon].Score != 1995 || len(got.GamesProgress) != 1 {
		t.Fatalf("games: %+v", got.GamesProgress)
	}
	if !got.BadgeUnlocked(BadgeFirstCompletion) || len(got.Badges) != len(AllBadges) {
		t.Fatalf("badges: %+v", got.Badges)
	}
	if err := got.Normalize(); err != nil {
		t.Fatalf("salvaged state must normalize: %v", err)
	}

	broken := (&UserProgress{TotalScore: 300, Badges: datatypes.JSON(`{"not":"a list"}`)}).Salvage()
	if broken.TotalScore != 300 {
		t.Fatalf("unreadable badges must not drop the total: %d", broken.TotalScore)
	}
}
