// Package badges describes when each badge unlocks. Only the state-derived rules run
// inside the scoring store; the session rules below are decided by the game that owns
// the session data and applied through an explicit unlock.
package badges

import (
	"github.com/yungbote/integrity-backend/internal/domain/gamification"
)

type Evaluator string

const (
	EvaluatedByStore   Evaluator = "store"
	EvaluatedBySession Evaluator = "session"
)

type Rule struct {
	Badge     gamification.BadgeID `json:"badge"`
	Evaluator Evaluator            `json:"evaluator"`
	Condition string               `json:"condition"`
}

const (
	DataGameThreshold      = 100
	WhistleblowerPercent   = 70
	TycoonAverageThreshold = 70.0
	tycoonMetricCount      = 4
)

var Rules = []Rule{
	{Badge: gamification.BadgeFirstCompletion, Evaluator: EvaluatedByStore, Condition: "exactly one game completed"},
	{Badge: gamification.BadgeDataGameExcellence, Evaluator: EvaluatedBySession, Condition: "data protection cumulative score >= 100"},
	{Badge: gamification.BadgeRiskHuntMastery, Evaluator: EvaluatedBySession, Condition: "all hotspots found in one session"},
	{Badge: gamification.BadgeWhistleblowerExcellence, Evaluator: EvaluatedBySession, Condition: "session correct ratio >= 0.70"},
	{Badge: gamification.BadgeIntegrityMaster, Evaluator: EvaluatedByStore, Condition: "total score >= 3000"},
	{Badge: gamification.BadgeTycoonStrategist, Evaluator: EvaluatedBySession, Condition: "average of four metrics >= 70 at game end"},
}

func RuleFor(id gamification.BadgeID) (Rule, bool) {
	for _, r := range Rules {
		if r.Badge == id {
			return r, true
		}
	}
	return Rule{}, false
}

func DataGameExcellence(progress gamification.GameProgress) bool {
	return progress.Score >= DataGameThreshold
}

func RiskHuntMastery(found, total int) bool {
	return total > 0 && found >= total
}

// WhistleblowerExcellence compares in integers so 7 of 10 is exactly 70%.
func WhistleblowerExcellence(correct, total int) bool {
	return total > 0 && correct*100 >= WhistleblowerPercent*total
}

func TycoonStrategist(metrics [tycoonMetricCount]float64) bool {
	sum := 0.0
	for _, m := range metrics {
		sum += m
	}
	return sum/tycoonMetricCount >= TycoonAverageThreshold
}

// SessionOutcome is what a game screen knows when a session ends.
type SessionOutcome struct {
	HotspotsFound  int         `json:"hotspots_found"`
	HotspotsTotal  int         `json:"hotspots_total"`
	CorrectAnswers int         `json:"correct_answers"`
	TotalAnswers   int         `json:"total_answers"`
	TycoonMetrics  *[4]float64 `json:"tycoon_metrics,omitempty"`
}

// EvaluateSession returns the still-locked badges earned by a finished session of game,
// given the state after the session's score was applied.
func EvaluateSession(game gamification.GameID, outcome SessionOutcome, state gamification.AggregateState) []gamification.BadgeID {
	var earned []gamification.BadgeID
	add := func(id gamification.BadgeID, ok bool) {
		if ok && !state.BadgeUnlocked(id) {
			earned = append(earned, id)
		}
	}
	switch game {
	case gamification.GameDataProtection:
		add(gamification.BadgeDataGameExcellence, DataGameExcellence(state.GamesProgress[game]))
	case gamification.GameRiskHunt:
		add(gamification.BadgeRiskHuntMastery, RiskHuntMastery(outcome.HotspotsFound, outcome.HotspotsTotal))
	case gamification.GameWhistleblower:
		add(gamification.BadgeWhistleblowerExcellence, WhistleblowerExcellence(outcome.CorrectAnswers, outcome.TotalAnswers))
	case gamification.GameTycoon:
		if outcome.TycoonMetrics != nil {
			add(gamification.BadgeTycoonStrategist, TycoonStrategist(*outcome.TycoonMetrics))
		}
	}
	return earned
}
