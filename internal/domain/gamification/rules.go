package gamification

// StateRule is a badge trigger that can be decided from AggregateState alone.
type StateRule struct {
	Badge     BadgeID
	Triggered func(s *AggregateState) bool
}

// StateRules are evaluated after every completion. Badges that need per-session data
// (ratios, hotspots found, end-of-game metrics) are decided by the caller instead.
var StateRules = []StateRule{
	{
		Badge:     BadgeFirstCompletion,
		Triggered: func(s *AggregateState) bool { return s.CompletedGames() == 1 },
	},
	{
		Badge:     BadgeIntegrityMaster,
		Triggered: func(s *AggregateState) bool { return s.TotalScore >= MasterThreshold },
	},
}
