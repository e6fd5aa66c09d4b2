package gamification

// GameID identifies one of the fixed set of mini-games.
type GameID string

const (
	GameEthicsQuiz      GameID = "ethics-quiz"
	GameDataProtection  GameID = "data-protection"
	GameRiskHunt        GameID = "risk-hunt"
	GameWhistleblower   GameID = "whistleblower"
	GameTycoon          GameID = "tycoon"
	GameEthicalDilemmas GameID = "ethical-dilemmas"
)

// AllGames is the enumeration in display order.
var AllGames = []GameID{
	GameEthicsQuiz,
	GameDataProtection,
	GameRiskHunt,
	GameWhistleblower,
	GameTycoon,
	GameEthicalDilemmas,
}

func (g GameID) Valid() bool {
	for _, known := range AllGames {
		if g == known {
			return true
		}
	}
	return false
}

// BadgeID identifies a badge from the fixed catalog.
type BadgeID string

const (
	BadgeFirstCompletion         BadgeID = "first-completion"
	BadgeDataGameExcellence      BadgeID = "data-game-excellence"
	BadgeRiskHuntMastery         BadgeID = "risk-hunt-mastery"
	BadgeWhistleblowerExcellence BadgeID = "whistleblower-excellence"
	BadgeIntegrityMaster         BadgeID = "integrity-master"
	BadgeTycoonStrategist        BadgeID = "tycoon-strategist"
)

var AllBadges = []BadgeID{
	BadgeFirstCompletion,
	BadgeDataGameExcellence,
	BadgeRiskHuntMastery,
	BadgeWhistleblowerExcellence,
	BadgeIntegrityMaster,
	BadgeTycoonStrategist,
}

func (b BadgeID) Valid() bool {
	for _, known := range AllBadges {
		if b == known {
			return true
		}
	}
	return false
}
