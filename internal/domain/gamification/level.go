package gamification

const (
	pointsPerLevel = 50
	maxLevel       = 100

	// MasterThreshold is the total score that unlocks BadgeIntegrityMaster.
	MasterThreshold = 3000
)

// IntegrityLevel is clamp(floor(total/50), 0, 100).
func IntegrityLevel(totalScore int) int {
	lvl := totalScore / pointsPerLevel
	if lvl < 0 {
		return 0
	}
	if lvl > maxLevel {
		return maxLevel
	}
	return lvl
}

type levelTier struct {
	min   int
	title string
}

// one table for every screen; ordered high to low
var levelTiers = []levelTier{
	{min: 5000, title: "Legend"},
	{min: 3000, title: "Master"},
	{min: 1500, title: "Guardian"},
	{min: 500, title: "Ally"},
}

const LevelBeginner = "Beginner"

// LevelTitle maps a total score to its human-readable tier.
func LevelTitle(totalScore int) string {
	for _, tier := range levelTiers {
		if totalScore >= tier.min {
			return tier.title
		}
	}
	return LevelBeginner
}
