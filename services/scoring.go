package services

// BasePointsPerActivity is the fixed base value every logged activity scores
// before multipliers.
const BasePointsPerActivity = 10

// CalculatePoints computes the point award for a single activity:
//
//	points = base × difficultyRank × challengeMultiplier
//
// Raw measurements (reps, weight, duration, …) are deliberately excluded so
// scoring stays deterministic and independent of self-reported magnitudes.
// All math is integer math; a future fractional multiplier must truncate,
// never round up.
func CalculatePoints(difficultyRank int, challengeMultiplier int64) int64 {
	if difficultyRank < 1 {
		difficultyRank = 1
	}
	if challengeMultiplier < 1 {
		challengeMultiplier = 1
	}
	return int64(BasePointsPerActivity) * int64(difficultyRank) * challengeMultiplier
}
