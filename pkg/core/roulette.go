package core

// MinSurvivalProbability keeps roulette reweighting finite for nearly black paths.
const MinSurvivalProbability = 1e-3

// SurvivalProbability returns the roulette survival probability for a path throughput:
// its largest channel, clamped to [MinSurvivalProbability, 1].
func SurvivalProbability(throughput Vec3) float64 {
	return max(MinSurvivalProbability, min(1.0, throughput.MaxComponent()))
}

// RussianRoulette probabilistically terminates a path. u is a uniform draw in [0,1).
// Surviving paths are reweighted by 1/q so the expected throughput is unchanged.
func RussianRoulette(throughput Vec3, u float64) (Vec3, bool) {
	q := SurvivalProbability(throughput)
	if u > q {
		return Vec3{}, false
	}
	return throughput.Multiply(1.0 / q), true
}
