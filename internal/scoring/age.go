package scoring

// ageTier maps devices younger than maxAge years to score. The last tier has
// no upper bound.
type ageTier struct {
	maxAge int
	score  int
}

var ageTiers = []ageTier{
	{maxAge: 2, score: 100},
	{maxAge: 4, score: 80},
	{maxAge: 6, score: 50},
}

const oldestTierScore = 20

// AgeScore scores a device by how many years separate its release from
// currentYear. The caller supplies currentYear so results stay reproducible.
func AgeScore(releaseYear, currentYear int) int {
	age := currentYear - releaseYear
	for _, t := range ageTiers {
		if age < t.maxAge {
			return t.score
		}
	}
	return oldestTierScore
}
