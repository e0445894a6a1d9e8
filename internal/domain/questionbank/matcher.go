package questionbank

// AcceptanceThreshold is the minimum score for a record to count as a match.
const AcceptanceThreshold = 0.5

// Match is the best scoring record of a search.
type Match struct {
	Record QuestionRecord
	Score  float64
	Index  int
}

// FindBest scans bank in order and returns the highest scoring record. Only a
// strictly greater score replaces the current best, so the earliest record
// wins ties. ok is false when nothing reaches AcceptanceThreshold.
func FindBest(query string, bank Bank) (Match, bool) {
	normalized := Normalize(query)

	var (
		best  Match
		found bool
	)
	for i := range bank {
		score := Similarity(normalized, Normalize(bank[i].Question))
		if score > best.Score {
			best = Match{Record: bank[i], Score: score, Index: i}
			found = true
		}
	}
	if !found || best.Score < AcceptanceThreshold {
		return Match{}, false
	}
	return best, true
}
