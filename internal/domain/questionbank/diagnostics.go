package questionbank

import "github.com/xrash/smetrics"

// NearMiss describes the stored question that came closest to an unmatched
// query by Jaro similarity. It is only used for logging.
type NearMiss struct {
	Index    int
	Question string
	Jaro     float64
}

// NearestMiss ranks the bank by Jaro similarity over normalized text. It never
// influences matching.
func NearestMiss(query string, bank Bank) (NearMiss, bool) {
	normalized := Normalize(query)
	if normalized == "" {
		return NearMiss{}, false
	}
	var (
		best  NearMiss
		found bool
	)
	for i := range bank {
		candidate := Normalize(bank[i].Question)
		if candidate == "" {
			continue
		}
		score := smetrics.Jaro(normalized, candidate)
		if !found || score > best.Jaro {
			best = NearMiss{Index: i, Question: bank[i].Question, Jaro: score}
			found = true
		}
	}
	return best, found
}
