package discovery

import (
	"math"
	"sort"
)

// totalScore combines up to three independent signals. A missing signal
// contributes nothing; it is never an error.
//
//	rating     -> rating/5 * 50
//	ai summary -> rank_score/100 * 30
//	price fit  -> (1 - |price_level - max_price|/4) * 20
func totalScore(venue VenueRecord, summary *AISummary, maxPrice int) float64 {
	var score float64
	if venue.Rating != nil {
		score += *venue.Rating / 5 * 50
	}
	if summary != nil {
		score += summary.RankScore / 100 * 30
	}
	if venue.PriceLevel != nil {
		score += priceFit(*venue.PriceLevel, maxPrice) * 20
	}
	return score
}

// priceFit rewards venues whose price level matches the requested ceiling.
func priceFit(priceLevel, maxPrice int) float64 {
	return 1 - math.Abs(float64(priceLevel-maxPrice))/4
}

// sortByScore orders results descending by total score. The sort is stable
// so venues with equal scores keep the order the provider returned them in.
func sortByScore(results []RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
}

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
