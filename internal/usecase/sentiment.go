package usecase

import (
	"fmt"
	"math"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// ScoreSentiment turns a star-label distribution into one weighted rating:
// the sum of stars*score, where stars is the label's leading digit. Scores
// are not renormalised when the classifier omits classes, so an empty result
// scores 0.
func ScoreSentiment(scores []entity.LabelScore) (float64, error) {
	var total float64
	for _, s := range scores {
		stars, err := starsFromLabel(s.Label)
		if err != nil {
			return 0, err
		}
		total += float64(stars) * s.Score
	}
	return total, nil
}

// RoundStars rounds to the three decimals a review row stores.
func RoundStars(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func starsFromLabel(label string) (int, error) {
	if label == "" || label[0] < '1' || label[0] > '5' {
		return 0, fmt.Errorf("unexpected sentiment label %q", label)
	}
	return int(label[0] - '0'), nil
}
