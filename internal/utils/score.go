package utils

import (
	"math"
	"time"
)

type ScoreConfig struct {
	Gravity        float64 // time decay exponent
	WeightFavorite float64
	WeightComment  float64
	WeightLike     float64
	ScaleFactor    float64
}

var DefaultScoreConfig = ScoreConfig{
	Gravity:        1.5,
	WeightFavorite: 3.0,
	WeightComment:  2.0,
	WeightLike:     1.0,
	ScaleFactor:    100.0, // keep scores roughly in the 0-100 band
}

// CalculateScore computes the trending score for a recipe from its
// engagement numbers with log smoothing and time decay. Views are excluded
// from the weighted sum; their magnitude swamps the log otherwise.
func CalculateScore(createdAt time.Time, likes, favorites, comments, views int) float64 {
	hours := time.Since(createdAt).Hours()

	weightedSum := (float64(likes) * DefaultScoreConfig.WeightLike) +
		(float64(comments) * DefaultScoreConfig.WeightComment) +
		(float64(favorites) * DefaultScoreConfig.WeightFavorite)

	if weightedSum < 0 {
		weightedSum = 0
	}

	// log10(sum + 1) keeps zero engagement at exactly zero
	logScore := math.Log10(weightedSum + 1)

	numerator := logScore * DefaultScoreConfig.ScaleFactor

	decay := math.Pow(hours+2, DefaultScoreConfig.Gravity)

	return numerator / decay
}
