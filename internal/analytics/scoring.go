// Package analytics derives read-only views over stored runs: the model
// leaderboard, per-question difficulty, the correctness matrix and history.
// Every function here is pure; callers pass in a snapshot of the runs.
package analytics

import (
	"fmt"
	"math"
	"time"
)

// Scoring holds the tunable constants of the derived views.
type Scoring struct {
	// combined = AccuracyWeight × avgScore + SpeedWeight × speedScore
	AccuracyWeight float64 `yaml:"accuracy_weight"`
	SpeedWeight    float64 `yaml:"speed_weight"`

	// speedScore = max(0, 100 − avgLatencySeconds × SpeedPenaltyPerSecond)
	SpeedPenaltyPerSecond float64 `yaml:"speed_penalty_per_second"`

	// Success-rate buckets: [0, HardBelow) Hard, [HardBelow, EasyFrom)
	// Medium, [EasyFrom, 100] Easy.
	HardBelow float64 `yaml:"hard_below"`
	EasyFrom  float64 `yaml:"easy_from"`
}

// DefaultScoring weights accuracy 70/30 over speed and zeroes the speed
// score at 10 seconds per question.
func DefaultScoring() Scoring {
	return Scoring{
		AccuracyWeight:        0.7,
		SpeedWeight:           0.3,
		SpeedPenaltyPerSecond: 10,
		HardBelow:             40,
		EasyFrom:              70,
	}
}

// Validate rejects constants that would make the views meaningless.
func (s Scoring) Validate() error {
	switch {
	case s.AccuracyWeight < 0 || s.SpeedWeight < 0:
		return fmt.Errorf("scoring: weights must not be negative")
	case s.AccuracyWeight+s.SpeedWeight == 0:
		return fmt.Errorf("scoring: weights must not both be zero")
	case s.SpeedPenaltyPerSecond < 0:
		return fmt.Errorf("scoring: speed_penalty_per_second must not be negative")
	case s.HardBelow > s.EasyFrom:
		return fmt.Errorf("scoring: hard_below (%v) exceeds easy_from (%v)", s.HardBelow, s.EasyFrom)
	}
	return nil
}

// SpeedScore maps an average latency onto 0-100.
func (s Scoring) SpeedScore(avgLatency time.Duration) float64 {
	return math.Max(0, 100-avgLatency.Seconds()*s.SpeedPenaltyPerSecond)
}

// Combined blends accuracy and speed.
func (s Scoring) Combined(avgScore float64, avgLatency time.Duration) float64 {
	return s.AccuracyWeight*avgScore + s.SpeedWeight*s.SpeedScore(avgLatency)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulty buckets a success rate (0-100).
func (s Scoring) Difficulty(successRate float64) Difficulty {
	switch {
	case successRate < s.HardBelow:
		return DifficultyHard
	case successRate < s.EasyFrom:
		return DifficultyMedium
	}
	return DifficultyEasy
}
