// Package risk maps model probabilities to discrete risk levels and renders
// the clinical narrative attached to each assessment. It is intentionally
// small and dependency-free: pure functions over validated inputs, no
// logging, no side effects, safe for concurrent use.
package risk

// Level is a discrete cardiovascular risk category.
type Level string

// Risk levels, ordered from most to least severe.
const (
	LevelHigh    Level = "High"
	LevelMedium  Level = "Medium"
	LevelLow     Level = "Low"
	LevelUnknown Level = "Unknown" // patients with no assessment yet
)

// Probability thresholds for classification. These are the system of record;
// a probability strictly greater than HighThreshold is High, strictly greater
// than MediumThreshold is Medium, anything else is Low. A probability exactly
// equal to a threshold falls into the lower bucket.
const (
	HighThreshold   = 0.70
	MediumThreshold = 0.40
)

// Classify returns the risk level for a class-1 probability in [0,1].
func Classify(probability float64) Level {
	switch {
	case probability > HighThreshold:
		return LevelHigh
	case probability > MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}
