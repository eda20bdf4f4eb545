package risk

import (
	"fmt"
	"strings"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// Concern-rule thresholds. Each rule is evaluated independently against one
// field; all matching concerns are reported, none are mutually exclusive.
// A missing field arrives as zero and never triggers its rule.
const (
	elevatedBPThreshold     = 140  // mm Hg resting blood pressure
	highCholThreshold       = 240  // mg/dl
	borderlineCholThreshold = 200  // mg/dl
	stDepressionThreshold   = 2.0  // oldpeak
	heartRateFraction       = 0.70 // of age-predicted maximum (220 - age)
)

// SystemNotes renders the clinical narrative for one assessment: a summary
// line with the model confidence, the list of triggered concerns, and the
// risk-level recommendation block. It is a pure function of its inputs;
// identical inputs always yield identical text.
func SystemNotes(level Level, score float64, in domain.ClinicalInput) string {
	var notes []string

	switch level {
	case LevelHigh:
		notes = append(notes, "⚠️ **High cardiovascular risk detected.** Immediate consultation with a cardiologist is strongly recommended.")
	case LevelMedium:
		notes = append(notes, "⚡ **Moderate risk indicators present.** Follow-up assessment recommended within 2-4 weeks.")
	default:
		notes = append(notes, "✅ **Low cardiovascular risk.** No immediate alarming indicators detected.")
	}
	notes = append(notes, fmt.Sprintf("AI Confidence: %.1f%%", score*100))

	if concerns := concernsFor(in); len(concerns) > 0 {
		notes = append(notes, "\n**Key Concerns:**")
		for _, c := range concerns {
			notes = append(notes, "• "+c)
		}
	}

	notes = append(notes, "\n**Recommendations:**")
	notes = append(notes, recommendationsFor(level)...)

	return strings.Join(notes, "\n")
}

// concernsFor evaluates the independent concern rules over the raw fields.
func concernsFor(in domain.ClinicalInput) []string {
	var concerns []string

	if in.Trestbps > elevatedBPThreshold {
		concerns = append(concerns, fmt.Sprintf("Elevated blood pressure (%.0f mm Hg)", in.Trestbps))
	}

	if in.Chol > highCholThreshold {
		concerns = append(concerns, fmt.Sprintf("High cholesterol (%.0f mg/dl)", in.Chol))
	} else if in.Chol > borderlineCholThreshold {
		concerns = append(concerns, fmt.Sprintf("Borderline high cholesterol (%.0f mg/dl)", in.Chol))
	}

	if in.Exang == 1 {
		concerns = append(concerns, "Exercise-induced angina detected")
	}

	// Age-predicted maximum heart rate: 220 - age. A missing age defaults the
	// prediction to a 50-year-old's so a zero age cannot flag everyone.
	age := in.Age
	if age == 0 {
		age = 50
	}
	if in.Thalach < (220-age)*heartRateFraction {
		concerns = append(concerns, fmt.Sprintf("Lower than expected max heart rate (%.0f bpm)", in.Thalach))
	}

	if in.Oldpeak > stDepressionThreshold {
		concerns = append(concerns, fmt.Sprintf("Significant ST depression (%.1f)", in.Oldpeak))
	}

	return concerns
}

// recommendationsFor selects the fixed recommendation template for a level.
func recommendationsFor(level Level) []string {
	switch level {
	case LevelHigh:
		return []string{
			"• Schedule immediate cardiology consultation",
			"• Consider stress test and echocardiogram",
			"• Monitor blood pressure and cholesterol levels closely",
		}
	case LevelMedium:
		return []string{
			"• Schedule follow-up assessment in 2-4 weeks",
			"• Monitor blood pressure and lifestyle factors",
			"• Consider lifestyle modifications (diet, exercise)",
		}
	default:
		return []string{
			"• Continue routine health monitoring",
			"• Maintain healthy lifestyle practices",
			"• Annual cardiovascular screening recommended",
		}
	}
}
