package risk

import (
	"strings"
	"testing"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

func baseInput() domain.ClinicalInput {
	return domain.ClinicalInput{
		Age:      55,
		Sex:      1,
		CP:       0,
		Trestbps: 120,
		Chol:     180,
		FBS:      0,
		Restecg:  0,
		Thalach:  160,
		Exang:    0,
		Oldpeak:  0.5,
		Slope:    1,
		CA:       0,
		Thal:     2,
	}
}

func TestSystemNotes_Idempotent(t *testing.T) {
	in := baseInput()
	a := SystemNotes(LevelHigh, 0.85, in)
	b := SystemNotes(LevelHigh, 0.85, in)
	if a != b {
		t.Fatalf("identical inputs produced different narratives")
	}
}

func TestSystemNotes_SummaryAndConfidence(t *testing.T) {
	in := baseInput()

	high := SystemNotes(LevelHigh, 0.85, in)
	if !strings.Contains(high, "High cardiovascular risk detected") {
		t.Errorf("high narrative missing summary: %q", high)
	}
	if !strings.Contains(high, "AI Confidence: 85.0%") {
		t.Errorf("high narrative missing confidence: %q", high)
	}

	med := SystemNotes(LevelMedium, 0.55, in)
	if !strings.Contains(med, "Moderate risk indicators present") {
		t.Errorf("medium narrative missing summary: %q", med)
	}

	low := SystemNotes(LevelLow, 0.10, in)
	if !strings.Contains(low, "Low cardiovascular risk") {
		t.Errorf("low narrative missing summary: %q", low)
	}
	if !strings.Contains(low, "**Recommendations:**") {
		t.Errorf("narrative missing recommendations block: %q", low)
	}
}

func TestConcerns_Rules(t *testing.T) {
	in := baseInput()
	in.Trestbps = 150 // > 140
	in.Chol = 250     // > 240
	in.Exang = 1
	in.Oldpeak = 2.5 // > 2.0
	in.Thalach = 90  // below 0.7*(220-55) = 115.5

	got := SystemNotes(LevelHigh, 0.9, in)
	for _, want := range []string{
		"Elevated blood pressure (150 mm Hg)",
		"High cholesterol (250 mg/dl)",
		"Exercise-induced angina detected",
		"Lower than expected max heart rate (90 bpm)",
		"Significant ST depression (2.5)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("narrative missing concern %q:\n%s", want, got)
		}
	}
}

func TestConcerns_BorderlineCholesterol(t *testing.T) {
	in := baseInput()
	in.Chol = 220 // in (200, 240]

	got := SystemNotes(LevelLow, 0.2, in)
	if !strings.Contains(got, "Borderline high cholesterol (220 mg/dl)") {
		t.Errorf("expected borderline cholesterol concern:\n%s", got)
	}
	if strings.Contains(got, "High cholesterol") {
		t.Errorf("borderline value must not trigger the high rule:\n%s", got)
	}
}

func TestConcerns_ZeroAgeDefaultsTo50(t *testing.T) {
	in := baseInput()
	in.Age = 0
	// 0.7*(220-50) = 119; a thalach of 118 should flag, 120 should not.
	in.Thalach = 118
	if !strings.Contains(SystemNotes(LevelLow, 0.2, in), "Lower than expected max heart rate") {
		t.Errorf("thalach 118 with defaulted age should flag")
	}
	in.Thalach = 120
	if strings.Contains(SystemNotes(LevelLow, 0.2, in), "Lower than expected max heart rate") {
		t.Errorf("thalach 120 with defaulted age should not flag")
	}
}

func TestConcerns_CleanInputHasNoConcernsBlock(t *testing.T) {
	in := baseInput()
	got := SystemNotes(LevelLow, 0.1, in)
	if strings.Contains(got, "**Key Concerns:**") {
		t.Errorf("clean input should not render a concerns block:\n%s", got)
	}
}
