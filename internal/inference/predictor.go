// Package inference loads the externally trained classification artifacts and
// evaluates them over clinical feature vectors. The artifacts are produced
// offline by the training pipeline and exported as two JSON files: a
// standardization scaler (per-feature means and scales) and a logistic model
// (per-feature coefficients and an intercept).
//
// The package mirrors the shape of the training pipeline without knowing
// anything about it: standardize, dot product, sigmoid. Artifacts are read
// once at startup and immutable afterwards, so a Predictor is safe to share
// across concurrent requests.
package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// scalerArtifact is the JSON export of the fitted standardization transform.
type scalerArtifact struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// modelArtifact is the JSON export of the fitted binary classifier.
type modelArtifact struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	// Threshold is the decision boundary for the hard class label.
	// Zero means "unset" and defaults to 0.5.
	Threshold float64 `json:"threshold,omitempty"`
}

// Predictor evaluates the loaded artifacts over a feature vector. The
// orchestrator treats it as a black box: features in, class and class-1
// probability out.
type Predictor interface {
	Predict(features [domain.NumFeatures]float64) (class int, probability float64)
}

// predictor is the immutable artifact-backed implementation.
type predictor struct {
	mean      [domain.NumFeatures]float64
	scale     [domain.NumFeatures]float64
	coef      [domain.NumFeatures]float64
	intercept float64
	threshold float64
}

// Load reads the scaler and model artifacts from the given paths and returns
// a ready Predictor. It fails when either file is missing, malformed, or has
// the wrong dimensionality; callers decide whether that is fatal (the server
// boots without a predictor and answers 503 on prediction requests).
func Load(modelPath, scalerPath string) (Predictor, error) {
	var s scalerArtifact
	if err := readJSON(scalerPath, &s); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}
	var m modelArtifact
	if err := readJSON(modelPath, &m); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	if len(s.Mean) != domain.NumFeatures || len(s.Scale) != domain.NumFeatures {
		return nil, fmt.Errorf("scaler dimensionality %d/%d, want %d", len(s.Mean), len(s.Scale), domain.NumFeatures)
	}
	if len(m.Coefficients) != domain.NumFeatures {
		return nil, fmt.Errorf("model dimensionality %d, want %d", len(m.Coefficients), domain.NumFeatures)
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return nil, fmt.Errorf("scaler feature %d has zero scale", i)
		}
	}

	p := &predictor{intercept: m.Intercept, threshold: m.Threshold}
	if p.threshold <= 0 || p.threshold >= 1 {
		p.threshold = 0.5
	}
	copy(p.mean[:], s.Mean)
	copy(p.scale[:], s.Scale)
	copy(p.coef[:], m.Coefficients)
	return p, nil
}

// Predict standardizes the features and applies the logistic model.
func (p *predictor) Predict(features [domain.NumFeatures]float64) (int, float64) {
	z := p.intercept
	for i, v := range features {
		z += p.coef[i] * (v - p.mean[i]) / p.scale[i]
	}
	prob := sigmoid(z)
	class := 0
	if prob >= p.threshold {
		class = 1
	}
	return class, prob
}

// sigmoid is numerically stable for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
