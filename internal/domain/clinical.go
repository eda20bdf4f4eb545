package domain

import "math"

// NumFeatures is the width of the clinical feature vector consumed by the
// externally trained classifier.
const NumFeatures = 13

// ClinicalInput is the 13-field measurement set of one assessment, in the
// column order of the UCI heart-disease dataset the model was trained on.
// All fields are numeric; categorical fields use the dataset's integer codes.
type ClinicalInput struct {
	Age      float64 `json:"age"`      // years
	Sex      float64 `json:"sex"`      // 1 = male, 0 = female
	CP       float64 `json:"cp"`       // chest pain type (0-3)
	Trestbps float64 `json:"trestbps"` // resting blood pressure, mm Hg
	Chol     float64 `json:"chol"`     // serum cholesterol, mg/dl
	FBS      float64 `json:"fbs"`      // fasting blood sugar > 120 mg/dl (1/0)
	Restecg  float64 `json:"restecg"`  // resting ECG result (0-2)
	Thalach  float64 `json:"thalach"`  // maximum heart rate achieved, bpm
	Exang    float64 `json:"exang"`    // exercise-induced angina (1/0)
	Oldpeak  float64 `json:"oldpeak"`  // ST depression induced by exercise
	Slope    float64 `json:"slope"`    // slope of peak exercise ST segment (0-2)
	CA       float64 `json:"ca"`       // major vessels colored by fluoroscopy (0-4)
	Thal     float64 `json:"thal"`     // thalassemia code (0-3)
}

// Features returns the input as a feature vector in training column order.
func (c ClinicalInput) Features() [NumFeatures]float64 {
	return [NumFeatures]float64{
		c.Age, c.Sex, c.CP, c.Trestbps, c.Chol,
		c.FBS, c.Restecg, c.Thalach, c.Exang,
		c.Oldpeak, c.Slope, c.CA, c.Thal,
	}
}

// Finite reports whether every field is a finite number. JSON cannot encode
// NaN or infinities, but inputs assembled programmatically can; the
// prediction path rejects them as client errors before inference.
func (c ClinicalInput) Finite() bool {
	for _, v := range c.Features() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
