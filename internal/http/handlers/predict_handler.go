// Prediction HTTP handler.
//
// POST /predict accepts the 13 clinical measurements plus patient identity,
// runs the assessment pipeline, and returns the structured result. All 13
// fields are pointers with required binding so that a missing field is a 400
// instead of silently defaulting to zero; NaN/Inf rejection happens in the
// service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/http/middleware"
	"github.com/cardioai/cardioai-backend/internal/services"
)

// PredictRequest is the JSON payload for one risk assessment.
type PredictRequest struct {
	Name       string `json:"name" binding:"required"`
	Contact    string `json:"contact"`
	DoctorName string `json:"doctor_name"`
	DoctorID   *uint  `json:"doctor_id"`

	Age      *float64 `json:"age" binding:"required"`
	Sex      *float64 `json:"sex" binding:"required"`
	CP       *float64 `json:"cp" binding:"required"`
	Trestbps *float64 `json:"trestbps" binding:"required"`
	Chol     *float64 `json:"chol" binding:"required"`
	FBS      *float64 `json:"fbs" binding:"required"`
	Restecg  *float64 `json:"restecg" binding:"required"`
	Thalach  *float64 `json:"thalach" binding:"required"`
	Exang    *float64 `json:"exang" binding:"required"`
	Oldpeak  *float64 `json:"oldpeak" binding:"required"`
	Slope    *float64 `json:"slope" binding:"required"`
	CA       *float64 `json:"ca" binding:"required"`
	Thal     *float64 `json:"thal" binding:"required"`
}

// clinicalInput converts the bound payload into the domain value. Callers
// must only invoke it after binding succeeded (all pointers non-nil).
func (r *PredictRequest) clinicalInput() domain.ClinicalInput {
	return domain.ClinicalInput{
		Age:      *r.Age,
		Sex:      *r.Sex,
		CP:       *r.CP,
		Trestbps: *r.Trestbps,
		Chol:     *r.Chol,
		FBS:      *r.FBS,
		Restecg:  *r.Restecg,
		Thalach:  *r.Thalach,
		Exang:    *r.Exang,
		Oldpeak:  *r.Oldpeak,
		Slope:    *r.Slope,
		CA:       *r.CA,
		Thal:     *r.Thal,
	}
}

// Predict handles POST /predict.
func (h *Handlers) Predict(c *gin.Context) {
	ctx := c.Request.Context()

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and all 13 clinical fields are required")
		return
	}

	res, err := h.predictSvc.Assess(ctx, services.AssessmentRequest{
		Name:       req.Name,
		Contact:    req.Contact,
		DoctorName: req.DoctorName,
		DoctorID:   req.DoctorID,
		Input:      req.clinicalInput(),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "clinical fields must be finite numbers and name must not be blank")
		case errors.Is(err, services.ErrModelUnavailable):
			fail(c, http.StatusServiceUnavailable, ErrCodeModelUnavailable, "prediction model unavailable")
		default:
			failInternal(c, ErrCodePredictFailed, err)
		}
		return
	}
	if res == nil {
		failInternal(c, ErrCodePredictFailed, errors.New("assessment returned no result"))
		return
	}

	middleware.CountPrediction(string(res.RiskLevel))
	ok(c, http.StatusOK, res)
}
