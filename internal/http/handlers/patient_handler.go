// Patient HTTP handlers.
//
// REST endpoints for patient rows outside the prediction path:
//   - POST   /patients               (direct creation without an assessment)
//   - GET    /patients               (paginated listing, doctor_id filter)
//   - GET    /patients/:id/records   (assessment history, newest first)
//   - PUT    /patients/:id/notes     (replace doctor notes)
//   - PUT    /patients/:id/signature (store encoded signature blob)
//   - DELETE /patients/:id           (soft delete)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/services"
)

// CreatePatientRequest is the JSON payload for direct patient creation.
type CreatePatientRequest struct {
	Name     string `json:"name" binding:"required"`
	Age      int    `json:"age"`
	Sex      int    `json:"sex"`
	Contact  string `json:"contact"`
	DoctorID *uint  `json:"doctor_id"`
}

// ListPatientsResponse wraps a page of patients and pagination metadata.
type ListPatientsResponse struct {
	Patients   []domain.Patient `json:"patients"`
	Pagination Pagination       `json:"pagination"`
}

// PatientRecordsResponse wraps a patient's assessment history.
type PatientRecordsResponse struct {
	Records []domain.Record `json:"records"`
}

// UpdateNotesRequest carries replacement doctor notes. An empty string is
// valid and clears the notes.
type UpdateNotesRequest struct {
	Notes    string `json:"notes"`
	DoctorID *uint  `json:"doctor_id"`
}

// UpdateSignatureRequest carries the encoded signature blob.
type UpdateSignatureRequest struct {
	Signature string `json:"signature" binding:"required"`
	DoctorID  *uint  `json:"doctor_id"`
}

// CreatePatient handles POST /patients.
func (h *Handlers) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	p, err := h.patientSvc.Create(c.Request.Context(), req.Name, req.Age, req.Sex, req.Contact, req.DoctorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name must not be blank")
		default:
			failInternal(c, ErrCodeCreateFailed, err)
		}
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListPatients handles GET /patients.
func (h *Handlers) ListPatients(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.patientSvc.ListPage(c.Request.Context(), doctorFilter(c), page, pageSize)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, ListPatientsResponse{
		Patients:   items,
		Pagination: paginate(page, pageSize, total),
	})
}

// PatientRecords handles GET /patients/:id/records.
func (h *Handlers) PatientRecords(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	recs, err := h.patientSvc.Records(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPatientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "patient not found")
		default:
			failInternal(c, ErrCodeListFailed, err)
		}
		return
	}
	ok(c, http.StatusOK, PatientRecordsResponse{Records: recs})
}

// UpdatePatientNotes handles PUT /patients/:id/notes.
func (h *Handlers) UpdatePatientNotes(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	if err := h.patientSvc.UpdateNotes(c.Request.Context(), id, req.Notes, req.DoctorID); err != nil {
		switch {
		case errors.Is(err, services.ErrPatientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "patient not found")
		default:
			failInternal(c, ErrCodeInternal, err)
		}
		return
	}
	noContent(c)
}

// UpdatePatientSignature handles PUT /patients/:id/signature.
func (h *Handlers) UpdatePatientSignature(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req UpdateSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "signature required")
		return
	}

	if err := h.patientSvc.UpdateSignature(c.Request.Context(), id, req.Signature, req.DoctorID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "signature must not be blank")
		case errors.Is(err, services.ErrPatientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "patient not found")
		default:
			failInternal(c, ErrCodeInternal, err)
		}
		return
	}
	noContent(c)
}

// DeletePatient handles DELETE /patients/:id.
func (h *Handlers) DeletePatient(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	if err := h.patientSvc.Delete(c.Request.Context(), id, doctorFilter(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrPatientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "patient not found")
		default:
			failInternal(c, ErrCodeInternal, err)
		}
		return
	}
	noContent(c)
}
