package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/ryder-manager/middleware"
	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(es services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: es}
}

// RequestHandler handles POST /competitions/{competitionID}/enrollments.
func (h *EnrollmentHandler) RequestHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	enrollment, err := h.enrollmentService.Request(r.Context(), currentUserID, competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"enrollment": enrollment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// InviteHandler handles POST /competitions/{competitionID}/invitations.
func (h *EnrollmentHandler) InviteHandler(w http.ResponseWriter, r *http.Request) {
	h.createForUser(w, r, h.enrollmentService.Invite)
}

// DirectEnrollHandler handles POST /competitions/{competitionID}/players.
func (h *EnrollmentHandler) DirectEnrollHandler(w http.ResponseWriter, r *http.Request) {
	h.createForUser(w, r, h.enrollmentService.DirectEnroll)
}

func (h *EnrollmentHandler) createForUser(
	w http.ResponseWriter, r *http.Request,
	create func(ctx context.Context, currentUserID, competitionID, userID int) (*models.Enrollment, error),
) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		UserID int `json:"user_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.UserID <= 0 {
		badRequestResponse(w, r, errors.New("user_id is required"))
		return
	}

	enrollment, err := create(r.Context(), currentUserID, competitionID, input.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"enrollment": enrollment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /competitions/{competitionID}/enrollments.
func (h *EnrollmentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var statusFilter *models.EnrollmentStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := models.EnrollmentStatus(statusStr)
		statusFilter = &status
	}

	enrollments, err := h.enrollmentService.ListByCompetition(r.Context(), competitionID, statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"enrollments": enrollments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EnrollmentHandler) transition(
	w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error),
) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	enrollmentID, err := getIDFromURL(r, "enrollmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	enrollment, err := apply(r.Context(), currentUserID, enrollmentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"enrollment": enrollment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApproveHandler handles POST /enrollments/{enrollmentID}/approve.
func (h *EnrollmentHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.Approve)
}

// RejectHandler handles POST /enrollments/{enrollmentID}/reject.
func (h *EnrollmentHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.Reject)
}

// CancelHandler handles POST /enrollments/{enrollmentID}/cancel.
func (h *EnrollmentHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.Cancel)
}

// WithdrawHandler handles POST /enrollments/{enrollmentID}/withdraw.
func (h *EnrollmentHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.Withdraw)
}

// SetCustomHandicapHandler handles PUT /enrollments/{enrollmentID}/handicap.
func (h *EnrollmentHandler) SetCustomHandicapHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	enrollmentID, err := getIDFromURL(r, "enrollmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		CustomHandicap *float64 `json:"custom_handicap"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	enrollment, err := h.enrollmentService.SetCustomHandicap(r.Context(), currentUserID, enrollmentID, input.CustomHandicap)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"enrollment": enrollment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
