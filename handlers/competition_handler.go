package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/ryder-manager/middleware"
	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
	"github.com/Dosada05/ryder-manager/services"
)

type CompetitionHandler struct {
	competitionService services.CompetitionService
	scoreService       services.ScoreService
}

func NewCompetitionHandler(cs services.CompetitionService, ss services.ScoreService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: cs,
		scoreService:       ss,
	}
}

// CreateHandler handles POST /competitions.
func (h *CompetitionHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create a competition")
		return
	}

	var input services.CreateCompetitionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.Create(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /competitions/{competitionID}.
func (h *CompetitionHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /competitions.
func (h *CompetitionHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListCompetitionsFilter
	query := r.URL.Query()

	if creatorIDStr := query.Get("creator_id"); creatorIDStr != "" {
		if id, err := strconv.Atoi(creatorIDStr); err == nil && id > 0 {
			filter.CreatorID = &id
		} else {
			badRequestResponse(w, r, errors.New("invalid creator_id query parameter"))
			return
		}
	}
	if statusStr := query.Get("status"); statusStr != "" {
		status := models.CompetitionStatus(statusStr)
		filter.Status = &status
	}
	filter.Limit = 20
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		} else {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		} else {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
	}

	competitions, err := h.competitionService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competitions": competitions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PATCH /competitions/{competitionID}.
func (h *CompetitionHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, id, ok := h.authAndID(w, r)
	if !ok {
		return
	}

	var input services.UpdateCompetitionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.Update(r.Context(), currentUserID, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /competitions/{competitionID}.
func (h *CompetitionHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, id, ok := h.authAndID(w, r)
	if !ok {
		return
	}

	if err := h.competitionService.Delete(r.Context(), currentUserID, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransitionHandler builds a handler for one lifecycle transition, e.g.
// POST /competitions/{competitionID}/activate.
func (h *CompetitionHandler) TransitionHandler(transition func(*http.Request, int, int) (*models.Competition, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUserID, id, ok := h.authAndID(w, r)
		if !ok {
			return
		}

		competition, err := transition(r, currentUserID, id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}

		if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}

func (h *CompetitionHandler) ActivateHandler() http.HandlerFunc {
	return h.TransitionHandler(func(r *http.Request, userID, id int) (*models.Competition, error) {
		return h.competitionService.Activate(r.Context(), userID, id)
	})
}

func (h *CompetitionHandler) CloseEnrollmentsHandler() http.HandlerFunc {
	return h.TransitionHandler(func(r *http.Request, userID, id int) (*models.Competition, error) {
		return h.competitionService.CloseEnrollments(r.Context(), userID, id)
	})
}

func (h *CompetitionHandler) StartHandler() http.HandlerFunc {
	return h.TransitionHandler(func(r *http.Request, userID, id int) (*models.Competition, error) {
		return h.competitionService.Start(r.Context(), userID, id)
	})
}

func (h *CompetitionHandler) CompleteHandler() http.HandlerFunc {
	return h.TransitionHandler(func(r *http.Request, userID, id int) (*models.Competition, error) {
		return h.competitionService.Complete(r.Context(), userID, id)
	})
}

func (h *CompetitionHandler) CancelHandler() http.HandlerFunc {
	return h.TransitionHandler(func(r *http.Request, userID, id int) (*models.Competition, error) {
		return h.competitionService.Cancel(r.Context(), userID, id)
	})
}

// UploadLogoHandler handles POST /competitions/{competitionID}/logo.
func (h *CompetitionHandler) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, id, ok := h.authAndID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing logo file"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	competition, err := h.competitionService.UploadLogo(r.Context(), currentUserID, id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PointsHandler handles GET /competitions/{competitionID}/points.
func (h *CompetitionHandler) PointsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	points, err := h.scoreService.CompetitionPoints(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"points": points}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) authAndID(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return 0, 0, false
	}
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return currentUserID, id, true
}
